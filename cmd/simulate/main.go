package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/logging"
	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	CancelRatio  float64
	ReadRatio    float64
	DaysAhead    int
}

// slot is one bookable (doctor, date, time) candidate.
type slot struct {
	DoctorID string
	Date     string
	Time     string
}

type DataPool struct {
	Patients     []string
	Slots        []slot
	mu           sync.RWMutex
	appointments []string
}

func (dp *DataPool) AddAppointment(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, status int, err error) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case err == nil && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case err == nil && status == http.StatusConflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95, max time.Duration) {
	om.mu.Lock()
	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	om.mu.Unlock()

	if len(latencies) == 0 {
		return 0, 0, 0, 0
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	pick := func(pct int) time.Duration {
		idx := len(latencies) * pct / 100
		if idx >= len(latencies) {
			idx = len(latencies) - 1
		}
		return latencies[idx]
	}
	return sum / time.Duration(len(latencies)), pick(50), pick(95), latencies[len(latencies)-1]
}

type Metrics struct {
	Booking   OperationMetrics
	Cancel    OperationMetrics
	ReadByID  OperationMetrics
	Available OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
	logger  zerolog.Logger
}

func main() {
	logger := logging.New(getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))
	logger.Info().Msg("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("cancel", cfg.CancelRatio).
		Float64("read", cfg.ReadRatio).
		Msg("config")

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := sim.loadDataPool(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("load data pool")
	}
	sim.pool = pool
	logger.Info().Int("patients", len(pool.Patients)).Int("slots", len(pool.Slots)).Msg("loaded")

	sim.Run()
	sim.PrintReport()

	verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer verifyCancel()
	dupes, err := sim.verifyNoDoubleBooking(verifyCtx)
	if err != nil {
		logger.Fatal().Err(err).Msg("verify bookings")
	}
	if dupes > 0 {
		logger.Error().Int("slots", dupes).Msg("double booking detected")
		os.Exit(1)
	}
	logger.Info().Msg("no slot holds more than one scheduled appointment")
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.6),
		CancelRatio:  getFloat("SIM_CANCEL_RATIO", 0.1),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
		DaysAhead:    getInt("SIM_DAYS_AHEAD", 14),
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.DaysAhead <= 0 {
		return fmt.Errorf("SIM_DAYS_AHEAD must be > 0")
	}
	return nil
}

// loadDataPool reads patients and doctors from the API and expands every
// doctor's schedule into hourly slots over the next DaysAhead days.
func (s *Simulator) loadDataPool(ctx context.Context) (*DataPool, error) {
	var patients []schedule.Patient
	if err := s.getJSON(ctx, "/patients", &patients); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	var doctors []schedule.Doctor
	if err := s.getJSON(ctx, "/doctors", &doctors); err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}

	pool := &DataPool{}
	for _, p := range patients {
		pool.Patients = append(pool.Patients, p.ID)
	}
	pool.Slots = expandSlots(doctors, time.Now(), s.config.DaysAhead)

	if len(pool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded")
	}
	if len(pool.Slots) == 0 {
		return nil, fmt.Errorf("no slots available")
	}
	return pool, nil
}

func expandSlots(doctors []schedule.Doctor, from time.Time, days int) []slot {
	var slots []slot
	for i := 1; i <= days; i++ {
		day := from.AddDate(0, 0, i)
		date := day.Format("2006-01-02")
		for _, d := range doctors {
			if !worksOn(d, day.Weekday()) {
				continue
			}
			for _, tm := range hourlyTimes(d.Start, d.End) {
				slots = append(slots, slot{DoctorID: d.ID, Date: date, Time: tm})
			}
		}
	}
	return slots
}

func worksOn(d schedule.Doctor, wd time.Weekday) bool {
	for _, name := range d.Weekdays {
		if w, err := schedule.ParseWeekday(name); err == nil && w == wd {
			return true
		}
	}
	return false
}

func hourlyTimes(start, end string) []string {
	s, err1 := time.Parse("15:04", start)
	e, err2 := time.Parse("15:04", end)
	if err1 != nil || err2 != nil {
		return nil
	}
	var out []string
	for t := s; t.Before(e); t = t.Add(time.Hour) {
		out = append(out, t.Format("15:04"))
	}
	return out
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.logger.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.logger.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.CancelRatio:
				s.doCancel(ctx, rng)
			case rng.Intn(2) == 0:
				s.doReadByID(ctx, rng)
			default:
				s.doAvailable(ctx, rng)
			}
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	sl := s.pool.Slots[rng.Intn(len(s.pool.Slots))]
	body, _ := json.Marshal(map[string]string{
		"patient_id": s.pool.Patients[rng.Intn(len(s.pool.Patients))],
		"doctor_id":  sl.DoctorID,
		"date":       sl.Date,
		"time":       sl.Time,
		"reason":     "load test",
	})

	start := time.Now()
	var appt schedule.Appointment
	status, err := s.do(ctx, http.MethodPost, "/appointments", bytes.NewReader(body), &appt)
	s.metrics.Booking.Record(time.Since(start), status, err)

	if err == nil && status == http.StatusCreated && appt.ID != "" {
		s.pool.AddAppointment(appt.ID)
	}
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}
	start := time.Now()
	status, err := s.do(ctx, http.MethodPut, "/appointments/"+id+"/cancel", nil, nil)
	// cancelling twice answers 409, which counts as a conflict
	s.metrics.Cancel.Record(time.Since(start), status, err)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}
	start := time.Now()
	status, err := s.do(ctx, http.MethodGet, "/appointments/"+id, nil, nil)
	s.metrics.ReadByID.Record(time.Since(start), status, err)
}

func (s *Simulator) doAvailable(ctx context.Context, rng *rand.Rand) {
	sl := s.pool.Slots[rng.Intn(len(s.pool.Slots))]
	start := time.Now()
	status, err := s.do(ctx, http.MethodGet, "/doctors/available?date="+sl.Date+"&time="+sl.Time, nil, nil)
	s.metrics.Available.Record(time.Since(start), status, err)
}

// verifyNoDoubleBooking counts slots holding more than one scheduled appointment.
func (s *Simulator) verifyNoDoubleBooking(ctx context.Context) (int, error) {
	var appts []schedule.Appointment
	if err := s.getJSON(ctx, "/appointments?status=scheduled", &appts); err != nil {
		return 0, err
	}
	seen := make(map[slot]int, len(appts))
	dupes := 0
	for _, a := range appts {
		k := slot{DoctorID: a.DoctorID, Date: a.Date, Time: a.Time}
		seen[k]++
		if seen[k] == 2 {
			dupes++
		}
	}
	return dupes, nil
}

func (s *Simulator) getJSON(ctx context.Context, path string, out any) error {
	status, err := s.do(ctx, http.MethodGet, path, nil, out)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	return nil
}

func (s *Simulator) do(ctx context.Context, method, path string, body *bytes.Reader, out any) (int, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, nil)
	}
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Read by ID", &s.metrics.ReadByID)
	printOperationReport("Available doctors", &s.metrics.Available)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, p50, p95, max := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s p50=%s p95=%s max=%s\n",
		avg.Round(time.Millisecond), p50.Round(time.Millisecond),
		p95.Round(time.Millisecond), max.Round(time.Millisecond))
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
