package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

// Source is the part of schedule.Service the worker reads.
type Source interface {
	Upcoming(ctx context.Context, window time.Duration) ([]schedule.Appointment, error)
	GetPatient(ctx context.Context, id string) (*schedule.Patient, error)
	GetDoctor(ctx context.Context, id string) (*schedule.Doctor, error)
}

// Notifier delivers one reminder.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

type Reminder struct {
	Appointment schedule.Appointment
	PatientName string
	Email       string
	DoctorName  string
}

// Worker sends one reminder per scheduled appointment entering the window.
// Sent ids are kept in memory only while their appointment is in the
// window, so a restart may remind again.
type Worker struct {
	src      Source
	notifier Notifier
	window   time.Duration
	logger   zerolog.Logger

	mu   sync.Mutex
	sent map[string]struct{}
}

func NewWorker(src Source, notifier Notifier, window time.Duration, logger zerolog.Logger) *Worker {
	return &Worker{
		src:      src,
		notifier: notifier,
		window:   window,
		logger:   logger,
		sent:     make(map[string]struct{}),
	}
}

// RunOnce reminds every upcoming appointment not reminded yet and reports
// how many reminders went out. A failed notification is retried next run.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	appts, err := w.src.Upcoming(ctx, w.window)
	if err != nil {
		return 0, fmt.Errorf("load upcoming: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// forget appointments that left the window so sent stays bounded
	inWindow := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		inWindow[a.ID] = struct{}{}
	}
	for id := range w.sent {
		if _, ok := inWindow[id]; !ok {
			delete(w.sent, id)
		}
	}

	sent := 0
	for _, a := range appts {
		if _, done := w.sent[a.ID]; done {
			continue
		}
		r := Reminder{Appointment: a, PatientName: "N/A", DoctorName: "N/A"}
		if p, err := w.src.GetPatient(ctx, a.PatientID); err == nil {
			r.PatientName, r.Email = p.Name, p.Email
		}
		if d, err := w.src.GetDoctor(ctx, a.DoctorID); err == nil {
			r.DoctorName = d.Name
		}

		if err := w.notifier.Notify(ctx, r); err != nil {
			w.logger.Warn().Err(err).Str("appointment_id", a.ID).Msg("reminder failed")
			continue
		}
		w.sent[a.ID] = struct{}{}
		sent++
	}
	return sent, nil
}

// Run calls RunOnce at startup and then every interval until ctx ends.
func (w *Worker) Run(ctx context.Context, interval time.Duration) {
	w.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			w.runLogged(ctx)
		}
	}
}

func (w *Worker) runLogged(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	n, err := w.RunOnce(runCtx)
	if err != nil {
		w.logger.Error().Err(err).Msg("reminder run error")
		return
	}
	w.logger.Info().Int("sent", n).Dur("took", time.Since(start)).Msg("reminder run complete")
}

type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier writes reminders to the log.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(_ context.Context, r Reminder) error {
	n.logger.Info().
		Str("appointment_id", r.Appointment.ID).
		Str("patient", r.PatientName).
		Str("email", r.Email).
		Str("doctor", r.DoctorName).
		Str("date", r.Appointment.Date).
		Str("time", r.Appointment.Time).
		Msg("appointment reminder")
	return nil
}
