package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Service. Zero values fall back to the host timezone,
// time.Now, no event recording, no metrics and a disabled logger.
type Options struct {
	Location *time.Location
	Now      func() time.Time
	Events   EventRecorder
	Metrics  *Metrics
	Logger   *zerolog.Logger
}

// Service is the scheduling core. It holds no state between calls: every
// mutation loads a collection, computes the new one and saves it whole
// while holding that collection's lock.
type Service struct {
	store   Store
	locker  Locker
	loc     *time.Location
	now     func() time.Time
	events  EventRecorder
	metrics *Metrics
	logger  zerolog.Logger
}

func NewService(store Store, locker Locker, opts Options) *Service {
	s := &Service{
		store:   store,
		locker:  locker,
		loc:     opts.Location,
		now:     opts.Now,
		events:  opts.Events,
		metrics: opts.Metrics,
		logger:  zerolog.Nop(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}
	return s
}

// Location is the timezone every temporal rule is evaluated in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// CreateAppointment books a slot. Checks run in a fixed order so that
// malformed multi-error input always yields the same failure: patient and
// doctor existence, then date/time format, then future, then availability.
func (s *Service) CreateAppointment(ctx context.Context, in NewAppointment) (appt *Appointment, err error) {
	defer func() { s.metrics.ObserveBooking(err) }()

	patients, err := s.store.Patients.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	if indexPatient(patients, in.PatientID) < 0 {
		return nil, notFound("patient %s not found", in.PatientID)
	}

	doctors, err := s.store.Doctors.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	doctor, ok := findDoctor(doctors, in.DoctorID)
	if !ok {
		return nil, notFound("doctor %s not found", in.DoctorID)
	}

	date, err := NormalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	tm, err := NormalizeTime(in.Time)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !IsFutureInstant(date, tm, s.loc, now) {
		return nil, invalidInput("appointment must be future: %s %s has already passed", date, tm)
	}

	err = s.withLock(ctx, lockAppointments, func(lockCtx context.Context) error {
		// deletes remove records under this lock, so both parties must still exist here
		if err := s.requireParties(lockCtx, in.PatientID, doctor.ID); err != nil {
			return err
		}
		// re-read inside the critical section so the conflict check sees every committed booking
		appts, err := s.store.Appointments.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}
		if err := CheckAvailability(doctor, date, tm, appts).err(); err != nil {
			return err
		}

		a := Appointment{
			ID:        NextID(AppointmentPrefix, appointmentIDs(appts)),
			PatientID: in.PatientID,
			DoctorID:  doctor.ID,
			Date:      date,
			Time:      tm,
			Reason:    in.Reason,
			Status:    StatusScheduled,
			CreatedAt: now.In(s.loc),
		}
		if err := s.store.Appointments.SaveAll(lockCtx, append(appts, a)); err != nil {
			return fmt.Errorf("save appointments: %w", err)
		}
		appt = &a

		s.logEvent(lockCtx, a.ID, EventAppointmentCreated, map[string]any{
			"patient_id": a.PatientID,
			"doctor_id":  a.DoctorID,
			"date":       a.Date,
			"time":       a.Time,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", appt.ID).Str("doctor_id", appt.DoctorID).
		Str("date", appt.Date).Str("time", appt.Time).Msg("appointment created")
	return appt, nil
}

// CancelAppointment moves a scheduled appointment to cancelled. Any other
// status is an InvalidState failure, so a second cancel never succeeds.
func (s *Service) CancelAppointment(ctx context.Context, id string) (*Appointment, error) {
	var cancelled *Appointment
	err := s.withLock(ctx, lockAppointments, func(lockCtx context.Context) error {
		appts, err := s.store.Appointments.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}
		i := indexAppointment(appts, id)
		if i < 0 {
			return notFound("appointment %s not found", id)
		}
		if appts[i].Status != StatusScheduled {
			return invalidState("appointment %s is %s: only scheduled appointments can be cancelled", id, appts[i].Status)
		}
		appts[i].Status = StatusCancelled
		if err := s.store.Appointments.SaveAll(lockCtx, appts); err != nil {
			return fmt.Errorf("save appointments: %w", err)
		}
		a := appts[i]
		cancelled = &a
		s.logEvent(lockCtx, id, EventAppointmentCancelled, map[string]any{"cause": "request"})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveCancellations("request", 1)
	return cancelled, nil
}

// DeleteAppointment erases the record whatever its status.
func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	return s.withLock(ctx, lockAppointments, func(lockCtx context.Context) error {
		appts, err := s.store.Appointments.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}
		i := indexAppointment(appts, id)
		if i < 0 {
			return notFound("appointment %s not found", id)
		}
		status := appts[i].Status
		if err := s.store.Appointments.SaveAll(lockCtx, slices.Delete(appts, i, i+1)); err != nil {
			return fmt.Errorf("save appointments: %w", err)
		}
		s.logEvent(lockCtx, id, EventAppointmentDeleted, map[string]any{"status": status})
		return nil
	})
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	appts, err := s.store.Appointments.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	i := indexAppointment(appts, id)
	if i < 0 {
		return nil, notFound("appointment %s not found", id)
	}
	return &appts[i], nil
}

// ListAppointments returns appointments in creation order, optionally
// restricted to one date and/or status.
func (s *Service) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	date := ""
	if filter.Date != "" {
		d, err := NormalizeDate(filter.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	switch filter.Status {
	case "", StatusScheduled, StatusCancelled:
	default:
		return nil, invalidInput("unknown status %q", filter.Status)
	}

	appts, err := s.store.Appointments.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if date != "" && a.Date != date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// deleteWithCascade is the two-phase delete shared by doctors and patients:
// remove drops the record, then every scheduled appointment matching match is
// cancelled (never deleted) so its history survives. Both phases run while
// holding ownerLock and the appointments lock, so a busy appointments
// collection leaves the record in place. When the record is already gone the
// leftover scheduled appointments are still cancelled and NotFound returned.
func (s *Service) deleteWithCascade(ctx context.Context, ownerLock, cause string, remove func(ctx context.Context) error, match func(Appointment) bool) (int, error) {
	var (
		ids       []string
		removeErr error
	)
	err := s.withLock(ctx, ownerLock, func(ownerCtx context.Context) error {
		return s.withLock(ownerCtx, lockAppointments, func(lockCtx context.Context) error {
			appts, err := s.store.Appointments.LoadAll(lockCtx)
			if err != nil {
				return fmt.Errorf("load appointments: %w", err)
			}
			removeErr = remove(lockCtx)
			if removeErr != nil && !errors.Is(removeErr, ErrNotFound) {
				return removeErr
			}

			for i := range appts {
				if appts[i].Status == StatusScheduled && match(appts[i]) {
					appts[i].Status = StatusCancelled
					ids = append(ids, appts[i].ID)
				}
			}
			if len(ids) == 0 {
				return nil
			}
			if err := s.store.Appointments.SaveAll(lockCtx, appts); err != nil {
				ids = nil
				return fmt.Errorf("cancel appointments: %w", err)
			}
			for _, id := range ids {
				s.logEvent(lockCtx, id, EventAppointmentCascadeCancelled, map[string]any{"cause": cause})
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	s.metrics.ObserveCancellations(cause, len(ids))
	if removeErr != nil {
		return 0, removeErr
	}
	return len(ids), nil
}

// requireParties fails with NotFound when either side of a booking is gone.
func (s *Service) requireParties(ctx context.Context, patientID, doctorID string) error {
	patients, err := s.store.Patients.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load patients: %w", err)
	}
	if indexPatient(patients, patientID) < 0 {
		return notFound("patient %s not found", patientID)
	}
	doctors, err := s.store.Doctors.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load doctors: %w", err)
	}
	if indexDoctor(doctors, doctorID) < 0 {
		return notFound("doctor %s not found", doctorID)
	}
	return nil
}

func (s *Service) withLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	err := s.locker.WithLock(ctx, key, fn)
	if errors.Is(err, ErrLockNotAcquired) {
		return fmt.Errorf("%s: %w", key, err)
	}
	return err
}

func (s *Service) logEvent(ctx context.Context, appointmentID, eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: appointmentID,
		Payload:       data,
		CreatedAt:     s.now().In(s.loc),
	}
	if err := s.events.InsertEvent(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event_type", eventType).Str("appointment_id", appointmentID).
			Msg("failed to insert event log")
	}
}

func indexAppointment(appts []Appointment, id string) int {
	return slices.IndexFunc(appts, func(a Appointment) bool { return a.ID == id })
}

func indexPatient(ps []Patient, id string) int {
	return slices.IndexFunc(ps, func(p Patient) bool { return p.ID == id })
}

func indexDoctor(ds []Doctor, id string) int {
	return slices.IndexFunc(ds, func(d Doctor) bool { return d.ID == id })
}
