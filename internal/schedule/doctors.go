package schedule

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.store.Doctors.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	doctors, err := s.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := findDoctor(doctors, id)
	if !ok {
		return nil, notFound("doctor %s not found", id)
	}
	return &d, nil
}

// DoctorsBySpecialty matches the specialty case-insensitively.
func (s *Service) DoctorsBySpecialty(ctx context.Context, specialty string) ([]Doctor, error) {
	doctors, err := s.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Doctor, 0)
	for _, d := range doctors {
		if strings.EqualFold(d.Specialty, strings.TrimSpace(specialty)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Service) CreateDoctor(ctx context.Context, in NewDoctor) (*Doctor, error) {
	d, err := normalizeDoctor(Doctor{
		Name:      strings.TrimSpace(in.Name),
		Specialty: strings.TrimSpace(in.Specialty),
		Start:     in.Start,
		End:       in.End,
		Weekdays:  in.Weekdays,
	})
	if err != nil {
		return nil, err
	}

	err = s.withLock(ctx, lockDoctors, func(lockCtx context.Context) error {
		doctors, err := s.store.Doctors.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load doctors: %w", err)
		}
		if duplicateDoctor(doctors, d, "") {
			return conflict("a doctor named %s with specialty %s already exists", d.Name, d.Specialty)
		}
		d.ID = NextID(DoctorPrefix, doctorIDs(doctors))
		if err := s.store.Doctors.SaveAll(lockCtx, append(doctors, d)); err != nil {
			return fmt.Errorf("save doctors: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("doctor_id", d.ID).Str("specialty", d.Specialty).Msg("doctor registered")
	return &d, nil
}

// UpdateDoctor re-validates the merged record. Existing appointments keep
// their slots even when the new hours or weekdays no longer cover them.
func (s *Service) UpdateDoctor(ctx context.Context, id string, upd DoctorUpdate) (*Doctor, error) {
	var updated Doctor
	err := s.withLock(ctx, lockDoctors, func(lockCtx context.Context) error {
		doctors, err := s.store.Doctors.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load doctors: %w", err)
		}
		i := indexDoctor(doctors, id)
		if i < 0 {
			return notFound("doctor %s not found", id)
		}

		d := doctors[i]
		if upd.Name != nil {
			d.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Specialty != nil {
			d.Specialty = strings.TrimSpace(*upd.Specialty)
		}
		if upd.Start != nil {
			d.Start = *upd.Start
		}
		if upd.End != nil {
			d.End = *upd.End
		}
		if upd.Weekdays != nil {
			d.Weekdays = upd.Weekdays
		}
		d, err = normalizeDoctor(d)
		if err != nil {
			return err
		}
		if duplicateDoctor(doctors, d, id) {
			return conflict("a doctor named %s with specialty %s already exists", d.Name, d.Specialty)
		}

		doctors[i] = d
		if err := s.store.Doctors.SaveAll(lockCtx, doctors); err != nil {
			return fmt.Errorf("save doctors: %w", err)
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDoctor removes the doctor, then cancels the doctor's scheduled
// appointments. Deleting a missing doctor is NotFound.
func (s *Service) DeleteDoctor(ctx context.Context, id string) (int, error) {
	remove := func(ctx context.Context) error {
		doctors, err := s.store.Doctors.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load doctors: %w", err)
		}
		i := indexDoctor(doctors, id)
		if i < 0 {
			return notFound("doctor %s not found", id)
		}
		if err := s.store.Doctors.SaveAll(ctx, slices.Delete(doctors, i, i+1)); err != nil {
			return fmt.Errorf("save doctors: %w", err)
		}
		return nil
	}
	cancelled, err := s.deleteWithCascade(ctx, lockDoctors, "doctor_deleted", remove, func(a Appointment) bool { return a.DoctorID == id })
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("doctor_id", id).Int("cancelled", cancelled).Msg("doctor deleted")
	return cancelled, nil
}

// AvailableDoctors lists doctors bookable at the raw date and time. The date
// must be today or later in the service timezone.
func (s *Service) AvailableDoctors(ctx context.Context, rawDate, rawTime string) ([]Doctor, error) {
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return nil, err
	}
	tm, err := NormalizeTime(rawTime)
	if err != nil {
		return nil, err
	}
	if !IsPureDateFuture(date, s.loc, s.now()) {
		return nil, invalidInput("date %s must be today or later", date)
	}

	doctors, err := s.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := s.store.Appointments.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	return ListAvailableDoctors(doctors, date, tm, appts), nil
}

func duplicateDoctor(doctors []Doctor, d Doctor, exceptID string) bool {
	return slices.ContainsFunc(doctors, func(o Doctor) bool {
		return o.ID != exceptID && o.Name == d.Name && o.Specialty == d.Specialty
	})
}
