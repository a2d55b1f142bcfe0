package schedule

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	patients, err := s.store.Patients.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	patients, err := s.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	i := indexPatient(patients, id)
	if i < 0 {
		return nil, notFound("patient %s not found", id)
	}
	return &patients[i], nil
}

// CreatePatient registers a patient. Emails are unique across patients.
func (s *Service) CreatePatient(ctx context.Context, in NewPatient) (*Patient, error) {
	p := Patient{
		Name:  strings.TrimSpace(in.Name),
		Age:   in.Age,
		Phone: strings.TrimSpace(in.Phone),
		Email: strings.TrimSpace(in.Email),
	}
	if err := validatePatient(p); err != nil {
		return nil, err
	}

	err := s.withLock(ctx, lockPatients, func(lockCtx context.Context) error {
		patients, err := s.store.Patients.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		if emailTaken(patients, p.Email, "") {
			return conflict("email %s is already registered", p.Email)
		}
		p.ID = NextID(PatientPrefix, patientIDs(patients))
		p.RegisteredOn = Today(s.loc, s.now())
		if err := s.store.Patients.SaveAll(lockCtx, append(patients, p)); err != nil {
			return fmt.Errorf("save patients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", p.ID).Msg("patient registered")
	return &p, nil
}

// UpdatePatient replaces the fields set in upd; email uniqueness is checked
// against every other patient.
func (s *Service) UpdatePatient(ctx context.Context, id string, upd PatientUpdate) (*Patient, error) {
	var updated Patient
	err := s.withLock(ctx, lockPatients, func(lockCtx context.Context) error {
		patients, err := s.store.Patients.LoadAll(lockCtx)
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		i := indexPatient(patients, id)
		if i < 0 {
			return notFound("patient %s not found", id)
		}

		p := patients[i]
		if upd.Name != nil {
			p.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Age != nil {
			p.Age = *upd.Age
		}
		if upd.Phone != nil {
			p.Phone = strings.TrimSpace(*upd.Phone)
		}
		if upd.Email != nil {
			p.Email = strings.TrimSpace(*upd.Email)
		}
		if err := validatePatient(p); err != nil {
			return err
		}
		if emailTaken(patients, p.Email, id) {
			return conflict("email %s is already registered", p.Email)
		}

		patients[i] = p
		if err := s.store.Patients.SaveAll(lockCtx, patients); err != nil {
			return fmt.Errorf("save patients: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePatient removes the patient, then cancels the patient's scheduled
// appointments.
func (s *Service) DeletePatient(ctx context.Context, id string) (int, error) {
	remove := func(ctx context.Context) error {
		patients, err := s.store.Patients.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("load patients: %w", err)
		}
		i := indexPatient(patients, id)
		if i < 0 {
			return notFound("patient %s not found", id)
		}
		if err := s.store.Patients.SaveAll(ctx, slices.Delete(patients, i, i+1)); err != nil {
			return fmt.Errorf("save patients: %w", err)
		}
		return nil
	}
	cancelled, err := s.deleteWithCascade(ctx, lockPatients, "patient_deleted", remove, func(a Appointment) bool { return a.PatientID == id })
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("patient_id", id).Int("cancelled", cancelled).Msg("patient deleted")
	return cancelled, nil
}

func emailTaken(patients []Patient, email, exceptID string) bool {
	for _, p := range patients {
		if p.ID != exceptID && strings.EqualFold(p.Email, email) {
			return true
		}
	}
	return false
}
