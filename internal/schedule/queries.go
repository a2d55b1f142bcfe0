package schedule

import (
	"context"
	"fmt"
	"time"
)

func (s *Service) DoctorAgenda(ctx context.Context, doctorID string) (*Agenda, error) {
	doctor, err := s.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	appts, err := s.store.Appointments.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	agenda := DoctorAgenda(*doctor, appts)
	return &agenda, nil
}

func (s *Service) PatientHistory(ctx context.Context, patientID string) ([]HistoryEntry, error) {
	if _, err := s.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	doctors, appts, err := s.loadDoctorsAndAppointments(ctx)
	if err != nil {
		return nil, err
	}
	return PatientHistory(patientID, appts, doctors), nil
}

// Upcoming returns scheduled appointments starting within window from now.
func (s *Service) Upcoming(ctx context.Context, window time.Duration) ([]Appointment, error) {
	if window <= 0 {
		return nil, invalidInput("window must be positive, got %s", window)
	}
	appts, err := s.store.Appointments.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	return UpcomingWithinWindow(appts, window, s.now(), s.loc), nil
}

func (s *Service) TopDoctor(ctx context.Context) (TopDoctor, error) {
	doctors, appts, err := s.loadDoctorsAndAppointments(ctx)
	if err != nil {
		return TopDoctor{}, err
	}
	return TopDoctorByAppointmentCount(doctors, appts), nil
}

func (s *Service) SpecialtyDemand(ctx context.Context) (map[string]int, error) {
	doctors, appts, err := s.loadDoctorsAndAppointments(ctx)
	if err != nil {
		return nil, err
	}
	return SpecialtyDemand(doctors, appts), nil
}

func (s *Service) SpecialtyRanking(ctx context.Context) ([]SpecialtyCount, error) {
	doctors, appts, err := s.loadDoctorsAndAppointments(ctx)
	if err != nil {
		return nil, err
	}
	return SpecialtyRanking(doctors, appts), nil
}

func (s *Service) Dashboard(ctx context.Context, window time.Duration) (Dashboard, error) {
	patients, err := s.ListPatients(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	doctors, appts, err := s.loadDoctorsAndAppointments(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(patients, doctors, appts, window, s.now(), s.loc), nil
}

func (s *Service) loadDoctorsAndAppointments(ctx context.Context) ([]Doctor, []Appointment, error) {
	doctors, err := s.store.Doctors.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load doctors: %w", err)
	}
	appts, err := s.store.Appointments.LoadAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load appointments: %w", err)
	}
	return doctors, appts, nil
}
