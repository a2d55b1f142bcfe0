package schedule

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 2030-01-01 is a Tuesday; 2030-01-07 the following Monday.
var testNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

const (
	monday  = "2030-01-07"
	tuesday = "2030-01-08"
)

type memTable[T any] struct {
	mu      sync.Mutex
	rows    []T
	loadErr error
	saveErr error
	saves   int
}

func (m *memTable[T]) LoadAll(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.rows), nil
}

func (m *memTable[T]) SaveAll(_ context.Context, rows []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows = slices.Clone(rows)
	m.saves++
	return nil
}

type testEnv struct {
	svc          *Service
	patients     *memTable[Patient]
	doctors      *memTable[Doctor]
	appointments *memTable[Appointment]
	events       *recordingEvents
}

type recordingEvents struct {
	mu     sync.Mutex
	events []EventLog
}

func (r *recordingEvents) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventType
	}
	return out
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		patients:     &memTable[Patient]{},
		doctors:      &memTable[Doctor]{},
		appointments: &memTable[Appointment]{},
		events:       &recordingEvents{},
	}
	env.svc = NewService(Store{
		Patients:     env.patients,
		Doctors:      env.doctors,
		Appointments: env.appointments,
	}, NewLocalLocker(), Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
		Events:   env.events,
	})
	return env
}

func (e *testEnv) addPatient(t *testing.T, name, email string) *Patient {
	t.Helper()
	p, err := e.svc.CreatePatient(context.Background(), NewPatient{
		Name:  name,
		Age:   40,
		Phone: "555-010-2030",
		Email: email,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) addCardiologist(t *testing.T) *Doctor {
	t.Helper()
	d, err := e.svc.CreateDoctor(context.Background(), NewDoctor{
		Name:      "Ana Ruiz",
		Specialty: "Cardiology",
		Start:     "09:00",
		End:       "12:00",
		Weekdays:  []string{"Monday"},
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) book(patientID, doctorID, date, tm string) (*Appointment, error) {
	return e.svc.CreateAppointment(context.Background(), NewAppointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      tm,
		Reason:    "checkup",
	})
}
