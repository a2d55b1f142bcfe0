package schedule

import (
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Identifier prefixes per collection.
const (
	PatientPrefix     = "P"
	DoctorPrefix      = "D"
	AppointmentPrefix = "C"
)

type Patient struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	RegisteredOn string `json:"registered_on"`
}

// Doctor works from Start to End (canonical HH:MM) on the listed weekdays.
type Doctor struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Specialty string   `json:"specialty"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Weekdays  []string `json:"weekdays"`
}

type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Reason    string            `json:"reason"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewPatient is the input for patient registration.
type NewPatient struct {
	Name  string
	Age   int
	Phone string
	Email string
}

// PatientUpdate replaces only the non-nil fields.
type PatientUpdate struct {
	Name  *string
	Age   *int
	Phone *string
	Email *string
}

type NewDoctor struct {
	Name      string
	Specialty string
	Start     string
	End       string
	Weekdays  []string
}

type DoctorUpdate struct {
	Name      *string
	Specialty *string
	Start     *string
	End       *string
	Weekdays  []string
}

// NewAppointment carries raw presentation input; date and time are normalized on create.
type NewAppointment struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Reason    string
}

// AppointmentFilter narrows ListAppointments. Empty fields match everything.
type AppointmentFilter struct {
	Date   string
	Status AppointmentStatus
}

type EventLog struct {
	EventType     string
	AppointmentID string
	Payload       []byte
	CreatedAt     time.Time
}
