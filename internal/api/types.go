package api

import "github.com/hackgods/clinic-scheduling/internal/schedule"

type CreatePatientRequest struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UpdatePatientRequest changes only the fields present in the body.
type UpdatePatientRequest struct {
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type CreateDoctorRequest struct {
	Name      string   `json:"name"`
	Specialty string   `json:"specialty"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Weekdays  []string `json:"weekdays"`
}

type UpdateDoctorRequest struct {
	Name      *string  `json:"name"`
	Specialty *string  `json:"specialty"`
	Start     *string  `json:"start"`
	End       *string  `json:"end"`
	Weekdays  []string `json:"weekdays"`
}

// CreateAppointmentRequest accepts dates as YYYY-MM-DD or D/M/YYYY and
// times as HH:MM or h:MM AM/PM.
type CreateAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
}

// DeleteResponse reports a removed record and the appointments it cancelled.
type DeleteResponse struct {
	ID                    string `json:"id"`
	CancelledAppointments int    `json:"cancelled_appointments"`
}

type SpecialtyStatsResponse struct {
	Demand  map[string]int            `json:"demand"`
	Ranking []schedule.SpecialtyCount `json:"ranking"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
