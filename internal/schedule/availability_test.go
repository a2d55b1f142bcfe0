package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cardiologist() Doctor {
	return Doctor{ID: "D001", Name: "Ana Ruiz", Specialty: "Cardiology", Start: "09:00", End: "12:00", Weekdays: []string{"Monday"}}
}

func TestCheckAvailability(t *testing.T) {
	taken := []Appointment{{ID: "C001", DoctorID: "D001", Date: monday, Time: "10:00", Status: StatusScheduled}}

	tests := []struct {
		name   string
		doctor Doctor
		date   string
		time   string
		appts  []Appointment
		want   Availability
	}{
		{"bookable", cardiologist(), monday, "09:30", taken, Availability{Bookable: true}},
		{"opening time inclusive", cardiologist(), monday, "09:00", nil, Availability{Bookable: true}},
		{"closing time inclusive", cardiologist(), monday, "12:00", nil, Availability{Bookable: true}},
		{"before opening", cardiologist(), monday, "08:59", nil, Availability{Reason: ReasonOutsideHours}},
		{"after closing", cardiologist(), monday, "12:01", nil, Availability{Reason: ReasonOutsideHours}},
		{"wrong weekday", cardiologist(), tuesday, "10:00", nil, Availability{Reason: ReasonWrongWeekday}},
		{"slot taken", cardiologist(), monday, "10:00", taken, Availability{Reason: ReasonSlotTaken}},
		{"weekday wins over hours", cardiologist(), tuesday, "13:00", nil, Availability{Reason: ReasonWrongWeekday}},
		{"hours win over conflict", Doctor{ID: "D001", Start: "11:00", End: "12:00", Weekdays: []string{"Monday"}}, monday, "10:00", taken, Availability{Reason: ReasonOutsideHours}},
		{"no weekdays", Doctor{ID: "D001", Start: "09:00", End: "12:00"}, monday, "10:00", nil, Availability{Reason: ReasonWrongWeekday}},
		{"missing hours", Doctor{ID: "D001", Weekdays: []string{"Monday"}}, monday, "10:00", nil, Availability{Reason: ReasonOutsideHours}},
		{"legacy spanish weekday", Doctor{ID: "D001", Start: "09:00", End: "12:00", Weekdays: []string{"Lunes"}}, monday, "10:00", nil, Availability{Bookable: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAvailability(tt.doctor, tt.date, tt.time, tt.appts))
		})
	}
}

func TestCheckAvailabilityIgnoresCancelledAndOtherSlots(t *testing.T) {
	appts := []Appointment{
		{DoctorID: "D001", Date: monday, Time: "10:00", Status: StatusCancelled},
		{DoctorID: "D001", Date: monday, Time: "10:00", Status: StatusCancelled},
		{DoctorID: "D002", Date: monday, Time: "10:00", Status: StatusScheduled},
		{DoctorID: "D001", Date: "2030-01-14", Time: "10:00", Status: StatusScheduled},
	}
	assert.True(t, CheckAvailability(cardiologist(), monday, "10:00", appts).Bookable)
}

func TestAvailabilityErrKinds(t *testing.T) {
	assert.NoError(t, Availability{Bookable: true}.err())
	assert.ErrorIs(t, Availability{Reason: ReasonWrongWeekday}.err(), ErrInvalidInput)
	assert.ErrorIs(t, Availability{Reason: ReasonOutsideHours}.err(), ErrInvalidInput)
	assert.ErrorIs(t, Availability{Reason: ReasonSlotTaken}.err(), ErrConflict)
}

func TestListAvailableDoctorsIsStableAndIdempotent(t *testing.T) {
	doctors := []Doctor{
		{ID: "D003", Start: "08:00", End: "18:00", Weekdays: []string{"Monday", "Tuesday"}},
		{ID: "D001", Start: "09:00", End: "12:00", Weekdays: []string{"Monday"}},
		{ID: "D002", Start: "13:00", End: "18:00", Weekdays: []string{"Monday"}},
		{ID: "D004", Start: "08:00", End: "18:00", Weekdays: []string{"Monday"}},
	}
	appts := []Appointment{{DoctorID: "D004", Date: monday, Time: "10:00", Status: StatusScheduled}}

	first := ListAvailableDoctors(doctors, monday, "10:00", appts)
	second := ListAvailableDoctors(doctors, monday, "10:00", appts)

	ids := func(ds []Doctor) []string {
		out := make([]string, len(ds))
		for i, d := range ds {
			out[i] = d.ID
		}
		return out
	}
	assert.Equal(t, []string{"D003", "D001"}, ids(first))
	assert.Equal(t, first, second)
}
