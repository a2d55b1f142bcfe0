package schedule

import (
	"slices"
)

type UnavailableReason string

const (
	ReasonWrongWeekday UnavailableReason = "doctor does not work that weekday"
	ReasonOutsideHours UnavailableReason = "outside working hours"
	ReasonSlotTaken    UnavailableReason = "slot already taken"
)

// Availability is the verdict for one (doctor, date, time) slot.
type Availability struct {
	Bookable bool
	Reason   UnavailableReason
}

// err converts a negative verdict into the domain error the lifecycle returns.
func (a Availability) err() error {
	switch a.Reason {
	case "":
		return nil
	case ReasonSlotTaken:
		return conflict("%s", a.Reason)
	default:
		return invalidInput("%s", a.Reason)
	}
}

// CheckAvailability runs the weekday, working-hours and conflict checks in that
// order; the first failure decides the reason. isoDate and canonicalTime must
// already be normalized.
func CheckAvailability(doctor Doctor, isoDate, canonicalTime string, appointments []Appointment) Availability {
	wd, err := WeekdayOf(isoDate)
	if err != nil || len(doctor.Weekdays) == 0 || !worksOn(doctor, wd.String()) {
		return Availability{Reason: ReasonWrongWeekday}
	}

	start, errStart := NormalizeTime(doctor.Start)
	end, errEnd := NormalizeTime(doctor.End)
	if errStart != nil || errEnd != nil {
		return Availability{Reason: ReasonOutsideHours}
	}
	// inclusive at both ends: a booking exactly at closing time is allowed
	if canonicalTime < start || canonicalTime > end {
		return Availability{Reason: ReasonOutsideHours}
	}

	if slotTaken(doctor.ID, isoDate, canonicalTime, appointments) {
		return Availability{Reason: ReasonSlotTaken}
	}

	return Availability{Bookable: true}
}

// ListAvailableDoctors keeps the doctors whose slot is bookable, in input order.
func ListAvailableDoctors(doctors []Doctor, isoDate, canonicalTime string, appointments []Appointment) []Doctor {
	out := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if CheckAvailability(d, isoDate, canonicalTime, appointments).Bookable {
			out = append(out, d)
		}
	}
	return out
}

func worksOn(doctor Doctor, weekday string) bool {
	return slices.ContainsFunc(doctor.Weekdays, func(name string) bool {
		wd, err := ParseWeekday(name)
		return err == nil && wd.String() == weekday
	})
}

func slotTaken(doctorID, isoDate, canonicalTime string, appointments []Appointment) bool {
	for _, a := range appointments {
		if a.DoctorID == doctorID && a.Date == isoDate && a.Time == canonicalTime && a.Status == StatusScheduled {
			return true
		}
	}
	return false
}
