package schedule

import (
	"sort"
	"time"
)

const unknownDoctor = "N/A"

// TopDoctor is the doctor carrying the most appointments. Doctor is nil when
// there are no appointments or the winning doctor has since been deleted.
type TopDoctor struct {
	DoctorID string  `json:"doctor_id,omitempty"`
	Doctor   *Doctor `json:"doctor"`
	Count    int     `json:"count"`
}

// TopDoctorByAppointmentCount counts appointments of any status per doctor.
// On a tie the doctor id seen first in appointment order wins.
func TopDoctorByAppointmentCount(doctors []Doctor, appointments []Appointment) TopDoctor {
	counts := make(map[string]int)
	var order []string
	for _, a := range appointments {
		if _, seen := counts[a.DoctorID]; !seen {
			order = append(order, a.DoctorID)
		}
		counts[a.DoctorID]++
	}

	var top TopDoctor
	for _, id := range order {
		if counts[id] > top.Count {
			top = TopDoctor{DoctorID: id, Count: counts[id]}
		}
	}
	if top.DoctorID == "" {
		return top
	}
	if d, ok := findDoctor(doctors, top.DoctorID); ok {
		top.Doctor = &d
	}
	return top
}

// SpecialtyDemand counts appointments per specialty of their doctor.
// Appointments of deleted doctors are skipped.
func SpecialtyDemand(doctors []Doctor, appointments []Appointment) map[string]int {
	byID := make(map[string]string, len(doctors))
	for _, d := range doctors {
		byID[d.ID] = d.Specialty
	}
	demand := make(map[string]int)
	for _, a := range appointments {
		spec, ok := byID[a.DoctorID]
		if !ok {
			continue
		}
		demand[spec]++
	}
	return demand
}

type SpecialtyCount struct {
	Specialty string `json:"specialty"`
	Count     int    `json:"count"`
}

// SpecialtyRanking orders SpecialtyDemand by count descending, then by name.
func SpecialtyRanking(doctors []Doctor, appointments []Appointment) []SpecialtyCount {
	demand := SpecialtyDemand(doctors, appointments)
	out := make([]SpecialtyCount, 0, len(demand))
	for spec, n := range demand {
		out = append(out, SpecialtyCount{Specialty: spec, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Specialty < out[j].Specialty
	})
	return out
}

// UpcomingWithinWindow returns scheduled appointments whose instant lies in
// [now, now+window], both bounds included.
func UpcomingWithinWindow(appointments []Appointment, window time.Duration, now time.Time, loc *time.Location) []Appointment {
	limit := now.Add(window)
	out := make([]Appointment, 0)
	for _, a := range appointments {
		if a.Status != StatusScheduled {
			continue
		}
		at, err := Instant(a.Date, a.Time, loc)
		if err != nil {
			continue
		}
		if at.Before(now) || at.After(limit) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// HistoryEntry annotates an appointment with its doctor as of query time.
type HistoryEntry struct {
	Appointment
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty"`
}

func PatientHistory(patientID string, appointments []Appointment, doctors []Doctor) []HistoryEntry {
	out := make([]HistoryEntry, 0)
	for _, a := range appointments {
		if a.PatientID != patientID {
			continue
		}
		entry := HistoryEntry{Appointment: a, DoctorName: unknownDoctor, DoctorSpecialty: unknownDoctor}
		if d, ok := findDoctor(doctors, a.DoctorID); ok {
			entry.DoctorName = d.Name
			entry.DoctorSpecialty = d.Specialty
		}
		out = append(out, entry)
	}
	return out
}

// Agenda lists a doctor's scheduled appointments by date and time, with
// per-status totals over all of the doctor's appointments.
type Agenda struct {
	Doctor       Doctor        `json:"doctor"`
	Appointments []Appointment `json:"appointments"`
	Scheduled    int           `json:"scheduled"`
	Cancelled    int           `json:"cancelled"`
}

func DoctorAgenda(doctor Doctor, appointments []Appointment) Agenda {
	agenda := Agenda{Doctor: doctor, Appointments: make([]Appointment, 0)}
	for _, a := range appointments {
		if a.DoctorID != doctor.ID {
			continue
		}
		switch a.Status {
		case StatusScheduled:
			agenda.Scheduled++
			agenda.Appointments = append(agenda.Appointments, a)
		case StatusCancelled:
			agenda.Cancelled++
		}
	}
	sort.SliceStable(agenda.Appointments, func(i, j int) bool {
		ai, aj := agenda.Appointments[i], agenda.Appointments[j]
		if ai.Date != aj.Date {
			return ai.Date < aj.Date
		}
		return ai.Time < aj.Time
	})
	return agenda
}

type Dashboard struct {
	Patients       int       `json:"patients"`
	Doctors        int       `json:"doctors"`
	TodayScheduled int       `json:"today_scheduled"`
	Upcoming       int       `json:"upcoming"`
	TopDoctor      TopDoctor `json:"top_doctor"`
}

// BuildDashboard summarizes the collections as of now; Upcoming uses window.
func BuildDashboard(patients []Patient, doctors []Doctor, appointments []Appointment, window time.Duration, now time.Time, loc *time.Location) Dashboard {
	today := Today(loc, now)
	dash := Dashboard{
		Patients:  len(patients),
		Doctors:   len(doctors),
		Upcoming:  len(UpcomingWithinWindow(appointments, window, now, loc)),
		TopDoctor: TopDoctorByAppointmentCount(doctors, appointments),
	}
	for _, a := range appointments {
		if a.Date == today && a.Status == StatusScheduled {
			dash.TodayScheduled++
		}
	}
	return dash
}

func findDoctor(doctors []Doctor, id string) (Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}
