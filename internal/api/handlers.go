package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func createAppointmentHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), schedule.NewAppointment{
			PatientID: req.PatientID,
			DoctorID:  req.DoctorID,
			Date:      req.Date,
			Time:      req.Time,
			Reason:    req.Reason,
		})
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		appts, err := svc.ListAppointments(r.Context(), schedule.AppointmentFilter{
			Date:   q.Get("date"),
			Status: schedule.AppointmentStatus(q.Get("status")),
		})
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, appts)
	}
}

func getAppointmentHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.GetAppointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func cancelAppointmentHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.CancelAppointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func deleteAppointmentHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.DeleteAppointment(r.Context(), id); err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, DeleteResponse{ID: id})
	}
}

// upcomingAppointmentsHandler serves scheduled appointments in the next
// ?hours=N hours, defaulting to window.
func upcomingAppointmentsHandler(svc *schedule.Service, logger zerolog.Logger, window time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := window
		if raw := r.URL.Query().Get("hours"); raw != "" {
			hours, err := strconv.Atoi(raw)
			if err != nil || hours <= 0 {
				writeError(w, http.StatusBadRequest, schedule.KindInvalidInput.String(), "hours must be a positive integer")
				return
			}
			d = time.Duration(hours) * time.Hour
		}

		appts, err := svc.Upcoming(r.Context(), d)
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, appts)
	}
}
