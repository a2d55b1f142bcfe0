package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func listDoctorsHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListDoctors(r.Context())
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func createDoctorHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, err := svc.CreateDoctor(r.Context(), schedule.NewDoctor{
			Name:      req.Name,
			Specialty: req.Specialty,
			Start:     req.Start,
			End:       req.End,
			Weekdays:  req.Weekdays,
		})
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func getDoctorHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDoctor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func updateDoctorHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateDoctorRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		d, err := svc.UpdateDoctor(r.Context(), chi.URLParam(r, "id"), schedule.DoctorUpdate{
			Name:      req.Name,
			Specialty: req.Specialty,
			Start:     req.Start,
			End:       req.End,
			Weekdays:  req.Weekdays,
		})
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func deleteDoctorHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		n, err := svc.DeleteDoctor(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, DeleteResponse{ID: id, CancelledAppointments: n})
	}
}

func doctorsBySpecialtyHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.DoctorsBySpecialty(r.Context(), chi.URLParam(r, "specialty"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func availableDoctorsHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		doctors, err := svc.AvailableDoctors(r.Context(), q.Get("date"), q.Get("time"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func doctorAgendaHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agenda, err := svc.DoctorAgenda(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, agenda)
	}
}
