package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func listPatientsHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, patients)
	}
}

func createPatientHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePatientRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := svc.CreatePatient(r.Context(), schedule.NewPatient{
			Name:  req.Name,
			Age:   req.Age,
			Phone: req.Phone,
			Email: req.Email,
		})
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func getPatientHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPatient(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func updatePatientHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePatientRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := svc.UpdatePatient(r.Context(), chi.URLParam(r, "id"), schedule.PatientUpdate{
			Name:  req.Name,
			Age:   req.Age,
			Phone: req.Phone,
			Email: req.Email,
		})
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func deletePatientHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		n, err := svc.DeletePatient(r.Context(), id)
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, DeleteResponse{ID: id, CancelledAppointments: n})
	}
}

func patientHistoryHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.PatientHistory(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}
