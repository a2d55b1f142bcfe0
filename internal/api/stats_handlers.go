package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func topDoctorHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := svc.TopDoctor(r.Context())
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, top)
	}
}

func specialtyStatsHandler(svc *schedule.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		demand, err := svc.SpecialtyDemand(r.Context())
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		ranking, err := svc.SpecialtyRanking(r.Context())
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, SpecialtyStatsResponse{Demand: demand, Ranking: ranking})
	}
}

func dashboardHandler(svc *schedule.Service, logger zerolog.Logger, window time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := svc.Dashboard(r.Context(), window)
		if err != nil {
			handleServiceError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}
