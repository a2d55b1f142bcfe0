package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

type RouterConfig struct {
	Service *schedule.Service
	Logger  zerolog.Logger
	// PgPool and Redis are optional; readiness only checks what is set.
	PgPool   *pgxpool.Pool
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	// UpcomingWindow is the default of /appointments/upcoming and the dashboard.
	UpcomingWindow time.Duration
	Env            string
	Version        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.UpcomingWindow <= 0 {
		cfg.UpcomingWindow = 24 * time.Hour
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	svc, logger := cfg.Service, cfg.Logger

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))

	var pg pinger
	if cfg.PgPool != nil {
		pg = cfg.PgPool
	}
	health := NewHealthHandler(pg, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", listPatientsHandler(svc, logger))
		r.Post("/", createPatientHandler(svc, logger))
		r.Get("/{id}", getPatientHandler(svc, logger))
		r.Put("/{id}", updatePatientHandler(svc, logger))
		r.Delete("/{id}", deletePatientHandler(svc, logger))
		r.Get("/{id}/history", patientHistoryHandler(svc, logger))
	})

	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", listDoctorsHandler(svc, logger))
		r.Post("/", createDoctorHandler(svc, logger))
		r.Get("/available", availableDoctorsHandler(svc, logger))
		r.Get("/specialty/{specialty}", doctorsBySpecialtyHandler(svc, logger))
		r.Get("/{id}", getDoctorHandler(svc, logger))
		r.Put("/{id}", updateDoctorHandler(svc, logger))
		r.Delete("/{id}", deleteDoctorHandler(svc, logger))
		r.Get("/{id}/agenda", doctorAgendaHandler(svc, logger))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(svc, logger))
		r.Post("/", createAppointmentHandler(svc, logger))
		r.Get("/upcoming", upcomingAppointmentsHandler(svc, logger, cfg.UpcomingWindow))
		r.Get("/{id}", getAppointmentHandler(svc, logger))
		r.Put("/{id}/cancel", cancelAppointmentHandler(svc, logger))
		r.Delete("/{id}", deleteAppointmentHandler(svc, logger))
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/doctors", topDoctorHandler(svc, logger))
		r.Get("/specialties", specialtyStatsHandler(svc, logger))
		r.Get("/dashboard", dashboardHandler(svc, logger, cfg.UpcomingWindow))
	})

	return r
}
