package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/app"
	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/logging"
	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func main() {
	doctors := flag.Int("doctors", 20, "number of doctors to create")
	patients := flag.Int("patients", 200, "number of patients to create")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.New("dev", "info").Fatal().Err(err).Msg("config load error")
	}
	logger := logging.New(cfg.Env, cfg.LogLevel)
	logger.Info().Str("store", cfg.StoreDriver).Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	// 0 lets gofakeit pick a random seed
	_ = gofakeit.Seed(0)

	if err := seedDoctors(ctx, a.Service, logger, *doctors); err != nil {
		logger.Fatal().Err(err).Msg("seed doctors")
	}
	if err := seedPatients(ctx, a.Service, logger, *patients); err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}

	logger.Info().Msg("seed complete")
}

func seedDoctors(ctx context.Context, svc *schedule.Service, logger zerolog.Logger, count int) error {
	logger.Info().Int("count", count).Msg("seeding doctors")

	for i := 0; i < count; i++ {
		startHour := gofakeit.Number(7, 11)
		shift := gofakeit.Number(4, 8)

		// pick a random subset of weekdays, always at least one
		var days []string
		for _, d := range weekdays {
			if gofakeit.Bool() {
				days = append(days, d)
			}
		}
		if len(days) == 0 {
			days = []string{weekdays[gofakeit.Number(0, len(weekdays)-1)]}
		}

		_, err := svc.CreateDoctor(ctx, schedule.NewDoctor{
			Name:      "Dr. " + gofakeit.Name(),
			Specialty: specialties[gofakeit.Number(0, len(specialties)-1)],
			Start:     hhmm(startHour),
			End:       hhmm(startHour + shift),
			Weekdays:  days,
		})
		if schedule.KindOf(err) == schedule.KindConflict {
			continue
		}
		if err != nil {
			return err
		}
	}

	logger.Info().Msg("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, svc *schedule.Service, logger zerolog.Logger, count int) error {
	logger.Info().Int("count", count).Msg("seeding patients")

	created := 0
	for i := 0; i < count; i++ {
		_, err := svc.CreatePatient(ctx, schedule.NewPatient{
			Name:  gofakeit.Name(),
			Age:   gofakeit.Number(1, 95),
			Phone: gofakeit.Numerify("##########"),
			Email: strings.ToLower(gofakeit.Email()),
		})
		// duplicate fake emails are skipped
		if schedule.KindOf(err) == schedule.KindConflict {
			continue
		}
		if err != nil {
			return err
		}
		created++
		if created%100 == 0 {
			logger.Info().Int("seeded", created).Int("total", count).Msg("patients seeded")
		}
	}

	logger.Info().Int("seeded", created).Msg("patients seeded")
	return nil
}

func hhmm(hour int) string {
	return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format("15:04")
}
