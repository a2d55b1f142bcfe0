package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/db"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
	"github.com/hackgods/clinic-scheduling/internal/schedule"
	"github.com/hackgods/clinic-scheduling/internal/store"
)

// App is a scheduling service wired to the backends named in the config.
// Pg and Redis stay nil when no component needs them.
type App struct {
	Config   config.Config
	Logger   zerolog.Logger
	Service  *schedule.Service
	Pg       *pgxpool.Pool
	Redis    *redis.Client
	Registry *prometheus.Registry
}

func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if cfg.NeedsPostgres() {
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("postgres connection: %w", err)
		}
		a.Pg = pool
		if err := db.EnsureSchema(ctx, pool); err != nil {
			a.Close()
			return nil, err
		}
		logger.Info().Msg("connected to postgres")
	}

	if cfg.NeedsRedis() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := redisclient.NewRedisClient(pingCtx, cfg)
		cancel()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("redis connection: %w", err)
		}
		a.Redis = rdb
		logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")
	}

	st, err := store.Open(cfg.StoreDriver, store.Backends{
		DataDir: cfg.DataDir,
		Pg:      a.Pg,
		Redis:   a.Redis,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	var locker schedule.Locker
	if cfg.LockDriver == config.LockRedis {
		locker = redisclient.NewRedisLocker(a.Redis, cfg.LockTTL)
	} else {
		locker = schedule.NewLocalLocker()
	}

	var events schedule.EventRecorder
	if a.Pg != nil {
		events = store.NewPgEventRecorder(a.Pg)
	} else {
		events = schedule.NewLogEventRecorder(logger)
	}

	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcLogger := logger.With().Str("component", "schedule").Logger()
	a.Service = schedule.NewService(st, locker, schedule.Options{
		Location: cfg.Location,
		Events:   events,
		Metrics:  schedule.NewMetrics(a.Registry),
		Logger:   &svcLogger,
	})

	logger.Info().
		Str("store", cfg.StoreDriver).
		Str("lock", cfg.LockDriver).
		Str("timezone", a.Service.Location().String()).
		Msg("scheduling service ready")

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("error closing redis")
		}
	}
	if a.Pg != nil {
		a.Pg.Close()
	}
}
