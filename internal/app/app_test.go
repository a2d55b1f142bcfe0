package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/config"
	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func baseConfig() config.Config {
	return config.Config{
		Env:            "test",
		Location:       time.UTC,
		StoreDriver:    config.StoreMemory,
		LockDriver:     config.LockLocal,
		LockTTL:        time.Second,
		UpcomingWindow: 24 * time.Hour,
	}
}

func TestOpenMemory(t *testing.T) {
	a, err := Open(context.Background(), baseConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Pg)
	assert.Nil(t, a.Redis)
	assert.Equal(t, time.UTC, a.Service.Location())

	doctors, err := a.Service.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestOpenFileStore(t *testing.T) {
	cfg := baseConfig()
	cfg.StoreDriver = config.StoreFile
	cfg.DataDir = t.TempDir()

	a, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service.CreateDoctor(context.Background(), schedule.NewDoctor{
		Name: "Ana Ruiz", Specialty: "Cardiology", Start: "09:00", End: "12:00", Weekdays: []string{"Monday"},
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.DataDir, "doctors.json"))
}

func TestOpenRedisStoreAndLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.StoreDriver = config.StoreRedis
	cfg.LockDriver = config.LockRedis
	cfg.RedisAddr = mr.Addr()

	a, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Redis)

	_, err = a.Service.CreatePatient(context.Background(), schedule.NewPatient{
		Name: "Luis Paz", Age: 40, Phone: "5512345678", Email: "luis@example.com",
	})
	require.NoError(t, err)
	assert.True(t, mr.Exists("clinic:patients"))
	assert.False(t, mr.Exists("lock:collection:patients"))
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := baseConfig()
	cfg.LockDriver = config.LockRedis
	cfg.RedisAddr = addr

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestRegistryExposesSchedulingMetrics(t *testing.T) {
	a, err := Open(context.Background(), baseConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service.CreateAppointment(context.Background(), schedule.NewAppointment{PatientID: "P404"})
	require.Error(t, err)

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "clinic_scheduling_booking_total")
}
