package store

import (
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Collection names shared by every driver.
const (
	CollectionPatients     = "patients"
	CollectionDoctors      = "doctors"
	CollectionAppointments = "appointments"
)

// Backends carries the connections a driver may need.
type Backends struct {
	DataDir string
	Pg      *pgxpool.Pool
	Redis   *redis.Client
}

// Open builds the three collections for driver.
func Open(driver string, b Backends) (schedule.Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile:
		if b.DataDir == "" {
			return schedule.Store{}, fmt.Errorf("file store needs a data directory")
		}
		return schedule.Store{
			Patients:     NewFileTable[schedule.Patient](filepath.Join(b.DataDir, CollectionPatients+".json")),
			Doctors:      NewFileTable[schedule.Doctor](filepath.Join(b.DataDir, CollectionDoctors+".json")),
			Appointments: NewFileTable[schedule.Appointment](filepath.Join(b.DataDir, CollectionAppointments+".json")),
		}, nil
	case DriverPostgres:
		if b.Pg == nil {
			return schedule.Store{}, fmt.Errorf("postgres store needs a connection pool")
		}
		return schedule.Store{
			Patients:     NewPgTable[schedule.Patient](b.Pg, CollectionPatients),
			Doctors:      NewPgTable[schedule.Doctor](b.Pg, CollectionDoctors),
			Appointments: NewPgTable[schedule.Appointment](b.Pg, CollectionAppointments),
		}, nil
	case DriverRedis:
		if b.Redis == nil {
			return schedule.Store{}, fmt.Errorf("redis store needs a client")
		}
		return schedule.Store{
			Patients:     NewRedisTable[schedule.Patient](b.Redis, CollectionPatients),
			Doctors:      NewRedisTable[schedule.Doctor](b.Redis, CollectionDoctors),
			Appointments: NewRedisTable[schedule.Appointment](b.Redis, CollectionAppointments),
		}, nil
	default:
		return schedule.Store{}, fmt.Errorf("unknown store driver %q", driver)
	}
}

func NewMemoryStore() schedule.Store {
	return schedule.Store{
		Patients:     NewMemoryTable[schedule.Patient](),
		Doctors:      NewMemoryTable[schedule.Doctor](),
		Appointments: NewMemoryTable[schedule.Appointment](),
	}
}
