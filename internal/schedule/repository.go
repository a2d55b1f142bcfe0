package schedule

import (
	"context"
	"errors"
	"sync"
)

// Table is one record collection. LoadAll returns records in creation order;
// SaveAll replaces the whole collection with the given sequence.
type Table[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, records []T) error
}

// Store groups the three collections the service works on.
type Store struct {
	Patients     Table[Patient]
	Doctors      Table[Doctor]
	Appointments Table[Appointment]
}

// Lock keys, always acquired in this order when nested.
const (
	lockPatients     = "patients"
	lockDoctors      = "doctors"
	lockAppointments = "appointments"
)

// ErrLockNotAcquired is returned by lockers that gave up waiting for a busy key.
var ErrLockNotAcquired = errors.New("collection lock not acquired")

// Locker serializes read-modify-write cycles on a collection.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// EventRecorder receives appointment lifecycle events.
type EventRecorder interface {
	InsertEvent(ctx context.Context, ev EventLog) error
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker returns a Locker for a single process: callers of the same
// key wait for each other.
func NewLocalLocker() Locker {
	return &localLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *localLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
