package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
	"github.com/hackgods/clinic-scheduling/internal/store"
)

func newTestLocker(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, schedule.Locker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisLocker(client, ttl)
}

// releaseAfter deletes key once d has passed, as another holder would.
func releaseAfter(mr *miniredis.Miniredis, key string, d time.Duration) {
	go func() {
		time.Sleep(d)
		mr.Del(key)
	}()
}

func TestRedisLockerRunsAndReleases(t *testing.T) {
	mr, locker := newTestLocker(t, 5*time.Second)

	ran := false
	err := locker.WithLock(context.Background(), "appointments", func(ctx context.Context) error {
		ran = true
		assert.True(t, mr.Exists("lock:collection:appointments"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("lock:collection:appointments"))
}

func TestRedisLockerGivesUpAfterTTL(t *testing.T) {
	mr, locker := newTestLocker(t, 100*time.Millisecond)
	require.NoError(t, mr.Set("lock:collection:doctors", "someone-else"))

	err := locker.WithLock(context.Background(), "doctors", func(ctx context.Context) error {
		t.Fatal("callback must not run while the key is held")
		return nil
	})
	require.ErrorIs(t, err, schedule.ErrLockNotAcquired)

	held, err := mr.Get("lock:collection:doctors")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", held)
}

func TestRedisLockerPropagatesCallbackError(t *testing.T) {
	mr, locker := newTestLocker(t, 5*time.Second)
	boom := errors.New("boom")

	err := locker.WithLock(context.Background(), "patients", func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("lock:collection:patients"))
}

func TestRedisLockerWaitsForRelease(t *testing.T) {
	mr, locker := newTestLocker(t, 2*time.Second)
	require.NoError(t, mr.Set("lock:collection:doctors", "someone-else"))
	releaseAfter(mr, "lock:collection:doctors", 50*time.Millisecond)

	ran := false
	err := locker.WithLock(context.Background(), "doctors", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRedisLockerHonoursCancelledContext(t *testing.T) {
	mr, locker := newTestLocker(t, 2*time.Second)
	require.NoError(t, mr.Set("lock:collection:doctors", "someone-else"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := locker.WithLock(ctx, "doctors", func(ctx context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func seedBooking(t *testing.T, svc *schedule.Service) (*schedule.Doctor, *schedule.Appointment) {
	t.Helper()
	ctx := context.Background()
	p, err := svc.CreatePatient(ctx, schedule.NewPatient{
		Name: "Ana Lopez", Age: 30, Phone: "5512345678", Email: "ana@example.com",
	})
	require.NoError(t, err)
	d, err := svc.CreateDoctor(ctx, schedule.NewDoctor{
		Name: "Rafael Soto", Specialty: "Cardiology", Start: "09:00", End: "17:00",
		Weekdays: []string{"Monday"},
	})
	require.NoError(t, err)
	a, err := svc.CreateAppointment(ctx, schedule.NewAppointment{
		PatientID: p.ID, DoctorID: d.ID, Date: "2030-01-07", Time: "10:00", Reason: "checkup",
	})
	require.NoError(t, err)
	return d, a
}

func newLockedService(locker schedule.Locker) *schedule.Service {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	return schedule.NewService(store.NewMemoryStore(), locker, schedule.Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
}

func TestDeleteDoctorWaitsForAppointmentsLock(t *testing.T) {
	mr, locker := newTestLocker(t, 2*time.Second)
	svc := newLockedService(locker)
	d, a := seedBooking(t, svc)

	require.NoError(t, mr.Set("lock:collection:appointments", "someone-else"))
	releaseAfter(mr, "lock:collection:appointments", 50*time.Millisecond)

	n, err := svc.DeleteDoctor(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.GetAppointment(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCancelled, got.Status)
}

func TestDeleteDoctorLockTimeoutLeavesDoctor(t *testing.T) {
	mr, locker := newTestLocker(t, 100*time.Millisecond)
	svc := newLockedService(locker)
	d, a := seedBooking(t, svc)

	require.NoError(t, mr.Set("lock:collection:appointments", "someone-else"))

	_, err := svc.DeleteDoctor(context.Background(), d.ID)
	require.ErrorIs(t, err, schedule.ErrLockNotAcquired)
	assert.NotErrorIs(t, err, schedule.ErrConflict)

	_, err = svc.GetDoctor(context.Background(), d.ID)
	require.NoError(t, err)
	got, err := svc.GetAppointment(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusScheduled, got.Status)

	mr.Del("lock:collection:appointments")
	n, err := svc.DeleteDoctor(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = svc.GetAppointment(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCancelled, got.Status)
	assert.False(t, mr.Exists("lock:collection:doctors"))
}

func TestBookingFreeSlotWaitsInsteadOfConflict(t *testing.T) {
	mr, locker := newTestLocker(t, 2*time.Second)
	svc := newLockedService(locker)
	d, first := seedBooking(t, svc)

	require.NoError(t, mr.Set("lock:collection:appointments", "someone-else"))
	releaseAfter(mr, "lock:collection:appointments", 50*time.Millisecond)

	second, err := svc.CreateAppointment(context.Background(), schedule.NewAppointment{
		PatientID: first.PatientID, DoctorID: d.ID, Date: "2030-01-07", Time: "10:30", Reason: "follow-up",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:30", second.Time)
}
