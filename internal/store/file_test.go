package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/schedule"
)

func TestFileTableMissingFileIsEmpty(t *testing.T) {
	table := NewFileTable[schedule.Patient](filepath.Join(t.TempDir(), "patients.json"))

	rows, err := table.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFileTableRoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "appointments.json")
	table := NewFileTable[schedule.Appointment](path)

	created := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	in := []schedule.Appointment{
		{ID: "C002", PatientID: "P001", DoctorID: "D001", Date: "2030-01-07", Time: "10:00", Status: schedule.StatusScheduled, CreatedAt: created},
		{ID: "C001", PatientID: "P001", DoctorID: "D001", Date: "2030-01-07", Time: "09:00", Status: schedule.StatusCancelled, CreatedAt: created},
	}
	require.NoError(t, table.SaveAll(ctx, in))

	out, err := table.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "C002", out[0].ID)
	assert.Equal(t, "C001", out[1].ID)
	assert.True(t, created.Equal(out[0].CreatedAt))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status": "cancelled"`)
}

func TestFileTableMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileTable[schedule.Doctor](path).LoadAll(context.Background())
	require.Error(t, err)
	assert.Zero(t, schedule.KindOf(err))
}

func TestFileTableEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	rows, err := NewFileTable[schedule.Doctor](path).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
