package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2:30 PM", "14:30", false},
		{"2:30PM", "14:30", false},
		{"2:30 pm", "14:30", false},
		{"12:00 AM", "00:00", false},
		{"12:45 am", "00:45", false},
		{"12:15 PM", "12:15", false},
		{"11:59 PM", "23:59", false},
		{"09:05", "09:05", false},
		{"9:05", "09:05", false},
		{" 17:30 ", "17:30", false},
		{"00:00", "00:00", false},
		{"23:59", "23:59", false},
		{"25:00", "", true},
		{"24:00", "", true},
		{"10:60", "", true},
		{"0:30 AM", "", true},
		{"13:00 PM", "", true},
		{"9.30", "", true},
		{"930", "", true},
		{"", "", true},
		{"ab:cd", "", true},
		{"10:5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2030-01-07", "2030-01-07", false},
		{"7/1/2030", "2030-01-07", false},
		{"07/01/2030", "2030-01-07", false},
		{"03/04/2025", "2025-04-03", false},
		{"31/12/2029", "2029-12-31", false},
		{"12/31/2029", "", true},
		{"2030-02-30", "", true},
		{"29/02/2029", "", true},
		{"2030/01/07", "", true},
		{"tomorrow", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	wd, err := WeekdayOf(monday)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	wd, err = WeekdayOf("2030-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, wd)

	_, err = WeekdayOf("01/01/2030")
	assert.Error(t, err)
}

func TestIsFutureInstantUsesLocation(t *testing.T) {
	// UTC-5: 2030-01-01 05:00 local is 10:00 UTC, one hour after testNow.
	est := time.FixedZone("EST", -5*60*60)
	assert.True(t, IsFutureInstant("2030-01-01", "05:00", est, testNow))
	assert.False(t, IsFutureInstant("2030-01-01", "04:00", est, testNow))

	// the same wall clock in UTC is already past
	assert.False(t, IsFutureInstant("2030-01-01", "05:00", time.UTC, testNow))

	// strictly greater: an instant equal to now is not future
	assert.False(t, IsFutureInstant("2030-01-01", "09:00", time.UTC, testNow))
	assert.True(t, IsFutureInstant("2030-01-01", "09:01", time.UTC, testNow))

	assert.False(t, IsFutureInstant("bad", "09:01", time.UTC, testNow))
}

func TestIsPureDateFuture(t *testing.T) {
	assert.True(t, IsPureDateFuture("2030-01-01", time.UTC, testNow))
	assert.True(t, IsPureDateFuture("2030-01-02", time.UTC, testNow))
	assert.False(t, IsPureDateFuture("2029-12-31", time.UTC, testNow))

	// at 09:00 UTC it is still 2029-12-31 in UTC-10
	hst := time.FixedZone("HST", -10*60*60)
	assert.True(t, IsPureDateFuture("2029-12-31", hst, testNow))

	assert.False(t, IsPureDateFuture("not-a-date", time.UTC, testNow))
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{
		"Monday":    time.Monday,
		"monday":    time.Monday,
		"MON":       time.Monday,
		"Lunes":     time.Monday,
		"Miércoles": time.Wednesday,
		"sabado":    time.Saturday,
		" Sunday ":  time.Sunday,
	} {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("Funday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeWeekdaysDeduplicates(t *testing.T) {
	got, err := normalizeWeekdays([]string{"lunes", "Monday", "fri"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Friday"}, got)
}
