package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero", d(2024, 1, 15), 0, d(2024, 1, 15)},
		{"simple", d(2024, 1, 1), 2, d(2024, 3, 1)},
		{"year rollover", d(2024, 11, 10), 3, d(2025, 2, 10)},
		{"clamp leap feb", d(2024, 1, 31), 1, d(2024, 2, 29)},
		{"clamp non-leap feb", d(2023, 1, 31), 1, d(2023, 2, 28)},
		{"clamp does not drift", d(2024, 1, 31), 2, d(2024, 3, 31)},
		{"thirtieth", d(2024, 5, 31), 1, d(2024, 6, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.n))
		})
	}
}

func TestDateOnly_StripsTimeAndKeepsLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2024, 3, 15, 23, 59, 0, 0, loc)
	assert.Equal(t, d(2024, 3, 15), DateOnly(local))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 91, DaysBetween(d(2024, 1, 1), d(2024, 4, 1)))
	assert.Equal(t, 31, DaysBetween(d(2024, 1, 1), d(2024, 2, 1)))
	assert.Equal(t, -1, DaysBetween(d(2024, 1, 2), d(2024, 1, 1)))
	assert.Equal(t, 0, DaysBetween(d(2024, 1, 2), time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, d(2024, 2, 29), got)

	got, err = ParseDate("2024-02-29T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, d(2024, 2, 29), got)

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParseDate("  ")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFormatDate_Sentinels(t *testing.T) {
	assert.Equal(t, InvalidDateStr, FormatDate(time.Time{}, ""))
	assert.Equal(t, "2024-03-01", FormatDate(d(2024, 3, 1), ""))
	assert.Equal(t, "01 Mar 2024", FormatDate(d(2024, 3, 1), DisplayLayout))
	assert.Equal(t, MissingDateStr, FormatDatePtr(nil, ""))
	assert.Equal(t, InvalidDateStr, FormatDateString("not-a-date", ""))
	assert.Equal(t, MissingDateStr, FormatDateString("", ""))
	assert.Equal(t, "2024-03-01", FormatDateString("2024-03-01", ""))
}
