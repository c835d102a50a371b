package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/helpers/dbtime"
)

func TestGenerateSchedule_ShapeAndDueDates(t *testing.T) {
	id := uuid.New()
	start := day(2024, 1, 1)

	got, err := GenerateSchedule(id, start, dec(1000), 12, day(2023, 12, 1))
	require.NoError(t, err)
	require.Len(t, got, 12)
	require.NoError(t, ValidateSchedule(got, 12))

	var months []int
	var dues []time.Time
	for i, p := range got {
		months = append(months, p.PaymentMonthNumber)
		dues = append(dues, p.PaymentDueDate)
		assert.Equal(t, fmt.Sprintf("%s-%d", id, i+1), p.PaymentID)
		assert.Equal(t, id, p.PaymentSchemeID)
		assert.True(t, p.PaymentAmountExpected.Equal(dec(1000)))
		assert.Nil(t, p.PaymentAmountPaid)
	}

	wantMonths := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if diff := cmp.Diff(wantMonths, months); diff != "" {
		t.Errorf("month numbers mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(dues); i++ {
		assert.True(t, dues[i].After(dues[i-1]), "due dates must increase")
		assert.Equal(t, dbtime.AddMonths(dues[0], i), dues[i], "due dates one month apart")
	}
	assert.Equal(t, day(2024, 12, 1), dues[11])
}

func TestGenerateSchedule_InitialStatusesUseToday(t *testing.T) {
	// scheme has not started yet: every installment is upcoming
	got, err := GenerateSchedule(uuid.New(), day(2024, 6, 1), dec(500), 12, day(2024, 5, 20))
	require.NoError(t, err)
	for _, p := range got {
		assert.Equal(t, m.PaymentUpcoming, p.PaymentStatus, "month %d", p.PaymentMonthNumber)
	}
}

func TestGenerateSchedule_IsDeterministic(t *testing.T) {
	id := uuid.New()
	a, err := GenerateSchedule(id, day(2024, 1, 31), dec(250), 6, day(2024, 1, 1))
	require.NoError(t, err)
	b, err := GenerateSchedule(id, day(2024, 1, 31), dec(250), 6, day(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	// end-of-month start clamps without drifting
	assert.Equal(t, day(2024, 2, 29), a[1].PaymentDueDate)
	assert.Equal(t, day(2024, 3, 31), a[2].PaymentDueDate)
}

func TestGenerateSchedule_RejectsBadInput(t *testing.T) {
	_, err := GenerateSchedule(uuid.New(), time.Time{}, dec(100), 12, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = GenerateSchedule(uuid.New(), day(2024, 1, 1), dec(100), 0, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = GenerateSchedule(uuid.New(), day(2024, 1, 1), dec(0), 12, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = GenerateSchedule(uuid.New(), day(2024, 1, 1), dec(-5), 12, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestValidateSchedule_DetectsInconsistency(t *testing.T) {
	good, err := GenerateSchedule(uuid.New(), day(2024, 1, 1), dec(100), 3, day(2024, 1, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, ValidateSchedule(good[:2], 3), ErrScheduleInconsistent)

	dup := append([]m.PaymentModel{}, good...)
	dup[2].PaymentMonthNumber = 1
	assert.ErrorIs(t, ValidateSchedule(dup, 3), ErrScheduleInconsistent)

	gap := append([]m.PaymentModel{}, good...)
	gap[2].PaymentMonthNumber = 4
	assert.ErrorIs(t, ValidateSchedule(gap, 3), ErrScheduleInconsistent)
}
