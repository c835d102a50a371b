package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
)

func payment(due time.Time, expected int64, paid *int64) m.PaymentModel {
	p := m.PaymentModel{
		PaymentID:             "p",
		PaymentMonthNumber:    1,
		PaymentDueDate:        due,
		PaymentAmountExpected: dec(expected),
	}
	if paid != nil {
		p.PaymentAmountPaid = decPtr(*paid)
	}
	return p
}

func i64(v int64) *int64 { return &v }

func TestDerivePaymentStatus_Rules(t *testing.T) {
	today := day(2024, 3, 15)
	started := day(2024, 1, 1)

	tests := []struct {
		name  string
		p     m.PaymentModel
		start time.Time
		want  m.PaymentStatus
	}{
		{"paid exact", payment(day(2024, 2, 1), 1000, i64(1000)), started, m.PaymentPaid},
		{"overpaid overrides overdue", payment(day(2023, 1, 1), 1000, i64(1500)), started, m.PaymentPaid},
		{"paid far future", payment(day(2025, 1, 1), 1000, i64(1000)), started, m.PaymentPaid},
		{"partial past due is overdue", payment(day(2024, 3, 14), 1000, i64(999)), started, m.PaymentOverdue},
		{"unpaid yesterday", payment(day(2024, 3, 14), 1000, nil), started, m.PaymentOverdue},
		{"due today", payment(day(2024, 3, 15), 1000, nil), started, m.PaymentPending},
		{"due in 30 days", payment(day(2024, 4, 14), 1000, nil), started, m.PaymentPending},
		{"due in 31 days", payment(day(2024, 4, 15), 1000, nil), started, m.PaymentUpcoming},
		{"scheme not started", payment(day(2024, 3, 20), 1000, nil), day(2024, 3, 20), m.PaymentUpcoming},
		{"zero paid recorded", payment(day(2024, 3, 20), 1000, i64(0)), started, m.PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DerivePaymentStatus(tt.p, tt.start, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivePaymentStatus_IgnoresTimeOfDay(t *testing.T) {
	p := payment(day(2024, 3, 15), 100, nil)
	late := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	early := time.Date(2024, 3, 15, 0, 0, 1, 0, time.UTC)

	a, err := DerivePaymentStatus(p, day(2024, 1, 1), late)
	require.NoError(t, err)
	b, err := DerivePaymentStatus(p, day(2024, 1, 1), early)
	require.NoError(t, err)
	assert.Equal(t, m.PaymentPending, a)
	assert.Equal(t, a, b)
}

func TestDerivePaymentStatus_InvalidDatesFailLoudly(t *testing.T) {
	_, err := DerivePaymentStatus(payment(time.Time{}, 100, nil), day(2024, 1, 1), day(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = DerivePaymentStatus(payment(day(2024, 1, 1), 100, nil), time.Time{}, day(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDerivePaymentStatus_UnpaidPastDueAlwaysOverdue(t *testing.T) {
	today := day(2024, 6, 10)
	for back := 1; back <= 400; back += 7 {
		due := today.AddDate(0, 0, -back)
		got, err := DerivePaymentStatus(payment(due, 100, nil), day(2023, 1, 1), today)
		require.NoError(t, err)
		assert.Equal(t, m.PaymentOverdue, got, "due %s", due.Format("2006-01-02"))
	}
}

func TestDeriveSchemeStatus(t *testing.T) {
	today := day(2024, 3, 15)

	t.Run("future start is upcoming and so is every payment", func(t *testing.T) {
		sc := newScheme(t, day(2024, 4, 1), 1000, 12, today)
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeUpcoming, st)
		for _, p := range sc.Payments {
			assert.Equal(t, m.PaymentUpcoming, p.PaymentStatus)
		}
	})

	t.Run("all paid is completed", func(t *testing.T) {
		sc := newScheme(t, day(2023, 1, 1), 1000, 12, today)
		payAll(&sc, 1000)
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeCompleted, st)
	})

	t.Run("any overdue is overdue", func(t *testing.T) {
		sc := newScheme(t, day(2024, 2, 1), 1000, 12, today)
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeOverdue, st)
	})

	t.Run("current month pending is active", func(t *testing.T) {
		sc := newScheme(t, day(2024, 3, 15), 1000, 12, today)
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeActive, st)
	})

	t.Run("paid so far is active", func(t *testing.T) {
		sc := newScheme(t, day(2024, 1, 20), 1000, 12, today)
		for i := 0; i < 2; i++ {
			sc.Payments[i].PaymentAmountPaid = decPtr(1000)
		}
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeActive, st)
	})

	t.Run("stored lifecycle short-circuits", func(t *testing.T) {
		sc := newScheme(t, day(2024, 2, 1), 1000, 12, today)
		closed := day(2024, 3, 1)
		sc.SchemeLifecycle = m.LifecycleClosed
		sc.SchemeClosureDate = &closed
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeClosed, st)

		sc.SchemeLifecycle = m.LifecycleArchived
		st, _ = DeriveSchemeStatus(sc, today)
		assert.Equal(t, m.SchemeArchived, st)

		sc.SchemeIsTrashed = true
		st, _ = DeriveSchemeStatus(sc, today)
		assert.Equal(t, m.SchemeTrashed, st)
	})

	t.Run("no payments is active", func(t *testing.T) {
		sc := m.SchemeModel{SchemeStartDate: day(2024, 1, 1)}
		st, err := DeriveSchemeStatus(sc, today)
		require.NoError(t, err)
		assert.Equal(t, m.SchemeActive, st)
	})

	t.Run("zero start date fails", func(t *testing.T) {
		_, err := DeriveSchemeStatus(m.SchemeModel{}, today)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestDeriveSchemeStatus_DurationElapsedUnsettled(t *testing.T) {
	// every installment short by 100, plan ended last month
	sc := newScheme(t, day(2023, 1, 1), 1000, 12, day(2023, 1, 1))
	for i := range sc.Payments {
		sc.Payments[i].PaymentAmountPaid = decPtr(900)
	}
	st, err := DeriveSchemeStatus(sc, day(2024, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, m.SchemeOverdue, st)
}
