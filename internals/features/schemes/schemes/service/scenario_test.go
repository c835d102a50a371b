package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
)

func statuses(ps []m.PaymentModel) []m.PaymentStatus {
	out := make([]m.PaymentStatus, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.PaymentStatus)
	}
	return out
}

// Plan starts 2024-01-01 for 12 months at 1000, viewed on 2024-03-15 with nothing recorded.
// Month i is due 2024-(i)-01: months 1-3 are behind today, month 4 (2024-04-01) is
// 17 days out and inside the pending window, the rest are further out.
func TestScenario_NothingRecordedMidMarch(t *testing.T) {
	today := day(2024, 3, 15)
	sc := newScheme(t, day(2024, 1, 1), 1000, 12, today)

	require.NoError(t, Refresh(&sc, today))

	want := []m.PaymentStatus{
		m.PaymentOverdue, m.PaymentOverdue, m.PaymentOverdue,
		m.PaymentPending,
		m.PaymentUpcoming, m.PaymentUpcoming, m.PaymentUpcoming, m.PaymentUpcoming,
		m.PaymentUpcoming, m.PaymentUpcoming, m.PaymentUpcoming, m.PaymentUpcoming,
	}
	if diff := cmp.Diff(want, statuses(sc.Payments)); diff != "" {
		t.Errorf("payment statuses (-want +got):\n%s", diff)
	}
	assert.Equal(t, m.SchemeOverdue, sc.SchemeStatus)
	assert.True(t, sc.SchemeTotalCollected.IsZero())
	assert.True(t, sc.SchemeTotalRemaining.Equal(dec(12000)))
}

func TestScenario_RecordedMonthsBecomePaid(t *testing.T) {
	today := day(2024, 3, 15)
	sc := newScheme(t, day(2024, 1, 1), 1000, 12, today)
	for i := 0; i < 3; i++ {
		sc.Payments[i].PaymentAmountPaid = decPtr(1000)
	}

	require.NoError(t, Refresh(&sc, today))
	assert.Equal(t, m.PaymentPaid, sc.Payments[0].PaymentStatus)
	assert.Equal(t, m.PaymentPaid, sc.Payments[1].PaymentStatus)
	assert.Equal(t, m.PaymentPaid, sc.Payments[2].PaymentStatus)
	assert.Equal(t, m.PaymentPending, sc.Payments[3].PaymentStatus)
	assert.Equal(t, m.SchemeActive, sc.SchemeStatus)
	assert.Equal(t, 3, sc.SchemePaymentsMade)
}

func TestScenario_AllTwelvePaid(t *testing.T) {
	today := day(2024, 3, 15)
	sc := newScheme(t, day(2024, 1, 1), 1000, 12, today)
	payAll(&sc, 1000)

	require.NoError(t, Refresh(&sc, today))
	for _, p := range sc.Payments {
		assert.Equal(t, m.PaymentPaid, p.PaymentStatus)
	}
	assert.Equal(t, m.SchemeCompleted, sc.SchemeStatus)
	assert.True(t, sc.SchemeTotalCollected.Equal(dec(12000)))
	assert.True(t, sc.SchemeTotalRemaining.IsZero())
	assert.Equal(t, 12, sc.SchemePaymentsMade)
}
