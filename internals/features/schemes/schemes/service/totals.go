package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
)

type Totals struct {
	Expected     decimal.Decimal `json:"total_expected"`
	Collected    decimal.Decimal `json:"total_collected"`
	Remaining    decimal.Decimal `json:"total_remaining"`
	PaymentsMade int             `json:"payments_made"`
}

// Aggregate sums a payment set. Remaining is not clamped: overpayment yields a negative value.
// PaymentsMade counts the status already set on each payment, so callers refresh first.
func Aggregate(payments []m.PaymentModel) Totals {
	t := Totals{
		Expected:  decimal.Zero,
		Collected: decimal.Zero,
	}
	for _, p := range payments {
		t.Expected = t.Expected.Add(p.PaymentAmountExpected)
		if p.PaymentAmountPaid != nil {
			t.Collected = t.Collected.Add(*p.PaymentAmountPaid)
		}
		if p.PaymentStatus == m.PaymentPaid {
			t.PaymentsMade++
		}
	}
	t.Remaining = t.Expected.Sub(t.Collected)
	return t
}

// RefreshPayments recomputes every payment status in place.
func RefreshPayments(payments []m.PaymentModel, schemeStart, today time.Time) error {
	for i := range payments {
		st, err := DerivePaymentStatus(payments[i], schemeStart, today)
		if err != nil {
			return err
		}
		payments[i].PaymentStatus = st
	}
	return nil
}

// Refresh fills every derived field of the scheme: payment statuses, scheme status, totals.
func Refresh(s *m.SchemeModel, today time.Time) error {
	sort.SliceStable(s.Payments, func(i, j int) bool {
		return s.Payments[i].PaymentMonthNumber < s.Payments[j].PaymentMonthNumber
	})
	if err := RefreshPayments(s.Payments, s.SchemeStartDate, today); err != nil {
		return err
	}
	st, err := DeriveSchemeStatus(*s, today)
	if err != nil {
		return err
	}
	s.SchemeStatus = st

	t := Aggregate(s.Payments)
	s.SchemeTotalExpected = t.Expected
	s.SchemeTotalCollected = t.Collected
	s.SchemeTotalRemaining = t.Remaining
	s.SchemePaymentsMade = t.PaymentsMade
	return nil
}

// RefreshAll stops at the first scheme that fails to derive.
func RefreshAll(list []m.SchemeModel, today time.Time) error {
	for i := range list {
		if err := Refresh(&list[i], today); err != nil {
			return err
		}
	}
	return nil
}
