package service

import (
	"fmt"
	"time"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/helpers/dbtime"
)

// PendingWindowDays: an unpaid installment due within this many days counts as pending.
const PendingWindowDays = 30

// DerivePaymentStatus classifies one installment. Rules are evaluated in order, first match wins:
//
//	paid amount >= expected           -> paid
//	due date before today             -> overdue
//	scheme starts after today         -> upcoming
//	due today or within 30 days       -> pending
//	otherwise                         -> upcoming
func DerivePaymentStatus(p m.PaymentModel, schemeStart, today time.Time) (m.PaymentStatus, error) {
	if p.PaymentDueDate.IsZero() {
		return "", fmt.Errorf("payment %s due date: %w", p.PaymentID, ErrInvalidDate)
	}
	if schemeStart.IsZero() {
		return "", fmt.Errorf("scheme start date: %w", ErrInvalidDate)
	}

	if p.PaymentAmountPaid != nil && p.PaymentAmountPaid.GreaterThanOrEqual(p.PaymentAmountExpected) {
		return m.PaymentPaid, nil
	}

	due := dbtime.DateOnly(p.PaymentDueDate)
	day := dbtime.DateOnly(today)

	if due.Before(day) {
		return m.PaymentOverdue, nil
	}
	if dbtime.DateOnly(schemeStart).After(day) {
		return m.PaymentUpcoming, nil
	}
	if !due.After(day) || dbtime.DaysBetween(day, due) <= PendingWindowDays {
		return m.PaymentPending, nil
	}
	return m.PaymentUpcoming, nil
}

// DeriveSchemeStatus returns the display status of a scheme. Stored terminal states
// (trashed, archived, closed) win; otherwise the status comes from the payments.
func DeriveSchemeStatus(s m.SchemeModel, today time.Time) (m.SchemeStatus, error) {
	if st, ok := storedStatus(s); ok {
		return st, nil
	}
	if s.SchemeStartDate.IsZero() {
		return "", fmt.Errorf("scheme %s start date: %w", s.SchemeID, ErrInvalidDate)
	}

	day := dbtime.DateOnly(today)
	start := dbtime.DateOnly(s.SchemeStartDate)
	if start.After(day) {
		return m.SchemeUpcoming, nil
	}
	if len(s.Payments) == 0 {
		return m.SchemeActive, nil
	}

	allPaid := true
	anyOverdue := false
	var last *m.PaymentModel
	for i := range s.Payments {
		p := s.Payments[i]
		st, err := DerivePaymentStatus(p, start, day)
		if err != nil {
			return "", err
		}
		if st != m.PaymentPaid {
			allPaid = false
		}
		if st == m.PaymentOverdue {
			anyOverdue = true
		}
		if last == nil || p.PaymentMonthNumber > last.PaymentMonthNumber {
			last = &s.Payments[i]
		}
	}

	switch {
	case allPaid:
		return m.SchemeCompleted, nil
	case anyOverdue:
		return m.SchemeOverdue, nil
	case dbtime.DateOnly(last.PaymentDueDate).Before(day):
		// duration elapsed without full settlement
		return m.SchemeOverdue, nil
	default:
		return m.SchemeActive, nil
	}
}

func storedStatus(s m.SchemeModel) (m.SchemeStatus, bool) {
	switch {
	case s.SchemeIsTrashed:
		return m.SchemeTrashed, true
	case s.SchemeLifecycle == m.LifecycleArchived:
		return m.SchemeArchived, true
	case s.SchemeLifecycle == m.LifecycleClosed:
		return m.SchemeClosed, true
	}
	return "", false
}
