package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/helpers/dbtime"
)

var (
	ErrInvalidDate          = dbtime.ErrInvalidDate
	ErrScheduleInconsistent = errors.New("schedule inconsistent")
	ErrInvalidDuration      = errors.New("duration must be a positive number of months")
	ErrInvalidAmount        = errors.New("amount must be positive")
)

// GenerateSchedule builds the payments for months 1..durationMonths. Month i is due
// startDate + (i-1) months; ids are "<schemeID>-<i>" so regeneration is reproducible.
func GenerateSchedule(schemeID uuid.UUID, startDate time.Time, monthly decimal.Decimal, durationMonths int, today time.Time) ([]m.PaymentModel, error) {
	if startDate.IsZero() {
		return nil, fmt.Errorf("start date: %w", ErrInvalidDate)
	}
	if durationMonths <= 0 {
		return nil, ErrInvalidDuration
	}
	if !monthly.IsPositive() {
		return nil, ErrInvalidAmount
	}

	start := dbtime.DateOnly(startDate)
	out := make([]m.PaymentModel, 0, durationMonths)
	for i := 1; i <= durationMonths; i++ {
		p := m.PaymentModel{
			PaymentID:             m.PaymentIDFor(schemeID, i),
			PaymentSchemeID:       schemeID,
			PaymentMonthNumber:    i,
			PaymentDueDate:        dbtime.AddMonths(start, i-1),
			PaymentAmountExpected: monthly,
		}
		st, err := DerivePaymentStatus(p, start, today)
		if err != nil {
			return nil, err
		}
		p.PaymentStatus = st
		out = append(out, p)
	}
	return out, nil
}

// ValidateSchedule checks the payment set has exactly durationMonths entries numbered
// 1..durationMonths. Nothing calls it on the write path.
func ValidateSchedule(payments []m.PaymentModel, durationMonths int) error {
	if len(payments) != durationMonths {
		return fmt.Errorf("%w: %d payments for %d months", ErrScheduleInconsistent, len(payments), durationMonths)
	}
	seen := make(map[int]bool, len(payments))
	for _, p := range payments {
		if p.PaymentMonthNumber < 1 || p.PaymentMonthNumber > durationMonths {
			return fmt.Errorf("%w: month %d out of range", ErrScheduleInconsistent, p.PaymentMonthNumber)
		}
		if seen[p.PaymentMonthNumber] {
			return fmt.Errorf("%w: duplicate month %d", ErrScheduleInconsistent, p.PaymentMonthNumber)
		}
		seen[p.PaymentMonthNumber] = true
	}
	return nil
}
