package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/features/schemes/schemes/repository"
	"schemetrack_backend/internals/helpers/dbtime"
)

type DueItem struct {
	SchemeID       uuid.UUID       `json:"scheme_id"`
	CustomerName   string          `json:"customer_name"`
	GroupName      *string         `json:"group_name,omitempty"`
	MonthNumber    int             `json:"month_number"`
	DueDate        time.Time       `json:"due_date"`
	AmountExpected decimal.Decimal `json:"amount_expected"`
	Status         m.PaymentStatus `json:"status"`
}

type Dashboard struct {
	AsOf            time.Time               `json:"as_of"`
	TotalSchemes    int                     `json:"total_schemes"`
	ByStatus        map[m.SchemeStatus]int  `json:"by_status"`
	OpenCollected   decimal.Decimal         `json:"open_collected"`
	OpenRemaining   decimal.Decimal         `json:"open_remaining"`
	OverdueAmount   decimal.Decimal         `json:"overdue_amount"`
	DueThisMonth    []DueItem               `json:"due_this_month"`
	ByPaymentStatus map[m.PaymentStatus]int `json:"by_payment_status"`
}

// Dashboard summarises every scheme, trashed ones included in the counts only.
func (s *SchemeService) Dashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	all, err := s.repo.Find(ctx, repository.ListFilter{Trash: repository.TrashInclude})
	if err != nil {
		return nil, err
	}
	if err := RefreshAll(all, today); err != nil {
		return nil, err
	}
	return BuildDashboard(all, today), nil
}

// BuildDashboard expects refreshed schemes.
func BuildDashboard(all []m.SchemeModel, today time.Time) *Dashboard {
	day := dbtime.DateOnly(today)
	d := &Dashboard{
		AsOf:            day,
		TotalSchemes:    len(all),
		ByStatus:        map[m.SchemeStatus]int{},
		ByPaymentStatus: map[m.PaymentStatus]int{},
		OpenCollected:   decimal.Zero,
		OpenRemaining:   decimal.Zero,
		OverdueAmount:   decimal.Zero,
		DueThisMonth:    []DueItem{},
	}
	for _, st := range m.AllSchemeStatuses {
		d.ByStatus[st] = 0
	}

	for _, sc := range all {
		d.ByStatus[sc.SchemeStatus]++
		if isTerminal(sc.SchemeStatus) {
			continue
		}
		d.OpenCollected = d.OpenCollected.Add(sc.SchemeTotalCollected)
		d.OpenRemaining = d.OpenRemaining.Add(sc.SchemeTotalRemaining)

		for _, p := range sc.Payments {
			d.ByPaymentStatus[p.PaymentStatus]++
			if p.PaymentStatus == m.PaymentOverdue {
				d.OverdueAmount = d.OverdueAmount.Add(outstanding(p))
			}
			due := dbtime.DateOnly(p.PaymentDueDate)
			if due.Year() == day.Year() && due.Month() == day.Month() && p.PaymentStatus != m.PaymentPaid {
				d.DueThisMonth = append(d.DueThisMonth, DueItem{
					SchemeID:       sc.SchemeID,
					CustomerName:   sc.SchemeCustomerName,
					GroupName:      sc.SchemeCustomerGroupName,
					MonthNumber:    p.PaymentMonthNumber,
					DueDate:        due,
					AmountExpected: p.PaymentAmountExpected,
					Status:         p.PaymentStatus,
				})
			}
		}
	}
	sort.SliceStable(d.DueThisMonth, func(i, j int) bool {
		return d.DueThisMonth[i].DueDate.Before(d.DueThisMonth[j].DueDate)
	})
	return d
}

func isTerminal(st m.SchemeStatus) bool {
	return st == m.SchemeClosed || st == m.SchemeArchived || st == m.SchemeTrashed
}

// outstanding is what is still owed on one installment; partial payments reduce it.
func outstanding(p m.PaymentModel) decimal.Decimal {
	if p.PaymentAmountPaid == nil {
		return p.PaymentAmountExpected
	}
	rest := p.PaymentAmountExpected.Sub(*p.PaymentAmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
