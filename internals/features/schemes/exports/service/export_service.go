package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	schemeSvc "schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

var schemeHeaders = []string{
	"Scheme ID", "Customer", "Phone", "Address", "Group", "Start Date", "Monthly Amount",
	"Duration (months)", "Status", "Payments Made", "Total Expected", "Total Collected",
	"Total Remaining", "Closure Date", "Archived Date",
}

var paymentHeaders = []string{
	"Month", "Due Date", "Payment Date", "Amount Expected", "Amount Paid", "Status",
	"Mode of Payment", "Note", "Archived",
}

type ExportService struct {
	schemes *schemeSvc.SchemeService
}

func NewExportService(schemes *schemeSvc.SchemeService) *ExportService {
	return &ExportService{schemes: schemes}
}

// SchemesTable exports every scheme matching q, without paging.
func (s *ExportService) SchemesTable(ctx context.Context, q schemeSvc.ListQuery, today time.Time) (Table, error) {
	q.Offset, q.Limit = 0, 0
	list, _, err := s.schemes.List(ctx, q, today)
	if err != nil {
		return Table{}, err
	}
	return BuildSchemesTable(list), nil
}

// PaymentsTable exports one scheme's schedule. The scheme is returned for naming the file.
func (s *ExportService) PaymentsTable(ctx context.Context, id uuid.UUID, today time.Time) (Table, *m.SchemeModel, error) {
	sc, err := s.schemes.Get(ctx, id, today)
	if err != nil {
		return Table{}, nil, err
	}
	return BuildPaymentsTable(*sc), sc, nil
}

// BuildSchemesTable expects refreshed schemes.
func BuildSchemesTable(list []m.SchemeModel) Table {
	t := Table{Sheet: "Schemes", Headers: schemeHeaders, Rows: make([][]any, 0, len(list))}
	for _, sc := range list {
		t.Rows = append(t.Rows, []any{
			sc.SchemeID.String(),
			sc.SchemeCustomerName,
			deref(sc.SchemeCustomerPhone),
			deref(sc.SchemeCustomerAddress),
			deref(sc.SchemeCustomerGroupName),
			dbtime.FormatDate(sc.SchemeStartDate, dbtime.DisplayLayout),
			sc.SchemeMonthlyAmount,
			sc.SchemeDurationMonths,
			string(sc.SchemeStatus),
			sc.SchemePaymentsMade,
			sc.SchemeTotalExpected,
			sc.SchemeTotalCollected,
			sc.SchemeTotalRemaining,
			dbtime.FormatDatePtr(sc.SchemeClosureDate, dbtime.DisplayLayout),
			dbtime.FormatDatePtr(sc.SchemeArchivedDate, dbtime.DisplayLayout),
		})
	}
	return t
}

func BuildPaymentsTable(sc m.SchemeModel) Table {
	t := Table{Sheet: "Payments", Headers: paymentHeaders, Rows: make([][]any, 0, len(sc.Payments))}
	for _, p := range sc.Payments {
		var paid any = ""
		if p.PaymentAmountPaid != nil {
			paid = *p.PaymentAmountPaid
		}
		archived := "No"
		if p.PaymentIsArchived {
			archived = "Yes"
		}
		t.Rows = append(t.Rows, []any{
			p.PaymentMonthNumber,
			dbtime.FormatDate(p.PaymentDueDate, dbtime.DisplayLayout),
			dbtime.FormatDatePtr(p.PaymentDate, dbtime.DisplayLayout),
			p.PaymentAmountExpected,
			paid,
			string(p.PaymentStatus),
			strings.Join(p.PaymentModes, ", "),
			deref(p.PaymentNote),
			archived,
		})
	}
	return t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
