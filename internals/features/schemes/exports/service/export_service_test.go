package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"schemetrack_backend/internals/features/schemes/schemes/repository"
	schemeSvc "schemetrack_backend/internals/features/schemes/schemes/service"
)

var today = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func seeded(t *testing.T) (*ExportService, *schemeSvc.SchemeService) {
	t.Helper()
	svc := schemeSvc.NewSchemeService(repository.NewMemorySchemeRepository(), nil, false)
	return NewExportService(svc), svc
}

func TestPaymentsTable_RowsFollowSchedule(t *testing.T) {
	exp, svc := seeded(t)
	ctx := context.Background()
	group := "Market"
	sc, err := svc.Create(ctx, schemeSvc.CreateSchemeInput{
		CustomerName:  "Ravi",
		GroupName:     &group,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MonthlyAmount: decimal.NewFromInt(1000),
	}, today)
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, sc.SchemeID, 1, schemeSvc.RecordPaymentInput{
		AmountPaid: decimal.NewFromInt(1000),
		Modes:      []string{"upi", "cash"},
	}, today)
	require.NoError(t, err)

	tbl, got, err := exp.PaymentsTable(ctx, sc.SchemeID, today)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.SchemeCustomerName)
	require.Len(t, tbl.Rows, 12)

	first := tbl.Rows[0]
	assert.Equal(t, 1, first[0])
	assert.Equal(t, "01 Jan 2024", first[1])
	assert.Equal(t, "15 Mar 2024", first[2])
	assert.Equal(t, "paid", first[5])
	assert.Equal(t, "cash, upi", first[6])

	second := tbl.Rows[1]
	assert.Equal(t, "N/A", second[2], "unpaid month has no payment date")
	assert.Equal(t, "", second[4])
	assert.Equal(t, "overdue", second[5])
}

func TestWriteCSV_BOMAndQuoting(t *testing.T) {
	tbl := Table{
		Headers: []string{"Name", "Amount"},
		Rows: [][]any{
			{"Sharma, Anil", decimal.RequireFromString("1000.5")},
			{"Plain", 3},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl, 0))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, utf8BOM))

	recs, err := csv.NewReader(bytes.NewReader(raw[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Amount"},
		{"Sharma, Anil", "1000.50"},
		{"Plain", "3"},
	}, recs)
}

func TestWriteCSV_Semicolon(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Table{Headers: []string{"a", "b"}, Rows: [][]any{{"x", "y"}}}, ';'))
	assert.Equal(t, "a;b\nx;y\n", buf.String()[len(utf8BOM):])
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	exp, svc := seeded(t)
	ctx := context.Background()
	for _, name := range []string{"Anil", "Sita"} {
		_, err := svc.Create(ctx, schemeSvc.CreateSchemeInput{
			CustomerName:  name,
			StartDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			MonthlyAmount: decimal.NewFromInt(250),
		}, today)
		require.NoError(t, err)
	}

	tbl, err := exp.SchemesTable(ctx, schemeSvc.ListQuery{SortBy: "customer_name", SortOrder: "asc", Limit: 1}, today)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2, "exports ignore paging")

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Schemes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, schemeHeaders, rows[0])
	assert.Equal(t, "Anil", rows[1][1])
	assert.Equal(t, "Sita", rows[2][1])
	assert.Equal(t, "3000", rows[1][10])
}
