package schemes

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

type SchemeSeed struct {
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  *string         `json:"customer_phone"`
	GroupName      *string         `json:"group_name"`
	StartMonthsAgo int             `json:"start_months_ago"`
	MonthlyAmount  decimal.Decimal `json:"monthly_amount"`
	PaidMonths     int             `json:"paid_months"`
	Mode           string          `json:"mode"`
	Closed         bool            `json:"closed"`
}

// SeedSchemesFromJSON creates demo schemes relative to today. It does nothing when the
// store already holds schemes.
func SeedSchemesFromJSON(ctx context.Context, svc *service.SchemeService, filePath string, today time.Time, log *zap.Logger) error {
	existing, _, err := svc.List(ctx, service.ListQuery{IncludeArchived: true, Limit: 1}, today)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("schemes already present, skipping seed")
		return nil
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seeds []SchemeSeed
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}

	actor := "seed"
	for _, s := range seeds {
		start := dbtime.AddMonths(today, -s.StartMonthsAgo)
		sc, err := svc.Create(ctx, service.CreateSchemeInput{
			CustomerName:  s.CustomerName,
			CustomerPhone: s.CustomerPhone,
			GroupName:     s.GroupName,
			StartDate:     start,
			MonthlyAmount: s.MonthlyAmount,
			Actor:         &actor,
		}, today)
		if err != nil {
			log.Warn("seed scheme failed", zap.String("customer", s.CustomerName), zap.Error(err))
			continue
		}

		for month := 1; month <= s.PaidMonths && month <= len(sc.Payments); month++ {
			paidOn := sc.Payments[month-1].PaymentDueDate
			if paidOn.After(today) {
				paidOn = today
			}
			if _, err := svc.RecordPayment(ctx, sc.SchemeID, month, service.RecordPaymentInput{
				AmountPaid:  s.MonthlyAmount,
				PaymentDate: &paidOn,
				Modes:       []string{s.Mode},
				Actor:       &actor,
			}, today); err != nil {
				log.Warn("seed payment failed", zap.String("customer", s.CustomerName), zap.Int("month", month), zap.Error(err))
			}
		}
		if s.Closed {
			if _, err := svc.Close(ctx, sc.SchemeID, nil, &actor, today); err != nil {
				log.Warn("seed close failed", zap.String("customer", s.CustomerName), zap.Error(err))
			}
		}
		log.Info("✅ seeded scheme", zap.String("customer", s.CustomerName), zap.Int("paid_months", s.PaidMonths))
	}
	return nil
}
