package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/features/schemes/schemes/repository"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrSchemeLocked      = errors.New("scheme is closed, archived or trashed")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrNotTrashed        = errors.New("scheme must be trashed before permanent delete")
	ErrDurationFixed     = fmt.Errorf("duration is fixed at %d months", m.DefaultDurationMonths)
	ErrFutureDate        = errors.New("date cannot be in the future")
)

type SchemeService struct {
	repo                repository.SchemeRepository
	log                 *zap.Logger
	allowCustomDuration bool
}

func NewSchemeService(repo repository.SchemeRepository, log *zap.Logger, allowCustomDuration bool) *SchemeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SchemeService{repo: repo, log: log.Named("schemes"), allowCustomDuration: allowCustomDuration}
}

/* ======================= CREATE ======================= */

type CreateSchemeInput struct {
	CustomerName    string
	CustomerPhone   *string
	CustomerAddress *string
	GroupName       *string
	StartDate       time.Time
	MonthlyAmount   decimal.Decimal
	DurationMonths  int
	Note            *string
	Actor           *string
}

func (s *SchemeService) Create(ctx context.Context, in CreateSchemeInput, today time.Time) (*m.SchemeModel, error) {
	duration := in.DurationMonths
	if duration == 0 {
		duration = m.DefaultDurationMonths
	}
	if duration != m.DefaultDurationMonths && !s.allowCustomDuration {
		return nil, ErrDurationFixed
	}

	id := uuid.New()
	payments, err := GenerateSchedule(id, in.StartDate, in.MonthlyAmount, duration, today)
	if err != nil {
		return nil, err
	}

	groupName, groupKey := helper.GroupKeyPtr(in.GroupName)
	sc := &m.SchemeModel{
		SchemeID:                id,
		SchemeCustomerName:      strings.TrimSpace(in.CustomerName),
		SchemeCustomerPhone:     trimPtr(in.CustomerPhone),
		SchemeCustomerAddress:   trimPtr(in.CustomerAddress),
		SchemeCustomerGroupName: groupName,
		SchemeCustomerGroupKey:  groupKey,
		SchemeStartDate:         dbtime.DateOnly(in.StartDate),
		SchemeMonthlyAmount:     in.MonthlyAmount,
		SchemeDurationMonths:    duration,
		SchemeNote:              trimPtr(in.Note),
		Payments:                payments,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("create scheme: %w", err)
	}
	s.event(ctx, sc.SchemeID, m.EventCreated, in.Actor, map[string]any{
		"start_date":      dbtime.FormatDate(sc.SchemeStartDate, dbtime.DateLayout),
		"monthly_amount":  sc.SchemeMonthlyAmount.String(),
		"duration_months": duration,
	})
	return s.Get(ctx, sc.SchemeID, today)
}

/* ======================= READ ======================= */

func (s *SchemeService) Get(ctx context.Context, id uuid.UUID, today time.Time) (*m.SchemeModel, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Refresh(sc, today); err != nil {
		return nil, err
	}
	return sc, nil
}

type ListQuery struct {
	Statuses        []m.SchemeStatus
	GroupKey        *string
	Search          string
	IncludeArchived bool
	SortBy          string // created_at | start_date | customer_name | total_remaining
	SortOrder       string // asc | desc
	Offset          int
	Limit           int // 0 = no limit
}

// List derives every candidate's status before filtering, since status is not a column.
func (s *SchemeService) List(ctx context.Context, q ListQuery, today time.Time) ([]m.SchemeModel, int64, error) {
	f := repository.ListFilter{GroupKey: q.GroupKey, Search: q.Search, Trash: repository.TrashExclude}
	wantStatus := make(map[m.SchemeStatus]bool, len(q.Statuses))
	for _, st := range q.Statuses {
		wantStatus[st] = true
	}
	if wantStatus[m.SchemeTrashed] {
		f.Trash = repository.TrashInclude
		if len(wantStatus) == 1 {
			f.Trash = repository.TrashOnly
		}
	}

	all, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if err := RefreshAll(all, today); err != nil {
		return nil, 0, err
	}

	out := all[:0]
	for _, sc := range all {
		switch {
		case len(wantStatus) > 0:
			if !wantStatus[sc.SchemeStatus] {
				continue
			}
		case sc.SchemeStatus == m.SchemeArchived && !q.IncludeArchived:
			continue
		}
		out = append(out, sc)
	}

	sortSchemes(out, q.SortBy, q.SortOrder)

	total := int64(len(out))
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			out = out[:0]
		} else {
			out = out[q.Offset:]
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, total, nil
}

func sortSchemes(list []m.SchemeModel, by, order string) {
	asc := strings.EqualFold(order, "asc")
	less := func(i, j int) bool {
		a, b := list[i], list[j]
		switch by {
		case "start_date":
			return a.SchemeStartDate.Before(b.SchemeStartDate)
		case "customer_name":
			return strings.ToLower(a.SchemeCustomerName) < strings.ToLower(b.SchemeCustomerName)
		case "total_remaining":
			return a.SchemeTotalRemaining.LessThan(b.SchemeTotalRemaining)
		default:
			return a.SchemeCreatedAt.Before(b.SchemeCreatedAt)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if asc {
			return less(i, j)
		}
		return less(j, i)
	})
}

func (s *SchemeService) Events(ctx context.Context, id uuid.UUID) ([]m.SchemeEventModel, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, id)
}

/* ======================= UPDATE ======================= */

type UpdateDetailsInput struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerAddress *string
	GroupName       *string
	ClearGroup      bool
	Note            *string
}

func (s *SchemeService) UpdateDetails(ctx context.Context, id uuid.UUID, in UpdateDetailsInput, today time.Time) (*m.SchemeModel, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CustomerName != nil {
		sc.SchemeCustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.CustomerPhone != nil {
		sc.SchemeCustomerPhone = trimPtr(in.CustomerPhone)
	}
	if in.CustomerAddress != nil {
		sc.SchemeCustomerAddress = trimPtr(in.CustomerAddress)
	}
	if in.ClearGroup {
		sc.SchemeCustomerGroupName, sc.SchemeCustomerGroupKey = nil, nil
	} else if in.GroupName != nil {
		sc.SchemeCustomerGroupName, sc.SchemeCustomerGroupKey = helper.GroupKeyPtr(in.GroupName)
	}
	if in.Note != nil {
		sc.SchemeNote = trimPtr(in.Note)
	}
	if err := s.repo.UpdateDetails(ctx, sc); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, today)
}

/* ======================= PAYMENTS ======================= */

type RecordPaymentInput struct {
	AmountPaid  decimal.Decimal
	PaymentDate *time.Time
	Modes       []string
	Note        *string
	Actor       *string
}

func (s *SchemeService) RecordPayment(ctx context.Context, id uuid.UUID, month int, in RecordPaymentInput, today time.Time) (*m.SchemeModel, error) {
	sc, p, err := s.editablePayment(ctx, id, month)
	if err != nil {
		return nil, err
	}
	if !in.AmountPaid.IsPositive() {
		return nil, ErrInvalidAmount
	}
	paidOn := dbtime.DateOnly(today)
	if in.PaymentDate != nil {
		paidOn = dbtime.DateOnly(*in.PaymentDate)
		if paidOn.After(dbtime.DateOnly(today)) {
			return nil, ErrFutureDate
		}
	}

	amount := in.AmountPaid
	p.PaymentAmountPaid = &amount
	p.PaymentDate = &paidOn
	p.PaymentModes = dedupeModes(in.Modes)
	if in.Note != nil {
		p.PaymentNote = trimPtr(in.Note)
	}
	if err := s.repo.SavePayment(ctx, p); err != nil {
		return nil, err
	}
	s.event(ctx, sc.SchemeID, m.EventPaymentRecorded, in.Actor, map[string]any{
		"month_number": month,
		"amount_paid":  amount.String(),
		"payment_date": dbtime.FormatDate(paidOn, dbtime.DateLayout),
		"modes":        []string(p.PaymentModes),
	})
	return s.Get(ctx, id, today)
}

func (s *SchemeService) ClearPayment(ctx context.Context, id uuid.UUID, month int, actor *string, today time.Time) (*m.SchemeModel, error) {
	sc, p, err := s.editablePayment(ctx, id, month)
	if err != nil {
		return nil, err
	}
	p.PaymentAmountPaid = nil
	p.PaymentDate = nil
	p.PaymentModes = nil
	if err := s.repo.SavePayment(ctx, p); err != nil {
		return nil, err
	}
	s.event(ctx, sc.SchemeID, m.EventPaymentCleared, actor, map[string]any{"month_number": month})
	return s.Get(ctx, id, today)
}

// SetPaymentArchived toggles the payment-level archive marker; independent of scheme archival.
func (s *SchemeService) SetPaymentArchived(ctx context.Context, id uuid.UUID, month int, archived bool, today time.Time) (*m.SchemeModel, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := findPayment(sc, month)
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	p.PaymentIsArchived = archived
	if archived {
		day := dbtime.DateOnly(today)
		p.PaymentArchivedDate = &day
	} else {
		p.PaymentArchivedDate = nil
	}
	if err := s.repo.SavePayment(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, today)
}

func (s *SchemeService) editablePayment(ctx context.Context, id uuid.UUID, month int) (*m.SchemeModel, *m.PaymentModel, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sc.SchemeIsTrashed || sc.SchemeLifecycle != m.LifecycleOpen {
		return nil, nil, ErrSchemeLocked
	}
	p := findPayment(sc, month)
	if p == nil {
		return nil, nil, ErrPaymentNotFound
	}
	return sc, p, nil
}

func findPayment(sc *m.SchemeModel, month int) *m.PaymentModel {
	for i := range sc.Payments {
		if sc.Payments[i].PaymentMonthNumber == month {
			return &sc.Payments[i]
		}
	}
	return nil
}

func dedupeModes(in []string) pq.StringArray {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := pq.StringArray{}
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

/* ======================= LIFECYCLE ======================= */

// Close marks the scheme closed on closureDate (defaults to today).
func (s *SchemeService) Close(ctx context.Context, id uuid.UUID, closureDate *time.Time, actor *string, today time.Time) (*m.SchemeModel, error) {
	day := dbtime.DateOnly(today)
	on := day
	if closureDate != nil {
		on = dbtime.DateOnly(*closureDate)
		if on.After(day) {
			return nil, ErrFutureDate
		}
	}
	return s.transition(ctx, id, m.EventClosed, actor, today, func(sc *m.SchemeModel, p *m.LifecyclePatch) error {
		if sc.SchemeIsTrashed || sc.SchemeLifecycle != m.LifecycleOpen {
			return ErrInvalidTransition
		}
		p.Lifecycle = m.LifecycleClosed
		p.ClosureDate = &on
		return nil
	})
}

func (s *SchemeService) Reopen(ctx context.Context, id uuid.UUID, actor *string, today time.Time) (*m.SchemeModel, error) {
	return s.transition(ctx, id, m.EventReopened, actor, today, func(sc *m.SchemeModel, p *m.LifecyclePatch) error {
		if sc.SchemeIsTrashed || sc.SchemeLifecycle != m.LifecycleClosed {
			return ErrInvalidTransition
		}
		p.Lifecycle = m.LifecycleOpen
		p.ClosureDate = nil
		return nil
	})
}

func (s *SchemeService) Archive(ctx context.Context, id uuid.UUID, actor *string, today time.Time) (*m.SchemeModel, error) {
	day := dbtime.DateOnly(today)
	return s.transition(ctx, id, m.EventArchived, actor, today, func(sc *m.SchemeModel, p *m.LifecyclePatch) error {
		if sc.SchemeIsTrashed || sc.SchemeLifecycle == m.LifecycleArchived {
			return ErrInvalidTransition
		}
		p.Lifecycle = m.LifecycleArchived
		p.ArchivedDate = &day
		return nil
	})
}

// Unarchive reopens the scheme; the closure date is cleared so the sweep does not pick it up again.
func (s *SchemeService) Unarchive(ctx context.Context, id uuid.UUID, actor *string, today time.Time) (*m.SchemeModel, error) {
	return s.transition(ctx, id, m.EventUnarchived, actor, today, func(sc *m.SchemeModel, p *m.LifecyclePatch) error {
		if sc.SchemeIsTrashed || sc.SchemeLifecycle != m.LifecycleArchived {
			return ErrInvalidTransition
		}
		p.Lifecycle = m.LifecycleOpen
		p.ClosureDate = nil
		p.ArchivedDate = nil
		return nil
	})
}

func (s *SchemeService) Trash(ctx context.Context, id uuid.UUID, actor *string, today time.Time) (*m.SchemeModel, error) {
	now := time.Now()
	return s.transition(ctx, id, m.EventTrashed, actor, today, func(sc *m.SchemeModel, p *m.LifecyclePatch) error {
		if sc.SchemeIsTrashed {
			return ErrInvalidTransition
		}
		p.IsTrashed = true
		p.TrashedAt = &now
		return nil
	})
}

func (s *SchemeService) Restore(ctx context.Context, id uuid.UUID, actor *string, today time.Time) (*m.SchemeModel, error) {
	return s.transition(ctx, id, m.EventRestored, actor, today, func(sc *m.SchemeModel, p *m.LifecyclePatch) error {
		if !sc.SchemeIsTrashed {
			return ErrInvalidTransition
		}
		p.IsTrashed = false
		p.TrashedAt = nil
		return nil
	})
}

func (s *SchemeService) DeletePermanent(ctx context.Context, id uuid.UUID) error {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !sc.SchemeIsTrashed {
		return ErrNotTrashed
	}
	return s.repo.Delete(ctx, id)
}

func (s *SchemeService) transition(
	ctx context.Context,
	id uuid.UUID,
	kind string,
	actor *string,
	today time.Time,
	apply func(sc *m.SchemeModel, p *m.LifecyclePatch) error,
) (*m.SchemeModel, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := sc.Lifecycle()
	if err := apply(sc, &patch); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLifecycle(ctx, id, patch); err != nil {
		return nil, err
	}
	s.event(ctx, id, kind, actor, map[string]any{
		"lifecycle":     string(patch.Lifecycle),
		"closure_date":  dbtime.FormatDatePtr(patch.ClosureDate, dbtime.DateLayout),
		"archived_date": dbtime.FormatDatePtr(patch.ArchivedDate, dbtime.DateLayout),
		"is_trashed":    patch.IsTrashed,
	})
	return s.Get(ctx, id, today)
}

func (s *SchemeService) event(ctx context.Context, id uuid.UUID, kind string, actor *string, payload map[string]any) {
	ev := m.NewSchemeEvent(id, kind, payload, time.Now())
	ev.SchemeEventActor = actor
	if err := s.repo.AppendEvent(ctx, ev); err != nil {
		s.log.Warn("event not recorded", zap.String("scheme_id", id.String()), zap.String("kind", kind), zap.Error(err))
	}
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
