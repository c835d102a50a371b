package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/helpers/dbtime"
)

var ErrSweepInProgress = errors.New("archive sweep already running")

// ArchiveStore is the slice of the scheme store the sweep needs.
type ArchiveStore interface {
	ListClosed(ctx context.Context) ([]m.SchemeModel, error)
	UpdateLifecycle(ctx context.Context, id uuid.UUID, patch m.LifecyclePatch) error
}

// EventRecorder is optional; stores that implement it get an auto_archived event per scheme.
type EventRecorder interface {
	AppendEvent(ctx context.Context, ev *m.SchemeEventModel) error
}

type SweepFailure struct {
	SchemeID uuid.UUID `json:"scheme_id"`
	Error    string    `json:"error"`
}

type SweepResult struct {
	ArchivedCount int            `json:"archived_count"`
	ArchivedIDs   []uuid.UUID    `json:"archived_ids"`
	Skipped       int            `json:"skipped"`
	Failed        []SweepFailure `json:"failed,omitempty"`
	RanAt         time.Time      `json:"ran_at"`
}

type Sweeper struct {
	store ArchiveStore
	log   *zap.Logger
	mu    sync.Mutex
}

func NewSweeper(store ArchiveStore, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{store: store, log: log.Named("archive-sweep")}
}

// Run archives every closed scheme whose closure date is at least graceDays before today.
// A concurrent call returns ErrSweepInProgress. Store write failures are logged and
// reported in the result; they never stop the remaining iterations.
func (s *Sweeper) Run(ctx context.Context, graceDays int, today time.Time) (SweepResult, error) {
	if !s.mu.TryLock() {
		return SweepResult{}, ErrSweepInProgress
	}
	defer s.mu.Unlock()

	day := dbtime.DateOnly(today)
	res := SweepResult{ArchivedIDs: []uuid.UUID{}, RanAt: day}

	closed, err := s.store.ListClosed(ctx)
	if err != nil {
		return res, err
	}

	for _, sc := range closed {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !eligibleForArchive(sc, graceDays, day) {
			res.Skipped++
			continue
		}

		patch := sc.Lifecycle()
		patch.Lifecycle = m.LifecycleArchived
		archivedOn := day
		patch.ArchivedDate = &archivedOn

		if err := s.store.UpdateLifecycle(ctx, sc.SchemeID, patch); err != nil {
			s.log.Error("archive failed", zap.String("scheme_id", sc.SchemeID.String()), zap.Error(err))
			res.Failed = append(res.Failed, SweepFailure{SchemeID: sc.SchemeID, Error: err.Error()})
			continue
		}
		res.ArchivedCount++
		res.ArchivedIDs = append(res.ArchivedIDs, sc.SchemeID)

		if rec, ok := s.store.(EventRecorder); ok {
			ev := m.NewSchemeEvent(sc.SchemeID, m.EventAutoArchived, map[string]any{
				"closure_date": dbtime.FormatDatePtr(sc.SchemeClosureDate, dbtime.DateLayout),
				"grace_days":   graceDays,
			}, time.Now())
			if err := rec.AppendEvent(ctx, ev); err != nil {
				s.log.Warn("archive event not recorded", zap.String("scheme_id", sc.SchemeID.String()), zap.Error(err))
			}
		}
	}

	s.log.Info("sweep done",
		zap.Int("archived", res.ArchivedCount),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failed)),
		zap.Int("grace_days", graceDays),
	)
	return res, nil
}

func eligibleForArchive(sc m.SchemeModel, graceDays int, day time.Time) bool {
	if sc.SchemeIsTrashed || sc.SchemeLifecycle != m.LifecycleClosed || sc.SchemeClosureDate == nil {
		return false
	}
	return dbtime.DaysBetween(*sc.SchemeClosureDate, day) >= graceDays
}
