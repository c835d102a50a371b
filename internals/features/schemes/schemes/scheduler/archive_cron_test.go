package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/features/schemes/schemes/repository"
	"schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

func TestMain(mt *testing.M) {
	goleak.VerifyTestMain(mt)
}

func closed(on time.Time) m.SchemeModel {
	return m.SchemeModel{
		SchemeID:             uuid.New(),
		SchemeCustomerName:   "Closed Customer",
		SchemeStartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		SchemeMonthlyAmount:  decimal.NewFromInt(100),
		SchemeDurationMonths: 12,
		SchemeLifecycle:      m.LifecycleClosed,
		SchemeClosureDate:    &on,
	}
}

func TestArchiveScheduler_RunsOnStart(t *testing.T) {
	old := closed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	recent := closed(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	repo := repository.NewMemorySchemeRepository(old, recent)

	today := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s := NewArchiveScheduler(ArchiveConfig{
		Schedule:   "@every 1h",
		GraceDays:  30,
		RunOnStart: true,
	}, service.NewSweeper(repo, nil), dbtime.FixedClock(today), nil)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	got, err := repo.GetByID(context.Background(), old.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, m.LifecycleArchived, got.SchemeLifecycle)
	require.NotNil(t, got.SchemeArchivedDate)
	assert.Equal(t, today, *got.SchemeArchivedDate)

	got, err = repo.GetByID(context.Background(), recent.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, m.LifecycleClosed, got.SchemeLifecycle)
}

func TestArchiveScheduler_StopRightAfterStartCompletesStartupSweep(t *testing.T) {
	for i := 0; i < 20; i++ {
		list := make([]m.SchemeModel, 0, 50)
		for j := 0; j < 50; j++ {
			list = append(list, closed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
		}
		repo := repository.NewMemorySchemeRepository(list...)

		s := NewArchiveScheduler(ArchiveConfig{Schedule: "@every 1h", GraceDays: 0, RunOnStart: true},
			service.NewSweeper(repo, nil), dbtime.FixedClock(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)), nil)
		require.NoError(t, s.Start(context.Background()))
		s.Stop()

		left, err := repo.ListClosed(context.Background())
		require.NoError(t, err)
		require.Empty(t, left, "iteration %d", i)
	}
}

func TestArchiveScheduler_NoStartupRun(t *testing.T) {
	sc := closed(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := repository.NewMemorySchemeRepository(sc)

	s := NewArchiveScheduler(ArchiveConfig{Schedule: "10 0 * * *", GraceDays: 0},
		service.NewSweeper(repo, nil), dbtime.FixedClock(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)), nil)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	got, err := repo.GetByID(context.Background(), sc.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, m.LifecycleClosed, got.SchemeLifecycle)
}

func TestArchiveScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewArchiveScheduler(ArchiveConfig{Schedule: "every now and then"},
		service.NewSweeper(repository.NewMemorySchemeRepository(), nil), nil, nil)
	assert.Error(t, s.Start(context.Background()))
}
