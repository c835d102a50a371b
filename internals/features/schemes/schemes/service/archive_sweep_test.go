package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/features/schemes/schemes/repository"
)

func closedScheme(t *testing.T, closedOn time.Time) m.SchemeModel {
	t.Helper()
	sc := newScheme(t, day(2023, 1, 1), 1000, 12, closedOn)
	sc.SchemeCreatedAt = closedOn
	sc.SchemeLifecycle = m.LifecycleClosed
	c := closedOn
	sc.SchemeClosureDate = &c
	return sc
}

func TestSweep_ArchivesAfterGracePeriod(t *testing.T) {
	ctx := context.Background()
	sc := closedScheme(t, day(2024, 1, 1))
	repo := repository.NewMemorySchemeRepository(sc)
	sw := NewSweeper(repo, nil)

	res, err := sw.Run(ctx, 60, day(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ArchivedCount)
	assert.Equal(t, []uuid.UUID{sc.SchemeID}, res.ArchivedIDs)

	got, err := repo.GetByID(ctx, sc.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, m.LifecycleArchived, got.SchemeLifecycle)
	require.NotNil(t, got.SchemeArchivedDate)
	assert.Equal(t, day(2024, 4, 1), *got.SchemeArchivedDate)
	assert.Equal(t, day(2024, 1, 1), *got.SchemeClosureDate)

	st, err := DeriveSchemeStatus(*got, day(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, m.SchemeArchived, st)

	events, err := repo.ListEvents(ctx, sc.SchemeID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, m.EventAutoArchived, events[0].SchemeEventKind)
}

func TestSweep_LeavesSchemesInsideGraceWindow(t *testing.T) {
	ctx := context.Background()
	sc := closedScheme(t, day(2024, 1, 1))
	repo := repository.NewMemorySchemeRepository(sc)

	res, err := NewSweeper(repo, nil).Run(ctx, 60, day(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ArchivedCount)
	assert.Equal(t, 1, res.Skipped)

	got, err := repo.GetByID(ctx, sc.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, m.LifecycleClosed, got.SchemeLifecycle)
	assert.Nil(t, got.SchemeArchivedDate)
}

func TestSweep_BoundaryIsInclusive(t *testing.T) {
	sc := closedScheme(t, day(2024, 1, 1))
	repo := repository.NewMemorySchemeRepository(sc)

	res, err := NewSweeper(repo, nil).Run(context.Background(), 31, day(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.ArchivedCount)
}

func TestSweep_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySchemeRepository(
		closedScheme(t, day(2024, 1, 1)),
		closedScheme(t, day(2024, 1, 10)),
		closedScheme(t, day(2024, 3, 25)),
	)
	sw := NewSweeper(repo, nil)

	first, err := sw.Run(ctx, 60, day(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, first.ArchivedCount)

	second, err := sw.Run(ctx, 60, day(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, second.ArchivedCount)
	assert.Equal(t, 1, second.Skipped)
}

func TestSweep_IgnoresOpenArchivedTrashedAndUndated(t *testing.T) {
	ctx := context.Background()
	today := day(2024, 6, 1)

	open := newScheme(t, day(2023, 1, 1), 100, 12, today)

	archived := closedScheme(t, day(2024, 1, 1))
	archived.SchemeLifecycle = m.LifecycleArchived
	was := day(2024, 2, 1)
	archived.SchemeArchivedDate = &was

	trashed := closedScheme(t, day(2024, 1, 1))
	trashed.SchemeIsTrashed = true

	undated := closedScheme(t, day(2024, 1, 1))
	undated.SchemeClosureDate = nil

	repo := repository.NewMemorySchemeRepository(open, archived, trashed, undated)
	res, err := NewSweeper(repo, nil).Run(ctx, 0, today)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ArchivedCount)

	got, err := repo.GetByID(ctx, archived.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, was, *got.SchemeArchivedDate, "already archived scheme keeps its archive date")

	got, err = repo.GetByID(ctx, trashed.SchemeID)
	require.NoError(t, err)
	assert.Equal(t, m.LifecycleClosed, got.SchemeLifecycle)
}

type mockArchiveStore struct {
	mock.Mock
}

func (s *mockArchiveStore) ListClosed(ctx context.Context) ([]m.SchemeModel, error) {
	args := s.Called(ctx)
	list, _ := args.Get(0).([]m.SchemeModel)
	return list, args.Error(1)
}

func (s *mockArchiveStore) UpdateLifecycle(ctx context.Context, id uuid.UUID, patch m.LifecyclePatch) error {
	args := s.Called(ctx, id, patch)
	return args.Error(0)
}

func TestSweep_WriteFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	a := closedScheme(t, day(2024, 1, 1))
	b := closedScheme(t, day(2024, 1, 2))
	c := closedScheme(t, day(2024, 1, 3))

	store := new(mockArchiveStore)
	store.On("ListClosed", mock.Anything).Return([]m.SchemeModel{a, b, c}, nil)
	store.On("UpdateLifecycle", mock.Anything, a.SchemeID, mock.Anything).Return(nil)
	store.On("UpdateLifecycle", mock.Anything, b.SchemeID, mock.Anything).Return(errors.New("connection reset"))
	store.On("UpdateLifecycle", mock.Anything, c.SchemeID, mock.MatchedBy(func(p m.LifecyclePatch) bool {
		return p.Lifecycle == m.LifecycleArchived && p.ArchivedDate != nil && p.ArchivedDate.Equal(day(2024, 4, 1))
	})).Return(nil)

	res, err := NewSweeper(store, nil).Run(ctx, 60, day(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, res.ArchivedCount)
	assert.ElementsMatch(t, []uuid.UUID{a.SchemeID, c.SchemeID}, res.ArchivedIDs)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, b.SchemeID, res.Failed[0].SchemeID)
	assert.Contains(t, res.Failed[0].Error, "connection reset")
	store.AssertExpectations(t)
}

func TestSweep_ListFailureIsReturned(t *testing.T) {
	store := new(mockArchiveStore)
	store.On("ListClosed", mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewSweeper(store, nil).Run(context.Background(), 30, day(2024, 4, 1))
	assert.EqualError(t, err, "db down")
	store.AssertNotCalled(t, "UpdateLifecycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_RejectsConcurrentRun(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	store := new(mockArchiveStore)
	store.On("ListClosed", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]m.SchemeModel{}, nil).Once()

	sw := NewSweeper(store, nil)
	done := make(chan error, 1)
	go func() {
		_, err := sw.Run(ctx, 30, day(2024, 4, 1))
		done <- err
	}()

	<-entered
	_, err := sw.Run(ctx, 30, day(2024, 4, 1))
	assert.ErrorIs(t, err, ErrSweepInProgress)

	close(release)
	require.NoError(t, <-done)
}
