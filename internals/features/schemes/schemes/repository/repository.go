package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
)

var ErrNotFound = errors.New("scheme not found")

type TrashFilter int

const (
	TrashExclude TrashFilter = iota
	TrashOnly
	TrashInclude
)

type ListFilter struct {
	GroupKey  *string
	Search    string
	Trash     TrashFilter
	Lifecycle *m.SchemeLifecycle
}

// SchemeRepository is the record store for schemes and their owned payments.
// Reads always return payments ordered by month number.
type SchemeRepository interface {
	Find(ctx context.Context, f ListFilter) ([]m.SchemeModel, error)
	ListClosed(ctx context.Context) ([]m.SchemeModel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*m.SchemeModel, error)

	Create(ctx context.Context, s *m.SchemeModel) error
	UpdateDetails(ctx context.Context, s *m.SchemeModel) error
	UpdateLifecycle(ctx context.Context, id uuid.UUID, patch m.LifecyclePatch) error
	SavePayment(ctx context.Context, p *m.PaymentModel) error
	Delete(ctx context.Context, id uuid.UUID) error

	RenameGroup(ctx context.Context, oldKey, newName, newKey string) (int64, error)

	AppendEvent(ctx context.Context, ev *m.SchemeEventModel) error
	ListEvents(ctx context.Context, schemeID uuid.UUID) ([]m.SchemeEventModel, error)

	Ping(ctx context.Context) error
}
