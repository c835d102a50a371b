package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"schemetrack_backend/internals/features/schemes/groups/model"
)

var (
	ErrNotFound  = errors.New("group not found")
	ErrDuplicate = errors.New("group name already exists")
)

type GroupRepository interface {
	List(ctx context.Context, includeArchived bool) ([]model.GroupModel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.GroupModel, error)
	GetByKey(ctx context.Context, key string) (*model.GroupModel, error)
	Create(ctx context.Context, g *model.GroupModel) error
	Update(ctx context.Context, g *model.GroupModel) error
	Delete(ctx context.Context, id uuid.UUID) error
}
