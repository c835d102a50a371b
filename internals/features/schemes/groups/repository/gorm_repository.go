package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"schemetrack_backend/internals/features/schemes/groups/model"
)

type GormGroupRepository struct {
	DB *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{DB: db}
}

func (r *GormGroupRepository) List(ctx context.Context, includeArchived bool) ([]model.GroupModel, error) {
	q := r.DB.WithContext(ctx).Model(&model.GroupModel{})
	if !includeArchived {
		q = q.Where("group_is_archived = ?", false)
	}
	var list []model.GroupModel
	if err := q.Order("group_key ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GroupModel, error) {
	return r.first(ctx, "group_id = ?", id)
}

func (r *GormGroupRepository) GetByKey(ctx context.Context, key string) (*model.GroupModel, error) {
	return r.first(ctx, "group_key = ?", key)
}

func (r *GormGroupRepository) first(ctx context.Context, where string, arg any) (*model.GroupModel, error) {
	var g model.GroupModel
	if err := r.DB.WithContext(ctx).Where(where, arg).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GormGroupRepository) Create(ctx context.Context, g *model.GroupModel) error {
	if g.GroupID == uuid.Nil {
		g.GroupID = uuid.New()
	}
	return mapWriteErr(r.DB.WithContext(ctx).Create(g).Error)
}

func (r *GormGroupRepository) Update(ctx context.Context, g *model.GroupModel) error {
	res := r.DB.WithContext(ctx).Model(&model.GroupModel{}).
		Where("group_id = ?", g.GroupID).
		Updates(map[string]interface{}{
			"group_name":        g.GroupName,
			"group_key":         g.GroupKey,
			"group_is_archived": g.GroupIsArchived,
			"group_archived_at": g.GroupArchivedAt,
		})
	if err := mapWriteErr(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("group_id = ?", id).Delete(&model.GroupModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// mapWriteErr turns a unique violation on group_key into ErrDuplicate.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
