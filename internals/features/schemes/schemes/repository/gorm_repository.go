package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
)

type GormSchemeRepository struct {
	DB *gorm.DB
}

func NewGormSchemeRepository(db *gorm.DB) *GormSchemeRepository {
	return &GormSchemeRepository{DB: db}
}

func (r *GormSchemeRepository) withPayments(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("payment_month_number ASC")
	})
}

func (r *GormSchemeRepository) Find(ctx context.Context, f ListFilter) ([]m.SchemeModel, error) {
	q := r.withPayments(ctx).Model(&m.SchemeModel{})

	switch f.Trash {
	case TrashExclude:
		q = q.Where("scheme_is_trashed = ?", false)
	case TrashOnly:
		q = q.Where("scheme_is_trashed = ?", true)
	}
	if f.GroupKey != nil {
		q = q.Where("scheme_customer_group_key = ?", *f.GroupKey)
	}
	if f.Lifecycle != nil {
		q = q.Where("scheme_lifecycle = ?", string(*f.Lifecycle))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := fmt.Sprintf("%%%s%%", s)
		q = q.Where("(scheme_customer_name ILIKE ? OR scheme_customer_phone ILIKE ? OR scheme_customer_group_name ILIKE ?)", like, like, like)
	}

	var list []m.SchemeModel
	if err := q.Order("scheme_created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormSchemeRepository) ListClosed(ctx context.Context) ([]m.SchemeModel, error) {
	var list []m.SchemeModel
	err := r.DB.WithContext(ctx).
		Where("scheme_lifecycle = ? AND scheme_is_trashed = ? AND scheme_closure_date IS NOT NULL", string(m.LifecycleClosed), false).
		Order("scheme_closure_date ASC").
		Find(&list).Error
	return list, err
}

func (r *GormSchemeRepository) GetByID(ctx context.Context, id uuid.UUID) (*m.SchemeModel, error) {
	var row m.SchemeModel
	if err := r.withPayments(ctx).Where("scheme_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts the scheme and its payments in one transaction.
func (r *GormSchemeRepository) Create(ctx context.Context, s *m.SchemeModel) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.Payments
		if err := tx.Omit("Payments").Create(s).Error; err != nil {
			return err
		}
		if len(payments) > 0 {
			if err := tx.Create(&payments).Error; err != nil {
				return err
			}
		}
		s.Payments = payments
		return nil
	})
}

func (r *GormSchemeRepository) UpdateDetails(ctx context.Context, s *m.SchemeModel) error {
	res := r.DB.WithContext(ctx).Model(&m.SchemeModel{}).
		Where("scheme_id = ?", s.SchemeID).
		Updates(map[string]interface{}{
			"scheme_customer_name":       s.SchemeCustomerName,
			"scheme_customer_phone":      s.SchemeCustomerPhone,
			"scheme_customer_address":    s.SchemeCustomerAddress,
			"scheme_customer_group_name": s.SchemeCustomerGroupName,
			"scheme_customer_group_key":  s.SchemeCustomerGroupKey,
			"scheme_note":                s.SchemeNote,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormSchemeRepository) UpdateLifecycle(ctx context.Context, id uuid.UUID, p m.LifecyclePatch) error {
	res := r.DB.WithContext(ctx).Model(&m.SchemeModel{}).
		Where("scheme_id = ?", id).
		Updates(map[string]interface{}{
			"scheme_lifecycle":     string(p.Lifecycle),
			"scheme_closure_date":  p.ClosureDate,
			"scheme_archived_date": p.ArchivedDate,
			"scheme_is_trashed":    p.IsTrashed,
			"scheme_trashed_at":    p.TrashedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormSchemeRepository) SavePayment(ctx context.Context, p *m.PaymentModel) error {
	res := r.DB.WithContext(ctx).Model(&m.PaymentModel{}).
		Where("payment_id = ? AND payment_scheme_id = ?", p.PaymentID, p.PaymentSchemeID).
		Updates(map[string]interface{}{
			"payment_date":          p.PaymentDate,
			"payment_amount_paid":   p.PaymentAmountPaid,
			"payment_modes":         p.PaymentModes,
			"payment_note":          p.PaymentNote,
			"payment_is_archived":   p.PaymentIsArchived,
			"payment_archived_date": p.PaymentArchivedDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormSchemeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_scheme_id = ?", id).Delete(&m.PaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scheme_event_scheme_id = ?", id).Delete(&m.SchemeEventModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("scheme_id = ?", id).Delete(&m.SchemeModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormSchemeRepository) RenameGroup(ctx context.Context, oldKey, newName, newKey string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&m.SchemeModel{}).
		Where("scheme_customer_group_key = ?", oldKey).
		Updates(map[string]interface{}{
			"scheme_customer_group_name": newName,
			"scheme_customer_group_key":  newKey,
		})
	return res.RowsAffected, res.Error
}

func (r *GormSchemeRepository) AppendEvent(ctx context.Context, ev *m.SchemeEventModel) error {
	return r.DB.WithContext(ctx).Create(ev).Error
}

func (r *GormSchemeRepository) ListEvents(ctx context.Context, schemeID uuid.UUID) ([]m.SchemeEventModel, error) {
	var list []m.SchemeEventModel
	err := r.DB.WithContext(ctx).
		Where("scheme_event_scheme_id = ?", schemeID).
		Order("scheme_event_at ASC").
		Find(&list).Error
	return list, err
}

func (r *GormSchemeRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
