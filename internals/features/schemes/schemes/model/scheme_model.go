package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SchemeModel struct {
	SchemeID uuid.UUID `gorm:"column:scheme_id;type:uuid;primaryKey" json:"scheme_id"`

	// Customer
	SchemeCustomerName    string  `gorm:"column:scheme_customer_name;type:text;not null" json:"scheme_customer_name"`
	SchemeCustomerPhone   *string `gorm:"column:scheme_customer_phone;type:varchar(32)" json:"scheme_customer_phone,omitempty"`
	SchemeCustomerAddress *string `gorm:"column:scheme_customer_address;type:text" json:"scheme_customer_address,omitempty"`

	// Group label (free text) + normalized key used for lookups
	SchemeCustomerGroupName *string `gorm:"column:scheme_customer_group_name;type:text" json:"scheme_customer_group_name,omitempty"`
	SchemeCustomerGroupKey  *string `gorm:"column:scheme_customer_group_key;type:text;index:idx_schemes_group_key" json:"-"`

	// Plan
	SchemeStartDate      time.Time       `gorm:"column:scheme_start_date;type:date;not null" json:"scheme_start_date"`
	SchemeMonthlyAmount  decimal.Decimal `gorm:"column:scheme_monthly_amount;type:numeric(14,2);not null" json:"scheme_monthly_amount"`
	SchemeDurationMonths int             `gorm:"column:scheme_duration_months;not null;default:12" json:"scheme_duration_months"`
	SchemeNote           *string         `gorm:"column:scheme_note;type:text" json:"scheme_note,omitempty"`

	// Stored lifecycle (closed/archived) + trash axis
	SchemeLifecycle    SchemeLifecycle `gorm:"column:scheme_lifecycle;type:varchar(16);not null;default:'';index:idx_schemes_lifecycle" json:"scheme_lifecycle,omitempty"`
	SchemeClosureDate  *time.Time      `gorm:"column:scheme_closure_date;type:date" json:"scheme_closure_date,omitempty"`
	SchemeArchivedDate *time.Time      `gorm:"column:scheme_archived_date;type:date" json:"scheme_archived_date,omitempty"`
	SchemeIsTrashed    bool            `gorm:"column:scheme_is_trashed;not null;default:false;index:idx_schemes_trashed" json:"scheme_is_trashed"`
	SchemeTrashedAt    *time.Time      `gorm:"column:scheme_trashed_at" json:"scheme_trashed_at,omitempty"`

	SchemeCreatedAt time.Time `gorm:"column:scheme_created_at;autoCreateTime" json:"scheme_created_at"`
	SchemeUpdatedAt time.Time `gorm:"column:scheme_updated_at;autoUpdateTime" json:"scheme_updated_at"`

	Payments []PaymentModel `gorm:"foreignKey:PaymentSchemeID;references:SchemeID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`

	// Derived on read (never stored)
	SchemeStatus         SchemeStatus    `gorm:"-" json:"scheme_status"`
	SchemeTotalExpected  decimal.Decimal `gorm:"-" json:"scheme_total_expected"`
	SchemeTotalCollected decimal.Decimal `gorm:"-" json:"scheme_total_collected"`
	SchemeTotalRemaining decimal.Decimal `gorm:"-" json:"scheme_total_remaining"`
	SchemePaymentsMade   int             `gorm:"-" json:"scheme_payments_made"`
}

func (SchemeModel) TableName() string { return "schemes" }

// LifecyclePatch carries every stored lifecycle column; updates write all of them.
type LifecyclePatch struct {
	Lifecycle    SchemeLifecycle
	ClosureDate  *time.Time
	ArchivedDate *time.Time
	IsTrashed    bool
	TrashedAt    *time.Time
}

func (s *SchemeModel) Lifecycle() LifecyclePatch {
	return LifecyclePatch{
		Lifecycle:    s.SchemeLifecycle,
		ClosureDate:  s.SchemeClosureDate,
		ArchivedDate: s.SchemeArchivedDate,
		IsTrashed:    s.SchemeIsTrashed,
		TrashedAt:    s.SchemeTrashedAt,
	}
}

func (s *SchemeModel) ApplyLifecycle(p LifecyclePatch) {
	s.SchemeLifecycle = p.Lifecycle
	s.SchemeClosureDate = p.ClosureDate
	s.SchemeArchivedDate = p.ArchivedDate
	s.SchemeIsTrashed = p.IsTrashed
	s.SchemeTrashedAt = p.TrashedAt
}

// Clone deep-copies the scheme, its pointer fields and its payments.
func (s SchemeModel) Clone() SchemeModel {
	out := s
	out.SchemeCustomerPhone = clonePtr(s.SchemeCustomerPhone)
	out.SchemeCustomerAddress = clonePtr(s.SchemeCustomerAddress)
	out.SchemeCustomerGroupName = clonePtr(s.SchemeCustomerGroupName)
	out.SchemeCustomerGroupKey = clonePtr(s.SchemeCustomerGroupKey)
	out.SchemeNote = clonePtr(s.SchemeNote)
	out.SchemeClosureDate = clonePtr(s.SchemeClosureDate)
	out.SchemeArchivedDate = clonePtr(s.SchemeArchivedDate)
	out.SchemeTrashedAt = clonePtr(s.SchemeTrashedAt)
	if s.Payments != nil {
		out.Payments = make([]PaymentModel, len(s.Payments))
		for i, p := range s.Payments {
			out.Payments[i] = p.Clone()
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
