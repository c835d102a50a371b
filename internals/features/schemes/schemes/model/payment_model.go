package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PaymentModel struct {
	// "<scheme_id>-<month_number>"
	PaymentID string `gorm:"column:payment_id;type:varchar(64);primaryKey" json:"payment_id"`

	PaymentSchemeID    uuid.UUID `gorm:"column:payment_scheme_id;type:uuid;not null;uniqueIndex:uq_payments_scheme_month,priority:1" json:"payment_scheme_id"`
	PaymentMonthNumber int       `gorm:"column:payment_month_number;not null;uniqueIndex:uq_payments_scheme_month,priority:2" json:"payment_month_number"`

	PaymentDueDate        time.Time        `gorm:"column:payment_due_date;type:date;not null" json:"payment_due_date"`
	PaymentDate           *time.Time       `gorm:"column:payment_date;type:date" json:"payment_date,omitempty"`
	PaymentAmountExpected decimal.Decimal  `gorm:"column:payment_amount_expected;type:numeric(14,2);not null" json:"payment_amount_expected"`
	PaymentAmountPaid     *decimal.Decimal `gorm:"column:payment_amount_paid;type:numeric(14,2)" json:"payment_amount_paid,omitempty"`
	PaymentModes          pq.StringArray   `gorm:"column:payment_modes;type:text[]" json:"payment_modes,omitempty"`
	PaymentNote           *string          `gorm:"column:payment_note;type:text" json:"payment_note,omitempty"`

	PaymentIsArchived   bool       `gorm:"column:payment_is_archived;not null;default:false" json:"payment_is_archived"`
	PaymentArchivedDate *time.Time `gorm:"column:payment_archived_date;type:date" json:"payment_archived_date,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`

	// Derived on read
	PaymentStatus PaymentStatus `gorm:"-" json:"payment_status"`
}

func (PaymentModel) TableName() string { return "payments" }

func PaymentIDFor(schemeID uuid.UUID, month int) string {
	return fmt.Sprintf("%s-%d", schemeID, month)
}

func (p PaymentModel) Clone() PaymentModel {
	out := p
	out.PaymentDate = clonePtr(p.PaymentDate)
	out.PaymentAmountPaid = clonePtr(p.PaymentAmountPaid)
	out.PaymentNote = clonePtr(p.PaymentNote)
	out.PaymentArchivedDate = clonePtr(p.PaymentArchivedDate)
	if p.PaymentModes != nil {
		out.PaymentModes = append(pq.StringArray(nil), p.PaymentModes...)
	}
	return out
}
