package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

// ====================
// Request DTO
// ====================

type CreateSchemeRequest struct {
	CustomerName      string          `json:"customer_name" validate:"required,max=200"`
	CustomerPhone     *string         `json:"customer_phone" validate:"omitempty,max=32"`
	CustomerAddress   *string         `json:"customer_address" validate:"omitempty,max=500"`
	CustomerGroupName *string         `json:"customer_group_name" validate:"omitempty,max=120"`
	StartDate         string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	MonthlyAmount     decimal.Decimal `json:"monthly_amount"`
	DurationMonths    int             `json:"duration_months" validate:"omitempty,min=1,max=120"`
	Note              *string         `json:"note" validate:"omitempty,max=1000"`
}

func (r CreateSchemeRequest) ToInput(actor *string) (service.CreateSchemeInput, error) {
	start, err := dbtime.ParseDate(r.StartDate)
	if err != nil {
		return service.CreateSchemeInput{}, err
	}
	return service.CreateSchemeInput{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		GroupName:       r.CustomerGroupName,
		StartDate:       start,
		MonthlyAmount:   r.MonthlyAmount,
		DurationMonths:  r.DurationMonths,
		Note:            r.Note,
		Actor:           actor,
	}, nil
}

type UpdateSchemeRequest struct {
	CustomerName      *string `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerPhone     *string `json:"customer_phone" validate:"omitempty,max=32"`
	CustomerAddress   *string `json:"customer_address" validate:"omitempty,max=500"`
	CustomerGroupName *string `json:"customer_group_name" validate:"omitempty,max=120"`
	ClearGroup        bool    `json:"clear_group"`
	Note              *string `json:"note" validate:"omitempty,max=1000"`
}

func (r UpdateSchemeRequest) ToInput() service.UpdateDetailsInput {
	return service.UpdateDetailsInput{
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		GroupName:       r.CustomerGroupName,
		ClearGroup:      r.ClearGroup,
		Note:            r.Note,
	}
}

type RecordPaymentRequest struct {
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentDate   *string         `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	ModeOfPayment []string        `json:"mode_of_payment" validate:"omitempty,dive,oneof=cash bank_transfer upi card cheque other"`
	Note          *string         `json:"note" validate:"omitempty,max=500"`
}

func (r RecordPaymentRequest) ToInput(actor *string) (service.RecordPaymentInput, error) {
	in := service.RecordPaymentInput{
		AmountPaid: r.AmountPaid,
		Modes:      r.ModeOfPayment,
		Note:       r.Note,
		Actor:      actor,
	}
	if r.PaymentDate != nil && strings.TrimSpace(*r.PaymentDate) != "" {
		d, err := dbtime.ParseDate(*r.PaymentDate)
		if err != nil {
			return in, err
		}
		in.PaymentDate = &d
	}
	return in, nil
}

type CloseSchemeRequest struct {
	ClosureDate *string `json:"closure_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r CloseSchemeRequest) Date() (*time.Time, error) {
	if r.ClosureDate == nil || strings.TrimSpace(*r.ClosureDate) == "" {
		return nil, nil
	}
	d, err := dbtime.ParseDate(*r.ClosureDate)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ====================
// Response DTO
// ====================

type PaymentDTO struct {
	PaymentID      string           `json:"payment_id"`
	MonthNumber    int              `json:"month_number"`
	DueDate        string           `json:"due_date"`
	PaymentDate    *string          `json:"payment_date,omitempty"`
	AmountExpected decimal.Decimal  `json:"amount_expected"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
	Status         string           `json:"status"`
	ModeOfPayment  []string         `json:"mode_of_payment"`
	Note           *string          `json:"note,omitempty"`
	IsArchived     bool             `json:"is_archived"`
	ArchivedDate   *string          `json:"archived_date,omitempty"`
}

type SchemeDTO struct {
	SchemeID          uuid.UUID       `json:"scheme_id"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     *string         `json:"customer_phone,omitempty"`
	CustomerAddress   *string         `json:"customer_address,omitempty"`
	CustomerGroupName *string         `json:"customer_group_name,omitempty"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	MonthlyAmount     decimal.Decimal `json:"monthly_payment_amount"`
	DurationMonths    int             `json:"duration_months"`
	Note              *string         `json:"note,omitempty"`
	Status            string          `json:"status"`
	ClosureDate       *string         `json:"closure_date,omitempty"`
	ArchivedDate      *string         `json:"archived_date,omitempty"`
	IsTrashed         bool            `json:"is_trashed"`
	TrashedAt         *time.Time      `json:"trashed_at,omitempty"`
	TotalExpected     decimal.Decimal `json:"total_expected"`
	TotalCollected    decimal.Decimal `json:"total_collected"`
	TotalRemaining    decimal.Decimal `json:"total_remaining"`
	PaymentsMade      int             `json:"payments_made_count"`
	Payments          []PaymentDTO    `json:"payments,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dbtime.FormatDate(*t, dbtime.DateLayout)
	return &s
}

func ToPaymentDTO(p model.PaymentModel) PaymentDTO {
	modes := []string(p.PaymentModes)
	if modes == nil {
		modes = []string{}
	}
	return PaymentDTO{
		PaymentID:      p.PaymentID,
		MonthNumber:    p.PaymentMonthNumber,
		DueDate:        dbtime.FormatDate(p.PaymentDueDate, dbtime.DateLayout),
		PaymentDate:    datePtr(p.PaymentDate),
		AmountExpected: p.PaymentAmountExpected,
		AmountPaid:     p.PaymentAmountPaid,
		Status:         string(p.PaymentStatus),
		ModeOfPayment:  modes,
		Note:           p.PaymentNote,
		IsArchived:     p.PaymentIsArchived,
		ArchivedDate:   datePtr(p.PaymentArchivedDate),
	}
}

// ToSchemeDTO expects a refreshed scheme. withPayments adds the schedule.
func ToSchemeDTO(s model.SchemeModel, withPayments bool) SchemeDTO {
	end := ""
	if s.SchemeDurationMonths > 0 {
		end = dbtime.FormatDate(dbtime.AddMonths(s.SchemeStartDate, s.SchemeDurationMonths-1), dbtime.DateLayout)
	}
	out := SchemeDTO{
		SchemeID:          s.SchemeID,
		CustomerName:      s.SchemeCustomerName,
		CustomerPhone:     s.SchemeCustomerPhone,
		CustomerAddress:   s.SchemeCustomerAddress,
		CustomerGroupName: s.SchemeCustomerGroupName,
		StartDate:         dbtime.FormatDate(s.SchemeStartDate, dbtime.DateLayout),
		EndDate:           end,
		MonthlyAmount:     s.SchemeMonthlyAmount,
		DurationMonths:    s.SchemeDurationMonths,
		Note:              s.SchemeNote,
		Status:            string(s.SchemeStatus),
		ClosureDate:       datePtr(s.SchemeClosureDate),
		ArchivedDate:      datePtr(s.SchemeArchivedDate),
		IsTrashed:         s.SchemeIsTrashed,
		TrashedAt:         s.SchemeTrashedAt,
		TotalExpected:     s.SchemeTotalExpected,
		TotalCollected:    s.SchemeTotalCollected,
		TotalRemaining:    s.SchemeTotalRemaining,
		PaymentsMade:      s.SchemePaymentsMade,
		CreatedAt:         s.SchemeCreatedAt,
		UpdatedAt:         s.SchemeUpdatedAt,
	}
	if withPayments {
		out.Payments = make([]PaymentDTO, 0, len(s.Payments))
		for _, p := range s.Payments {
			out.Payments = append(out.Payments, ToPaymentDTO(p))
		}
	}
	return out
}

func ToSchemeDTOs(list []model.SchemeModel) []SchemeDTO {
	out := make([]SchemeDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ToSchemeDTO(s, false))
	}
	return out
}

type SchemeEventDTO struct {
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
	Actor   *string        `json:"actor,omitempty"`
	At      time.Time      `json:"at"`
}

func ToSchemeEventDTOs(list []model.SchemeEventModel) []SchemeEventDTO {
	out := make([]SchemeEventDTO, 0, len(list))
	for _, ev := range list {
		out = append(out, SchemeEventDTO{
			Kind:    ev.SchemeEventKind,
			Payload: map[string]any(ev.SchemeEventPayload),
			Actor:   ev.SchemeEventActor,
			At:      ev.SchemeEventAt,
		})
	}
	return out
}
