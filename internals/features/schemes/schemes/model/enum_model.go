package model

// PaymentStatus is a projection computed from dates and amounts; never persisted.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentUpcoming PaymentStatus = "upcoming"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue, PaymentUpcoming:
		return true
	}
	return false
}

type SchemeStatus string

const (
	SchemeActive    SchemeStatus = "active"
	SchemeCompleted SchemeStatus = "completed"
	SchemeOverdue   SchemeStatus = "overdue"
	SchemeUpcoming  SchemeStatus = "upcoming"
	SchemeClosed    SchemeStatus = "closed"
	SchemeArchived  SchemeStatus = "archived"
	SchemeTrashed   SchemeStatus = "trashed"
)

var AllSchemeStatuses = []SchemeStatus{
	SchemeActive, SchemeCompleted, SchemeOverdue, SchemeUpcoming,
	SchemeClosed, SchemeArchived, SchemeTrashed,
}

func (s SchemeStatus) Valid() bool {
	for _, x := range AllSchemeStatuses {
		if s == x {
			return true
		}
	}
	return false
}

// SchemeLifecycle is the only part of a scheme's status that is stored.
// Empty means "open": the status is derived from the payments.
type SchemeLifecycle string

const (
	LifecycleOpen     SchemeLifecycle = ""
	LifecycleClosed   SchemeLifecycle = "closed"
	LifecycleArchived SchemeLifecycle = "archived"
)

// Payment channels accepted in mode_of_payment.
const (
	ModeCash         = "cash"
	ModeBankTransfer = "bank_transfer"
	ModeUPI          = "upi"
	ModeCard         = "card"
	ModeCheque       = "cheque"
	ModeOther        = "other"
)

var AllPaymentModes = []string{ModeCash, ModeBankTransfer, ModeUPI, ModeCard, ModeCheque, ModeOther}

// Scheme event kinds.
const (
	EventCreated         = "created"
	EventPaymentRecorded = "payment_recorded"
	EventPaymentCleared  = "payment_cleared"
	EventClosed          = "closed"
	EventReopened        = "reopened"
	EventArchived        = "archived"
	EventAutoArchived    = "auto_archived"
	EventUnarchived      = "unarchived"
	EventTrashed         = "trashed"
	EventRestored        = "restored"
)

// DefaultDurationMonths is the plan length every scheme uses unless custom durations are enabled.
const DefaultDurationMonths = 12
