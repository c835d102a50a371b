package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SchemeEventModel is an append-only trail of lifecycle transitions.
type SchemeEventModel struct {
	SchemeEventID       uuid.UUID         `gorm:"column:scheme_event_id;type:uuid;primaryKey" json:"scheme_event_id"`
	SchemeEventSchemeID uuid.UUID         `gorm:"column:scheme_event_scheme_id;type:uuid;not null;index:idx_scheme_events_scheme" json:"scheme_event_scheme_id"`
	SchemeEventKind     string            `gorm:"column:scheme_event_kind;type:varchar(32);not null" json:"scheme_event_kind"`
	SchemeEventPayload  datatypes.JSONMap `gorm:"column:scheme_event_payload;type:jsonb" json:"scheme_event_payload,omitempty"`
	SchemeEventActor    *string           `gorm:"column:scheme_event_actor;type:text" json:"scheme_event_actor,omitempty"`
	SchemeEventAt       time.Time         `gorm:"column:scheme_event_at;not null" json:"scheme_event_at"`
}

func (SchemeEventModel) TableName() string { return "scheme_events" }

func NewSchemeEvent(schemeID uuid.UUID, kind string, payload map[string]any, at time.Time) *SchemeEventModel {
	var p datatypes.JSONMap
	if len(payload) > 0 {
		p = datatypes.JSONMap(payload)
	}
	return &SchemeEventModel{
		SchemeEventID:       uuid.New(),
		SchemeEventSchemeID: schemeID,
		SchemeEventKind:     kind,
		SchemeEventPayload:  p,
		SchemeEventAt:       at,
	}
}
