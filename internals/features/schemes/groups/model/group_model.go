package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupModel is the stored part of a customer group: its label and archive flag.
// Membership lives on the schemes (scheme_customer_group_key).
type GroupModel struct {
	GroupID         uuid.UUID  `gorm:"column:group_id;type:uuid;primaryKey" json:"group_id"`
	GroupName       string     `gorm:"column:group_name;type:varchar(120);not null" json:"group_name"`
	GroupKey        string     `gorm:"column:group_key;type:varchar(120);not null;uniqueIndex:uq_customer_groups_key" json:"group_key"`
	GroupIsArchived bool       `gorm:"column:group_is_archived;not null;default:false" json:"group_is_archived"`
	GroupArchivedAt *time.Time `gorm:"column:group_archived_at" json:"group_archived_at,omitempty"`
	GroupCreatedAt  time.Time  `gorm:"column:group_created_at;autoCreateTime" json:"group_created_at"`
	GroupUpdatedAt  time.Time  `gorm:"column:group_updated_at;autoUpdateTime" json:"group_updated_at"`
}

func (GroupModel) TableName() string { return "customer_groups" }
