package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schemetrack_backend/internals/features/schemes/groups/model"
	"schemetrack_backend/internals/features/schemes/groups/service"
	schemeDTO "schemetrack_backend/internals/features/schemes/schemes/dto"
)

type CreateGroupRequest struct {
	Name string `json:"group_name" validate:"required,max=120"`
}

type RenameGroupRequest struct {
	Name string `json:"group_name" validate:"required,max=120"`
}

type GroupDTO struct {
	GroupID    uuid.UUID  `json:"group_id"`
	Name       string     `json:"group_name"`
	Key        string     `json:"group_key"`
	IsArchived bool       `json:"is_archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func ToGroupDTO(g model.GroupModel) GroupDTO {
	return GroupDTO{
		GroupID:    g.GroupID,
		Name:       g.GroupName,
		Key:        g.GroupKey,
		IsArchived: g.GroupIsArchived,
		ArchivedAt: g.GroupArchivedAt,
		CreatedAt:  g.GroupCreatedAt,
		UpdatedAt:  g.GroupUpdatedAt,
	}
}

type GroupDetailDTO struct {
	GroupID        *uuid.UUID            `json:"group_id,omitempty"`
	Name           string                `json:"group_name"`
	Key            string                `json:"group_key"`
	Stored         bool                  `json:"stored"`
	IsArchived     bool                  `json:"is_archived"`
	ArchivedAt     *time.Time            `json:"archived_at,omitempty"`
	SchemeCount    int                   `json:"scheme_count"`
	CustomerNames  []string              `json:"customer_names"`
	HasOverdue     bool                  `json:"has_overdue"`
	TotalCollected decimal.Decimal       `json:"total_collected"`
	TotalRemaining decimal.Decimal       `json:"total_remaining"`
	Schemes        []schemeDTO.SchemeDTO `json:"schemes,omitempty"`
}

func ToGroupDetailDTO(d service.GroupDetail) GroupDetailDTO {
	out := GroupDetailDTO{
		GroupID:        d.GroupID,
		Name:           d.Name,
		Key:            d.Key,
		Stored:         d.Stored,
		IsArchived:     d.IsArchived,
		ArchivedAt:     d.ArchivedAt,
		SchemeCount:    d.SchemeCount,
		CustomerNames:  d.CustomerNames,
		HasOverdue:     d.HasOverdue,
		TotalCollected: d.TotalCollected,
		TotalRemaining: d.TotalRemaining,
	}
	if d.Schemes != nil {
		out.Schemes = schemeDTO.ToSchemeDTOs(d.Schemes)
	}
	return out
}

func ToGroupDetailDTOs(list []service.GroupDetail) []GroupDetailDTO {
	out := make([]GroupDetailDTO, 0, len(list))
	for _, d := range list {
		out = append(out, ToGroupDetailDTO(d))
	}
	return out
}
