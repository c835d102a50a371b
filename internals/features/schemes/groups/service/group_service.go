package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/groups/model"
	"schemetrack_backend/internals/features/schemes/groups/repository"
	schemeModel "schemetrack_backend/internals/features/schemes/schemes/model"
	schemeRepo "schemetrack_backend/internals/features/schemes/schemes/repository"
	schemeSvc "schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
)

var (
	ErrNotFound    = repository.ErrNotFound
	ErrDuplicate   = repository.ErrDuplicate
	ErrInvalidName = errors.New("group name is required")
)

// GroupDetail is a group materialized from the schemes carrying its label.
// Stored is false for labels that only exist on schemes.
type GroupDetail struct {
	GroupID        *uuid.UUID                `json:"group_id,omitempty"`
	Name           string                    `json:"group_name"`
	Key            string                    `json:"group_key"`
	Stored         bool                      `json:"stored"`
	IsArchived     bool                      `json:"is_archived"`
	ArchivedAt     *time.Time                `json:"archived_at,omitempty"`
	SchemeCount    int                       `json:"scheme_count"`
	CustomerNames  []string                  `json:"customer_names"`
	HasOverdue     bool                      `json:"has_overdue"`
	TotalCollected decimal.Decimal           `json:"total_collected"`
	TotalRemaining decimal.Decimal           `json:"total_remaining"`
	Schemes        []schemeModel.SchemeModel `json:"schemes,omitempty"`
}

type GroupService struct {
	groups  repository.GroupRepository
	schemes schemeRepo.SchemeRepository
	log     *zap.Logger
}

func NewGroupService(groups repository.GroupRepository, schemes schemeRepo.SchemeRepository, log *zap.Logger) *GroupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GroupService{groups: groups, schemes: schemes, log: log.Named("groups")}
}

/* ======================= CREATE ======================= */

func (s *GroupService) Create(ctx context.Context, name string) (*model.GroupModel, error) {
	clean := helper.CleanGroupName(name)
	if clean == "" {
		return nil, ErrInvalidName
	}
	g := &model.GroupModel{GroupName: clean, GroupKey: helper.GroupKey(clean)}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

/* ======================= READ ======================= */

// List merges stored groups with labels found on non-trashed schemes. withSchemes
// keeps the member schemes on each entry.
func (s *GroupService) List(ctx context.Context, includeArchived, withSchemes bool, today time.Time) ([]GroupDetail, error) {
	stored, err := s.groups.List(ctx, true)
	if err != nil {
		return nil, err
	}
	members, err := s.membersByKey(ctx, nil, today)
	if err != nil {
		return nil, err
	}

	byKey := map[string]*GroupDetail{}
	for _, g := range stored {
		d := fromStored(g)
		fill(&d, nil)
		byKey[g.GroupKey] = &d
	}
	for key, list := range members {
		d, ok := byKey[key]
		if !ok {
			d = &GroupDetail{Name: *list[0].SchemeCustomerGroupName, Key: key}
			byKey[key] = d
		}
		fill(d, list)
	}

	out := make([]GroupDetail, 0, len(byKey))
	for _, d := range byKey {
		if d.IsArchived && !includeArchived {
			continue
		}
		if !withSchemes {
			d.Schemes = nil
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *GroupService) Detail(ctx context.Context, id uuid.UUID, today time.Time) (*GroupDetail, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, g, g.GroupKey, today)
}

// DetailByKey also resolves labels that have no stored group.
func (s *GroupService) DetailByKey(ctx context.Context, name string, today time.Time) (*GroupDetail, error) {
	key := helper.GroupKey(name)
	if key == "" {
		return nil, ErrInvalidName
	}
	g, err := s.groups.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	d, err := s.materialize(ctx, g, key, today)
	if err != nil {
		return nil, err
	}
	if g == nil && d.SchemeCount == 0 {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *GroupService) materialize(ctx context.Context, g *model.GroupModel, key string, today time.Time) (*GroupDetail, error) {
	members, err := s.membersByKey(ctx, &key, today)
	if err != nil {
		return nil, err
	}
	var d GroupDetail
	if g != nil {
		d = fromStored(*g)
	} else {
		d = GroupDetail{Key: key}
	}
	list := members[key]
	if d.Name == "" && len(list) > 0 {
		d.Name = *list[0].SchemeCustomerGroupName
	}
	fill(&d, list)
	return &d, nil
}

func (s *GroupService) membersByKey(ctx context.Context, key *string, today time.Time) (map[string][]schemeModel.SchemeModel, error) {
	all, err := s.schemes.Find(ctx, schemeRepo.ListFilter{GroupKey: key, Trash: schemeRepo.TrashExclude})
	if err != nil {
		return nil, err
	}
	if err := schemeSvc.RefreshAll(all, today); err != nil {
		return nil, err
	}
	out := map[string][]schemeModel.SchemeModel{}
	for _, sc := range all {
		if sc.SchemeCustomerGroupKey == nil || sc.SchemeCustomerGroupName == nil {
			continue
		}
		out[*sc.SchemeCustomerGroupKey] = append(out[*sc.SchemeCustomerGroupKey], sc)
	}
	return out, nil
}

func fromStored(g model.GroupModel) GroupDetail {
	id := g.GroupID
	return GroupDetail{
		GroupID:    &id,
		Name:       g.GroupName,
		Key:        g.GroupKey,
		Stored:     true,
		IsArchived: g.GroupIsArchived,
		ArchivedAt: g.GroupArchivedAt,
	}
}

// fill computes the aggregate fields from refreshed member schemes.
func fill(d *GroupDetail, list []schemeModel.SchemeModel) {
	d.SchemeCount = len(list)
	d.Schemes = list
	d.CustomerNames = []string{}
	d.TotalCollected = decimal.Zero
	d.TotalRemaining = decimal.Zero

	seen := map[string]bool{}
	for _, sc := range list {
		name := strings.TrimSpace(sc.SchemeCustomerName)
		if name != "" && !seen[strings.ToLower(name)] {
			seen[strings.ToLower(name)] = true
			d.CustomerNames = append(d.CustomerNames, name)
		}
		if sc.SchemeStatus == schemeModel.SchemeOverdue {
			d.HasOverdue = true
		}
		d.TotalCollected = d.TotalCollected.Add(sc.SchemeTotalCollected)
		d.TotalRemaining = d.TotalRemaining.Add(sc.SchemeTotalRemaining)
	}
	sort.Strings(d.CustomerNames)
}

/* ======================= UPDATE ======================= */

// Rename changes the stored label and relabels every member scheme.
func (s *GroupService) Rename(ctx context.Context, id uuid.UUID, name string) (*model.GroupModel, int64, error) {
	clean := helper.CleanGroupName(name)
	if clean == "" {
		return nil, 0, ErrInvalidName
	}
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	oldName, oldKey := g.GroupName, g.GroupKey
	g.GroupName = clean
	g.GroupKey = helper.GroupKey(clean)
	if err := s.groups.Update(ctx, g); err != nil {
		return nil, 0, err
	}

	n, err := s.schemes.RenameGroup(ctx, oldKey, g.GroupName, g.GroupKey)
	if err != nil {
		// put the stored label back so it keeps matching its schemes
		g.GroupName, g.GroupKey = oldName, oldKey
		if rerr := s.groups.Update(ctx, g); rerr != nil {
			s.log.Error("group rename revert failed",
				zap.String("group_id", id.String()),
				zap.String("key", oldKey),
				zap.Error(rerr),
			)
			return nil, 0, errors.Join(err, rerr)
		}
		return nil, 0, fmt.Errorf("relabel schemes: %w", err)
	}
	s.log.Info("group renamed",
		zap.String("group_id", id.String()),
		zap.String("from", oldKey),
		zap.String("to", g.GroupKey),
		zap.Int64("schemes", n),
	)
	return g, n, nil
}

func (s *GroupService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*model.GroupModel, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.GroupIsArchived = archived
	if archived {
		now := time.Now()
		g.GroupArchivedAt = &now
	} else {
		g.GroupArchivedAt = nil
	}
	if err := s.groups.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

/* ======================= DELETE ======================= */

// Delete removes the stored group only. Member schemes keep their label.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.groups.Delete(ctx, id)
}
