package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"schemetrack_backend/internals/features/schemes/groups/model"
)

type MemoryGroupRepository struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]model.GroupModel
}

func NewMemoryGroupRepository(seed ...model.GroupModel) *MemoryGroupRepository {
	r := &MemoryGroupRepository{groups: make(map[uuid.UUID]model.GroupModel)}
	for _, g := range seed {
		r.groups[g.GroupID] = g
	}
	return r
}

func (r *MemoryGroupRepository) List(_ context.Context, includeArchived bool) ([]model.GroupModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.GroupModel, 0, len(r.groups))
	for _, g := range r.groups {
		if g.GroupIsArchived && !includeArchived {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupKey < out[j].GroupKey })
	return out, nil
}

func (r *MemoryGroupRepository) GetByID(_ context.Context, id uuid.UUID) (*model.GroupModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (r *MemoryGroupRepository) GetByKey(_ context.Context, key string) (*model.GroupModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.groups {
		if g.GroupKey == key {
			return &g, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryGroupRepository) Create(_ context.Context, g *model.GroupModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.keyTaken(g.GroupKey, uuid.Nil) {
		return ErrDuplicate
	}
	if g.GroupID == uuid.Nil {
		g.GroupID = uuid.New()
	}
	now := time.Now()
	g.GroupCreatedAt, g.GroupUpdatedAt = now, now
	r.groups[g.GroupID] = *g
	return nil
}

func (r *MemoryGroupRepository) Update(_ context.Context, g *model.GroupModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.groups[g.GroupID]
	if !ok {
		return ErrNotFound
	}
	if r.keyTaken(g.GroupKey, g.GroupID) {
		return ErrDuplicate
	}
	cur.GroupName = g.GroupName
	cur.GroupKey = g.GroupKey
	cur.GroupIsArchived = g.GroupIsArchived
	cur.GroupArchivedAt = g.GroupArchivedAt
	cur.GroupUpdatedAt = time.Now()
	r.groups[g.GroupID] = cur
	return nil
}

func (r *MemoryGroupRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return ErrNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *MemoryGroupRepository) keyTaken(key string, except uuid.UUID) bool {
	for id, g := range r.groups {
		if id != except && g.GroupKey == key {
			return true
		}
	}
	return false
}
