package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	m "schemetrack_backend/internals/features/schemes/schemes/model"
)

// MemorySchemeRepository keeps schemes in a map. Every read and write deep-copies,
// so callers never share payment slices or pointer fields with the store.
type MemorySchemeRepository struct {
	mu      sync.RWMutex
	schemes map[uuid.UUID]m.SchemeModel
	events  map[uuid.UUID][]m.SchemeEventModel
}

func NewMemorySchemeRepository(seed ...m.SchemeModel) *MemorySchemeRepository {
	r := &MemorySchemeRepository{
		schemes: make(map[uuid.UUID]m.SchemeModel),
		events:  make(map[uuid.UUID][]m.SchemeEventModel),
	}
	for _, s := range seed {
		r.schemes[s.SchemeID] = s.Clone()
	}
	return r
}

func (r *MemorySchemeRepository) Find(_ context.Context, f ListFilter) ([]m.SchemeModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]m.SchemeModel, 0, len(r.schemes))
	for _, s := range r.schemes {
		switch f.Trash {
		case TrashExclude:
			if s.SchemeIsTrashed {
				continue
			}
		case TrashOnly:
			if !s.SchemeIsTrashed {
				continue
			}
		}
		if f.GroupKey != nil && (s.SchemeCustomerGroupKey == nil || *s.SchemeCustomerGroupKey != *f.GroupKey) {
			continue
		}
		if f.Lifecycle != nil && s.SchemeLifecycle != *f.Lifecycle {
			continue
		}
		if needle != "" && !matches(s, needle) {
			continue
		}
		out = append(out, s.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func matches(s m.SchemeModel, needle string) bool {
	fields := []string{s.SchemeCustomerName}
	if s.SchemeCustomerPhone != nil {
		fields = append(fields, *s.SchemeCustomerPhone)
	}
	if s.SchemeCustomerGroupName != nil {
		fields = append(fields, *s.SchemeCustomerGroupName)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func sortNewestFirst(list []m.SchemeModel) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SchemeCreatedAt.Equal(list[j].SchemeCreatedAt) {
			return list[i].SchemeID.String() < list[j].SchemeID.String()
		}
		return list[i].SchemeCreatedAt.After(list[j].SchemeCreatedAt)
	})
}

func (r *MemorySchemeRepository) ListClosed(_ context.Context) ([]m.SchemeModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []m.SchemeModel{}
	for _, s := range r.schemes {
		if s.SchemeLifecycle == m.LifecycleClosed && !s.SchemeIsTrashed && s.SchemeClosureDate != nil {
			c := s.Clone()
			c.Payments = nil
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SchemeClosureDate.Before(*out[j].SchemeClosureDate)
	})
	return out, nil
}

func (r *MemorySchemeRepository) GetByID(_ context.Context, id uuid.UUID) (*m.SchemeModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemes[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := s.Clone()
	return &c, nil
}

func (r *MemorySchemeRepository) Create(_ context.Context, s *m.SchemeModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.SchemeID == uuid.Nil {
		s.SchemeID = uuid.New()
	}
	now := time.Now()
	if s.SchemeCreatedAt.IsZero() {
		s.SchemeCreatedAt = now
	}
	s.SchemeUpdatedAt = now
	for i := range s.Payments {
		s.Payments[i].PaymentCreatedAt = now
		s.Payments[i].PaymentUpdatedAt = now
	}
	r.schemes[s.SchemeID] = s.Clone()
	return nil
}

func (r *MemorySchemeRepository) UpdateDetails(_ context.Context, s *m.SchemeModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.schemes[s.SchemeID]
	if !ok {
		return ErrNotFound
	}
	cur.SchemeCustomerName = s.SchemeCustomerName
	cur.SchemeCustomerPhone = s.SchemeCustomerPhone
	cur.SchemeCustomerAddress = s.SchemeCustomerAddress
	cur.SchemeCustomerGroupName = s.SchemeCustomerGroupName
	cur.SchemeCustomerGroupKey = s.SchemeCustomerGroupKey
	cur.SchemeNote = s.SchemeNote
	cur.SchemeUpdatedAt = time.Now()
	r.schemes[s.SchemeID] = cur.Clone()
	return nil
}

func (r *MemorySchemeRepository) UpdateLifecycle(_ context.Context, id uuid.UUID, p m.LifecyclePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.schemes[id]
	if !ok {
		return ErrNotFound
	}
	cur.ApplyLifecycle(p)
	cur.SchemeUpdatedAt = time.Now()
	r.schemes[id] = cur.Clone()
	return nil
}

func (r *MemorySchemeRepository) SavePayment(_ context.Context, p *m.PaymentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.schemes[p.PaymentSchemeID]
	if !ok {
		return ErrNotFound
	}
	for i := range cur.Payments {
		if cur.Payments[i].PaymentID != p.PaymentID {
			continue
		}
		next := p.Clone()
		next.PaymentCreatedAt = cur.Payments[i].PaymentCreatedAt
		next.PaymentUpdatedAt = time.Now()
		next.PaymentStatus = ""
		cur.Payments[i] = next
		r.schemes[cur.SchemeID] = cur
		return nil
	}
	return ErrNotFound
}

func (r *MemorySchemeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemes[id]; !ok {
		return ErrNotFound
	}
	delete(r.schemes, id)
	delete(r.events, id)
	return nil
}

func (r *MemorySchemeRepository) RenameGroup(_ context.Context, oldKey, newName, newKey string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.schemes {
		if s.SchemeCustomerGroupKey == nil || *s.SchemeCustomerGroupKey != oldKey {
			continue
		}
		name, key := newName, newKey
		s.SchemeCustomerGroupName = &name
		s.SchemeCustomerGroupKey = &key
		r.schemes[id] = s
		n++
	}
	return n, nil
}

func (r *MemorySchemeRepository) AppendEvent(_ context.Context, ev *m.SchemeEventModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[ev.SchemeEventSchemeID] = append(r.events[ev.SchemeEventSchemeID], *ev)
	return nil
}

func (r *MemorySchemeRepository) ListEvents(_ context.Context, schemeID uuid.UUID) ([]m.SchemeEventModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]m.SchemeEventModel{}, r.events[schemeID]...), nil
}

func (r *MemorySchemeRepository) Ping(context.Context) error { return nil }
