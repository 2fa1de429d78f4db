package groups

import (
	"context"
	"slices"
	"sync"

	"github.com/anikulin/linkstash/internal/common"
)

// MemoryRepository is an in-memory Repository used by tests and by the
// in-memory repository manager.
type MemoryRepository struct {
	mu     sync.Mutex
	groups []*Group
}

func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{}
	_ = r.Reset(context.Background())
	return r
}

func cloneGroup(g *Group) *Group {
	return &Group{ID: g.ID, Members: slices.Clone(g.Members)}
}

func (r *MemoryRepository) InsertGroups(ctx context.Context, groups []*Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range groups {
		for _, existing := range r.groups {
			if existing.ID == g.ID {
				return common.ErrStorage
			}
		}
		r.groups = append(r.groups, cloneGroup(g))
	}
	return nil
}

func (r *MemoryRepository) CreateGroup(ctx context.Context, member string) (int64, error) {
	group := NewGroup(member)
	if err := r.InsertGroups(ctx, []*Group{group}); err != nil {
		return 0, err
	}
	return group.ID, nil
}

func (r *MemoryRepository) GetGroups(ctx context.Context, q Query) ([]*Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Group
	for _, g := range r.groups {
		if q.Matches(g) {
			result = append(result, cloneGroup(g))
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdateGroup(ctx context.Context, q Query, group *Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := false
	for i, g := range r.groups {
		if q.Matches(g) {
			updated := cloneGroup(group)
			updated.ID = g.ID
			r.groups[i] = updated
			matched = true
		}
	}
	if !matched {
		return common.ErrUpdateFailed
	}
	return nil
}

func (r *MemoryRepository) DeleteGroups(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = slices.DeleteFunc(r.groups, func(g *Group) bool {
		return slices.Contains(ids, g.ID)
	})
	return nil
}

func (r *MemoryRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	root := RootGroup()
	for _, g := range r.groups {
		if g.ID == common.RootGroup {
			root = cloneGroup(g)
			break
		}
	}
	r.groups = []*Group{root}
	return nil
}
