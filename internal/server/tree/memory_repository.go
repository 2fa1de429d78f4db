package tree

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/anikulin/linkstash/internal/common"
)

// MemoryRepository is an in-memory Repository used by tests and by the
// in-memory repository manager. It evaluates the same query predicates as
// the Postgres implementation via Matches.
type MemoryRepository struct {
	mu      sync.Mutex
	nodes   map[int64]*Node
	entries []*Entry
}

func NewMemoryRepository() *MemoryRepository {
	r := &MemoryRepository{nodes: make(map[int64]*Node)}
	_ = r.Reset(context.Background())
	return r
}

func cloneNode(n *Node) *Node {
	c := *n
	return &c
}

func cloneEntry(e *Entry) *Entry {
	c := *e
	if e.Link != nil {
		l := *e.Link
		l.Tags = slices.Clone(e.Link.Tags)
		c.Link = &l
	}
	if e.Folder != nil {
		f := *e.Folder
		c.Folder = &f
	}
	return &c
}

func (r *MemoryRepository) InsertNodes(ctx context.Context, nodes []*Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range nodes {
		if _, ok := r.nodes[n.ID]; ok {
			return common.ErrStorage
		}
	}
	for _, n := range nodes {
		r.nodes[n.ID] = cloneNode(n)
	}
	return nil
}

func (r *MemoryRepository) InsertEntries(ctx context.Context, entries []*Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries = append(r.entries, cloneEntry(e))
	}
	return nil
}

func (r *MemoryRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneNode(n), nil
}

func (r *MemoryRepository) GetNodes(ctx context.Context, q NodeQuery) ([]*Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Node
	for _, n := range r.nodes {
		if q.Matches(n) {
			result = append(result, cloneNode(n))
		}
	}
	slices.SortFunc(result, func(a, b *Node) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

func (r *MemoryRepository) GetEntries(ctx context.Context, q EntryQuery) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Entry
	for _, e := range r.entries {
		if q.Matches(e) {
			result = append(result, cloneEntry(e))
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdateNode(ctx context.Context, id int64, set NodeUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[id]
	if !ok {
		return common.ErrUpdateFailed
	}
	if set.GroupID == nil && set.Location == nil {
		return common.ErrUpdateFailed
	}
	if set.GroupID != nil {
		n.GroupID = *set.GroupID
	}
	if set.Location != nil {
		n.Location = *set.Location
	}
	return nil
}

func applyEntryUpdate(e *Entry, set EntryUpdate) {
	if set.Location != nil {
		e.Location = *set.Location
	}
	if set.Node != nil {
		e.Node = *set.Node
	}
	if set.Name != nil {
		e.Name = *set.Name
		if e.Folder != nil {
			e.Folder.Name = *set.Name
		}
	}
	if set.URL != nil && e.Link != nil {
		e.Link.URL = *set.URL
	}
	if set.Memo != nil && e.Link != nil {
		e.Link.Memo = *set.Memo
	}
	if set.Image != nil {
		if e.Link != nil {
			e.Link.Image = *set.Image
		}
		if e.Folder != nil {
			e.Folder.Image = *set.Image
		}
	}
	if set.Tags != nil && e.Link != nil {
		e.Link.Tags = slices.Clone(*set.Tags)
	}
}

func (r *MemoryRepository) UpdateEntry(ctx context.Context, q EntryQuery, set EntryUpdate) error {
	if set.IsZero() {
		return common.ErrUpdateFailed
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := false
	for _, e := range r.entries {
		if q.Matches(e) {
			applyEntryUpdate(e, set)
			matched = true
		}
	}
	if !matched {
		return common.ErrUpdateFailed
	}
	return nil
}

func (r *MemoryRepository) DeleteNodes(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.nodes, id)
	}
	return nil
}

func (r *MemoryRepository) DeleteEntries(ctx context.Context, locations, nodes []int64) error {
	if len(locations) == 0 && len(nodes) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = slices.DeleteFunc(r.entries, func(e *Entry) bool {
		return slices.Contains(locations, e.Location) || slices.Contains(nodes, e.Node)
	})
	return nil
}

func (r *MemoryRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = map[int64]*Node{common.RootNode: RootNode()}
	r.entries = []*Entry{RootEntry()}
	return nil
}
