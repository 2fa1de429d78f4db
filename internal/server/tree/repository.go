package tree

import (
	"context"
)

// NodeUpdate is a partial update of a node record; nil fields are left
// untouched.
type NodeUpdate struct {
	GroupID  *int64
	Location *int64
}

// EntryUpdate is a partial update of an entry record; nil fields are left
// untouched. Location and Node relocate or retarget the row; the content
// fields patch the kind-specific payload.
type EntryUpdate struct {
	Location *int64
	Node     *int64
	Name     *string
	URL      *string
	Memo     *string
	Image    *string
	Tags     *[]string
}

// IsZero reports whether the update would touch nothing.
func (u EntryUpdate) IsZero() bool {
	return u.Location == nil && u.Node == nil && u.Name == nil &&
		u.URL == nil && u.Memo == nil && u.Image == nil && u.Tags == nil
}

// Repository is the invariant-agnostic CRUD surface over the node and
// entry collections. It enforces collection-level constraints (id
// uniqueness, existence on point reads) but no cross-entity rules;
// cascades are always computed by the service layer.
//
// Update methods fail with common.ErrUpdateFailed when they match zero
// records; whether the target is missing or already up to date is not
// distinguished. Deletes are idempotent: missing ids are tolerated.
type Repository interface {
	InsertNodes(ctx context.Context, nodes []*Node) error
	InsertEntries(ctx context.Context, entries []*Entry) error

	// GetNode fails with common.ErrNotFound when id is absent.
	GetNode(ctx context.Context, id int64) (*Node, error)
	GetNodes(ctx context.Context, q NodeQuery) ([]*Node, error)
	GetEntries(ctx context.Context, q EntryQuery) ([]*Entry, error)

	UpdateNode(ctx context.Context, id int64, set NodeUpdate) error
	UpdateEntry(ctx context.Context, q EntryQuery, set EntryUpdate) error

	DeleteNodes(ctx context.Context, ids []int64) error
	// DeleteEntries removes every entry whose location is in locations or
	// whose node is in nodes.
	DeleteEntries(ctx context.Context, locations, nodes []int64) error

	// Reset truncates both collections back to the root node and its
	// bootstrap "." entry.
	Reset(ctx context.Context) error
}
