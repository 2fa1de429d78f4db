package groups

import "context"

// Repository is the CRUD surface over the group collection. Updates fail
// with common.ErrUpdateFailed when they match zero records; deletes are
// idempotent.
type Repository interface {
	InsertGroups(ctx context.Context, groups []*Group) error

	// CreateGroup registers a fresh group with member as its sole member
	// and returns the new group id.
	CreateGroup(ctx context.Context, member string) (int64, error)

	GetGroups(ctx context.Context, q Query) ([]*Group, error)

	// UpdateGroup replaces the stored record of every group matching q
	// with group.
	UpdateGroup(ctx context.Context, q Query, group *Group) error

	DeleteGroups(ctx context.Context, ids []int64) error

	// Reset truncates the collection back to the root group, preserving
	// its membership when it still exists.
	Reset(ctx context.Context) error
}
