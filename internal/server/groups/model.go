// Package groups manages the member sets that control shared access to
// root folders. One group is created per root folder; membership is
// append-only.
package groups

import (
	"slices"

	"github.com/anikulin/linkstash/internal/common"
)

// Group is a set of member emails, insertion order preserved, no
// duplicates.
type Group struct {
	ID      int64
	Members []string
}

// NewGroup allocates a group with a fresh id and the given initial members.
func NewGroup(members ...string) *Group {
	return &Group{ID: common.NewID(), Members: members}
}

// AddMember appends email unless it is already present.
func (g *Group) AddMember(email string) {
	if slices.Contains(g.Members, email) {
		return
	}
	g.Members = append(g.Members, email)
}

// RootGroup returns the bootstrap group owning the root listing.
func RootGroup() *Group {
	return &Group{ID: common.RootGroup, Members: []string{}}
}
