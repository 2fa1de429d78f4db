package groups

import (
	"context"
	"fmt"

	"github.com/anikulin/linkstash/internal/common"
)

// Service exposes group membership management on top of the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get resolves a group by id, failing with common.ErrNotFound when no such
// group exists.
func (s *Service) Get(ctx context.Context, gid int64) (*Group, error) {
	found, err := s.repo.GetGroups(ctx, Query{ID: gid})
	if err != nil {
		return nil, fmt.Errorf("resolving group %d: %w", gid, err)
	}
	if len(found) == 0 {
		return nil, common.ErrNotFound
	}
	return found[0], nil
}

// AddMembers appends the given emails to the group's member set. Adding an
// email that is already present is a no-op; order of first insertion is
// preserved.
func (s *Service) AddMembers(ctx context.Context, gid int64, emails []string) error {
	group, err := s.Get(ctx, gid)
	if err != nil {
		return err
	}

	for _, email := range emails {
		group.AddMember(email)
	}

	return s.repo.UpdateGroup(ctx, Query{ID: group.ID}, group)
}
