package tree

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/anikulin/linkstash/internal/common"
	"github.com/anikulin/linkstash/internal/logging"
	"github.com/anikulin/linkstash/internal/server/groups"
)

// RegisterMeta describes where and for whom a register call places its
// items. A zero Parent targets the root folder; a zero GroupID makes the
// call allocate a fresh group with Owner as sole member.
type RegisterMeta struct {
	Owner   string
	GroupID int64
	Parent  int64
}

// Service orchestrates the multi-step tree operations across the node,
// entry and group repositories. It is the only layer aware of
// cross-entity invariants; cascades are computed here and issued to the
// repositories as explicit id sets.
//
// Every multi-step operation is several independent store writes with no
// surrounding transaction: a crash between steps can leave the tree
// partially updated. That weak guarantee is deliberate and matches the
// store-per-call design; nothing here retries or compensates.
type Service struct {
	repo   Repository
	groups groups.Repository
	logger logging.Logger
}

func NewService(repo Repository, groupRepo groups.Repository, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		groups: groupRepo,
		logger: logger.With("module", "tree"),
	}
}

// Register places items inside the folder named by meta, allocating nodes
// and listing entries for each. It returns the group id every created
// node was attached to and the new node ids in input order.
//
// At the root only a single folder may be registered per call: a link
// item fails with ErrInvalidPlacement, a second item with ErrTooManyRoots.
func (s *Service) Register(ctx context.Context, meta RegisterMeta, items []File) (int64, []int64, error) {
	parent := meta.Parent
	if parent == 0 {
		parent = common.RootNode
	}

	if parent == common.RootNode {
		for _, item := range items {
			if item.Kind == KindLink {
				return 0, nil, common.ErrInvalidPlacement
			}
		}
		if len(items) > 1 {
			return 0, nil, common.ErrTooManyRoots
		}
	}

	parentNode, err := s.repo.GetNode(ctx, parent)
	if err != nil {
		return 0, nil, fmt.Errorf("resolving destination %d: %w", parent, err)
	}

	var nodes []*Node
	var entries []*Entry
	for _, item := range items {
		node, entry := NewFile(item, parentNode.Location, meta.Owner, meta.GroupID)
		nodes = append(nodes, node)
		entries = append(entries, entry)

		if item.Kind == KindFolder {
			entries = append(entries, NavigationEntries(node.Location, node.ID, parentNode.ID)...)
		}
	}

	gid := meta.GroupID
	if gid == 0 {
		gid, err = s.groups.CreateGroup(ctx, meta.Owner)
		if err != nil {
			return 0, nil, fmt.Errorf("creating group: %w", err)
		}
		for _, node := range nodes {
			node.GroupID = gid
		}
	}

	// Nodes first: entries logically depend on them, even though the
	// store enforces no such constraint.
	if err := s.repo.InsertNodes(ctx, nodes); err != nil {
		return 0, nil, err
	}
	if err := s.repo.InsertEntries(ctx, entries); err != nil {
		return 0, nil, err
	}

	ids := make([]int64, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID)
	}

	s.logger.Info(ctx, "registered files", "gid", gid, "nodes", ids, "parent", parentNode.ID)
	return gid, ids, nil
}

// Read returns the contents addressed by a node: for a link, its own
// listing entry; for a folder, every non-navigation entry of the listing
// it owns. An empty result fails with ErrNotFound.
func (s *Service) Read(ctx context.Context, nodeID int64) ([]FileView, error) {
	node, err := s.repo.GetNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	var q EntryQuery
	switch node.Kind {
	case KindLink:
		q = EntryQuery{Location: node.Location, Nodes: []int64{node.ID}}
	case KindFolder:
		q = EntryQuery{Location: node.Location, OwnOnly: true}
	}

	entries, err := s.repo.GetEntries(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("node %d has no readable entries: %w", nodeID, common.ErrNotFound)
	}

	result := make([]FileView, 0, len(entries))
	for _, e := range entries {
		result = append(result, FileView{
			Meta:    Meta{Node: e.Node, Kind: e.Kind, GroupID: node.GroupID},
			Content: e.ContentView(),
		})
	}
	return result, nil
}

// ReadByMember returns every root folder shared with email, rendered from
// the folders' own rows in the root listing. Folder nodes without a root
// row (a group that also owns subfolders) are skipped with a warning.
func (s *Service) ReadByMember(ctx context.Context, email string) ([]FileView, error) {
	memberGroups, err := s.groups.GetGroups(ctx, groups.Query{Members: []string{email}})
	if err != nil {
		return nil, err
	}
	if len(memberGroups) == 0 {
		return []FileView{}, nil
	}

	gids := make([]int64, 0, len(memberGroups))
	for _, g := range memberGroups {
		gids = append(gids, g.ID)
	}

	nodes, err := s.repo.GetNodes(ctx, NodeQuery{GroupIDs: gids, Kind: KindFolder})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return []FileView{}, nil
	}

	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}

	entries, err := s.repo.GetEntries(ctx, EntryQuery{Location: common.RootLocation, Nodes: ids})
	if err != nil {
		return nil, err
	}

	// Pair each folder node with its own root-listing row. Group-owned
	// subfolders have no such row and are skipped; a skip means the
	// group spans more than its root folder, which is worth a warning
	// but not a failure.
	byNode := make(map[int64]*Entry, len(entries))
	for _, e := range entries {
		byNode[e.Node] = e
	}

	slices.SortFunc(nodes, func(a, b *Node) int { return cmp.Compare(a.ID, b.ID) })

	result := make([]FileView, 0, len(entries))
	for _, n := range nodes {
		entry, ok := byNode[n.ID]
		if !ok {
			s.logger.Warn(ctx, "folder node has no root entry", "node", n.ID, "gid", n.GroupID)
			continue
		}
		result = append(result, FileView{
			Meta:    Meta{Node: n.ID, Kind: n.Kind, GroupID: n.GroupID},
			Content: entry.ContentView(),
		})
	}
	return result, nil
}

// Delete removes the given nodes. A folder takes its whole listing with
// it: every node located in that listing, every entry placed inside it,
// every entry representing the folder elsewhere, and the folder's group.
// The cascade is one level deep only; listings owned by deleted
// subfolders are not recursed into. A link removes just its own node and
// entry rows.
func (s *Service) Delete(ctx context.Context, nodeIDs []int64) error {
	if len(nodeIDs) == 0 {
		return common.ErrEmptyRequest
	}

	nodes := make([]*Node, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		node, err := s.repo.GetNode(ctx, id)
		if err != nil {
			return fmt.Errorf("resolving node %d: %w", id, err)
		}
		nodes = append(nodes, node)
	}

	var folders, links []*Node
	for _, node := range nodes {
		if node.Kind == KindFolder {
			folders = append(folders, node)
		} else {
			links = append(links, node)
		}
	}

	if len(folders) > 0 {
		folderIDs := make([]int64, 0, len(folders))
		locations := make([]int64, 0, len(folders))
		gids := make([]int64, 0, len(folders))
		for _, f := range folders {
			folderIDs = append(folderIDs, f.ID)
			locations = append(locations, f.Location)
			if f.GroupID != 0 && !slices.Contains(gids, f.GroupID) {
				gids = append(gids, f.GroupID)
			}
		}

		// The affected node set is computed up front: a folder's own node
		// and every node living in its listing share the listing number.
		affected, err := s.repo.GetNodes(ctx, NodeQuery{Locations: locations})
		if err != nil {
			return err
		}
		affectedIDs := make([]int64, 0, len(affected))
		for _, n := range affected {
			affectedIDs = append(affectedIDs, n.ID)
		}

		if err := s.repo.DeleteNodes(ctx, affectedIDs); err != nil {
			return err
		}
		if err := s.repo.DeleteEntries(ctx, locations, folderIDs); err != nil {
			return err
		}
		if err := s.groups.DeleteGroups(ctx, gids); err != nil {
			return err
		}

		s.logger.Info(ctx, "deleted folders", "folders", folderIDs, "cascaded", affectedIDs, "groups", gids)
	}

	if len(links) > 0 {
		linkIDs := make([]int64, 0, len(links))
		for _, l := range links {
			linkIDs = append(linkIDs, l.ID)
		}
		if err := s.repo.DeleteNodes(ctx, linkIDs); err != nil {
			return err
		}
		if err := s.repo.DeleteEntries(ctx, nil, linkIDs); err != nil {
			return err
		}

		s.logger.Info(ctx, "deleted links", "links", linkIDs)
	}

	return nil
}

// Move relocates nodes from the listing of from to the listing of to,
// reassigning each moved node to to's group. A moved folder additionally
// gets the ".." entry of its own listing retargeted at to. Descendants of
// a moved folder keep their old group; only the moved nodes themselves
// are reassigned.
func (s *Service) Move(ctx context.Context, nodeIDs []int64, from, to int64) error {
	nodes := make([]*Node, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		node, err := s.repo.GetNode(ctx, id)
		if err != nil {
			return fmt.Errorf("resolving node %d: %w", id, err)
		}
		nodes = append(nodes, node)
	}

	fromNode, err := s.repo.GetNode(ctx, from)
	if err != nil {
		return fmt.Errorf("resolving source %d: %w", from, err)
	}
	toNode, err := s.repo.GetNode(ctx, to)
	if err != nil {
		return fmt.Errorf("resolving destination %d: %w", to, err)
	}

	for _, node := range nodes {
		q := EntryQuery{Location: fromNode.Location, Nodes: []int64{node.ID}}
		if err := s.repo.UpdateEntry(ctx, q, EntryUpdate{Location: &toNode.Location}); err != nil {
			return fmt.Errorf("relocating entry of node %d: %w", node.ID, err)
		}
		if err := s.repo.UpdateNode(ctx, node.ID, NodeUpdate{GroupID: &toNode.GroupID}); err != nil {
			return fmt.Errorf("reassigning group of node %d: %w", node.ID, err)
		}

		if node.Kind == KindFolder {
			q := EntryQuery{Location: node.Location, Name: NameParent}
			if err := s.repo.UpdateEntry(ctx, q, EntryUpdate{Node: &toNode.ID}); err != nil {
				return fmt.Errorf("retargeting parent entry of folder %d: %w", node.ID, err)
			}
		}
	}

	s.logger.Info(ctx, "moved files", "nodes", nodeIDs, "from", fromNode.ID, "to", toNode.ID)
	return nil
}

// Update patches the content fields of a node's own listing entry. Unset
// fields are stripped from the update; an update matching no rows fails
// with ErrUpdateFailed.
func (s *Service) Update(ctx context.Context, nodeID int64, set EntryUpdate) error {
	node, err := s.repo.GetNode(ctx, nodeID)
	if err != nil {
		return err
	}

	// Relocation and retargeting are move's business, never update's.
	set.Location = nil
	set.Node = nil

	q := EntryQuery{Nodes: []int64{node.ID}, OwnOnly: true}
	return s.repo.UpdateEntry(ctx, q, set)
}

// Reset truncates all three collections back to the root node, the root
// listing and the root group.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	if err := s.groups.Reset(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "reset to root state")
	return nil
}
