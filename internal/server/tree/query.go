package tree

import (
	"fmt"
	"slices"
	"strings"
)

// NodeQuery translates a sparse set of optional filters into a predicate
// over the node collection. The zero value matches everything; callers
// must constrain explicitly.
type NodeQuery struct {
	IDs       []int64
	Kind      Kind
	Owner     string
	GroupIDs  []int64
	Locations []int64
}

// EntryQuery is the analogous predicate over the entry collection. When
// Name is empty and OwnOnly is set, the predicate excludes the "." and
// ".." navigation rows.
type EntryQuery struct {
	Location int64
	Nodes    []int64
	Name     string
	OwnOnly  bool
}

// where assembles a WHERE clause from the given conditions, numbering
// placeholders starting at one. An empty condition set yields an empty
// clause, i.e. an unconstrained query.
func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func inClause(column string, ids []int64, args *[]any) string {
	if len(ids) == 1 {
		*args = append(*args, ids[0])
		return fmt.Sprintf("%s = $%d", column, len(*args))
	}
	holders := make([]string, 0, len(ids))
	for _, id := range ids {
		*args = append(*args, id)
		holders = append(holders, fmt.Sprintf("$%d", len(*args)))
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(holders, ", "))
}

// Where renders the predicate as a SQL clause with positional arguments.
func (q NodeQuery) Where() (string, []any) {
	var conds []string
	var args []any

	if len(q.IDs) > 0 {
		conds = append(conds, inClause("id", q.IDs, &args))
	}
	if q.Kind != 0 {
		args = append(args, q.Kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if q.Owner != "" {
		args = append(args, q.Owner)
		conds = append(conds, fmt.Sprintf("owner = $%d", len(args)))
	}
	if len(q.GroupIDs) > 0 {
		conds = append(conds, inClause("group_id", q.GroupIDs, &args))
	}
	if len(q.Locations) > 0 {
		conds = append(conds, inClause("location", q.Locations, &args))
	}

	return where(conds), args
}

// Matches evaluates the predicate in memory, mirroring Where.
func (q NodeQuery) Matches(n *Node) bool {
	if len(q.IDs) > 0 && !slices.Contains(q.IDs, n.ID) {
		return false
	}
	if q.Kind != 0 && n.Kind != q.Kind {
		return false
	}
	if q.Owner != "" && n.Owner != q.Owner {
		return false
	}
	if len(q.GroupIDs) > 0 && !slices.Contains(q.GroupIDs, n.GroupID) {
		return false
	}
	if len(q.Locations) > 0 && !slices.Contains(q.Locations, n.Location) {
		return false
	}
	return true
}

// Where renders the predicate as a SQL clause with positional arguments.
func (q EntryQuery) Where() (string, []any) {
	var conds []string
	var args []any

	if q.Location != 0 {
		args = append(args, q.Location)
		conds = append(conds, fmt.Sprintf("location = $%d", len(args)))
	}
	if len(q.Nodes) > 0 {
		conds = append(conds, inClause("node", q.Nodes, &args))
	}
	if q.Name != "" {
		args = append(args, q.Name)
		conds = append(conds, fmt.Sprintf("name = $%d", len(args)))
	} else if q.OwnOnly {
		args = append(args, NameSelf, NameParent)
		conds = append(conds, fmt.Sprintf("name NOT IN ($%d, $%d)", len(args)-1, len(args)))
	}

	return where(conds), args
}

// Matches evaluates the predicate in memory, mirroring Where.
func (q EntryQuery) Matches(e *Entry) bool {
	if q.Location != 0 && e.Location != q.Location {
		return false
	}
	if len(q.Nodes) > 0 && !slices.Contains(q.Nodes, e.Node) {
		return false
	}
	if q.Name != "" {
		if e.Name != q.Name {
			return false
		}
	} else if q.OwnOnly && e.IsNavigation() {
		return false
	}
	return true
}
