package groups

import (
	"fmt"
	"slices"
	"strings"
)

// Query translates optional filters into a predicate over the group
// collection. A single member filter means "contains this member";
// several mean "contains any of them". The zero value matches everything.
type Query struct {
	ID      int64
	Members []string
}

// Where renders the predicate as a SQL clause with positional arguments.
// Membership tests run against the jsonb members document.
func (q Query) Where() (string, []any) {
	var conds []string
	var args []any

	if q.ID != 0 {
		args = append(args, q.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if len(q.Members) == 1 {
		args = append(args, q.Members[0])
		conds = append(conds, fmt.Sprintf("members @> to_jsonb($%d::text)", len(args)))
	} else if len(q.Members) > 1 {
		holders := make([]string, 0, len(q.Members))
		for _, m := range q.Members {
			args = append(args, m)
			holders = append(holders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(members) AS m(value) WHERE m.value IN (%s))",
			strings.Join(holders, ", ")))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Matches evaluates the predicate in memory, mirroring Where.
func (q Query) Matches(g *Group) bool {
	if q.ID != 0 && g.ID != q.ID {
		return false
	}
	if len(q.Members) > 0 {
		any := false
		for _, m := range q.Members {
			if slices.Contains(g.Members, m) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}
