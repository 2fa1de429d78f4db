package groups

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anikulin/linkstash/internal/common"
	"github.com/anikulin/linkstash/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX. Members are
// stored as a jsonb array, which preserves insertion order.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertGroups(ctx context.Context, groups []*Group) error {
	if len(groups) == 0 {
		return nil
	}

	var args []any
	var rows []string
	for _, g := range groups {
		members, err := json.Marshal(g.Members)
		if err != nil {
			return fmt.Errorf("encoding members: %w", err)
		}
		args = append(args, g.ID, string(members))
		rows = append(rows, fmt.Sprintf("($%d, $%d::jsonb)", len(args)-1, len(args)))
	}

	query := "INSERT INTO groups (id, members) VALUES " + strings.Join(rows, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: inserting groups: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, member string) (int64, error) {
	group := NewGroup(member)
	if err := r.InsertGroups(ctx, []*Group{group}); err != nil {
		return 0, err
	}
	return group.ID, nil
}

func (r *PostgresRepository) GetGroups(ctx context.Context, q Query) ([]*Group, error) {
	clause, args := q.Where()
	query := `SELECT id, members FROM groups` + clause + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting groups: %w", err)
	}
	defer rows.Close()

	var result []*Group
	for rows.Next() {
		g := &Group{}
		var members []byte
		if err := rows.Scan(&g.ID, &members); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &g.Members); err != nil {
			return nil, fmt.Errorf("decoding members: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateGroup(ctx context.Context, q Query, group *Group) error {
	members, err := json.Marshal(group.Members)
	if err != nil {
		return fmt.Errorf("encoding members: %w", err)
	}

	clause, args := q.Where()
	args = append(args, string(members))
	query := fmt.Sprintf("UPDATE groups SET members = $%d::jsonb", len(args)) + clause

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating groups: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrUpdateFailed
	}
	return nil
}

func (r *PostgresRepository) DeleteGroups(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	var args []any
	holders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		holders = append(holders, fmt.Sprintf("$%d", len(args)))
	}

	query := "DELETE FROM groups WHERE id IN (" + strings.Join(holders, ", ") + ")"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting groups: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Reset(ctx context.Context) error {
	root := RootGroup()
	if existing, err := r.GetGroups(ctx, Query{ID: common.RootGroup}); err == nil && len(existing) > 0 {
		root = existing[0]
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM groups"); err != nil {
		return fmt.Errorf("clearing groups: %w", err)
	}
	return r.InsertGroups(ctx, []*Group{root})
}
