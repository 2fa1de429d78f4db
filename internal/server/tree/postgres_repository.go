package tree

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anikulin/linkstash/internal/common"
	"github.com/anikulin/linkstash/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX. The node and
// entry collections are the nodes and entries tables; the polymorphic
// link/folder payload is kept as a jsonb document so the record stays
// schema-less where the model is.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertNodes(ctx context.Context, nodes []*Node) error {
	if len(nodes) == 0 {
		return nil
	}

	var args []any
	var rows []string
	for _, n := range nodes {
		args = append(args, n.ID, n.Kind, n.Owner, n.GroupID, n.Location)
		k := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", k-4, k-3, k-2, k-1, k))
	}

	query := "INSERT INTO nodes (id, kind, owner, group_id, location) VALUES " + strings.Join(rows, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: inserting nodes: %v", common.ErrStorage, err)
	}
	return nil
}

func contentDoc(e *Entry) ([]byte, error) {
	switch {
	case e.Link != nil:
		return json.Marshal(e.Link)
	case e.Folder != nil:
		return json.Marshal(e.Folder)
	default:
		return []byte("{}"), nil
	}
}

func (r *PostgresRepository) InsertEntries(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	var args []any
	var rows []string
	for _, e := range entries {
		doc, err := contentDoc(e)
		if err != nil {
			return fmt.Errorf("encoding entry content: %w", err)
		}
		args = append(args, e.Location, e.Node, e.Name, e.Kind, doc)
		k := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", k-4, k-3, k-2, k-1, k))
	}

	query := "INSERT INTO entries (location, node, name, kind, content) VALUES " + strings.Join(rows, ", ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: inserting entries: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *PostgresRepository) GetNode(ctx context.Context, id int64) (*Node, error) {
	query := `SELECT id, kind, owner, group_id, location FROM nodes WHERE id = $1`

	n := &Node{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Kind, &n.Owner, &n.GroupID, &n.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting node %d: %w", id, err)
	}
	return n, nil
}

func (r *PostgresRepository) GetNodes(ctx context.Context, q NodeQuery) ([]*Node, error) {
	clause, args := q.Where()
	query := `SELECT id, kind, owner, group_id, location FROM nodes` + clause + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting nodes: %w", err)
	}
	defer rows.Close()

	var result []*Node
	for rows.Next() {
		n := &Node{}
		if err := rows.Scan(&n.ID, &n.Kind, &n.Owner, &n.GroupID, &n.Location); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanEntry(doc []byte, e *Entry) error {
	if len(doc) == 0 || string(doc) == "{}" {
		return nil
	}
	switch e.Kind {
	case KindLink:
		e.Link = &LinkContent{}
		return json.Unmarshal(doc, e.Link)
	case KindFolder:
		if e.IsNavigation() {
			return nil
		}
		e.Folder = &FolderContent{}
		return json.Unmarshal(doc, e.Folder)
	}
	return nil
}

func (r *PostgresRepository) GetEntries(ctx context.Context, q EntryQuery) ([]*Entry, error) {
	clause, args := q.Where()
	query := `SELECT location, node, name, kind, content FROM entries` + clause + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting entries: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e := &Entry{}
		var doc []byte
		if err := rows.Scan(&e.Location, &e.Node, &e.Name, &e.Kind, &doc); err != nil {
			return nil, err
		}
		if err := scanEntry(doc, e); err != nil {
			return nil, fmt.Errorf("decoding entry content: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateNode(ctx context.Context, id int64, set NodeUpdate) error {
	var parts []string
	var args []any

	if set.GroupID != nil {
		args = append(args, *set.GroupID)
		parts = append(parts, fmt.Sprintf("group_id = $%d", len(args)))
	}
	if set.Location != nil {
		args = append(args, *set.Location)
		parts = append(parts, fmt.Sprintf("location = $%d", len(args)))
	}
	if len(parts) == 0 {
		return common.ErrUpdateFailed
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE nodes SET %s WHERE id = $%d", strings.Join(parts, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating node %d: %w", id, err)
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

// contentPatch collects the content fields of set into one merge
// document. All patched keys must land in a single assignment: Postgres
// rejects an UPDATE that assigns the content column twice.
func contentPatch(set EntryUpdate) map[string]any {
	patch := map[string]any{}
	if set.Name != nil {
		patch["name"] = *set.Name
	}
	if set.URL != nil {
		patch["url"] = *set.URL
	}
	if set.Memo != nil {
		patch["memo"] = *set.Memo
	}
	if set.Image != nil {
		patch["image"] = *set.Image
	}
	if set.Tags != nil {
		patch["tags"] = *set.Tags
	}
	return patch
}

func (r *PostgresRepository) UpdateEntry(ctx context.Context, q EntryQuery, set EntryUpdate) error {
	if set.IsZero() {
		return common.ErrUpdateFailed
	}

	clause, args := q.Where()

	var parts []string
	if set.Location != nil {
		args = append(args, *set.Location)
		parts = append(parts, fmt.Sprintf("location = $%d", len(args)))
	}
	if set.Node != nil {
		args = append(args, *set.Node)
		parts = append(parts, fmt.Sprintf("node = $%d", len(args)))
	}
	if set.Name != nil {
		args = append(args, *set.Name)
		parts = append(parts, fmt.Sprintf("name = $%d", len(args)))
	}

	if patch := contentPatch(set); len(patch) > 0 {
		doc, err := json.Marshal(patch)
		if err != nil {
			return fmt.Errorf("encoding content patch: %w", err)
		}
		args = append(args, string(doc))
		parts = append(parts, fmt.Sprintf("content = content || $%d::jsonb", len(args)))
	}

	// The WHERE clause was rendered first, so its placeholders stay valid.
	query := "UPDATE entries SET " + strings.Join(parts, ", ") + clause

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating entries: %w", err)
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

func (r *PostgresRepository) DeleteNodes(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var args []any
	cond := inClause("id", ids, &args)
	if _, err := r.db.ExecContext(ctx, "DELETE FROM nodes WHERE "+cond, args...); err != nil {
		return fmt.Errorf("deleting nodes: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteEntries(ctx context.Context, locations, nodes []int64) error {
	if len(locations) == 0 && len(nodes) == 0 {
		return nil
	}

	var args []any
	var conds []string
	if len(locations) > 0 {
		conds = append(conds, inClause("location", locations, &args))
	}
	if len(nodes) > 0 {
		conds = append(conds, inClause("node", nodes, &args))
	}

	query := "DELETE FROM entries WHERE " + strings.Join(conds, " OR ")
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	return nil
}

// Reset truncates both collections and reinserts the root records. Like
// every multi-step operation here it is several independent writes, not a
// transaction.
func (r *PostgresRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	if err := r.InsertNodes(ctx, []*Node{RootNode()}); err != nil {
		return err
	}
	return r.InsertEntries(ctx, []*Entry{RootEntry()})
}
