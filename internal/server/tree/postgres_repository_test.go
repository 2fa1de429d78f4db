package tree

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikulin/linkstash/internal/common"
)

type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

// fakeDBTX records the statement an update renders. Only ExecContext is
// exercised by the update paths.
type fakeDBTX struct {
	query string
	args  []any
	rows  int64
}

func (f *fakeDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.query = query
	f.args = args
	return fakeResult{rows: f.rows}, nil
}

func (f *fakeDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func TestUpdateEntryMergesContentFields(t *testing.T) {
	db := &fakeDBTX{rows: 1}
	repo := NewPostgresRepository(db)

	url := "https://go.dev"
	memo := "the language"
	tags := []string{"go"}
	err := repo.UpdateEntry(context.Background(),
		EntryQuery{Nodes: []int64{7}, OwnOnly: true},
		EntryUpdate{URL: &url, Memo: &memo, Tags: &tags})
	require.NoError(t, err)

	// One assignment to content no matter how many fields are patched.
	assert.Equal(t, 1, strings.Count(db.query, "content ="), db.query)
	assert.Contains(t, db.query, "content = content || ")

	require.Len(t, db.args, 4)
	doc, ok := db.args[3].(string)
	require.True(t, ok)
	assert.JSONEq(t, `{"url":"https://go.dev","memo":"the language","tags":["go"]}`, doc)
}

func TestUpdateEntryRenameSetsColumnAndContent(t *testing.T) {
	db := &fakeDBTX{rows: 1}
	repo := NewPostgresRepository(db)

	name := "new name"
	err := repo.UpdateEntry(context.Background(),
		EntryQuery{Nodes: []int64{7}, OwnOnly: true},
		EntryUpdate{Name: &name})
	require.NoError(t, err)

	assert.Contains(t, db.query, "name = $")
	assert.Equal(t, 1, strings.Count(db.query, "content ="), db.query)
}

func TestUpdateEntryZeroMatchFails(t *testing.T) {
	db := &fakeDBTX{rows: 0}
	repo := NewPostgresRepository(db)

	memo := "unreachable"
	err := repo.UpdateEntry(context.Background(),
		EntryQuery{Nodes: []int64{7}},
		EntryUpdate{Memo: &memo})
	assert.ErrorIs(t, err, common.ErrUpdateFailed)
}

func TestUpdateNodeZeroMatchFails(t *testing.T) {
	db := &fakeDBTX{rows: 0}
	repo := NewPostgresRepository(db)

	gid := int64(5)
	err := repo.UpdateNode(context.Background(), 7, NodeUpdate{GroupID: &gid})
	assert.ErrorIs(t, err, common.ErrUpdateFailed)
}
