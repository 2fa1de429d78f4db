package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeQueryWhere(t *testing.T) {
	tests := []struct {
		name     string
		q        NodeQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "empty query matches everything",
			q:       NodeQuery{},
			wantSQL: "",
		},
		{
			name:     "single id collapses to equality",
			q:        NodeQuery{IDs: []int64{7}},
			wantSQL:  " WHERE id = $1",
			wantArgs: []any{int64(7)},
		},
		{
			name:     "id list",
			q:        NodeQuery{IDs: []int64{7, 8, 9}},
			wantSQL:  " WHERE id IN ($1, $2, $3)",
			wantArgs: []any{int64(7), int64(8), int64(9)},
		},
		{
			name:     "kind and owner",
			q:        NodeQuery{Kind: KindFolder, Owner: "ann@example.com"},
			wantSQL:  " WHERE kind = $1 AND owner = $2",
			wantArgs: []any{KindFolder, "ann@example.com"},
		},
		{
			name:     "groups and locations keep numbering",
			q:        NodeQuery{GroupIDs: []int64{1, 2}, Locations: []int64{5}},
			wantSQL:  " WHERE group_id IN ($1, $2) AND location = $3",
			wantArgs: []any{int64(1), int64(2), int64(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.q.Where()
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEntryQueryWhere(t *testing.T) {
	tests := []struct {
		name     string
		q        EntryQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "location only",
			q:        EntryQuery{Location: 5},
			wantSQL:  " WHERE location = $1",
			wantArgs: []any{int64(5)},
		},
		{
			name:     "named entry",
			q:        EntryQuery{Location: 5, Name: ".."},
			wantSQL:  " WHERE location = $1 AND name = $2",
			wantArgs: []any{int64(5), ".."},
		},
		{
			name:     "own entries exclude navigation",
			q:        EntryQuery{Location: 5, OwnOnly: true},
			wantSQL:  " WHERE location = $1 AND name NOT IN ($2, $3)",
			wantArgs: []any{int64(5), NameSelf, NameParent},
		},
		{
			name:     "explicit name wins over OwnOnly",
			q:        EntryQuery{Name: ".", OwnOnly: true},
			wantSQL:  " WHERE name = $1",
			wantArgs: []any{"."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.q.Where()
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestNodeQueryMatchesMirrorsWhere(t *testing.T) {
	node := &Node{ID: 7, Kind: KindLink, Owner: "ann@example.com", GroupID: 3, Location: 5}

	assert.True(t, NodeQuery{}.Matches(node))
	assert.True(t, NodeQuery{IDs: []int64{7}, Kind: KindLink}.Matches(node))
	assert.True(t, NodeQuery{GroupIDs: []int64{2, 3}}.Matches(node))
	assert.True(t, NodeQuery{Locations: []int64{5}}.Matches(node))

	assert.False(t, NodeQuery{IDs: []int64{8}}.Matches(node))
	assert.False(t, NodeQuery{Kind: KindFolder}.Matches(node))
	assert.False(t, NodeQuery{Owner: "bob@example.com"}.Matches(node))
	assert.False(t, NodeQuery{Locations: []int64{6}}.Matches(node))
}

func TestEntryQueryMatchesNavigation(t *testing.T) {
	self := &Entry{Location: 5, Node: 7, Name: NameSelf, Kind: KindFolder}
	link := &Entry{Location: 5, Node: 9, Kind: KindLink, Link: &LinkContent{URL: "https://go.dev"}}

	assert.True(t, EntryQuery{Location: 5}.Matches(self))
	assert.False(t, EntryQuery{Location: 5, OwnOnly: true}.Matches(self))
	assert.True(t, EntryQuery{Location: 5, OwnOnly: true}.Matches(link))
	assert.True(t, EntryQuery{Location: 5, Name: NameSelf, OwnOnly: true}.Matches(self))
	assert.False(t, EntryQuery{Nodes: []int64{8}}.Matches(link))
}
