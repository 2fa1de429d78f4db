package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikulin/linkstash/internal/logging"
	"github.com/anikulin/linkstash/internal/server/config"
	"github.com/anikulin/linkstash/internal/server/groups"
	"github.com/anikulin/linkstash/internal/server/images"
	"github.com/anikulin/linkstash/internal/server/shared/db"
	"github.com/anikulin/linkstash/internal/server/tree"
	"github.com/anikulin/linkstash/internal/server/users"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminEmails = []string{"admin@example.com"}

	rm := db.NewInMemoryRepositoryManager()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ts := tree.NewService(rm.Tree(), rm.Groups(), logger)
	gs := groups.NewService(rm.Groups())
	us := users.NewService(rm.Users(), nil, cfg)
	is := images.NewService(cfg)

	srv := NewServer(cfg.EndpointAddrHTTP, logger, ts, gs, us, is, cfg.SecretKey, cfg.AdminEmails)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, path, token string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	dec := json.NewDecoder(rec.Body)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&resp))
	return rec, resp
}

// resData re-decodes the envelope's res_data into dst.
func resData(t *testing.T, resp response, dst any) {
	t.Helper()
	raw, err := json.Marshal(resp.ResData)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}

func signUpAndLogin(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	rec, resp := doJSON(t, h, "/user/sign-up", "", map[string]any{
		"email": email, "name": "Test", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	rec, resp = doJSON(t, h, "/user/login", "", map[string]any{
		"email": email, "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	resData(t, resp, &data)
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestSignUpDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)

	_, resp := doJSON(t, h, "/user/sign-up", "", map[string]any{
		"email": "ann@example.com", "password": "s3cret",
	})
	require.True(t, resp.Success)

	rec, resp := doJSON(t, h, "/user/sign-up", "", map[string]any{
		"email": "ann@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, 101, resp.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newTestHandler(t)
	signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/user/login", "", map[string]any{
		"email": "ann@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 103, resp.Status)
}

func TestLinkEndpointsRequireToken(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := doJSON(t, h, "/link/read", "", map[string]any{"snode": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 3, resp.Status)

	rec, resp = doJSON(t, h, "/link/read", "not-a-token", map[string]any{"snode": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 4, resp.Status)
}

func TestInsertReadRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/link/insert", token, map[string]any{
		"meta": map[string]any{},
		"data": []map[string]any{
			{"type": 2, "content": map[string]any{"name": "bookmarks"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	var created struct {
		GroupID int64   `json:"gid"`
		Nodes   []int64 `json:"snodes"`
	}
	resData(t, resp, &created)
	require.Len(t, created.Nodes, 1)
	require.NotZero(t, created.GroupID)
	folderID := created.Nodes[0]

	_, resp = doJSON(t, h, "/link/insert", token, map[string]any{
		"meta": map[string]any{"gid": created.GroupID, "snode": folderID},
		"data": []map[string]any{
			{"type": 1, "content": map[string]any{"url": "https://go.dev", "memo": "the language", "tags": []string{"go"}}},
		},
	})
	require.True(t, resp.Success)

	_, resp = doJSON(t, h, "/link/read", token, map[string]any{"snode": folderID})
	require.True(t, resp.Success)

	var views []tree.FileView
	resData(t, resp, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "https://go.dev", views[0].Content.URL)
	assert.Equal(t, tree.KindLink, views[0].Meta.Kind)
	assert.Equal(t, created.GroupID, views[0].Meta.GroupID)

	// No explicit target lists the caller's root folders.
	_, resp = doJSON(t, h, "/link/read", token, map[string]any{})
	require.True(t, resp.Success)
	resData(t, resp, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "bookmarks", views[0].Content.Name)
}

func TestInsertLinkAtRootRejected(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/link/insert", token, map[string]any{
		"meta": map[string]any{},
		"data": []map[string]any{
			{"type": 1, "content": map[string]any{"url": "https://go.dev"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 201, resp.Status)
}

func TestInsertMultipleFoldersAtRootRejected(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/link/insert", token, map[string]any{
		"meta": map[string]any{},
		"data": []map[string]any{
			{"type": 2, "content": map[string]any{"name": "a"}},
			{"type": 2, "content": map[string]any{"name": "b"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 203, resp.Status)
}

func TestUpdateAndDelete(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	_, resp := doJSON(t, h, "/link/insert", token, map[string]any{
		"meta": map[string]any{},
		"data": []map[string]any{{"type": 2, "content": map[string]any{"name": "old"}}},
	})
	var created struct {
		Nodes []int64 `json:"snodes"`
	}
	resData(t, resp, &created)
	folderID := created.Nodes[0]

	_, resp = doJSON(t, h, "/link/update", token, map[string]any{
		"snode":  folderID,
		"update": map[string]any{"name": "new"},
	})
	require.True(t, resp.Success)

	_, resp = doJSON(t, h, "/link/read", token, map[string]any{})
	var views []tree.FileView
	resData(t, resp, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "new", views[0].Content.Name)

	_, resp = doJSON(t, h, "/link/delete", token, map[string]any{"snodes": []int64{folderID}})
	require.True(t, resp.Success)

	rec, resp := doJSON(t, h, "/link/read", token, map[string]any{"snode": folderID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 202, resp.Status)
}

func TestDeleteWithoutIDs(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/link/delete", token, map[string]any{"snodes": []int64{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2, resp.Status)
}

func TestGroupAddUnknownGroup(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/group/add", token, map[string]any{
		"gid": 424242, "email": []string{"bob@example.com"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 301, resp.Status)
}

func TestGroupAddSharesRootFolder(t *testing.T) {
	h := newTestHandler(t)
	ann := signUpAndLogin(t, h, "ann@example.com")
	bob := signUpAndLogin(t, h, "bob@example.com")

	_, resp := doJSON(t, h, "/link/insert", ann, map[string]any{
		"meta": map[string]any{},
		"data": []map[string]any{{"type": 2, "content": map[string]any{"name": "shared"}}},
	})
	var created struct {
		GroupID int64 `json:"gid"`
	}
	resData(t, resp, &created)

	_, resp = doJSON(t, h, "/group/add", ann, map[string]any{
		"gid": created.GroupID, "email": []string{"bob@example.com"},
	})
	require.True(t, resp.Success)

	_, resp = doJSON(t, h, "/link/read", bob, map[string]any{})
	require.True(t, resp.Success)
	var views []tree.FileView
	resData(t, resp, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "shared", views[0].Content.Name)
}

func TestClearDBRequiresAdmin(t *testing.T) {
	h := newTestHandler(t)
	token := signUpAndLogin(t, h, "ann@example.com")

	rec, resp := doJSON(t, h, "/developer/cleardb", token, map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 4, resp.Status)
}

func TestClearDBAsAdmin(t *testing.T) {
	h := newTestHandler(t)
	admin := signUpAndLogin(t, h, "admin@example.com")

	_, resp := doJSON(t, h, "/link/insert", admin, map[string]any{
		"meta": map[string]any{},
		"data": []map[string]any{{"type": 2, "content": map[string]any{"name": "scratch"}}},
	})
	require.True(t, resp.Success)

	_, resp = doJSON(t, h, "/developer/cleardb", admin, map[string]any{})
	require.True(t, resp.Success)

	_, resp = doJSON(t, h, "/link/read", admin, map[string]any{})
	require.True(t, resp.Success)
	var views []tree.FileView
	resData(t, resp, &views)
	assert.Empty(t, views)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
