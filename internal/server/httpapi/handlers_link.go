package httpapi

import (
	"net/http"

	"github.com/anikulin/linkstash/internal/server/tree"
)

type insertRequest struct {
	Meta struct {
		GroupID int64 `json:"gid"`
		Parent  int64 `json:"snode"`
	} `json:"meta"`
	Data []struct {
		Kind    tree.Kind    `json:"type"`
		Content tree.Content `json:"content"`
	} `json:"data"`
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Data) == 0 {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	items := make([]tree.File, 0, len(req.Data))
	for _, d := range req.Data {
		if d.Kind != tree.KindLink && d.Kind != tree.KindFolder {
			writeStatus(w, catGlobal, 2, nil)
			return
		}
		items = append(items, tree.File{Kind: d.Kind, Content: d.Content})
	}

	meta := tree.RegisterMeta{
		Owner:   emailFromContext(r.Context()),
		GroupID: req.Meta.GroupID,
		Parent:  req.Meta.Parent,
	}

	gid, ids, err := s.tree.Register(r.Context(), meta, items)
	if err != nil {
		writeLinkError(w, err)
		return
	}

	writeOK(w, map[string]any{"gid": gid, "snodes": ids})
}

type readRequest struct {
	Node  int64  `json:"snode"`
	Email string `json:"email"`
}

// handleRead serves both read shapes: by node id, and the caller's
// top-level folders when only an email is given.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	var req readRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var views []tree.FileView
	var err error
	switch {
	case req.Node != 0:
		views, err = s.tree.Read(r.Context(), req.Node)
	case req.Email != "":
		views, err = s.tree.ReadByMember(r.Context(), req.Email)
	default:
		views, err = s.tree.ReadByMember(r.Context(), emailFromContext(r.Context()))
	}
	if err != nil {
		writeLinkError(w, err)
		return
	}

	writeOK(w, views)
}

type deleteRequest struct {
	Nodes []int64 `json:"snodes"`
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.tree.Delete(r.Context(), req.Nodes); err != nil {
		writeLinkError(w, err)
		return
	}

	writeOK(w, nil)
}

type moveRequest struct {
	Nodes []int64 `json:"snodes"`
	From  int64   `json:"from"`
	To    int64   `json:"to"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Nodes) == 0 || req.From == 0 || req.To == 0 {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	if err := s.tree.Move(r.Context(), req.Nodes, req.From, req.To); err != nil {
		writeLinkError(w, err)
		return
	}

	writeOK(w, nil)
}

type updateRequest struct {
	Node   int64 `json:"snode"`
	Update struct {
		Name  *string   `json:"name"`
		URL   *string   `json:"url"`
		Memo  *string   `json:"memo"`
		Image *string   `json:"image"`
		Tags  *[]string `json:"tags"`
	} `json:"update"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Node == 0 {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	set := tree.EntryUpdate{
		Name:  req.Update.Name,
		URL:   req.Update.URL,
		Memo:  req.Update.Memo,
		Image: req.Update.Image,
		Tags:  req.Update.Tags,
	}
	if set.IsZero() {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	if err := s.tree.Update(r.Context(), req.Node, set); err != nil {
		writeLinkError(w, err)
		return
	}

	writeOK(w, nil)
}
