package httpapi

import (
	"errors"
	"net/http"

	"github.com/anikulin/linkstash/internal/common"
)

type groupAddRequest struct {
	GroupID int64    `json:"gid"`
	Emails  []string `json:"email"`
}

func (s *Server) handleGroupAdd(w http.ResponseWriter, r *http.Request) {
	var req groupAddRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.GroupID == 0 || len(req.Emails) == 0 {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	if err := s.groups.AddMembers(r.Context(), req.GroupID, req.Emails); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeStatus(w, catGroup, 1, nil)
			return
		}
		writeStatus(w, catGlobal, 5, nil)
		return
	}

	writeOK(w, nil)
}
