package httpapi

import (
	"net/http"
)

// handleImageUpload hands out a presigned PUT URL together with the storage
// key the client should save as the image reference.
func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.images.PresignPut(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presigning upload failed", "error", err)
		writeStatus(w, catGlobal, 5, nil)
		return
	}

	writeOK(w, map[string]any{"key": key, "url": url})
}

type imageDownloadRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleImageDownload(w http.ResponseWriter, r *http.Request) {
	var req imageDownloadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Key == "" {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	url, err := s.images.PresignGet(r.Context(), req.Key)
	if err != nil {
		s.logger.Error(r.Context(), "presigning download failed", "error", err)
		writeStatus(w, catGlobal, 5, nil)
		return
	}

	writeOK(w, map[string]any{"url": url})
}

// handleClearDB resets the tree and group stores to the bootstrap root
// state. Reachable only through adminOnly.
func (s *Server) handleClearDB(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.Reset(r.Context()); err != nil {
		s.logger.Error(r.Context(), "reset failed", "error", err)
		writeStatus(w, catGlobal, 5, nil)
		return
	}

	writeOK(w, nil)
}
