package httpapi

import (
	"errors"
	"net/http"

	"github.com/anikulin/linkstash/internal/common"
)

type signUpRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	Thumbnail string `json:"thumbnail"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	if err := s.users.Register(r.Context(), req.Email, req.Name, req.Password, req.Thumbnail); err != nil {
		s.logger.Warn(r.Context(), "sign-up failed", "email", req.Email, "error", err)
		writeStatus(w, catUser, 1, nil)
		return
	}

	writeOK(w, nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeStatus(w, catUser, 3, nil)
			return
		}
		writeStatus(w, catGlobal, 5, nil)
		return
	}

	writeOK(w, map[string]any{"access_token": token})
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleLoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeStatus(w, catGlobal, 2, nil)
		return
	}

	user, token, err := s.users.LoginWithIDToken(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeStatus(w, catUser, 4, nil)
			return
		}
		writeStatus(w, catGlobal, 5, nil)
		return
	}

	writeOK(w, map[string]any{
		"access_token": token,
		"email":        user.Email,
		"name":         user.Name,
		"thumbnail":    user.Thumbnail,
	})
}
