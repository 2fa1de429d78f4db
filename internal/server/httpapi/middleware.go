package httpapi

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/anikulin/linkstash/internal/server/auth"
)

type contextKey string

const emailKey contextKey = "email"

// emailFromContext returns the authenticated caller's email set by
// loginRequired.
func emailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// loginRequired rejects requests without a valid access token and stores the
// token's email in the request context. The Authorization header may carry
// the raw token or a Bearer prefix.
func (s *Server) loginRequired(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			writeStatus(w, catGlobal, 3, nil)
			return
		}

		email, err := auth.EmailFromToken(token, s.jwtSecret)
		if err != nil {
			writeStatus(w, catGlobal, 4, nil)
			return
		}

		ctx := context.WithValue(r.Context(), emailKey, email)
		next(w, r.WithContext(ctx))
	}
}

// adminOnly further restricts a handler to the configured admin emails.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return s.loginRequired(func(w http.ResponseWriter, r *http.Request) {
		email := emailFromContext(r.Context())
		if !slices.Contains(s.admins, email) {
			writeStatus(w, catGlobal, 4, nil)
			return
		}
		next(w, r)
	})
}
