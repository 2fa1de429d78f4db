// Package httpapi is the JSON/HTTP routing layer: it maps verbs and paths
// to service calls, owns the status-code envelope, and resolves the
// caller's identity from the access token. No business rules live here.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/anikulin/linkstash/internal/logging"
	"github.com/anikulin/linkstash/internal/server/groups"
	"github.com/anikulin/linkstash/internal/server/images"
	"github.com/anikulin/linkstash/internal/server/tree"
	"github.com/anikulin/linkstash/internal/server/users"
)

type Server struct {
	address   string
	logger    logging.Logger
	tree      *tree.Service
	groups    *groups.Service
	users     *users.Service
	images    *images.Service
	jwtSecret []byte
	admins    []string
}

func NewServer(address string, logger logging.Logger, ts *tree.Service, gs *groups.Service,
	us *users.Service, is *images.Service, secretKey string, admins []string) *Server {
	return &Server{
		address:   address,
		logger:    logger.With("module", "httpapi"),
		tree:      ts,
		groups:    gs,
		users:     us,
		images:    is,
		jwtSecret: []byte(secretKey),
		admins:    admins,
	}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /user/sign-up", s.handleSignUp)
	mux.HandleFunc("POST /user/login", s.handleLogin)
	mux.HandleFunc("POST /user/login/google", s.handleLoginGoogle)

	mux.HandleFunc("POST /link/insert", s.loginRequired(s.handleInsert))
	mux.HandleFunc("POST /link/read", s.loginRequired(s.handleRead))
	mux.HandleFunc("POST /link/delete", s.loginRequired(s.handleDelete))
	mux.HandleFunc("POST /link/move", s.loginRequired(s.handleMove))
	mux.HandleFunc("POST /link/update", s.loginRequired(s.handleUpdate))

	mux.HandleFunc("POST /group/add", s.loginRequired(s.handleGroupAdd))

	mux.HandleFunc("POST /image/upload", s.loginRequired(s.handleImageUpload))
	mux.HandleFunc("POST /image/download", s.loginRequired(s.handleImageDownload))

	mux.HandleFunc("POST /developer/cleardb", s.adminOnly(s.handleClearDB))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
