// Package api exposes the chat backend over HTTP: account routes, message
// routes and the guarded websocket endpoint.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"github.com/dmitrijs2005/gopherchat/internal/server/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type HTTPServer struct {
	address  string
	users    *services.UserService
	messages *services.MessageService
	auth     *auth.Authority
	ws       http.Handler
	maxBody  int64
	logger   logging.Logger
}

type Option func(*HTTPServer)

// WithMaxBodyBytes caps JSON request bodies. Zero or less disables the cap.
func WithMaxBodyBytes(n int64) Option {
	return func(s *HTTPServer) {
		s.maxBody = n
	}
}

func NewHTTPServer(address string, l logging.Logger, us *services.UserService, ms *services.MessageService,
	a *auth.Authority, ws http.Handler, opts ...Option) *HTTPServer {

	s := &HTTPServer{
		address:  address,
		users:    us,
		messages: ms,
		auth:     a,
		ws:       ws,
		logger:   l.With("module", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routing table.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.signup)
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/logout", s.logout)
	mux.Handle("PUT /api/auth/update-profile", s.guard(http.HandlerFunc(s.updateProfile)))
	mux.Handle("GET /api/auth/check", s.guard(http.HandlerFunc(s.checkAuth)))

	mux.Handle("GET /api/messages/users", s.guard(http.HandlerFunc(s.listPeers)))
	mux.Handle("GET /api/messages/{id}", s.guard(http.HandlerFunc(s.getMessages)))
	mux.Handle("POST /api/messages/send/{id}", s.guard(http.HandlerFunc(s.sendMessage)))

	mux.Handle("GET /ws", s.guard(s.ws))
	mux.HandleFunc("GET /health", s.health)

	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// once in-flight requests have drained or shutdownTimeout has passed.
// Hijacked websocket connections are not tracked by net/http; the caller
// closes them.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-stopped
	return nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
