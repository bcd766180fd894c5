package realtime

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"nhooyr.io/websocket"
)

// Handler upgrades authenticated requests to websockets and keeps the
// connection registered until it closes. It expects the session guard to
// have put the user into the request context.
type Handler struct {
	registry *Registry
	accept   *websocket.AcceptOptions
	logger   logging.Logger
}

// NewHandler creates a Handler. originPatterns lists extra hosts allowed to
// open cross-origin connections; same-origin requests are always allowed.
func NewHandler(registry *Registry, originPatterns []string, logger logging.Logger) *Handler {
	return &Handler{
		registry: registry,
		accept:   &websocket.AcceptOptions{OriginPatterns: originPatterns},
		logger:   logger.With("module", "ws"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.logger.Warn(r.Context(), "accept failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := NewClient(conn)
	client.cancel = cancel
	if err := h.registry.Register(user.ID, client); err != nil {
		client.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer func() {
		h.registry.Unregister(client.ID())
		client.Close(websocket.StatusNormalClosure, "")
	}()

	h.logger.Debug(ctx, "connected", "conn", client.ID(), "user", user.ID)

	go client.writePump(ctx, h.logger)

	// Inbound frames carry nothing; reading only surfaces the close.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			h.logger.Debug(ctx, "disconnected", "conn", client.ID(), "user", user.ID, "status", websocket.CloseStatus(err))
			return
		}
	}
}
