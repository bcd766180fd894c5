package realtime

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
)

// closeGrace bounds how long Shutdown waits for close handshakes.
const closeGrace = time.Second

// Registry maps online users to their current connection. A user has at
// most one current connection; registering again replaces the mapping but
// leaves the older connection open, so it keeps receiving presence
// snapshots until it disconnects.
//
// Presence is best effort. A snapshot that does not fit into a full send
// buffer is dropped, and that connection sees a stale online list until the
// next registry change.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]*Client
	byConn map[string]*Client
	closed bool
	logger logging.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		byUser: make(map[string]*Client),
		byConn: make(map[string]*Client),
		logger: logger.With("module", "realtime"),
	}
}

// Register binds c to userID and broadcasts the new presence snapshot.
// After Shutdown it refuses with ErrConnClosed.
func (r *Registry) Register(userID string, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrConnClosed
	}

	c.userID = userID
	r.byConn[c.id] = c
	r.byUser[userID] = c
	r.broadcastPresence()
	return nil
}

// Unregister drops the connection. The user mapping is cleared only when it
// still points at connID. Unknown ids are ignored.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if cur, ok := r.byUser[c.userID]; ok && cur == c {
		delete(r.byUser, c.userID)
	}
	r.broadcastPresence()
}

// Lookup returns the id of the current connection of userID.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byUser[userID]
	if !ok {
		return "", false
	}
	return c.id, true
}

// Online returns the ids of all online users in ascending order.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.online()
}

func (r *Registry) online() []string {
	ids := lo.Keys(r.byUser)
	slices.Sort(ids)
	return ids
}

// broadcastPresence enqueues the current snapshot to every live connection.
// Callers hold the write lock, so snapshots reach each connection in
// mutation order.
func (r *Registry) broadcastPresence() {
	frame, err := encode(EventOnlineUsers, r.online())
	if err != nil {
		r.logger.Error(context.Background(), "presence encode failed", "error", err)
		return
	}

	for _, c := range r.byConn {
		if err := c.enqueue(frame); err != nil {
			r.logger.Debug(context.Background(), "presence dropped", "conn", c.id, "user", c.userID, "error", err)
		}
	}
}

// Push sends event to the current connection of userID. It never blocks:
// a full buffer yields ErrSlowConsumer.
func (r *Registry) Push(userID, event string, payload any) error {
	frame, err := encode(event, payload)
	if err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byUser[userID]
	if !ok {
		return ErrOffline
	}
	return c.enqueue(frame)
}

// Shutdown closes every connection with StatusGoingAway and refuses further
// registrations. Connections are closed concurrently; peers that have not
// completed the close handshake within closeGrace are dropped.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	clients := lo.Values(r.byConn)
	r.byConn = make(map[string]*Client)
	r.byUser = make(map[string]*Client)
	r.mu.Unlock()

	var g errgroup.Group
	for _, c := range clients {
		g.Go(func() error {
			c.Close(websocket.StatusGoingAway, "server shutting down")
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	timer := time.NewTimer(closeGrace)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		r.logger.Warn(context.Background(), "close handshake timed out, dropping connections", "count", len(clients))
		for _, c := range clients {
			c.abort()
		}
		<-done
	}
}
