package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const (
	// sendBufferSize is the number of frames that can be queued per client.
	sendBufferSize = 16

	// writeTimeout is the max time to wait for a single write to complete.
	writeTimeout = 5 * time.Second
)

// Client is one accepted websocket connection.
type Client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once

	// cancel ends the handler context serving conn. Cancelling it drops the
	// connection without waiting for the close handshake.
	cancel context.CancelFunc
}

// NewClient wraps an accepted connection. The id is fresh per connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

// enqueue never blocks. The send channel is never closed; done signals the
// end of the client instead.
func (c *Client) enqueue(frame []byte) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close marks the client done and closes the websocket with code. Safe to
// call more than once; only the first call has effect.
func (c *Client) Close(code websocket.StatusCode, reason string) {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close(code, reason)
		}
	})
}

// abort drops the connection immediately, unblocking a pending Close.
func (c *Client) abort() {
	if c.cancel != nil {
		c.cancel()
	}
}

// writePump drains the send buffer until the client is closed or ctx ends.
func (c *Client) writePump(ctx context.Context, logger logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case frame := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				logger.Debug(ctx, "write failed", "conn", c.id, "user", c.userID, "error", err)
				c.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}
