package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

// withUser stands in for the session guard: the user id comes from ?u=.
func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("u"); id != "" {
			r = r.WithContext(auth.ContextWithUser(r.Context(), &models.User{ID: id}))
		}
		next.ServeHTTP(w, r)
	})
}

func dialWS(t *testing.T, url, user string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "?u=" + user
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHandler_PresenceAndPush(t *testing.T) {
	reg := NewRegistry(logging.Nop())
	ts := httptest.NewServer(withUser(NewHandler(reg, nil, logging.Nop())))
	defer ts.Close()

	ann := dialWS(t, ts.URL, "ann")
	defer ann.Close(websocket.StatusNormalClosure, "")
	assert.Equal(t, []string{"ann"}, presence(t, readEnvelope(t, ann)))

	bob := dialWS(t, ts.URL, "bob")
	assert.Equal(t, []string{"ann", "bob"}, presence(t, readEnvelope(t, ann)))
	assert.Equal(t, []string{"ann", "bob"}, presence(t, readEnvelope(t, bob)))

	require.NoError(t, reg.Push("ann", EventNewMessage, map[string]string{"text": "hi"}))
	env := readEnvelope(t, ann)
	assert.Equal(t, EventNewMessage, env.Type)
	assert.JSONEq(t, `{"text":"hi"}`, string(env.Payload))

	require.NoError(t, bob.Close(websocket.StatusNormalClosure, ""))
	assert.Equal(t, []string{"ann"}, presence(t, readEnvelope(t, ann)))

	_, ok := reg.Lookup("bob")
	assert.False(t, ok)
}

func TestHandler_ShutdownClosesConnections(t *testing.T) {
	reg := NewRegistry(logging.Nop())
	ts := httptest.NewServer(withUser(NewHandler(reg, nil, logging.Nop())))
	defer ts.Close()

	ann := dialWS(t, ts.URL, "ann")
	readEnvelope(t, ann)

	reg.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := ann.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestHandler_ShutdownDoesNotWaitOnSilentPeers(t *testing.T) {
	reg := NewRegistry(logging.Nop())
	ts := httptest.NewServer(withUser(NewHandler(reg, nil, logging.Nop())))
	defer ts.Close()

	// None of these peers read, so none of them answers the close frame.
	for _, u := range []string{"ann", "bob", "cid"} {
		conn := dialWS(t, ts.URL, u)
		defer conn.CloseNow()
	}
	require.Eventually(t, func() bool { return len(reg.Online()) == 3 }, 5*time.Second, 10*time.Millisecond)

	start := time.Now()
	reg.Shutdown()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, closeGrace+2*time.Second)
	assert.Empty(t, reg.Online())
}

func TestHandler_RequiresUser(t *testing.T) {
	ts := httptest.NewServer(NewHandler(NewRegistry(logging.Nop()), nil, logging.Nop()))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
