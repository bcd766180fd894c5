// Package realtime tracks live websocket connections per user and pushes
// events to them: presence snapshots to everyone and direct messages to
// their recipient.
package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	EventOnlineUsers = "getOnlineUsers"
	EventNewMessage  = "newMessage"
)

var (
	ErrOffline      = errors.New("recipient offline")
	ErrSlowConsumer = errors.New("send buffer full")
	ErrConnClosed   = errors.New("connection closed")
)

// Envelope is the JSON frame written to clients.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}

	env, err := json.Marshal(Envelope{Type: event, Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", event, err)
	}
	return env, nil
}
