package models

import "time"

// Message is a direct message between two users. It is immutable once
// persisted; Text and Image are optional but at least one is set.
type Message struct {
	ID         string    `json:"_id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
