//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=../../mocks/mock_messages_repository.go -package=mocks -mock_names=Repository=MockMessagesRepository

// Package messages is the message store: append-only persistence of direct
// messages, queryable per conversation.
package messages

import (
	"context"

	"github.com/dmitrijs2005/gopherchat/internal/server/models"
)

type Repository interface {
	// Append persists msg as is. ID and CreatedAt are set by the caller.
	Append(ctx context.Context, msg *models.Message) error
	// Conversation returns every message exchanged between a and b, in either
	// direction, ordered by CreatedAt then ID. It is symmetric in a and b.
	Conversation(ctx context.Context, a, b string) ([]*models.Message, error)
}
