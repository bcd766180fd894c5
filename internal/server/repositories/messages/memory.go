package messages

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gopherchat/internal/server/models"
	"github.com/samber/lo"
)

// InMemoryRepository keeps messages in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	messages []models.Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(ctx context.Context, msg *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.messages = append(r.messages, *msg)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	r.mu.RLock()
	matched := lo.FilterMap(r.messages, func(m models.Message, _ int) (*models.Message, bool) {
		inPair := (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
		return &m, inPair
	})
	r.mu.RUnlock()

	slices.SortStableFunc(matched, compareMessages)
	return matched, nil
}

func compareMessages(x, y *models.Message) int {
	if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(x.ID, y.ID)
}
