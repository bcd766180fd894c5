package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Data is lost
// on restart.
type InMemoryRepositoryManager struct {
	users    *users.InMemoryRepository
	messages *messages.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		messages: messages.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Messages() messages.Repository {
	return m.messages
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
