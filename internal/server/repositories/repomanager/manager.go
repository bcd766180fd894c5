// Package repomanager wires repository implementations for a storage driver
// and owns the lifetime of the underlying connection.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gopherchat/internal/server/config"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Messages() messages.Repository
	Close() error
}

// New returns the manager for driver. Only "postgres" and "memory" are known.
func New(driver, dsn string) (RepositoryManager, error) {
	switch driver {
	case config.StorageDriverPostgres:
		return NewPostgresRepositoryManager(dsn)
	case config.StorageDriverMemory:
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
