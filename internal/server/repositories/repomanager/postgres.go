package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gopherchat/internal/server/migrations"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories sharing one
// connection pool.
type PostgresRepositoryManager struct {
	db       *sql.DB
	users    *users.PostgresRepository
	messages *messages.PostgresRepository
}

// sqlOpen is a seam for testing sql.Open.
var sqlOpen = sql.Open

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {

	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return newPostgresRepositoryManager(db), nil
}

func newPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:       db,
		users:    users.NewPostgresRepository(db),
		messages: messages.NewPostgresRepository(db),
	}
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Messages() messages.Repository {
	return m.messages
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
