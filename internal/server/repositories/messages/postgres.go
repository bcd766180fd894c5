package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gopherchat/internal/dbx"
	"github.com/dmitrijs2005/gopherchat/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, msg *models.Message) error {

	query :=
		`INSERT INTO messages (id, sender_id, receiver_id, text, image, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.SenderID, msg.ReceiverID, msg.Text, msg.Image, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {

	query :=
		`SELECT id, sender_id, receiver_id, text, image, created_at FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Message, 0)
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Image, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
