package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmcastle/fieldops/pkg/conversation"
)

type conversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository creates a PostgreSQL conversation history
// repository
func NewConversationRepository(db *pgxpool.Pool) conversation.Repository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) SaveMessage(ctx context.Context, message *conversation.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	query := `
		INSERT INTO conversation_history (id, user_id, role, content, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		message.ID, message.UserID, message.Role, message.Content, message.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("error saving message: %w", err)
	}
	return nil
}

func (r *conversationRepository) GetUserHistory(ctx context.Context, userID string, limit, offset int) ([]conversation.Message, error) {
	query := `
		SELECT id, user_id, role, content, timestamp
		FROM conversation_history
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}
	defer rows.Close()

	var messages []conversation.Message
	for rows.Next() {
		var m conversation.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}
	return messages, nil
}

func (r *conversationRepository) DeleteUserHistory(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM conversation_history WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error deleting history: %w", err)
	}
	return nil
}

func (r *conversationRepository) CountUserMessages(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversation_history WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}
