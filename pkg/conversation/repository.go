package conversation

import (
	"context"
)

// Repository defines storage for conversation history
type Repository interface {
	// SaveMessage stores a new message
	SaveMessage(ctx context.Context, message *Message) error

	// GetUserHistory returns a user's messages, newest first
	GetUserHistory(ctx context.Context, userID string, limit, offset int) ([]Message, error)

	// DeleteUserHistory removes all of a user's messages
	DeleteUserHistory(ctx context.Context, userID string) error

	// CountUserMessages counts how many messages a user has
	CountUserMessages(ctx context.Context, userID string) (int, error)
}
