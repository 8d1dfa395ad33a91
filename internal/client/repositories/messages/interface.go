package messages

import (
	"context"

	"github.com/dkazakov/treeboard/internal/client/models"
)

// Repository describes the local persistence operations for messages.
type Repository interface {
	// Create inserts a message. A second message for the same
	// sender/recipient pair fails with common.ErrDuplicateMessage.
	Create(ctx context.Context, m *models.Message) error

	// GetByRecipient lists messages addressed to a tree owner, oldest
	// first. Ordering drives decoration placement and must be stable.
	GetByRecipient(ctx context.Context, recipientID string) ([]models.Message, error)

	// GetBySender lists messages a user has sent, oldest first.
	GetBySender(ctx context.Context, senderID string) ([]models.Message, error)

	// ExistsPair reports whether the sender already decorated the
	// recipient's tree.
	ExistsPair(ctx context.Context, senderID, recipientID string) (bool, error)
}
