// Package remote defines the contract the treeboard client consumes from
// its authoritative message store, plus the two implementations shipped
// with the CLI: Postgres (connected mode) and a local sqlite cache
// (degraded mode). The core never implements storage or auth itself; it
// passes errors through opaquely except for timeouts and duplicates.
package remote

import (
	"context"

	"github.com/dkazakov/treeboard/internal/client/models"
)

// Store is the remote query/insert/subscribe contract.
//
// All calls honor ctx cancellation. Lookups that find nothing return
// common.ErrNotFound; an unreachable backend surfaces as
// common.ErrUnavailable.
type Store interface {
	// Ping probes backend reachability.
	Ping(ctx context.Context) error

	ProfileByID(ctx context.Context, id string) (*models.Profile, error)
	ProfileByEmail(ctx context.Context, email string) (*models.Profile, error)

	// ProfilesByIDs resolves a batch of profile ids in one call. Missing ids
	// are skipped, not errors.
	ProfilesByIDs(ctx context.Context, ids []string) ([]*models.Profile, error)

	// SearchProfiles matches the query against names and email, case
	// insensitively.
	SearchProfiles(ctx context.Context, query string) ([]*models.Profile, error)

	// MessagesForRecipient returns all messages on the recipient's tree,
	// ordered by creation time ascending.
	MessagesForRecipient(ctx context.Context, recipientID string) ([]models.Message, error)

	// MessagesBySender returns all messages the sender has left anywhere,
	// used to derive mission progress.
	MessagesBySender(ctx context.Context, senderID string) ([]models.Message, error)

	// InsertMessage persists a draft. The backend assigns id and timestamp;
	// the outcome is Unconfirmed when the write was accepted but no record
	// came back. A second message for the same sender/recipient pair fails
	// with common.ErrDuplicateMessage.
	InsertMessage(ctx context.Context, draft models.MessageDraft) (InsertOutcome, error)

	// SubscribeInserts opens a push feed of messages newly inserted for the
	// given recipient. The caller must Close the subscription before opening
	// another one for a different owner.
	SubscribeInserts(ctx context.Context, recipientID string) (Subscription, error)

	UpdateCustomization(ctx context.Context, id string, c models.Customization) (*models.Profile, error)

	Close() error
}

// InsertOutcome is the tagged result of an insert: either the backend
// confirmed the write with the stored record, or it acknowledged without
// one and the caller must fall back to its provisional copy.
type InsertOutcome struct {
	confirmed *models.Message
}

func Confirmed(m *models.Message) InsertOutcome {
	return InsertOutcome{confirmed: m}
}

func Unconfirmed() InsertOutcome {
	return InsertOutcome{}
}

// Record returns the stored record and whether the write was confirmed.
func (o InsertOutcome) Record() (*models.Message, bool) {
	return o.confirmed, o.confirmed != nil
}

// Subscription is a cancellable stream of pushed message inserts. Events
// is closed once the subscription ends; Close is idempotent.
type Subscription interface {
	Events() <-chan models.Message
	Close() error
}
