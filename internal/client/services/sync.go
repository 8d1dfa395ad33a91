package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote"
	"github.com/dkazakov/treeboard/internal/client/state"
	"github.com/dkazakov/treeboard/internal/logging"
)

// resolveTimeout bounds the per-event sender lookup in the consumer
// goroutine.
const resolveTimeout = 5 * time.Second

// SyncService keeps local state consistent with the remote store for the
// tree currently being viewed: one ordered fetch, then a push subscription
// merged idempotently on top.
type SyncService interface {
	// OpenTree switches the view to ownerID: tears down any previous
	// subscription, loads the owner's messages oldest-first, resolves the
	// senders into the user directory, then subscribes to new inserts.
	OpenTree(ctx context.Context, ownerID string) (*models.Profile, error)

	// Close stops the active subscription, if any.
	Close() error
}

type syncService struct {
	store  remote.Store
	state  *state.Store
	logger logging.Logger

	mu  sync.Mutex
	sub remote.Subscription
}

func NewSyncService(store remote.Store, st *state.Store, logger logging.Logger) SyncService {
	return &syncService{store: store, state: st, logger: logger}
}

func (s *syncService) OpenTree(ctx context.Context, ownerID string) (*models.Profile, error) {
	// The previous feed must be gone before the fetch, so no stale events
	// for the old owner race the new snapshot.
	if err := s.Close(); err != nil {
		s.logger.Warn(ctx, "closing previous subscription", "error", err)
	}

	owner, err := s.store.ProfileByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading tree owner: %w", err)
	}

	s.state.SetView(ownerID)
	s.state.UpsertUsers(owner)

	msgs, err := s.store.MessagesForRecipient(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	if err := s.resolveSenders(ctx, msgs); err != nil {
		// Missing sender names degrade the rendering, not the board.
		s.logger.Warn(ctx, "resolving senders", "error", err)
	}

	s.state.ReplaceMessages(msgs)

	sub, err := s.store.SubscribeInserts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("subscribing: %w", err)
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	go s.consume(sub)

	return owner, nil
}

// resolveSenders batch-loads every sender not yet in the directory.
func (s *syncService) resolveSenders(ctx context.Context, msgs []models.Message) error {
	var missing []string
	seen := make(map[string]bool)
	for _, m := range msgs {
		if seen[m.SenderID] || s.state.UserByID(m.SenderID) != nil {
			continue
		}
		seen[m.SenderID] = true
		missing = append(missing, m.SenderID)
	}
	if len(missing) == 0 {
		return nil
	}

	senders, err := s.store.ProfilesByIDs(ctx, missing)
	if err != nil {
		return err
	}
	s.state.UpsertUsers(senders...)
	return nil
}

// consume drains one subscription until its channel closes, merging events
// into state. Merging is idempotent, so an event that raced the initial
// fetch is a no-op.
func (s *syncService) consume(sub remote.Subscription) {
	for m := range sub.Events() {
		// A subscription being torn down can still hold buffered events for
		// the previous owner; they must never reach the new board. AddMessage
		// re-checks the owner under its own lock, this just skips the
		// needless sender resolve.
		if m.RecipientID != s.state.ViewOwnerID() {
			s.logger.Debug(context.Background(), "dropping event for inactive tree",
				"message_id", m.ID, "recipient_id", m.RecipientID)
			continue
		}

		if s.state.UserByID(m.SenderID) == nil {
			ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
			sender, err := s.store.ProfileByID(ctx, m.SenderID)
			if err != nil {
				s.logger.Warn(ctx, "resolving pushed sender", "sender_id", m.SenderID, "error", err)
			} else {
				s.state.UpsertUsers(sender)
			}
			cancel()
		}

		if s.state.AddMessage(m) {
			s.logger.Debug(context.Background(), "merged pushed message", "message_id", m.ID)
		}
	}
}

func (s *syncService) Close() error {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub == nil {
		return nil
	}
	return sub.Close()
}
