package remote

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"

	"github.com/dkazakov/treeboard/internal/client/migrations"
	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/repositories/messages"
	"github.com/dkazakov/treeboard/internal/client/repositories/profiles"
	"github.com/dkazakov/treeboard/internal/logging"
)

// OfflineStore is the degraded-mode Store: everything is served from the
// local SQLite cache. Inserts are assigned an id and timestamp locally and
// come back confirmed, so callers behave exactly as in connected mode.
// Push events are delivered in-process to subscribers of the same store.
type OfflineStore struct {
	db       *sql.DB
	profiles profiles.Repository
	messages messages.Repository
	logger   logging.Logger

	mu   sync.Mutex
	subs map[*offlineSubscription]struct{}
}

func NewOfflineStore(ctx context.Context, dsn string, logger logging.Logger) (*OfflineStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if err := runCacheMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache migration error: %w", err)
	}

	return &OfflineStore{
		db:       db,
		profiles: profiles.NewSQLiteRepository(db),
		messages: messages.NewSQLiteRepository(db),
		logger:   logger,
		subs:     make(map[*offlineSubscription]struct{}),
	}, nil
}

func runCacheMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *OfflineStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *OfflineStore) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *OfflineStore) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.profiles.GetByEmail(ctx, email)
}

func (s *OfflineStore) ProfilesByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	return s.profiles.GetByIDs(ctx, ids)
}

func (s *OfflineStore) SearchProfiles(ctx context.Context, query string) ([]*models.Profile, error) {
	return s.profiles.Search(ctx, query)
}

func (s *OfflineStore) MessagesForRecipient(ctx context.Context, recipientID string) ([]models.Message, error) {
	return s.messages.GetByRecipient(ctx, recipientID)
}

func (s *OfflineStore) MessagesBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	return s.messages.GetBySender(ctx, senderID)
}

func (s *OfflineStore) InsertMessage(ctx context.Context, draft models.MessageDraft) (InsertOutcome, error) {
	m := &models.Message{
		ID:          uuid.NewString(),
		RecipientID: draft.RecipientID,
		SenderID:    draft.SenderID,
		Content:     draft.Content,
		Decoration:  draft.Decoration,
		Color:       draft.Color,
		IsPrivate:   draft.IsPrivate,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messages.Create(ctx, m); err != nil {
		return Unconfirmed(), err
	}

	s.notify(*m)
	return Confirmed(m), nil
}

func (s *OfflineStore) UpdateCustomization(ctx context.Context, id string, c models.Customization) (*models.Profile, error) {
	if err := s.profiles.UpdateCustomization(ctx, id, c); err != nil {
		return nil, err
	}
	return s.profiles.GetByID(ctx, id)
}

// SubscribeInserts returns an in-process feed of inserts made through this
// store for the given recipient.
func (s *OfflineStore) SubscribeInserts(ctx context.Context, recipientID string) (Subscription, error) {
	sub := &offlineSubscription{
		store:       s,
		recipientID: recipientID,
		events:      make(chan models.Message, eventBufferSize),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	return sub, nil
}

func (s *OfflineStore) notify(m models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs {
		if sub.recipientID != m.RecipientID {
			continue
		}
		select {
		case sub.events <- m:
		default:
			s.logger.Warn(context.Background(), "local feed buffer full, dropping event", "message_id", m.ID)
		}
	}
}

func (s *OfflineStore) remove(sub *offlineSubscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; ok {
		delete(s.subs, sub)
		close(sub.events)
	}
}

func (s *OfflineStore) Close() error {
	s.mu.Lock()
	for sub := range s.subs {
		delete(s.subs, sub)
		close(sub.events)
	}
	s.mu.Unlock()

	return s.db.Close()
}

// SeedDemo loads the built-in demo profiles and a handful of messages for
// each so a fresh cache has something to show. Existing rows stay as they
// are.
func (s *OfflineStore) SeedDemo(ctx context.Context) error {
	people := models.DemoProfiles()
	for _, p := range people {
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return err
		}
	}

	for _, p := range people {
		for _, m := range models.DemoMessages(p.ID, 3) {
			// re-seeding an existing cache is a no-op
			if err := s.messages.Create(ctx, &m); err != nil {
				continue
			}
		}
	}
	return nil
}

type offlineSubscription struct {
	store       *OfflineStore
	recipientID string
	events      chan models.Message
	closeOnce   sync.Once
}

func (s *offlineSubscription) Events() <-chan models.Message {
	return s.events
}

func (s *offlineSubscription) Close() error {
	s.closeOnce.Do(func() {
		s.store.remove(s)
	})
	return nil
}
