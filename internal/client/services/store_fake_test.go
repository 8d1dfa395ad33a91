package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeStore implements remote.Store for unit tests. Delays and forced
// results are configured per test.
type fakeStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	messages []models.Message
	subs     []*fakeSub

	insertDelay       time.Duration
	insertErr         error
	insertUnconfirmed bool
	insertCount       int

	bySenderErr   error
	profileErr    error
	subscribeErr  error
	nextServerSeq int

	// Holding a lookup open lets tests park a consumer mid-resolve:
	// ProfileByID for profileHoldID signals profileHeld, then blocks until
	// profileRelease is closed.
	profileHoldID  string
	profileHeld    chan struct{}
	profileRelease chan struct{}
}

func newFakeStore(profiles ...*models.Profile) *fakeStore {
	s := &fakeStore{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	holdID, held, release := s.profileHoldID, s.profileHeld, s.profileRelease
	s.mu.Unlock()
	if holdID != "" && holdID == id {
		held <- struct{}{}
		<-release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.EmailEquals(email) {
			return p, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *fakeStore) ProfilesByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	var out []*models.Profile
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) SearchProfiles(ctx context.Context, query string) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []*models.Profile
	for _, p := range s.profiles {
		if strings.Contains(strings.ToLower(p.FullName), q) ||
			strings.Contains(strings.ToLower(p.Email), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) MessagesForRecipient(ctx context.Context, recipientID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.RecipientID == recipientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) MessagesBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bySenderErr != nil {
		return nil, s.bySenderErr
	}
	var out []models.Message
	for _, m := range s.messages {
		if m.SenderID == senderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertMessage(ctx context.Context, draft models.MessageDraft) (remote.InsertOutcome, error) {
	s.mu.Lock()
	delay := s.insertDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return remote.Unconfirmed(), common.ErrRequestTimeout
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insertErr != nil {
		return remote.Unconfirmed(), s.insertErr
	}

	s.insertCount++
	if s.insertUnconfirmed {
		return remote.Unconfirmed(), nil
	}

	s.nextServerSeq++
	stored := models.Message{
		ID:          fmt.Sprintf("srv-%d", s.nextServerSeq),
		RecipientID: draft.RecipientID,
		SenderID:    draft.SenderID,
		Content:     draft.Content,
		Decoration:  draft.Decoration,
		Color:       draft.Color,
		IsPrivate:   draft.IsPrivate,
		CreatedAt:   time.Now().UTC(),
	}
	s.messages = append(s.messages, stored)
	return remote.Confirmed(&stored), nil
}

func (s *fakeStore) UpdateCustomization(ctx context.Context, id string, c models.Customization) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	updated := *p
	updated.TreeColor = c.TreeColor
	updated.StarColor = c.StarColor
	updated.SkyColor = c.SkyColor
	s.profiles[id] = &updated
	return &updated, nil
}

func (s *fakeStore) SubscribeInserts(ctx context.Context, recipientID string) (remote.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	sub := &fakeSub{store: s, recipientID: recipientID, events: make(chan models.Message, 16)}
	s.subs = append(s.subs, sub)
	return sub, nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) push(m models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if !sub.closed && sub.recipientID == m.RecipientID {
			sub.events <- m
		}
	}
}

func (s *fakeStore) inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCount
}

func (s *fakeStore) openSubs() []*fakeSub {
	s.mu.Lock()
	defer s.mu.Unlock()
	var open []*fakeSub
	for _, sub := range s.subs {
		if !sub.closed {
			open = append(open, sub)
		}
	}
	return open
}

type fakeSub struct {
	store       *fakeStore
	recipientID string
	events      chan models.Message
	closed      bool // guarded by store.mu
	once        sync.Once
}

func (f *fakeSub) Events() <-chan models.Message { return f.events }

func (f *fakeSub) Close() error {
	f.once.Do(func() {
		f.store.mu.Lock()
		f.closed = true
		close(f.events)
		f.store.mu.Unlock()
	})
	return nil
}

// fakeMissions satisfies MissionsService where compose tests only need to
// observe the refresh call.
type fakeMissions struct {
	mu       sync.Mutex
	err      error
	calls    int
	unlocked bool
}

func (f *fakeMissions) Refresh(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 0, nil
}

func (f *fakeMissions) Unlocked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unlocked
}

func (f *fakeMissions) refreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
