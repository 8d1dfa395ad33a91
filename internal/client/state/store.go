// Package state holds the single in-memory source of truth for a treeboard
// session: the signed-in user, the message list for the currently viewed
// tree, the user directory, modal flags, and mission progress.
//
// The container is constructed once per session and passed by reference to
// its consumers; only the submission controller and the realtime sync
// adapter write to the message list. All mutation goes through the methods
// below, which serialize access with an internal mutex so the subscription
// goroutine and the caller never race.
package state

import (
	"sync"

	"github.com/dkazakov/treeboard/internal/client/models"
)

type Store struct {
	mu sync.Mutex

	user    *models.Profile
	loading bool

	// Tree being viewed; messages always belong to this owner.
	viewOwnerID string
	messages    []models.Message
	byID        map[string]struct{}

	users     []*models.Profile
	userIndex map[string]*models.Profile

	selected         *models.Message
	messageModalOpen bool
	composeModalOpen bool

	missionsCompleted int
	missionsOpened    bool
}

func New() *Store {
	return &Store{
		loading:   true,
		byID:      make(map[string]struct{}),
		userIndex: make(map[string]*models.Profile),
	}
}

// SetUser replaces the session user (nil signs out) and clears the loading
// flag.
func (s *Store) SetUser(p *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = p
	s.loading = false
	if p != nil {
		s.indexUser(p)
	}
}

// User returns a copy of the session user, or nil when signed out.
func (s *Store) User() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetView records which tree owner is being viewed and clears the message
// list, which always belongs to a single owner at a time.
func (s *Store) SetView(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewOwnerID = ownerID
	s.messages = nil
	s.byID = make(map[string]struct{})
	s.selected = nil
	s.messageModalOpen = false
}

func (s *Store) ViewOwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewOwnerID
}

// ReplaceMessages swaps in the full message list from an initial fetch.
// A nil slice is treated as empty; the method never panics on bad input.
func (s *Store) ReplaceMessages(messages []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]models.Message, 0, len(messages))
	s.byID = make(map[string]struct{}, len(messages))
	for _, m := range messages {
		if _, dup := s.byID[m.ID]; dup {
			continue
		}
		s.byID[m.ID] = struct{}{}
		s.messages = append(s.messages, m)
	}
}

// AddMessage inserts the message unless an entry with the same id is
// already present or the message is addressed to a different owner than the
// tree being viewed. The recipient check runs under the same lock as the
// view, so a merge that raced a view switch cannot land another owner's
// message on the current board. Calling it twice with the same id is a
// no-op the second time, which is what reconciles the optimistic local merge
// with the same message arriving over the push feed. Returns whether the
// message was added.
func (s *Store) AddMessage(m models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.RecipientID != s.viewOwnerID {
		return false
	}
	if _, dup := s.byID[m.ID]; dup {
		return false
	}
	s.byID[m.ID] = struct{}{}
	s.messages = append(s.messages, m)
	return true
}

// Messages returns a copy of the current list in insertion order.
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// HasMessageFrom reports whether the current list already holds a message
// from the given sender. Used by the compose flow to enforce the local
// one-message-per-recipient check.
func (s *Store) HasMessageFrom(senderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.SenderID == senderID {
			return true
		}
	}
	return false
}

// UpsertUsers merges profiles into the user directory, replacing entries
// with matching ids.
func (s *Store) UpsertUsers(profiles ...*models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		if p == nil {
			continue
		}
		s.indexUser(p)
	}
}

func (s *Store) indexUser(p *models.Profile) {
	if existing, ok := s.userIndex[p.ID]; ok {
		*existing = *p
		return
	}
	cp := *p
	s.users = append(s.users, &cp)
	s.userIndex[p.ID] = &cp
}

// UserByID returns a copy of the directory entry for id, or nil.
func (s *Store) UserByID(id string) *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.userIndex[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Users returns a copy of the directory in insertion order.
func (s *Store) Users() []*models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Profile, 0, len(s.users))
	for _, p := range s.users {
		cp := *p
		out = append(out, &cp)
	}
	return out
}

func (s *Store) OpenMessageModal(m models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &m
	s.messageModalOpen = true
}

func (s *Store) CloseMessageModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.messageModalOpen = false
}

// SelectedMessage returns the message shown in the detail view, or nil.
func (s *Store) SelectedMessage() *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	cp := *s.selected
	return &cp
}

func (s *Store) MessageModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageModalOpen
}

func (s *Store) OpenComposeModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composeModalOpen = true
}

func (s *Store) CloseComposeModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composeModalOpen = false
}

func (s *Store) ComposeModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composeModalOpen
}

// SetMissionsCompleted overwrites the mission counter. Negative values are
// clamped to zero; no other clamping is applied.
func (s *Store) SetMissionsCompleted(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count < 0 {
		count = 0
	}
	s.missionsCompleted = count
}

func (s *Store) MissionsCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missionsCompleted
}

// SetMissionsOpened records that the missions panel has been shown at least
// once this session. The flag is sticky: once set it stays set.
func (s *Store) SetMissionsOpened() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missionsOpened = true
}

func (s *Store) MissionsOpened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missionsOpened
}
