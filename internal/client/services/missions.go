package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkazakov/treeboard/internal/client/remote"
	"github.com/dkazakov/treeboard/internal/client/state"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/logging"
)

// MissionsService tracks how many distinct colleagues the user has
// decorated a tree for, and unlocks the full customization palette once
// the target is reached.
type MissionsService interface {
	// Refresh recomputes progress from the authoritative sender-set and
	// returns the distinct-recipient count. Progress never goes backwards
	// within a session, so a refresh against a stale replica cannot undo
	// the unlock.
	Refresh(ctx context.Context) (int, error)

	// Unlocked reports whether the mission target has been reached.
	Unlocked() bool
}

type missionsService struct {
	store  remote.Store
	state  *state.Store
	logger logging.Logger

	mu       sync.Mutex
	unlocked bool
	onUnlock func()
}

// NewMissionsService builds the mission tracker. onUnlock, if non-nil, is
// invoked exactly once when progress first crosses the target.
func NewMissionsService(store remote.Store, st *state.Store, logger logging.Logger, onUnlock func()) MissionsService {
	return &missionsService{store: store, state: st, logger: logger, onUnlock: onUnlock}
}

func (s *missionsService) Refresh(ctx context.Context) (int, error) {
	user := s.state.User()
	if user == nil {
		return 0, fmt.Errorf("no user logged in")
	}

	sent, err := s.store.MessagesBySender(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("loading sent messages: %w", err)
	}

	recipients := make(map[string]bool)
	for _, m := range sent {
		recipients[m.RecipientID] = true
	}
	count := len(recipients)

	// Keep the higher value on stale reads.
	if count > s.state.MissionsCompleted() {
		s.state.SetMissionsCompleted(count)
	}

	if count >= common.MissionTarget {
		s.unlock(ctx)
	}

	return count, nil
}

func (s *missionsService) unlock(ctx context.Context) {
	s.mu.Lock()
	first := !s.unlocked
	s.unlocked = true
	s.mu.Unlock()

	if !first {
		return
	}

	s.logger.Info(ctx, "mission complete, customization unlocked", "target", common.MissionTarget)
	if s.onUnlock != nil {
		s.onUnlock()
	}
}

func (s *missionsService) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}
