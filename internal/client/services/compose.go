package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote"
	"github.com/dkazakov/treeboard/internal/client/state"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/logging"
)

// ComposeService submits decorated messages to another user's tree.
type ComposeService interface {
	// Send validates, submits, and merges a message for the recipient's
	// tree. A second call while one is in flight returns
	// common.ErrSubmissionInFlight without touching the backend; callers
	// surface that as "still working", not as a failure.
	Send(ctx context.Context, recipientID, content, color string, isPrivate bool) error
}

type composeService struct {
	store    remote.Store
	state    *state.Store
	missions MissionsService
	picker   models.DecorationPicker
	logger   logging.Logger

	networkTimeout time.Duration
	safetyTimeout  time.Duration

	inFlight atomic.Bool

	// test seams
	now   func() time.Time
	newID func() string
}

func NewComposeService(store remote.Store, st *state.Store, missions MissionsService,
	picker models.DecorationPicker, logger logging.Logger) ComposeService {
	return &composeService{
		store:          store,
		state:          st,
		missions:       missions,
		picker:         picker,
		logger:         logger,
		networkTimeout: common.DefaultNetworkTimeout,
		safetyTimeout:  common.DefaultSafetyTimeout,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

type insertResult struct {
	outcome remote.InsertOutcome
	err     error
}

func (s *composeService) Send(ctx context.Context, recipientID, content, color string, isPrivate bool) error {
	user := s.state.User()
	if user == nil {
		return fmt.Errorf("no user logged in")
	}

	trimmed, err := models.ValidateContent(content)
	if err != nil {
		return err
	}

	// Local fast path for the one-message-per-tree rule: when the target is
	// the tree being viewed, its message list already tells us whether we
	// decorated it, no round trip needed. The backend still enforces the
	// rule for every other case.
	if s.state.ViewOwnerID() == recipientID && s.state.HasMessageFrom(user.ID) {
		return common.ErrDuplicateMessage
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn(ctx, "submission already in flight, ignoring", "recipient_id", recipientID)
		return common.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	draft := models.MessageDraft{
		RecipientID: recipientID,
		SenderID:    user.ID,
		Content:     trimmed,
		Decoration:  s.picker.Pick(),
		Color:       color,
		IsPrivate:   isPrivate,
	}

	// The insert runs on its own deadline, detached from the caller's ctx:
	// once started it is not cancellable, it either finishes or the safety
	// deadline fires.
	resultCh := make(chan insertResult, 1)
	go func() {
		insertCtx, cancel := context.WithTimeout(context.Background(), s.networkTimeout)
		defer cancel()
		outcome, err := s.store.InsertMessage(insertCtx, draft)
		resultCh <- insertResult{outcome: outcome, err: err}
	}()

	safety := time.NewTimer(s.safetyTimeout)
	defer safety.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return s.reportFailure(ctx, res.err, recipientID)
		}
		s.merge(ctx, res.outcome, draft)
		s.refreshMissions()
		return nil
	case <-safety.C:
		s.logger.Error(ctx, "submission hit safety deadline", "recipient_id", recipientID)
		return fmt.Errorf("%w: the message may have been delivered, check the tree before retrying", common.ErrRequestTimeout)
	}
}

// merge applies the submission result to local state. A confirmed record is
// merged as-is; otherwise a provisional record stands in until the next full
// fetch. Merging is skipped when the user has already navigated to a
// different tree.
func (s *composeService) merge(ctx context.Context, outcome remote.InsertOutcome, draft models.MessageDraft) {
	record, confirmed := outcome.Record()
	if !confirmed {
		// The provisional id is local only; the server row, whenever it
		// surfaces, carries its own id and will not dedup against this one.
		// The next full fetch replaces the whole list, which is what retires
		// provisional entries.
		record = &models.Message{
			ID:          s.newID(),
			RecipientID: draft.RecipientID,
			SenderID:    draft.SenderID,
			Content:     draft.Content,
			Decoration:  draft.Decoration,
			Color:       draft.Color,
			IsPrivate:   draft.IsPrivate,
			CreatedAt:   s.now().UTC(),
		}
		s.logger.Info(ctx, "insert unconfirmed, merging provisional record", "message_id", record.ID)
	}

	if s.state.ViewOwnerID() != record.RecipientID {
		return
	}
	s.state.AddMessage(*record)
}

func (s *composeService) reportFailure(ctx context.Context, err error, recipientID string) error {
	switch {
	case isTimeout(err):
		s.logger.Warn(ctx, "submission timed out", "recipient_id", recipientID)
		return fmt.Errorf("%w: the message may have been delivered, check the tree before retrying", common.ErrRequestTimeout)
	default:
		s.logger.Warn(ctx, "submission failed", "recipient_id", recipientID, "error", err)
		return err
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, common.ErrRequestTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// refreshMissions recomputes mission progress after a successful send.
// Best effort on a small budget, failures never affect the submission.
func (s *composeService) refreshMissions() {
	if s.missions == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), common.MissionRefreshTimeout)
		defer cancel()
		if _, err := s.missions.Refresh(ctx); err != nil {
			s.logger.Warn(ctx, "mission refresh failed", "error", err)
		}
	}()
}
