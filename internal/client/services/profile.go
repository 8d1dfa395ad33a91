package services

import (
	"context"
	"fmt"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote"
	"github.com/dkazakov/treeboard/internal/client/state"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/logging"
)

// ProfileService handles the user's own profile: sign-in by email, the
// user directory, and tree customization.
type ProfileService interface {
	// Login looks the profile up by case-insensitive email and makes it
	// the session user.
	Login(ctx context.Context, email string) (*models.Profile, error)

	// Search finds colleagues by substring over names and email and caches
	// them in the directory.
	Search(ctx context.Context, query string) ([]*models.Profile, error)

	// SaveCustomization persists new scene colors. Locked palette entries
	// require the mission unlock; the two exclusive styles additionally
	// require the user's email on their access list. Violations fail with
	// common.ErrLockedStyle.
	SaveCustomization(ctx context.Context, c models.Customization) (*models.Profile, error)
}

type profileService struct {
	store    remote.Store
	state    *state.Store
	missions MissionsService
	logger   logging.Logger
}

func NewProfileService(store remote.Store, st *state.Store, missions MissionsService, logger logging.Logger) ProfileService {
	return &profileService{store: store, state: st, missions: missions, logger: logger}
}

func (s *profileService) Login(ctx context.Context, email string) (*models.Profile, error) {
	p, err := s.store.ProfileByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.state.SetUser(p)
	s.logger.Info(ctx, "logged in", "user_id", p.ID, "email", p.Email)
	return p, nil
}

func (s *profileService) Search(ctx context.Context, query string) ([]*models.Profile, error) {
	found, err := s.store.SearchProfiles(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching profiles: %w", err)
	}

	s.state.UpsertUsers(found...)
	return found, nil
}

func (s *profileService) SaveCustomization(ctx context.Context, c models.Customization) (*models.Profile, error) {
	user := s.state.User()
	if user == nil {
		return nil, fmt.Errorf("no user logged in")
	}

	if err := s.checkOption(TreeColors, c.TreeColor, user.Email); err != nil {
		return nil, err
	}
	if err := s.checkOption(StarColors, c.StarColor, user.Email); err != nil {
		return nil, err
	}
	if err := s.checkOption(SkyColors, c.SkyColor, user.Email); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCustomization(ctx, user.ID, c)
	if err != nil {
		return nil, fmt.Errorf("saving customization: %w", err)
	}

	s.state.SetUser(updated)
	return updated, nil
}

func (s *profileService) checkOption(options []ColorOption, value, email string) error {
	opt, err := findOption(options, value)
	if err != nil {
		return err
	}

	if opt.Special {
		allowed := false
		switch opt.Value {
		case CosmicGradientStar:
			allowed = HasCosmicStarAccess(email)
		default:
			allowed = HasAuroraAccess(email)
		}
		if !allowed {
			return fmt.Errorf("%w: %s", common.ErrLockedStyle, opt.Name)
		}
		return nil
	}

	if opt.Locked && (s.missions == nil || !s.missions.Unlocked()) {
		return fmt.Errorf("%w: %s (complete the mission first)", common.ErrLockedStyle, opt.Name)
	}
	return nil
}
