package profiles

import (
	"context"

	"github.com/dkazakov/treeboard/internal/client/models"
)

// Repository describes the local persistence operations for profiles. The
// cache holds every profile the client has seen so trees stay browsable
// without a connection.
type Repository interface {
	// Upsert inserts a profile or replaces the cached copy by id.
	Upsert(ctx context.Context, p *models.Profile) error

	// GetByID returns a profile by its identifier, common.ErrNotFound when
	// absent.
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// GetByEmail returns a profile by email, matched case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)

	// GetByIDs returns the cached profiles for the given ids. Missing ids
	// are skipped, not errors.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error)

	// Search returns profiles whose name, display name, or email contains
	// the query, ordered by full name.
	Search(ctx context.Context, query string) ([]*models.Profile, error)

	// UpdateCustomization overwrites the scene colors for a profile.
	UpdateCustomization(ctx context.Context, id string, c models.Customization) error

	// GetAll lists every cached profile.
	GetAll(ctx context.Context) ([]*models.Profile, error)
}
