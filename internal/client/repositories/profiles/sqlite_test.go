package profiles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  full_name TEXT NOT NULL DEFAULT '',
  display_name TEXT NOT NULL DEFAULT '',
  tree_color TEXT NOT NULL DEFAULT '#0d5c0d',
  star_color TEXT NOT NULL DEFAULT '#ffd700',
  sky_color TEXT NOT NULL DEFAULT '#090A0F',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func sampleProfile(id, email, name string) *models.Profile {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Profile{
		ID:        id,
		Email:     email,
		FullName:  name,
		TreeColor: models.DefaultTreeColor,
		StarColor: models.DefaultStarColor,
		SkyColor:  models.DefaultSkyColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsert_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := sampleProfile("u1", "alice@example.com", "Alice Johnson")
	require.NoError(t, r.Upsert(ctx, p))

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", got.FullName)
	assert.Equal(t, models.DefaultTreeColor, got.TreeColor)

	p.FullName = "Alice J."
	p.TreeColor = "#1a4d2e"
	require.NoError(t, r.Upsert(ctx, p))

	got, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice J.", got.FullName)
	assert.Equal(t, "#1a4d2e", got.TreeColor)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleProfile("u1", "Alice@Example.com", "Alice")))

	got, err := r.GetByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestGetByIDs_SkipsMissing(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleProfile("u1", "a@example.com", "Alice")))
	require.NoError(t, r.Upsert(ctx, sampleProfile("u2", "b@example.com", "Bob")))

	got, err := r.GetByIDs(ctx, []string{"u1", "u2", "u9"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = r.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleProfile("u1", "alice@example.com", "Alice Johnson")))
	require.NoError(t, r.Upsert(ctx, sampleProfile("u2", "bob@example.com", "Bob Smith")))

	got, err := r.Search(ctx, "john")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ID)

	got, err = r.Search(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateCustomization(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleProfile("u1", "a@example.com", "Alice")))

	c := models.Customization{TreeColor: "#1a4d2e", StarColor: "#ff6b6b", SkyColor: "#0a0a2a"}
	require.NoError(t, r.UpdateCustomization(ctx, "u1", c))

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "#1a4d2e", got.TreeColor)
	assert.Equal(t, "#ff6b6b", got.StarColor)
	assert.Equal(t, "#0a0a2a", got.SkyColor)

	err = r.UpdateCustomization(ctx, "missing", c)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
