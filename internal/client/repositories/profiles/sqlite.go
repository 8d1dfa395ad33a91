package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/dbx"
)

const columns = `id, email, full_name, display_name, tree_color, star_color, sky_color, created_at, updated_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profiles (id, email, full_name, display_name, tree_color, star_color, sky_color, created_at, updated_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET email = excluded.email,
				full_name = excluded.full_name,
				display_name = excluded.display_name,
				tree_color = excluded.tree_color,
				star_color = excluded.star_color,
				sky_color = excluded.sky_color,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, models.NormalizeEmail(p.Email), p.FullName, p.DisplayName,
		p.TreeColor, p.StarColor, p.SkyColor,
		p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `select ` + columns + ` from profiles where id=?`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `select ` + columns + ` from profiles where email=?`
	return scanProfile(r.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
}

func (r *SQLiteRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `select ` + columns + ` from profiles where id in (` + placeholders + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

func (r *SQLiteRepository) Search(ctx context.Context, q string) ([]*models.Profile, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := `select ` + columns + ` from profiles
		where lower(full_name) like ? or lower(display_name) like ? or email like ?
		order by full_name`
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

func (r *SQLiteRepository) UpdateCustomization(ctx context.Context, id string, c models.Customization) error {
	query := `update profiles set tree_color=?, star_color=?, sky_color=?, updated_at=? where id=?`
	res, err := r.db.ExecContext(ctx, query,
		c.TreeColor, c.StarColor, c.SkyColor, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to update customization: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	query := `select ` + columns + ` from profiles order by full_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var created, updated string
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.DisplayName,
		&p.TreeColor, &p.StarColor, &p.SkyColor, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &p, nil
}

func collectProfiles(rows *sql.Rows) ([]*models.Profile, error) {
	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
