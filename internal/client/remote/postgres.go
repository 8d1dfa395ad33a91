package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/client/remote/migrations"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/logging"
)

const profileColumns = `id, email, full_name, display_name, tree_color, star_color, sky_color, created_at, updated_at`

const messageColumns = `id, recipient_id, sender_id, content, decoration_type, decoration_style, position_index, is_private, created_at`

// PostgresStore is the connected-mode Store: queries over a pgx pool and a
// LISTEN/NOTIFY push feed (see listen.go). The schema, including the
// UNIQUE (sender_id, recipient_id) constraint that backs the
// one-message-per-recipient invariant, is managed by embedded goose
// migrations.
type PostgresStore struct {
	dsn    string
	pool   *pgxpool.Pool
	logger logging.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger logging.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pool creation error: %w", err)
	}

	s := &PostgresStore{dsn: dsn, pool: pool, logger: logger}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	return goose.UpContext(ctx, db, ".")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return common.ErrUnavailable
	}
	return nil
}

func (s *PostgresStore) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1`
	return s.scanProfile(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) ProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(email)=lower($1)`
	return s.scanProfile(s.pool.QueryRow(ctx, query, models.NormalizeEmail(email)))
}

func (s *PostgresStore) ProfilesByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1)`
	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()
	return s.collectProfiles(rows)
}

func (s *PostgresStore) SearchProfiles(ctx context.Context, query string) ([]*models.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles
        WHERE full_name ILIKE '%' || $1 || '%'
           OR display_name ILIKE '%' || $1 || '%'
           OR email ILIKE '%' || $1 || '%'
        ORDER BY full_name`
	rows, err := s.pool.Query(ctx, q, query)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()
	return s.collectProfiles(rows)
}

func (s *PostgresStore) MessagesForRecipient(ctx context.Context, recipientID string) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE recipient_id=$1 ORDER BY created_at ASC`
	return s.queryMessages(ctx, query, recipientID)
}

func (s *PostgresStore) MessagesBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE sender_id=$1 ORDER BY created_at ASC`
	return s.queryMessages(ctx, query, senderID)
}

func (s *PostgresStore) InsertMessage(ctx context.Context, draft models.MessageDraft) (InsertOutcome, error) {
	query := `INSERT INTO messages (recipient_id, sender_id, content, decoration_type, decoration_style, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + messageColumns
	row := s.pool.QueryRow(ctx, query,
		draft.RecipientID, draft.SenderID, draft.Content, string(draft.Decoration), draft.Color, draft.IsPrivate)

	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The write may have been applied without returning a record.
			return Unconfirmed(), nil
		}
		return Unconfirmed(), s.mapError(err)
	}
	return Confirmed(m), nil
}

func (s *PostgresStore) UpdateCustomization(ctx context.Context, id string, c models.Customization) (*models.Profile, error) {
	query := `UPDATE profiles
		SET tree_color=$2, star_color=$3, sky_color=$4, updated_at=now()
		WHERE id=$1
		RETURNING ` + profileColumns
	return s.scanProfile(s.pool.QueryRow(ctx, query, id, c.TreeColor, c.StarColor, c.SkyColor))
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) queryMessages(ctx context.Context, query string, arg any) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, s.mapError(err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapError(err)
	}
	return result, nil
}

func (s *PostgresStore) scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.DisplayName,
		&p.TreeColor, &p.StarColor, &p.SkyColor, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &p, nil
}

func (s *PostgresStore) collectProfiles(rows pgx.Rows) ([]*models.Profile, error) {
	var result []*models.Profile
	for rows.Next() {
		p, err := s.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapError(err)
	}
	return result, nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	var kind string
	err := row.Scan(&m.ID, &m.RecipientID, &m.SenderID, &m.Content,
		&kind, &m.Color, &m.PositionIndex, &m.IsPrivate, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Decoration = models.Decoration(kind)
	return &m, nil
}

func (s *PostgresStore) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return common.ErrDuplicateMessage
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return common.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrRequestTimeout
	default:
		return fmt.Errorf("postgres: %w", err)
	}
}
