package messages

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkazakov/treeboard/internal/client/models"
	"github.com/dkazakov/treeboard/internal/common"
	"github.com/dkazakov/treeboard/internal/dbx"
)

const columns = `id, recipient_id, sender_id, content, decoration_type, decoration_style, position_index, is_private, created_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, m *models.Message) error {
	exists, err := r.ExistsPair(ctx, m.SenderID, m.RecipientID)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrDuplicateMessage
	}

	query := `INSERT INTO messages (id, recipient_id, sender_id, content, decoration_type, decoration_style, position_index, is_private, created_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		m.ID, m.RecipientID, m.SenderID, m.Content,
		string(m.Decoration), m.Color, m.PositionIndex, boolToInt(m.IsPrivate),
		m.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByRecipient(ctx context.Context, recipientID string) ([]models.Message, error) {
	query := `select ` + columns + ` from messages where recipient_id=? order by created_at asc, id asc`
	return r.query(ctx, query, recipientID)
}

func (r *SQLiteRepository) GetBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	query := `select ` + columns + ` from messages where sender_id=? order by created_at asc, id asc`
	return r.query(ctx, query, senderID)
}

func (r *SQLiteRepository) ExistsPair(ctx context.Context, senderID, recipientID string) (bool, error) {
	query := `select count(1) from messages where sender_id=? and recipient_id=?`
	var n int
	if err := r.db.QueryRowContext(ctx, query, senderID, recipientID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check message pair: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, arg any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanMessage(rows *sql.Rows) (*models.Message, error) {
	var m models.Message
	var kind, created string
	var private int
	err := rows.Scan(&m.ID, &m.RecipientID, &m.SenderID, &m.Content,
		&kind, &m.Color, &m.PositionIndex, &private, &created)
	if err != nil {
		return nil, fmt.Errorf("row scan failed: %w", err)
	}
	m.Decoration = models.Decoration(kind)
	m.IsPrivate = private != 0
	m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
