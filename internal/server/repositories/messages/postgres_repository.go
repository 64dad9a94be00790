package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/dbx"
	"github.com/dkurochkin/courier/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {

	query :=
		`INSERT INTO messages (from_username, to_username, body, attachment_key)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sent_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.FromUsername, msg.ToUsername, msg.Body, msg.AttachmentKey).Scan(&msg.ID, &msg.SentAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query :=
		`SELECT id, from_username, to_username, body, attachment_key, sent_at, read_at
		 FROM messages
		 WHERE id = $1
		 `

	msg := &models.Message{}
	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body,
		&msg.AttachmentKey, &msg.SentAt, &readAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if readAt.Valid {
		msg.ReadAt = &readAt.Time
	}

	return msg, nil
}

// MarkRead relies on the WHERE clause for idempotency: the UPDATE touches
// only unread rows, then the SELECT reads back whatever timestamp the row
// carries.
func (r *PostgresRepository) MarkRead(ctx context.Context, id int64) (time.Time, error) {

	update :=
		`UPDATE messages
		 SET read_at = now()
		 WHERE id = $1 AND read_at IS NULL
		 `

	if _, err := r.db.ExecContext(ctx, update, id); err != nil {
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	var readAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT read_at FROM messages WHERE id = $1`, id).Scan(&readAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%w: %d", common.ErrNotFound, id)
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	if !readAt.Valid {
		return time.Time{}, fmt.Errorf("%w: %d", common.ErrNotFound, id)
	}

	return readAt.Time, nil
}

func (r *PostgresRepository) ListFrom(ctx context.Context, username string) ([]*models.Message, error) {
	return r.list(ctx, "from_username", username)
}

func (r *PostgresRepository) ListTo(ctx context.Context, username string) ([]*models.Message, error) {
	return r.list(ctx, "to_username", username)
}

func (r *PostgresRepository) list(ctx context.Context, column, username string) ([]*models.Message, error) {
	query := fmt.Sprintf(
		`SELECT id, from_username, to_username, body, attachment_key, sent_at, read_at
		 FROM messages
		 WHERE %s = $1
		 ORDER BY id ASC
		 `, column)

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		var readAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.FromUsername, &msg.ToUsername, &msg.Body,
			&msg.AttachmentKey, &msg.SentAt, &readAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if readAt.Valid {
			msg.ReadAt = &readAt.Time
		}
		result = append(result, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
