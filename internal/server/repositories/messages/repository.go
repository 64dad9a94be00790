// Package messages persists direct messages. IDs are assigned by the
// store's bigserial sequence and are monotonically increasing.
package messages

import (
	"context"
	"time"

	"github.com/dkurochkin/courier/internal/server/models"
)

type Repository interface {
	// Create inserts a message and returns it with the assigned id and
	// sent_at. Referential checks (sender/recipient existence) are the
	// caller's job; the foreign keys are the backstop.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)

	// GetByID returns the message or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Message, error)

	// MarkRead sets read_at for an unread message and returns the
	// resulting timestamp. Already-read messages keep their original
	// timestamp; the call is idempotent. Unknown ids yield
	// common.ErrNotFound.
	MarkRead(ctx context.Context, id int64) (time.Time, error)

	// ListFrom returns messages sent by username, ordered by id.
	ListFrom(ctx context.Context, username string) ([]*models.Message, error)

	// ListTo returns messages received by username, ordered by id.
	ListTo(ctx context.Context, username string) ([]*models.Message, error)
}
