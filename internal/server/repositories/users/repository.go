// Package users persists accounts. The unique-username invariant is
// enforced by the database constraint, not by a prior existence check.
package users

import (
	"context"
	"time"

	"github.com/dkurochkin/courier/internal/server/models"
)

type Repository interface {
	// Create inserts the user. A duplicate username yields
	// common.ErrUsernameTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns all users ordered by join time.
	List(ctx context.Context) ([]*models.User, error)

	// UpdateLastLogin stamps last_login_at and returns the new value.
	UpdateLastLogin(ctx context.Context, username string) (time.Time, error)
}
