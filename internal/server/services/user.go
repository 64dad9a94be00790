// Package services contains the server-side business logic: registration
// and login, message sending and reading under the access policy, and
// attachment presigning.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/server/auth"
	"github.com/dkurochkin/courier/internal/server/config"
	"github.com/dkurochkin/courier/internal/server/models"
	"github.com/dkurochkin/courier/internal/server/repositories/repomanager"
)

// UserService handles registration, login, and profile/message-list reads.
// Identity is always an explicit parameter; nothing is captured at
// construction beyond configuration.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	jwtSecret   []byte
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      auth.NewHasher(cfg.BcryptCost),
		jwtSecret:   []byte(cfg.SecretKey),
	}
}

// Register creates a new user and returns a signed token for it. Duplicate
// usernames yield common.ErrUsernameTaken; the existing user is unaffected.
func (s *UserService) Register(ctx context.Context, username, password, firstName, lastName, phone string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, user); err != nil {
		return "", err
	}

	if _, err := repo.UpdateLastLogin(ctx, username); err != nil {
		return "", fmt.Errorf("error stamping login time: %w", err)
	}

	return auth.GenerateToken(username, s.jwtSecret)
}

// Login verifies the credentials and returns a signed token. Unknown
// usernames and wrong passwords both yield common.ErrInvalidCredentials; a
// dummy hash comparison runs in the unknown-user case so the two are not
// timing-distinguishable.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.DummyVerify(password)
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	if _, err := repo.UpdateLastLogin(ctx, username); err != nil {
		return "", common.ErrInternal
	}

	return auth.GenerateToken(username, s.jwtSecret)
}

// Get returns a single user's profile or common.ErrNotFound.
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// List returns all users ordered by join time.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// MessagesFrom returns the messages sent by username. The caller is
// responsible for verifying that the requester is username (the
// correct-subject guard).
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]*models.Message, error) {
	if _, err := s.repomanager.Users(s.db).GetByUsername(ctx, username); err != nil {
		return nil, err
	}
	return s.repomanager.Messages(s.db).ListFrom(ctx, username)
}

// MessagesTo returns the messages received by username.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]*models.Message, error) {
	if _, err := s.repomanager.Users(s.db).GetByUsername(ctx, username); err != nil {
		return nil, err
	}
	return s.repomanager.Messages(s.db).ListTo(ctx, username)
}
