package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dkurochkin/courier/internal/common"
	"github.com/dkurochkin/courier/internal/dbx"
	"github.com/dkurochkin/courier/internal/server/models"
	"github.com/dkurochkin/courier/internal/server/repositories/repomanager"
)

// MessageService sends and reads direct messages under the access policy.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// Send creates a message from the authenticated sender. The sender is
// never client input. The body must be non-empty and the recipient must
// exist.
func (s *MessageService) Send(ctx context.Context, from, to, body, attachmentKey string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: message must contain a body", common.ErrValidation)
	}

	if _, err := s.repomanager.Users(s.db).GetByUsername(ctx, to); err != nil {
		return nil, err
	}

	msg := &models.Message{
		FromUsername:  from,
		ToUsername:    to,
		Body:          body,
		AttachmentKey: attachmentKey,
	}

	return s.repomanager.Messages(s.db).Create(ctx, msg)
}

// Get returns the message with both participants' profiles. Requesters
// other than the sender or recipient get common.ErrUnauthorized.
func (s *MessageService) Get(ctx context.Context, id int64, requester string) (*models.MessageDetail, error) {
	msg, err := s.repomanager.Messages(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanReadMessage(msg, requester) {
		return nil, common.ErrUnauthorized
	}

	usersRepo := s.repomanager.Users(s.db)
	fromUser, err := usersRepo.GetByUsername(ctx, msg.FromUsername)
	if err != nil {
		return nil, err
	}
	toUser, err := usersRepo.GetByUsername(ctx, msg.ToUsername)
	if err != nil {
		return nil, err
	}

	return &models.MessageDetail{
		ID:       msg.ID,
		Body:     msg.Body,
		SentAt:   msg.SentAt,
		ReadAt:   msg.ReadAt,
		FromUser: fromUser.Profile(),
		ToUser:   toUser.Profile(),
	}, nil
}

// MarkRead transitions read_at from null to now, once. Only the recipient
// may call it; repeated calls return the original timestamp unchanged. The
// policy check and the update run in one transaction.
func (s *MessageService) MarkRead(ctx context.Context, id int64, requester string) (time.Time, error) {
	var readAt time.Time

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Messages(tx)

		msg, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !CanMarkRead(msg, requester) {
			return common.ErrUnauthorized
		}

		readAt, err = repo.MarkRead(ctx, id)
		return err
	})
	if err != nil {
		return time.Time{}, err
	}

	return readAt, nil
}

// Attachment returns the message's attachment key for the requester, under
// the same visibility rule as Get. Messages without an attachment yield
// common.ErrNotFound.
func (s *MessageService) Attachment(ctx context.Context, id int64, requester string) (string, error) {
	msg, err := s.repomanager.Messages(s.db).GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if !CanReadMessage(msg, requester) {
		return "", common.ErrUnauthorized
	}

	if !msg.HasAttachment() {
		return "", fmt.Errorf("%w: message %d has no attachment", common.ErrNotFound, id)
	}

	return msg.AttachmentKey, nil
}

// ParseMessageID validates a raw path parameter as a message id. Anything
// that is not a base-10 integer is a validation error; whether the id
// exists is for the store to say.
func ParseMessageID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", common.ErrValidation)
	}
	return id, nil
}
