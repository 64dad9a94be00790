package services

import "github.com/dkurochkin/courier/internal/server/models"

// Message access policy. Pure functions: identity comes in as a parameter,
// never from receiver state.

// CanReadMessage reports whether username may view the message. Only the
// sender and the recipient may.
func CanReadMessage(msg *models.Message, username string) bool {
	return username == msg.FromUsername || username == msg.ToUsername
}

// CanMarkRead reports whether username may mark the message read. Only the
// recipient may.
func CanMarkRead(msg *models.Message, username string) bool {
	return username == msg.ToUsername
}
