package models

import "time"

// Message is a direct message between two users. ID is store-assigned and
// monotonically increasing. ReadAt transitions nil -> timestamp at most
// once and never reverts.
type Message struct {
	ID            int64      `json:"id"`
	FromUsername  string     `json:"from_username"`
	ToUsername    string     `json:"to_username"`
	Body          string     `json:"body"`
	AttachmentKey string     `json:"-"`
	SentAt        time.Time  `json:"sent_at"`
	ReadAt        *time.Time `json:"read_at"`
}

// HasAttachment reports whether an object-storage key is associated with
// the message.
func (m *Message) HasAttachment() bool {
	return m.AttachmentKey != ""
}

// MessageDetail is a message joined with both participants' public profiles,
// the shape returned by the single-message endpoint.
type MessageDetail struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser Profile    `json:"from_user"`
	ToUser   Profile    `json:"to_user"`
}
