package services

import (
	"testing"

	"github.com/dkurochkin/courier/internal/server/models"
)

func TestCanReadMessage(t *testing.T) {
	msg := &models.Message{FromUsername: "alice", ToUsername: "bob"}

	tests := []struct {
		requester string
		want      bool
	}{
		{"alice", true},
		{"bob", true},
		{"carol", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := CanReadMessage(msg, tc.requester); got != tc.want {
			t.Fatalf("CanReadMessage(%q) = %v, want %v", tc.requester, got, tc.want)
		}
	}
}

func TestCanMarkRead(t *testing.T) {
	msg := &models.Message{FromUsername: "alice", ToUsername: "bob"}

	tests := []struct {
		requester string
		want      bool
	}{
		{"bob", true},
		{"alice", false},
		{"carol", false},
	}

	for _, tc := range tests {
		if got := CanMarkRead(msg, tc.requester); got != tc.want {
			t.Fatalf("CanMarkRead(%q) = %v, want %v", tc.requester, got, tc.want)
		}
	}
}
