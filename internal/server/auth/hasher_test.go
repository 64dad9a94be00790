package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "secret" {
		t.Fatal("hash must not equal plaintext")
	}

	if !h.Verify("secret", hash) {
		t.Fatal("Verify must accept the original password")
	}
	if h.Verify("wrong", hash) {
		t.Fatal("Verify must reject a different password")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	h1, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
}

func TestVerify_MalformedHashIsFalse(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	for _, malformed := range []string{"", "not-a-bcrypt-hash", "$2a$xx$zzz"} {
		if h.Verify("secret", malformed) {
			t.Fatalf("Verify(%q) must be false, never an error", malformed)
		}
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := h.Hash(string(long)); err == nil {
		t.Fatal("expected error for password over bcrypt's 72-byte limit")
	}
}

func TestNewHasher_CostOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()

	h := NewHasher(999)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected fallback to default cost, got %d", h.cost)
	}
}
