package auth_test

import (
	"errors"
	"testing"
	"time"

	"online-quiz-service/internal/auth"
	"online-quiz-service/internal/domain"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		subject string
		role    domain.Role
	}{
		{"alice@example.com", domain.RoleOwner},
		{"bob@example.com", domain.RoleTaker},
	}
	for _, tc := range cases {
		token, err := codec.Issue(tc.subject, tc.role, issued)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		identity, err := codec.Verify(token, issued.Add(time.Minute))
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if identity.Subject != tc.subject || identity.Role != tc.role {
			t.Fatalf("expected %s/%s, got %+v", tc.subject, tc.role, identity)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	ttl := time.Hour
	codec := auth.NewTokenCodec("test-secret", ttl)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token, err := codec.Issue("alice@example.com", domain.RoleTaker, issued)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(token, issued.Add(ttl+time.Second)); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
	// Still valid just before the deadline.
	if _, err := codec.Verify(token, issued.Add(ttl-time.Second)); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	token, err := codec.Issue("alice@example.com", domain.RoleOwner, issued)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Corrupt a character in the header, the payload, and the signature.
	// The final character is skipped: its low bits are padding and do not
	// change the decoded bytes.
	for _, pos := range []int{4, len(token) / 2, len(token) - 3} {
		mutated := []byte(token)
		if mutated[pos] == 'A' {
			mutated[pos] = 'B'
		} else {
			mutated[pos] = 'A'
		}
		if _, err := codec.Verify(string(mutated), issued.Add(time.Minute)); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for mutation at %d, got %v", pos, err)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token, err := auth.NewTokenCodec("secret-a", time.Hour).Issue("alice@example.com", domain.RoleOwner, issued)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := auth.NewTokenCodec("secret-b", time.Hour)
	if _, err := other.Verify(token, issued.Add(time.Minute)); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		if _, err := codec.Verify(token, now); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
