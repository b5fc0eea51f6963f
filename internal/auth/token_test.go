package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	s := NewTokenService("test-secret")

	for _, purpose := range []string{PurposeAccess, PurposeRefresh, PurposeVerifyEmail} {
		tok, err := s.Issue("alice@example.com", purpose, time.Hour)
		if err != nil {
			t.Fatalf("Issue(%s) error: %v", purpose, err)
		}
		subject, gotPurpose, err := s.Verify(tok)
		if err != nil {
			t.Fatalf("Verify(%s) error: %v", purpose, err)
		}
		if subject != "alice@example.com" {
			t.Fatalf("subject mismatch: got %q", subject)
		}
		if gotPurpose != purpose {
			t.Fatalf("purpose mismatch: got %q want %q", gotPurpose, purpose)
		}
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	s := NewTokenService("test-secret")

	tok, err := s.Issue("bob@example.com", PurposeAccess, -time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService("right-secret").Issue("u@example.com", PurposeAccess, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, _, err := NewTokenService("wrong-secret").Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	s := NewTokenService("test-secret")

	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if _, _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

// Verify returns the purpose verbatim; callers are responsible for
// asserting the purpose they expect, so a refresh token still verifies
// cleanly and the mismatch is visible to them.
func TestVerifyDoesNotGatePurpose(t *testing.T) {
	t.Parallel()

	s := NewTokenService("test-secret")

	tok, err := s.Issue("carol@example.com", PurposeRefresh, time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	_, purpose, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if purpose != PurposeRefresh {
		t.Fatalf("purpose mismatch: got %q", purpose)
	}
}
