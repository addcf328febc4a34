package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 15)
	token, expiresAt, err := tm.GenerateToken("agent@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected future expiry")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "agent@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager("secret-a", 15)
	verifier := NewTokenManager("secret-b", 15)

	token, _, err := issuer.GenerateToken("agent@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("test-secret", 15)
	if _, err := tm.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestPasswordHashAndCompare(t *testing.T) {
	t.Parallel()

	hashed, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hashed, "hunter2"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hashed, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
