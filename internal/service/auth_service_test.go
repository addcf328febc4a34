package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	hash, err := auth.HashPassword("letmein", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		StaffEmail:            "Staff@Example.com",
		StaffPasswordHash:     hash,
	})
}

func TestLoginStaff(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	token, _, err := svc.LoginStaff(context.Background(), "staff@example.com", "letmein")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "staff@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestLoginStaffRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuth(t)

	if _, _, err := svc.LoginStaff(context.Background(), "staff@example.com", "wrong"); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, _, err := svc.LoginStaff(context.Background(), "other@example.com", "letmein"); err == nil {
		t.Fatal("expected error for unknown email")
	}
}

func TestLoginStaffUnconfigured(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(config.AuthConfig{JWTSecret: "s", AccessTokenTTLMinutes: 15})
	if _, _, err := svc.LoginStaff(context.Background(), "staff@example.com", "letmein"); err == nil {
		t.Fatal("expected error when no account configured")
	}
}
