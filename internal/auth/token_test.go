package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerifyToken(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("Expected user-1, got %s", userID)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueWithTTL("user-1", time.Second)
	if err != nil {
		t.Fatalf("IssueWithTTL() error = %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(1200 * time.Millisecond) }
	_, err = svc.Verify(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyAcceptsBeforeExpiry(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(30 * time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("Expected token to be valid, got %v", err)
	}
}

func TestVerifyRejectsInvalid(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	foreign, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	valid, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"wrong secret":   foreign,
		"tampered claim": tampered,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("Expected ErrTokenInvalid, got %v", err)
			}
		})
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Issue(""); err == nil {
		t.Fatal("Expected error for empty user id")
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "user-1"})

	id, ok := IdentityFrom(ctx)
	if !ok || id.UserID != "user-1" {
		t.Fatalf("Expected identity user-1, got %+v (ok=%v)", id, ok)
	}
	if _, ok := IdentityFrom(context.Background()); ok {
		t.Fatal("Expected no identity on bare context")
	}
}
