package token

import (
	"context"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/user"
)

var testConfig = Config{
	Secret:   "test-secret",
	Issuer:   "ecycle",
	Audience: "ecycle-api",
}

func TestIssue_RoundTripsThroughValidator(t *testing.T) {
	iss, err := NewIssuer(testConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := NewValidator(testConfig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u := user.User{ID: uuid.New(), Email: "admin@campus.com", Role: user.RoleAdmin}
	tok, err := iss.Issue(u)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	got, err := v.ValidateToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("expected token to validate, got %v", err)
	}
	vc := got.(*validator.ValidatedClaims)
	if vc.RegisteredClaims.Subject != u.ID.String() {
		t.Errorf("expected subject %s, got %s", u.ID, vc.RegisteredClaims.Subject)
	}
	cc := vc.CustomClaims.(*CustomClaims)
	if cc.Role != user.RoleAdmin || cc.Email != u.Email {
		t.Errorf("unexpected custom claims: %+v", cc)
	}
}

func TestValidator_RejectsExpiredToken(t *testing.T) {
	iss, _ := NewIssuer(testConfig)
	iss.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	v, _ := NewValidator(testConfig)

	tok, err := iss.Issue(user.User{ID: uuid.New(), Role: user.RoleUser})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := v.ValidateToken(context.Background(), tok); err == nil {
		t.Errorf("expected expired token to be rejected")
	}
}

func TestValidator_RejectsForeignSecret(t *testing.T) {
	other := testConfig
	other.Secret = "someone-else"
	iss, _ := NewIssuer(other)
	v, _ := NewValidator(testConfig)

	tok, _ := iss.Issue(user.User{ID: uuid.New(), Role: user.RoleUser})
	if _, err := v.ValidateToken(context.Background(), tok); err == nil {
		t.Errorf("expected token signed with another secret to be rejected")
	}
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	if _, err := NewIssuer(Config{}); err == nil {
		t.Errorf("expected error for empty secret")
	}
}
