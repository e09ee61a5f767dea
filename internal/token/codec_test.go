package token

import (
	"errors"
	"testing"
	"time"
)

func testCodec(opts ...Option) *Codec {
	return NewCodec("access-secret", "renew-secret", 15*time.Minute, 24*time.Hour, opts...)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	c := testCodec()

	raw, expiresAt, err := c.IssueAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected future expiry")
	}

	claims, err := c.VerifyAccessToken(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestAccessAndRenewSecretsAreIndependent(t *testing.T) {
	c := testCodec()

	access, _, err := c.IssueAccessToken("user-1", "standard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// an access token never verifies as a renew token
	if _, err := c.VerifyRenewToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}

	renew, _, err := c.IssueRenewToken("user-1", "standard")
	if err != nil {
		t.Fatalf("issue renew: %v", err)
	}
	if _, err := c.VerifyAccessToken(renew); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredTokenIsDistinguished(t *testing.T) {
	now := time.Now()
	issued := testCodec(WithClock(func() time.Time { return now.Add(-time.Hour) }))

	raw, _, err := issued.IssueAccessToken("user-1", "standard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := testCodec(WithClock(func() time.Time { return now }))
	if _, err := verifier.VerifyAccessToken(raw); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestTamperedTokenIsInvalid(t *testing.T) {
	c := testCodec()
	raw, _, err := c.IssueAccessToken("user-1", "standard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewCodec("different-secret", "renew-secret", 15*time.Minute, 24*time.Hour)
	if _, err := other.VerifyAccessToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestMissingSecretSurfacesPerCall(t *testing.T) {
	c := NewCodec("", "", 15*time.Minute, 24*time.Hour)

	if _, _, err := c.IssueAccessToken("user-1", "standard"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("issue err = %v, want ErrMissingSecret", err)
	}
	if _, err := c.VerifyRenewToken("anything"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("verify err = %v, want ErrMissingSecret", err)
	}
}

func TestVerifyRejectsEmptyAndGarbage(t *testing.T) {
	c := testCodec()

	if _, err := c.VerifyAccessToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty err = %v", err)
	}
	if _, err := c.VerifyAccessToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	c := testCodec()
	if _, _, err := c.IssueAccessToken("  ", "standard"); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
