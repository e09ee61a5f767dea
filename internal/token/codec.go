// Package token signs and verifies the two bearer token classes used by the
// service: short-lived access tokens and longer-lived renew tokens, each with
// its own secret and lifespan.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultIssuer = "sga"

var (
	// ErrMissingSecret indicates the signing secret for the requested token
	// class is not configured. Surfaced to clients as an internal error.
	ErrMissingSecret = errors.New("token: signing secret is not configured")

	// ErrExpiredToken indicates the token verified correctly but is past its
	// expiry. Callers must distinguish this from ErrInvalidToken because it
	// drives the client renew flow rather than a full logout.
	ErrExpiredToken = errors.New("token: expired")

	// ErrInvalidToken indicates any other verification failure: bad
	// signature, malformed payload, wrong signing method.
	ErrInvalidToken = errors.New("token: invalid")
)

// Claims is the identity assertion carried by both token classes.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"userRole"`
	jwt.RegisteredClaims
}

// Codec issues and verifies access and renew tokens with independent keys.
type Codec struct {
	accessSecret []byte
	renewSecret  []byte
	accessTTL    time.Duration
	renewTTL     time.Duration
	issuer       string
	now          func() time.Time
}

// Option configures Codec behavior.
type Option func(*Codec)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// WithIssuer overrides the issuer claim.
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		if strings.TrimSpace(issuer) != "" {
			c.issuer = issuer
		}
	}
}

// NewCodec constructs a Codec. Empty secrets are tolerated here: issuance and
// verification report ErrMissingSecret per call, so a misconfigured deployment
// fails each request with a 500 instead of crashing at startup.
func NewCodec(accessSecret, renewSecret string, accessTTL, renewTTL time.Duration, opts ...Option) *Codec {
	c := &Codec{
		accessTTL: accessTTL,
		renewTTL:  renewTTL,
		issuer:    defaultIssuer,
		now:       time.Now,
	}
	if s := strings.TrimSpace(accessSecret); s != "" {
		c.accessSecret = []byte(s)
	}
	if s := strings.TrimSpace(renewSecret); s != "" {
		c.renewSecret = []byte(s)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessTTL reports the configured access token lifespan.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RenewTTL reports the configured renew token lifespan.
func (c *Codec) RenewTTL() time.Duration { return c.renewTTL }

// IssueAccessToken signs an access token for the given identity.
func (c *Codec) IssueAccessToken(userID, role string) (string, time.Time, error) {
	return c.issue(userID, role, c.accessSecret, c.accessTTL)
}

// IssueRenewToken signs a renew token for the given identity.
func (c *Codec) IssueRenewToken(userID, role string) (string, time.Time, error) {
	return c.issue(userID, role, c.renewSecret, c.renewTTL)
}

// VerifyAccessToken validates an access token and returns its claims.
func (c *Codec) VerifyAccessToken(raw string) (*Claims, error) {
	return c.verify(raw, c.accessSecret)
}

// VerifyRenewToken validates a renew token and returns its claims.
func (c *Codec) VerifyRenewToken(raw string) (*Claims, error) {
	return c.verify(raw, c.renewSecret)
}

func (c *Codec) issue(userID, role string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	if len(secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", time.Time{}, errors.New("token: userID is required")
	}
	if ttl <= 0 {
		return "", time.Time{}, errors.New("token: lifespan must be greater than zero")
	}

	now := c.now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (c *Codec) verify(raw string, secret []byte) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
