package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/ids"
	"github.com/esslidev/sga-advanced-system/internal/locale"
	"github.com/esslidev/sga-advanced-system/internal/token"
)

// Service orchestrates sign-up, sign-in, sign-out, renewal and user
// administration against the credential store, emitting audit entries as a
// side effect.
type Service struct {
	store Store
	codec *token.Codec
	now   func() time.Time

	// adminAccessHash, when set, gates sign-up behind a shared access code
	// verified against this bcrypt digest.
	adminAccessHash string
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithAdminAccessHash enables the privileged sign-up gate.
func WithAdminAccessHash(hash string) ServiceOption {
	return func(s *Service) { s.adminAccessHash = strings.TrimSpace(hash) }
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, codec *token.Codec, opts ...ServiceOption) *Service {
	s := &Service{store: store, codec: codec, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUpParams carries the sign-up request fields.
type SignUpParams struct {
	AdminAccessCode string
	CIN             string
	Password        string
	FirstName       string
	LastName        string
}

// SignUp registers a new account, creates its session, writes the audit entry
// and returns a fresh token pair. User, session and audit rows commit in a
// single transaction.
func (s *Service) SignUp(ctx context.Context, p SignUpParams) (TokenPair, *User, error) {
	if s.adminAccessHash != "" {
		if strings.TrimSpace(p.AdminAccessCode) == "" {
			return TokenPair{}, nil, apperr.New(http.StatusUnauthorized, locale.KeyMissingAdminAccessCode)
		}
		if err := VerifyPassword(s.adminAccessHash, p.AdminAccessCode); err != nil {
			return TokenPair{}, nil, apperr.New(http.StatusUnauthorized, locale.KeyInvalidAdminAccessCode)
		}
	}

	if !IsCINValid(p.CIN) {
		return TokenPair{}, nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidCIN)
	}
	if !IsPasswordValid(p.Password) {
		return TokenPair{}, nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidPassword)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return TokenPair{}, nil, apperr.New(http.StatusBadRequest, locale.KeyMissingParameters)
	}

	cin := NormalizeCIN(p.CIN)
	switch _, err := s.store.Users(ctx).FindByCIN(ctx, cin); {
	case err == nil:
		// Soft-deleted accounts also block re-registration; identifiers
		// are never reactivatable through sign-up.
		return TokenPair{}, nil, apperr.New(http.StatusBadRequest, locale.KeyUserAlreadyExists)
	case !errors.Is(err, ErrNotFound):
		return TokenPair{}, nil, err
	}

	hashed, err := HashPassword(p.Password)
	if err != nil {
		return TokenPair{}, nil, err
	}

	// The ID is assigned here rather than by the store so the tokens minted
	// below carry the new user's identity.
	user := &User{
		ID:             ids.New(),
		CIN:            cin,
		HashedPassword: hashed,
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Role:           RoleStandard,
	}

	pair, renewExp, err := s.mintPair(user)
	if err != nil {
		return TokenPair{}, nil, err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.Users(ctx).Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Sessions(ctx).Upsert(ctx, &Session{UserID: user.ID, RenewExpiresAt: renewExp}); err != nil {
			return err
		}
		return tx.Audit(ctx).Append(ctx, &audit.Entry{UserID: user.ID, Action: audit.ActionSignUp})
	})
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, user, nil
}

// SignIn authenticates credentials and replaces any prior session for the
// user. Old tokens remain cryptographically valid until their own expiry;
// validity is signature+expiry based, not an allow-list.
func (s *Service) SignIn(ctx context.Context, cin, password string) (TokenPair, *User, error) {
	if !IsCINValid(cin) {
		return TokenPair{}, nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidCIN)
	}
	if !IsPasswordValid(password) {
		return TokenPair{}, nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidPassword)
	}

	user, err := s.store.Users(ctx).FindByCIN(ctx, NormalizeCIN(cin))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			equalizeTiming(password)
			return TokenPair{}, nil, invalidCredentials()
		}
		return TokenPair{}, nil, err
	}
	if !user.Active() {
		equalizeTiming(password)
		return TokenPair{}, nil, invalidCredentials()
	}
	if err := VerifyPassword(user.HashedPassword, password); err != nil {
		return TokenPair{}, nil, invalidCredentials()
	}

	pair, renewExp, err := s.mintPair(user)
	if err != nil {
		return TokenPair{}, nil, err
	}

	err = s.store.InTx(ctx, func(tx Store) error {
		if err := tx.Sessions(ctx).Upsert(ctx, &Session{UserID: user.ID, RenewExpiresAt: renewExp}); err != nil {
			return err
		}
		return tx.Audit(ctx).Append(ctx, &audit.Entry{UserID: user.ID, Action: audit.ActionSignIn})
	})
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, user, nil
}

// SignOut removes the user's session. Fails with NotFound when no session
// exists, so a repeated sign-out is observable as a 404.
func (s *Service) SignOut(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	return s.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.Sessions(ctx).Find(ctx, userID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return apperr.New(http.StatusNotFound, locale.KeyNotFound)
			}
			return err
		}
		if err := tx.Sessions(ctx).Delete(ctx, userID); err != nil {
			return err
		}
		return tx.Audit(ctx).Append(ctx, &audit.Entry{UserID: userID, Action: audit.ActionSignOut})
	})
}

// RenewAccess verifies a renew token and mints a fresh access token from its
// claims. It does not touch the session row, does not rotate the renew token
// and writes no audit entry.
func (s *Service) RenewAccess(ctx context.Context, renewToken string) (string, error) {
	if strings.TrimSpace(renewToken) == "" {
		return "", apperr.New(http.StatusBadRequest, locale.KeyLackOfCredentials)
	}
	claims, err := s.codec.VerifyRenewToken(renewToken)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrExpiredToken):
			return "", apperr.New(http.StatusUnauthorized, locale.KeyRenewTokenExpired).WithExpiredRenewToken()
		case errors.Is(err, token.ErrMissingSecret):
			return "", apperr.Wrap(err, http.StatusInternalServerError, locale.KeyInternalServerError)
		default:
			return "", apperr.New(http.StatusUnauthorized, locale.KeyAuthenticationError).WithAccessUnauthorized()
		}
	}
	access, _, err := s.codec.IssueAccessToken(claims.UserID, claims.Role)
	if err != nil {
		if errors.Is(err, token.ErrMissingSecret) {
			return "", apperr.Wrap(err, http.StatusInternalServerError, locale.KeyInternalServerError)
		}
		return "", err
	}
	return access, nil
}

// GetUser returns a single account by id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	user, err := s.store.Users(ctx).Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(http.StatusNotFound, locale.KeyNotFound)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns active accounts matching the filter plus the total count.
func (s *Service) ListUsers(ctx context.Context, p ListUsersParams) ([]*User, int, error) {
	return s.store.Users(ctx).List(ctx, p)
}

// DeleteUser soft-deletes the target account and records the acting admin in
// the audit log.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if strings.TrimSpace(actorID) == "" || strings.TrimSpace(targetID) == "" {
		return apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	return s.store.InTx(ctx, func(tx Store) error {
		target, err := tx.Users(ctx).Find(ctx, targetID)
		if err != nil || !target.Active() {
			if err == nil || errors.Is(err, ErrNotFound) {
				return apperr.New(http.StatusNotFound, locale.KeyNotFound)
			}
			return err
		}
		if err := tx.Users(ctx).SoftDelete(ctx, targetID); err != nil {
			return err
		}
		return tx.Audit(ctx).Append(ctx, &audit.Entry{
			UserID:   actorID,
			Action:   audit.ActionUserDeleted,
			Metadata: map[string]string{"deletedUserId": targetID},
		})
	})
}

// IsActiveAdmin re-reads the user row and reports whether it is an
// undeleted admin account. Used by the admin gate on privileged endpoints.
func (s *Service) IsActiveAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.Users(ctx).Find(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Active() && user.Role == RoleAdmin, nil
}

func (s *Service) mintPair(user *User) (TokenPair, time.Time, error) {
	access, _, err := s.codec.IssueAccessToken(user.ID, string(user.Role))
	if err != nil {
		return TokenPair{}, time.Time{}, configError(err)
	}
	renew, renewExp, err := s.codec.IssueRenewToken(user.ID, string(user.Role))
	if err != nil {
		return TokenPair{}, time.Time{}, configError(err)
	}
	return TokenPair{AccessToken: access, RenewToken: renew}, renewExp, nil
}

func configError(err error) error {
	if errors.Is(err, token.ErrMissingSecret) {
		return apperr.Wrap(err, http.StatusInternalServerError, locale.KeyInternalServerError)
	}
	return err
}

func invalidCredentials() *apperr.Error {
	return apperr.New(http.StatusUnauthorized, locale.KeyInvalidCredentials).WithAccessUnauthorized()
}
