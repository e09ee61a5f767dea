package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/locale"
	"github.com/esslidev/sga-advanced-system/internal/token"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	users    map[string]*User
	sessions map[string]*Session
	entries  []*audit.Entry
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*User),
		sessions: make(map[string]*Session),
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(Store) error) error { return fn(m) }
func (m *memStore) Users(context.Context) UserStore                      { return (*memUserStore)(m) }
func (m *memStore) Sessions(context.Context) SessionStore                { return (*memSessionStore)(m) }
func (m *memStore) Audit(context.Context) audit.Store                    { return (*memAuditStore)(m) }

type memUserStore memStore

func (m *memUserStore) Create(_ context.Context, u *User) error {
	if u.ID == "" {
		m.nextID++
		u.ID = fmt.Sprintf("user-%d", m.nextID)
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *memUserStore) Find(_ context.Context, id string) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *memUserStore) FindByCIN(_ context.Context, cin string) (*User, error) {
	for _, u := range m.users {
		if u.CIN == cin {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memUserStore) List(_ context.Context, _ ListUsersParams) ([]*User, int, error) {
	var out []*User
	for _, u := range m.users {
		if u.Active() {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (m *memUserStore) SoftDelete(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok || !u.Active() {
		return ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

type memSessionStore memStore

func (m *memSessionStore) Find(_ context.Context, userID string) (*Session, error) {
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memSessionStore) Upsert(_ context.Context, s *Session) error {
	m.sessions[s.UserID] = s
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, userID string) error {
	if _, ok := m.sessions[userID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, userID)
	return nil
}

type memAuditStore memStore

func (m *memAuditStore) Append(_ context.Context, e *audit.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAuditStore) List(_ context.Context, _ audit.Query) ([]*audit.Entry, int, error) {
	return m.entries, len(m.entries), nil
}

const testAdminCode = "let-me-in-2024"

func newTestService(t *testing.T, store *memStore) *Service {
	t.Helper()
	codec := token.NewCodec("access-secret", "renew-secret", 15*time.Minute, 24*time.Hour)
	hash, err := HashPassword(testAdminCode)
	if err != nil {
		t.Fatalf("hash admin code: %v", err)
	}
	return NewService(store, codec, WithAdminAccessHash(hash))
}

func signUpParams() SignUpParams {
	return SignUpParams{
		AdminAccessCode: testAdminCode,
		CIN:             "AB123456",
		Password:        "passw0rd1",
		FirstName:       "Yassine",
		LastName:        "Amrani",
	}
}

func TestSignUpIssuesTokensAndSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	pair, user, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if pair.AccessToken == "" || pair.RenewToken == "" {
		t.Fatal("expected both tokens")
	}
	if user.Role != RoleStandard {
		t.Fatalf("role = %q, want standard", user.Role)
	}

	// both tokens must assert the identity of the row that was persisted
	codec := token.NewCodec("access-secret", "renew-secret", 15*time.Minute, 24*time.Hour)
	for name, raw := range map[string]string{"access": pair.AccessToken, "renew": pair.RenewToken} {
		var claims *token.Claims
		var verr error
		if name == "access" {
			claims, verr = codec.VerifyAccessToken(raw)
		} else {
			claims, verr = codec.VerifyRenewToken(raw)
		}
		if verr != nil {
			t.Fatalf("verify %s token: %v", name, verr)
		}
		if user.ID == "" || claims.UserID != user.ID {
			t.Fatalf("%s token userID = %q, persisted user ID = %q", name, claims.UserID, user.ID)
		}
		if _, ok := store.users[claims.UserID]; !ok {
			t.Fatalf("%s token names unknown user %q", name, claims.UserID)
		}
	}
	if _, ok := store.sessions[user.ID]; !ok {
		t.Fatal("expected session row")
	}
	if len(store.entries) != 1 || store.entries[0].Action != audit.ActionSignUp {
		t.Fatalf("audit entries = %+v", store.entries)
	}
}

func TestSignUpRejectsBadAdminCode(t *testing.T) {
	svc := newTestService(t, newMemStore())

	p := signUpParams()
	p.AdminAccessCode = "wrong"
	_, _, err := svc.SignUp(context.Background(), p)
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyInvalidAdminAccessCode)

	p.AdminAccessCode = ""
	_, _, err = svc.SignUp(context.Background(), p)
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyMissingAdminAccessCode)
}

func TestSignUpRejectsDuplicateCIN(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	if _, _, err := svc.SignUp(context.Background(), signUpParams()); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, _, err := svc.SignUp(context.Background(), signUpParams())
	assertAppError(t, err, http.StatusBadRequest, locale.KeyUserAlreadyExists)
}

func TestSignUpRejectsDeletedCIN(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, user, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	now := time.Now()
	store.users[user.ID].DeletedAt = &now

	_, _, err = svc.SignUp(context.Background(), signUpParams())
	assertAppError(t, err, http.StatusBadRequest, locale.KeyUserAlreadyExists)
}

func TestSignUpValidation(t *testing.T) {
	svc := newTestService(t, newMemStore())

	cases := []struct {
		name   string
		mutate func(*SignUpParams)
		key    locale.Key
	}{
		{"bad cin", func(p *SignUpParams) { p.CIN = "123456" }, locale.KeyInvalidCIN},
		{"short password", func(p *SignUpParams) { p.Password = "a1" }, locale.KeyInvalidPassword},
		{"digits only password", func(p *SignUpParams) { p.Password = "12345678" }, locale.KeyInvalidPassword},
		{"missing name", func(p *SignUpParams) { p.FirstName = " " }, locale.KeyMissingParameters},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := signUpParams()
			tc.mutate(&p)
			_, _, err := svc.SignUp(context.Background(), p)
			assertAppError(t, err, http.StatusBadRequest, tc.key)
		})
	}
}

func TestSignInReplacesSession(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, user, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	first := store.sessions[user.ID]

	pair, _, err := svc.SignIn(context.Background(), "ab123456", "passw0rd1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if pair.AccessToken == "" || pair.RenewToken == "" {
		t.Fatal("expected both tokens")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(store.sessions))
	}
	if store.sessions[user.ID] == first {
		t.Fatal("expected session replacement")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	if _, _, err := svc.SignUp(context.Background(), signUpParams()); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	_, _, err := svc.SignIn(context.Background(), "AB123456", "wrongpass1")
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyInvalidCredentials)

	appErr, _ := apperr.From(err)
	if !appErr.AccessUnauthorized {
		t.Fatal("expected accessUnauthorized flag")
	}
}

func TestSignInUnknownAndDeletedUser(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, _, err := svc.SignIn(context.Background(), "ZZ999999", "passw0rd1")
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyInvalidCredentials)

	_, user, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	now := time.Now()
	store.users[user.ID].DeletedAt = &now

	_, _, err = svc.SignIn(context.Background(), "AB123456", "passw0rd1")
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyInvalidCredentials)
}

func TestSignOutRemovesSessionOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, user, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.SignOut(context.Background(), user.ID); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(store.sessions) != 0 {
		t.Fatal("expected session removed")
	}

	// repeated sign-out is observable as a 404
	err = svc.SignOut(context.Background(), user.ID)
	assertAppError(t, err, http.StatusNotFound, locale.KeyNotFound)
}

func TestRenewAccess(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	pair, _, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	access, err := svc.RenewAccess(context.Background(), pair.RenewToken)
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if access == "" {
		t.Fatal("expected access token")
	}
}

func TestRenewAccessExpiredToken(t *testing.T) {
	store := newMemStore()
	codec := token.NewCodec("access-secret", "renew-secret", 15*time.Minute, 24*time.Hour)
	svc := NewService(store, codec)

	past := time.Now().Add(-48 * time.Hour)
	expiredCodec := token.NewCodec("access-secret", "renew-secret", 15*time.Minute, 24*time.Hour,
		token.WithClock(func() time.Time { return past }))
	renew, _, err := expiredCodec.IssueRenewToken("user-1", "standard")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.RenewAccess(context.Background(), renew)
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyRenewTokenExpired)
	appErr, _ := apperr.From(err)
	if !appErr.ExpiredRenewToken {
		t.Fatal("expected expiredRenewToken flag")
	}
}

func TestRenewAccessRejectsGarbage(t *testing.T) {
	svc := newTestService(t, newMemStore())

	_, err := svc.RenewAccess(context.Background(), "not-a-token")
	assertAppError(t, err, http.StatusUnauthorized, locale.KeyAuthenticationError)

	_, err = svc.RenewAccess(context.Background(), "  ")
	assertAppError(t, err, http.StatusBadRequest, locale.KeyLackOfCredentials)
}

func TestDeleteUserAuditsActor(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, admin, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up admin: %v", err)
	}
	p := signUpParams()
	p.CIN = "CD654321"
	_, target, err := svc.SignUp(context.Background(), p)
	if err != nil {
		t.Fatalf("sign up target: %v", err)
	}

	if err := svc.DeleteUser(context.Background(), admin.ID, target.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.users[target.ID].Active() {
		t.Fatal("expected soft delete")
	}

	last := store.entries[len(store.entries)-1]
	if last.Action != audit.ActionUserDeleted || last.UserID != admin.ID {
		t.Fatalf("audit entry = %+v", last)
	}
	if last.Metadata["deletedUserId"] != target.ID {
		t.Fatalf("metadata = %+v", last.Metadata)
	}

	// deleting again is a 404
	err = svc.DeleteUser(context.Background(), admin.ID, target.ID)
	assertAppError(t, err, http.StatusNotFound, locale.KeyNotFound)
}

func TestIsActiveAdmin(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, user, err := svc.SignUp(context.Background(), signUpParams())
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	ok, err := svc.IsActiveAdmin(context.Background(), user.ID)
	if err != nil || ok {
		t.Fatalf("standard user: ok=%v err=%v", ok, err)
	}

	store.users[user.ID].Role = RoleAdmin
	ok, err = svc.IsActiveAdmin(context.Background(), user.ID)
	if err != nil || !ok {
		t.Fatalf("admin user: ok=%v err=%v", ok, err)
	}

	now := time.Now()
	store.users[user.ID].DeletedAt = &now
	ok, err = svc.IsActiveAdmin(context.Background(), user.ID)
	if err != nil || ok {
		t.Fatalf("deleted admin: ok=%v err=%v", ok, err)
	}
}

func assertAppError(t *testing.T, err error, status int, key locale.Key) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an apperr", err)
	}
	if appErr.Status != status || appErr.Key != key {
		t.Fatalf("got %d/%s, want %d/%s", appErr.Status, appErr.Key, status, key)
	}
}
