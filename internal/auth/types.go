package auth

import "time"

// Role is the authorization level attached to a user account.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// User is an account that can sign in to the system. Accounts are never hard
// deleted; DeletedAt marks retirement.
type User struct {
	ID             string
	CIN            string
	HashedPassword string
	FirstName      string
	LastName       string
	Role           Role
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active reports whether the account has not been soft-deleted.
func (u *User) Active() bool { return u != nil && u.DeletedAt == nil }

// Session tracks the single live session per user. The row is created at
// sign-up/sign-in, refreshed by a later sign-in (upsert on the unique user id)
// and removed at sign-out. RenewExpiresAt bookkeeps the renew token window;
// token validity itself is signature+expiry based.
type Session struct {
	ID             string
	UserID         string
	RenewExpiresAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TokenPair is returned by sign-up and sign-in.
type TokenPair struct {
	AccessToken string
	RenewToken  string
}
