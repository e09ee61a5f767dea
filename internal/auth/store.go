package auth

import (
	"context"

	"github.com/esslidev/sga-advanced-system/internal/audit"
)

// ListUsersParams filters and pages the user listing.
type ListUsersParams struct {
	Search      string
	OrderByName bool
	Limit       int
	Page        int
}

// Store describes persistence operations required by the auth subsystem.
// InTx runs fn against a store bound to a single database transaction, so
// multi-step operations (sign-up, sign-out) commit or roll back atomically.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error
	Users(ctx context.Context) UserStore
	Sessions(ctx context.Context) SessionStore
	Audit(ctx context.Context) audit.Store
}

// UserStore manages user accounts.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	// Find returns the user regardless of soft-delete state; callers check
	// DeletedAt where it matters.
	Find(ctx context.Context, id string) (*User, error)
	// FindByCIN also returns soft-deleted rows so sign-up can reject
	// previously retired identifiers.
	FindByCIN(ctx context.Context, cin string) (*User, error)
	// List returns active users plus the total count matching the filter.
	List(ctx context.Context, p ListUsersParams) ([]*User, int, error)
	SoftDelete(ctx context.Context, id string) error
}

// SessionStore manages the one-row-per-user session table.
type SessionStore interface {
	Find(ctx context.Context, userID string) (*Session, error)
	// Upsert replaces any prior session for the user; the unique constraint
	// on user_id makes the replacement atomic at the database layer.
	Upsert(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID string) error
}
