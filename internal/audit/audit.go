// Package audit provides the append-only log of critical user actions.
// Entries are written by the auth service and the CRUD services as a side
// effect of their operations and are never mutated or deleted.
package audit

import (
	"context"
	"time"
)

// Action identifies the operation an entry records.
type Action string

const (
	ActionSignUp         Action = "signUp"
	ActionSignIn         Action = "signIn"
	ActionSignOut        Action = "signOut"
	ActionUserDeleted    Action = "userDeleted"
	ActionVisitorCreated Action = "visitorCreated"
	ActionVisitorUpdated Action = "visitorUpdated"
	ActionVisitorDeleted Action = "visitorDeleted"
	ActionVisitCreated   Action = "visitCreated"
	ActionVisitUpdated   Action = "visitUpdated"
	ActionVisitDeleted   Action = "visitDeleted"
)

// Valid reports whether the action is one of the known values. Used when
// filtering log queries so arbitrary strings never reach the SQL layer.
func (a Action) Valid() bool {
	switch a {
	case ActionSignUp, ActionSignIn, ActionSignOut, ActionUserDeleted,
		ActionVisitorCreated, ActionVisitorUpdated, ActionVisitorDeleted,
		ActionVisitCreated, ActionVisitUpdated, ActionVisitDeleted:
		return true
	}
	return false
}

// Entry is one append-only audit record.
type Entry struct {
	ID        string
	UserID    string
	Action    Action
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query filters and pages the audit log.
type Query struct {
	UserID string
	Action Action
	Limit  int
	Page   int
}

// Store appends and queries audit entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, q Query) ([]*Entry, int, error)
}
