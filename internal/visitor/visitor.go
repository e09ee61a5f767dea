// Package visitor implements visitor records: people registered at the front
// desk, soft-deleted rather than removed so their visit history survives.
package visitor

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("visitor: not found")
	ErrAlreadyExists   = errors.New("visitor: already exists")
	ErrDeleted         = errors.New("visitor: previously deleted")
	ErrNameMismatch    = errors.New("visitor: name mismatch")
	ErrInvalidArgument = errors.New("visitor: invalid argument")
)

// Visitor is a registered visitor.
type Visitor struct {
	ID          string
	CIN         string
	FirstName   string
	LastName    string
	VisitsCount int
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active reports whether the visitor has not been soft-deleted.
func (v *Visitor) Active() bool { return v != nil && v.DeletedAt == nil }

// ListParams filters and pages visitor listings.
type ListParams struct {
	Search      string
	OrderByName bool
	Limit       int
	Page        int
}

// UpdateParams carries optional field updates; empty strings leave the
// current value untouched.
type UpdateParams struct {
	ID        string
	CIN       string
	FirstName string
	LastName  string
}

// Store manages visitor persistence.
type Store interface {
	Create(ctx context.Context, v *Visitor) error
	// FindActive returns only non-deleted visitors.
	FindActive(ctx context.Context, id string) (*Visitor, error)
	// FindByCIN returns the visitor regardless of soft-delete state.
	FindByCIN(ctx context.Context, cin string) (*Visitor, error)
	// List returns active visitors with their active-visit counts plus the
	// total matching count.
	List(ctx context.Context, p ListParams) ([]*Visitor, int, error)
	Update(ctx context.Context, p UpdateParams) (*Visitor, error)
	SoftDelete(ctx context.Context, id string) error
}
