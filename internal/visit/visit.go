// Package visit implements visit registration: one visitor, one date, one
// reason and one-to-many division tags kept in a join table.
package visit

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("visit: not found")
	ErrInvalidDivision = errors.New("visit: invalid division")
)

// Division tags the administrative unit a visit concerns.
type Division string

const (
	Division1 Division = "division1"
	Division2 Division = "division2"
	Division3 Division = "division3"
	Division4 Division = "division4"
	Division5 Division = "division5"
)

// ParseDivision validates a raw division value.
func ParseDivision(s string) (Division, error) {
	switch d := Division(s); d {
	case Division1, Division2, Division3, Division4, Division5:
		return d, nil
	default:
		return "", ErrInvalidDivision
	}
}

// ParseDivisions validates a list of raw division values, rejecting
// duplicates.
func ParseDivisions(raw []string) ([]Division, error) {
	seen := make(map[Division]bool, len(raw))
	out := make([]Division, 0, len(raw))
	for _, s := range raw {
		d, err := ParseDivision(s)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out, nil
}

// Visit is a registered visit.
type Visit struct {
	ID        string
	VisitorID string
	Date      time.Time
	Reason    string
	Divisions []Division
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Query filters and pages visit listings.
type Query struct {
	VisitorID string
	Limit     int
	Page      int
}

// UpdateParams carries optional visit updates. A nil Divisions slice leaves
// the join rows untouched; a non-nil one replaces them wholesale.
type UpdateParams struct {
	ID        string
	VisitorID string
	Date      time.Time
	Reason    string
	Divisions []Division
}

// Store manages visit persistence. Create and Update touch the visits row
// and its division join rows in a single transaction.
type Store interface {
	Create(ctx context.Context, v *Visit) error
	Find(ctx context.Context, id string) (*Visit, error)
	List(ctx context.Context, q Query) ([]*Visit, int, error)
	Update(ctx context.Context, p UpdateParams) error
	SoftDelete(ctx context.Context, id string) error
}
