package visit

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
	"github.com/esslidev/sga-advanced-system/internal/visitor"
)

// Service implements visit registration and CRUD with audit logging.
type Service struct {
	store    Store
	visitors visitor.Store
	audit    audit.Store
}

func NewService(store Store, visitors visitor.Store, auditStore audit.Store) *Service {
	return &Service{store: store, visitors: visitors, audit: auditStore}
}

// List returns non-deleted visits, optionally for a single visitor.
func (s *Service) List(ctx context.Context, q Query) ([]*Visit, int, error) {
	return s.store.List(ctx, q)
}

// AddParams carries the visit-registration request. The visitor fields are
// matched against the visitor table by CIN.
type AddParams struct {
	Date             time.Time
	Reason           string
	Divisions        []Division
	VisitorCIN       string
	VisitorFirstName string
	VisitorLastName  string
}

// Add registers a visit. An unknown visitor CIN creates the visitor on the
// fly; a soft-deleted visitor is gone, and a name that does not match the
// record on file conflicts rather than silently overwriting it.
func (s *Service) Add(ctx context.Context, actorID string, p AddParams) (*Visit, error) {
	if !auth.IsCINValid(p.VisitorCIN) {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidCIN)
	}
	if p.Date.IsZero() || strings.TrimSpace(p.Reason) == "" || len(p.Divisions) == 0 {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidVisitData)
	}
	firstName := strings.TrimSpace(p.VisitorFirstName)
	lastName := strings.TrimSpace(p.VisitorLastName)
	if firstName == "" || lastName == "" {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyMissingParameters)
	}

	cin := auth.NormalizeCIN(p.VisitorCIN)
	vis, err := s.visitors.FindByCIN(ctx, cin)
	switch {
	case err == nil && !vis.Active():
		return nil, apperr.New(http.StatusGone, locale.KeyVisitorDeletedPreviously)
	case err == nil:
		if vis.FirstName != firstName || vis.LastName != lastName {
			return nil, apperr.New(http.StatusConflict, locale.KeyVisitorNameMismatch)
		}
	case errors.Is(err, visitor.ErrNotFound):
		vis = &visitor.Visitor{CIN: cin, FirstName: firstName, LastName: lastName}
		if err := s.visitors.Create(ctx, vis); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	v := &Visit{
		VisitorID: vis.ID,
		Date:      p.Date,
		Reason:    strings.TrimSpace(p.Reason),
		Divisions: p.Divisions,
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	s.appendAudit(ctx, actorID, audit.ActionVisitCreated, v.ID)
	return v, nil
}

// Update modifies a visit; a non-nil Divisions slice replaces the division
// tags wholesale.
func (s *Service) Update(ctx context.Context, actorID string, p UpdateParams) error {
	if strings.TrimSpace(p.ID) == "" {
		return apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	if err := s.store.Update(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.New(http.StatusNotFound, locale.KeyNotFound)
		}
		return err
	}
	s.appendAudit(ctx, actorID, audit.ActionVisitUpdated, p.ID)
	return nil
}

// Delete soft-deletes a visit.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.New(http.StatusNotFound, locale.KeyNotFound)
		}
		return err
	}
	s.appendAudit(ctx, actorID, audit.ActionVisitDeleted, id)
	return nil
}

func (s *Service) appendAudit(ctx context.Context, actorID string, action audit.Action, visitID string) {
	if s.audit == nil || actorID == "" {
		return
	}
	_ = s.audit.Append(ctx, &audit.Entry{
		UserID:   actorID,
		Action:   action,
		Metadata: map[string]string{"visitId": visitID},
	})
}
