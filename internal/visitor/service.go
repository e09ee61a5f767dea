package visitor

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/esslidev/sga-advanced-system/internal/apperr"
	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/locale"
)

// Service implements visitor CRUD with audit logging.
type Service struct {
	store Store
	audit audit.Store
}

func NewService(store Store, auditStore audit.Store) *Service {
	return &Service{store: store, audit: auditStore}
}

// Get returns a single active visitor.
func (s *Service) Get(ctx context.Context, id string) (*Visitor, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	v, err := s.store.FindActive(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(http.StatusNotFound, locale.KeyNotFound)
		}
		return nil, err
	}
	return v, nil
}

// GetByCIN resolves an active visitor by CIN. A soft-deleted visitor is
// reported as gone, matching the add-visitor flow.
func (s *Service) GetByCIN(ctx context.Context, cin string) (*Visitor, error) {
	if !auth.IsCINValid(cin) {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidCIN)
	}
	v, err := s.store.FindByCIN(ctx, auth.NormalizeCIN(cin))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(http.StatusNotFound, locale.KeyNotFound)
		}
		return nil, err
	}
	if !v.Active() {
		return nil, apperr.New(http.StatusGone, locale.KeyVisitorDeletedPreviously)
	}
	return v, nil
}

// List returns active visitors matching the filter plus the total count.
func (s *Service) List(ctx context.Context, p ListParams) ([]*Visitor, int, error) {
	return s.store.List(ctx, p)
}

// Add registers a new visitor. A live duplicate conflicts; a soft-deleted
// duplicate is reported as gone so the desk can escalate instead of silently
// resurrecting the record.
func (s *Service) Add(ctx context.Context, actorID, cin, firstName, lastName string) (*Visitor, error) {
	if !auth.IsCINValid(cin) {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidCIN)
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyMissingParameters)
	}

	cin = auth.NormalizeCIN(cin)
	existing, err := s.store.FindByCIN(ctx, cin)
	switch {
	case err == nil && existing.Active():
		return nil, apperr.New(http.StatusConflict, locale.KeyVisitorAlreadyExists)
	case err == nil:
		return nil, apperr.New(http.StatusGone, locale.KeyVisitorDeletedPreviously)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	v := &Visitor{
		CIN:       cin,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	s.appendAudit(ctx, actorID, audit.ActionVisitorCreated, v.ID)
	return v, nil
}

// Update modifies an active visitor's fields.
func (s *Service) Update(ctx context.Context, actorID string, p UpdateParams) (*Visitor, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidRequest)
	}
	if p.CIN != "" {
		if !auth.IsCINValid(p.CIN) {
			return nil, apperr.New(http.StatusBadRequest, locale.KeyInvalidCIN)
		}
		p.CIN = auth.NormalizeCIN(p.CIN)
	}
	v, err := s.store.Update(ctx, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(http.StatusNotFound, locale.KeyNotFound)
		}
		return nil, err
	}
	s.appendAudit(ctx, actorID, audit.ActionVisitorUpdated, v.ID)
	return v, nil
}

// Delete soft-deletes a visitor.
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
	s.appendAudit(ctx, actorID, audit.ActionVisitorDeleted, id)
	return nil
}

func (s *Service) appendAudit(ctx context.Context, actorID string, action audit.Action, visitorID string) {
	if s.audit == nil || actorID == "" {
		return
	}
	// Audit failures never fail the operation itself.
	_ = s.audit.Append(ctx, &audit.Entry{
		UserID:   actorID,
		Action:   action,
		Metadata: map[string]string{"visitorId": visitorID},
	})
}
