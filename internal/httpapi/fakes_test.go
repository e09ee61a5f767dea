package httpapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/auth"
	"github.com/esslidev/sga-advanced-system/internal/visit"
	"github.com/esslidev/sga-advanced-system/internal/visitor"
)

// fakeStore implements the auth, visitor, visit and audit store interfaces in
// memory so handler tests exercise the full service stack.
type fakeStore struct {
	users    map[string]*auth.User
	sessions map[string]*auth.Session
	visitors map[string]*visitor.Visitor
	visits   map[string]*visit.Visit
	entries  []*audit.Entry
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*auth.User),
		sessions: make(map[string]*auth.Session),
		visitors: make(map[string]*visitor.Visitor),
		visits:   make(map[string]*visit.Visit),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

// auth.Store

func (f *fakeStore) InTx(ctx context.Context, fn func(auth.Store) error) error { return fn(f) }
func (f *fakeStore) Users(context.Context) auth.UserStore                      { return (*fakeUserStore)(f) }
func (f *fakeStore) Sessions(context.Context) auth.SessionStore                { return (*fakeSessionStore)(f) }
func (f *fakeStore) Audit(context.Context) audit.Store                         { return (*fakeAuditStore)(f) }

type fakeUserStore fakeStore

func (f *fakeUserStore) Create(_ context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = (*fakeStore)(f).id("user")
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Find(_ context.Context, id string) (*auth.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, auth.ErrNotFound
}

func (f *fakeUserStore) FindByCIN(_ context.Context, cin string) (*auth.User, error) {
	for _, u := range f.users {
		if u.CIN == cin {
			return u, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (f *fakeUserStore) List(_ context.Context, p auth.ListUsersParams) ([]*auth.User, int, error) {
	var out []*auth.User
	for _, u := range f.users {
		if u.Active() {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (f *fakeUserStore) SoftDelete(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok || !u.Active() {
		return auth.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

type fakeSessionStore fakeStore

func (f *fakeSessionStore) Find(_ context.Context, userID string) (*auth.Session, error) {
	if s, ok := f.sessions[userID]; ok {
		return s, nil
	}
	return nil, auth.ErrNotFound
}

func (f *fakeSessionStore) Upsert(_ context.Context, s *auth.Session) error {
	f.sessions[s.UserID] = s
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, userID string) error {
	if _, ok := f.sessions[userID]; !ok {
		return auth.ErrNotFound
	}
	delete(f.sessions, userID)
	return nil
}

type fakeAuditStore fakeStore

func (f *fakeAuditStore) Append(_ context.Context, e *audit.Entry) error {
	if e.ID == "" {
		e.ID = (*fakeStore)(f).id("log")
	}
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditStore) List(_ context.Context, q audit.Query) ([]*audit.Entry, int, error) {
	var out []*audit.Entry
	for _, e := range f.entries {
		if q.UserID != "" && e.UserID != q.UserID {
			continue
		}
		if q.Action != "" && e.Action != q.Action {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

// visitor.Store

type fakeVisitorStore fakeStore

func (f *fakeVisitorStore) Create(_ context.Context, v *visitor.Visitor) error {
	if v.ID == "" {
		v.ID = (*fakeStore)(f).id("visitor")
	}
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	f.visitors[v.ID] = v
	return nil
}

func (f *fakeVisitorStore) FindActive(_ context.Context, id string) (*visitor.Visitor, error) {
	v, ok := f.visitors[id]
	if !ok || !v.Active() {
		return nil, visitor.ErrNotFound
	}
	return v, nil
}

func (f *fakeVisitorStore) FindByCIN(_ context.Context, cin string) (*visitor.Visitor, error) {
	for _, v := range f.visitors {
		if v.CIN == cin {
			return v, nil
		}
	}
	return nil, visitor.ErrNotFound
}

func (f *fakeVisitorStore) List(_ context.Context, p visitor.ListParams) ([]*visitor.Visitor, int, error) {
	var out []*visitor.Visitor
	for _, v := range f.visitors {
		if !v.Active() {
			continue
		}
		if p.Search != "" && !strings.Contains(v.CIN, p.Search) &&
			!strings.Contains(v.FirstName, p.Search) && !strings.Contains(v.LastName, p.Search) {
			continue
		}
		out = append(out, v)
	}
	return out, len(out), nil
}

func (f *fakeVisitorStore) Update(_ context.Context, p visitor.UpdateParams) (*visitor.Visitor, error) {
	v, ok := f.visitors[p.ID]
	if !ok || !v.Active() {
		return nil, visitor.ErrNotFound
	}
	if p.CIN != "" {
		v.CIN = p.CIN
	}
	if p.FirstName != "" {
		v.FirstName = p.FirstName
	}
	if p.LastName != "" {
		v.LastName = p.LastName
	}
	return v, nil
}

func (f *fakeVisitorStore) SoftDelete(_ context.Context, id string) error {
	v, ok := f.visitors[id]
	if !ok || !v.Active() {
		return visitor.ErrNotFound
	}
	now := time.Now()
	v.DeletedAt = &now
	return nil
}

// visit.Store

type fakeVisitStore fakeStore

func (f *fakeVisitStore) Create(_ context.Context, v *visit.Visit) error {
	if v.ID == "" {
		v.ID = (*fakeStore)(f).id("visit")
	}
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	f.visits[v.ID] = v
	return nil
}

func (f *fakeVisitStore) Find(_ context.Context, id string) (*visit.Visit, error) {
	if v, ok := f.visits[id]; ok {
		return v, nil
	}
	return nil, visit.ErrNotFound
}

func (f *fakeVisitStore) List(_ context.Context, q visit.Query) ([]*visit.Visit, int, error) {
	var out []*visit.Visit
	for _, v := range f.visits {
		if v.DeletedAt != nil {
			continue
		}
		if q.VisitorID != "" && v.VisitorID != q.VisitorID {
			continue
		}
		out = append(out, v)
	}
	return out, len(out), nil
}

func (f *fakeVisitStore) Update(_ context.Context, p visit.UpdateParams) error {
	v, ok := f.visits[p.ID]
	if !ok || v.DeletedAt != nil {
		return visit.ErrNotFound
	}
	if p.Reason != "" {
		v.Reason = p.Reason
	}
	if !p.Date.IsZero() {
		v.Date = p.Date
	}
	if p.Divisions != nil {
		v.Divisions = p.Divisions
	}
	return nil
}

func (f *fakeVisitStore) SoftDelete(_ context.Context, id string) error {
	v, ok := f.visits[id]
	if !ok || v.DeletedAt != nil {
		return visit.ErrNotFound
	}
	now := time.Now()
	v.DeletedAt = &now
	return nil
}
