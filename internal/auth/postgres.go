package auth

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
	tx *sql.Tx
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) conn() audit.DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// InTx runs fn against a transaction-bound copy of the store. Nested calls
// reuse the outer transaction.
func (s *PGStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(&PGStore{db: s.db, tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PGStore) Users(context.Context) UserStore       { return &userStore{db: s.conn()} }
func (s *PGStore) Sessions(context.Context) SessionStore { return &sessionStore{db: s.conn()} }
func (s *PGStore) Audit(context.Context) audit.Store     { return audit.NewPGStore(s.conn()) }

// User store ---------------------------------------------------------------

type userStore struct{ db audit.DBTX }

const userColumns = `id, cin, hashed_password, first_name, last_name, role, deleted_at, created_at, updated_at`

func (s *userStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.Role == "" {
		u.Role = RoleStandard
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, cin, hashed_password, first_name, last_name, role) values($1,$2,$3,$4,$5,$6)`,
		u.ID, u.CIN, u.HashedPassword, u.FirstName, u.LastName, string(u.Role),
	)
	return err
}

func (s *userStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *userStore) FindByCIN(ctx context.Context, cin string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where cin=$1`, cin)
	return scanUser(row)
}

func (s *userStore) List(ctx context.Context, p ListUsersParams) ([]*User, int, error) {
	where := []string{"deleted_at is null"}
	var args []any
	if search := strings.TrimSpace(p.Search); search != "" {
		args = append(args, "%"+search+"%")
		ph := "$" + strconv.Itoa(len(args))
		where = append(where, "(first_name ilike "+ph+" or last_name ilike "+ph+" or cin ilike "+ph+")")
	}
	clause := " where " + strings.Join(where, " and ")

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from users`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " order by created_at desc"
	if p.OrderByName {
		order = " order by first_name asc"
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := `select ` + userColumns + ` from users` + clause + order +
		` limit $` + strconv.Itoa(len(args)-1) + ` offset $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUserFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *userStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set deleted_at = now(), updated_at = now() where id=$1 and deleted_at is null`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u       User
		role    string
		deleted sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.CIN, &u.HashedPassword, &u.FirstName, &u.LastName, &role, &deleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Role = Role(role)
	if deleted.Valid {
		t := deleted.Time
		u.DeletedAt = &t
	}
	return &u, nil
}

func scanUserFromRows(rows *sql.Rows) (*User, error) {
	var (
		u       User
		role    string
		deleted sql.NullTime
	)
	if err := rows.Scan(&u.ID, &u.CIN, &u.HashedPassword, &u.FirstName, &u.LastName, &role, &deleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	if deleted.Valid {
		t := deleted.Time
		u.DeletedAt = &t
	}
	return &u, nil
}

// Session store ------------------------------------------------------------

type sessionStore struct{ db audit.DBTX }

func (s *sessionStore) Find(ctx context.Context, userID string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, user_id, renew_expires_at, created_at, updated_at from sessions where user_id=$1`, userID)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.RenewExpiresAt, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *sessionStore) Upsert(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = ids.New()
	}
	if sess.RenewExpiresAt.IsZero() {
		sess.RenewExpiresAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into sessions(id, user_id, renew_expires_at) values($1,$2,$3)
		 on conflict (user_id) do update set renew_expires_at = excluded.renew_expires_at, updated_at = now()`,
		sess.ID, sess.UserID, sess.RenewExpiresAt,
	)
	return err
}

func (s *sessionStore) Delete(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `delete from sessions where user_id=$1`, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
