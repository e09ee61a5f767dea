package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/esslidev/sga-advanced-system/internal/ids"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the store participates in
// caller-owned transactions.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db DBTX
}

func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = ids.New()
	}
	meta, _ := json.Marshal(entry.Metadata)
	_, err := s.db.ExecContext(ctx,
		`insert into audit_log(id, user_id, action, metadata) values($1,$2,$3,$4)`,
		entry.ID, entry.UserID, string(entry.Action), meta,
	)
	return err
}

func (s *PGStore) List(ctx context.Context, q Query) ([]*Entry, int, error) {
	var (
		where []string
		args  []any
	)
	if q.UserID != "" {
		args = append(args, q.UserID)
		where = append(where, "user_id = $1")
	}
	if q.Action != "" {
		args = append(args, string(q.Action))
		where = append(where, "action = $"+strconv.Itoa(len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " where " + strings.Join(where, " and ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from audit_log`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := `select id, user_id, action, metadata, created_at, updated_at from audit_log` +
		clause + ` order by created_at desc limit $` + strconv.Itoa(len(args)-1) + ` offset $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e    Entry
			meta []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &meta, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal(meta, &e.Metadata)
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}
