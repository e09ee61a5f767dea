package visit

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. It holds the root *sql.DB so
// Create and Update can open their own transactions for the division join
// rows.
type PGStore struct{ db *sql.DB }

func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Create(ctx context.Context, v *Visit) error {
	if v.ID == "" {
		v.ID = ids.New()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`insert into visits(id, visitor_id, visit_date, visit_reason) values($1,$2,$3,$4)`,
		v.ID, v.VisitorID, v.Date, v.Reason,
	)
	if err != nil {
		return err
	}
	if err := insertDivisions(ctx, tx, v.ID, v.Divisions); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PGStore) Find(ctx context.Context, id string) (*Visit, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, visitor_id, visit_date, visit_reason, deleted_at, created_at, updated_at
		 from visits where id=$1`, id)
	v, err := scanVisit(row)
	if err != nil {
		return nil, err
	}
	if v.Divisions, err = s.divisionsOf(ctx, s.db, v.ID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *PGStore) List(ctx context.Context, q Query) ([]*Visit, int, error) {
	clause := ` where deleted_at is null`
	var args []any
	if q.VisitorID != "" {
		args = append(args, q.VisitorID)
		clause += ` and visitor_id=$1`
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from visits`+clause, args...).Scan(&total); err != nil {
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
	query := `select id, visitor_id, visit_date, visit_reason, deleted_at, created_at, updated_at
		from visits` + clause + ` order by created_at desc` +
		` limit $` + strconv.Itoa(len(args)-1) + ` offset $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var visits []*Visit
	for rows.Next() {
		var (
			v       Visit
			deleted sql.NullTime
		)
		if err := rows.Scan(&v.ID, &v.VisitorID, &v.Date, &v.Reason, &deleted, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if deleted.Valid {
			t := deleted.Time
			v.DeletedAt = &t
		}
		visits = append(visits, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, v := range visits {
		if v.Divisions, err = s.divisionsOf(ctx, s.db, v.ID); err != nil {
			return nil, 0, err
		}
	}
	return visits, total, nil
}

// Update rewrites the visit row and, when divisions are provided, replaces
// the join rows. Both happen in one transaction so a failed replace never
// leaves the visit half-updated.
func (s *PGStore) Update(ctx context.Context, p UpdateParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`update visits set
			visitor_id = coalesce(nullif($2, ''), visitor_id),
			visit_date = case when $3::timestamptz is null then visit_date else $3 end,
			visit_reason = coalesce(nullif($4, ''), visit_reason),
			updated_at = now()
		 where id=$1 and deleted_at is null`,
		p.ID, p.VisitorID, nullableTime(p.Date), p.Reason)
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

	if p.Divisions != nil {
		if _, err := tx.ExecContext(ctx, `delete from visit_divisions where visit_id=$1`, p.ID); err != nil {
			return err
		}
		if err := insertDivisions(ctx, tx, p.ID, p.Divisions); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PGStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`update visits set deleted_at = now(), updated_at = now() where id=$1 and deleted_at is null`, id)
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

func (s *PGStore) divisionsOf(ctx context.Context, db audit.DBTX, visitID string) ([]Division, error) {
	rows, err := db.QueryContext(ctx,
		`select division from visit_divisions where visit_id=$1 order by division`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Division
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, Division(d))
	}
	return out, rows.Err()
}

func insertDivisions(ctx context.Context, tx *sql.Tx, visitID string, divisions []Division) error {
	for _, d := range divisions {
		_, err := tx.ExecContext(ctx,
			`insert into visit_divisions(id, visit_id, division) values($1,$2,$3)`,
			ids.New(), visitID, string(d))
		if err != nil {
			return err
		}
	}
	return nil
}

func scanVisit(row *sql.Row) (*Visit, error) {
	var (
		v       Visit
		deleted sql.NullTime
	)
	if err := row.Scan(&v.ID, &v.VisitorID, &v.Date, &v.Reason, &deleted, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if deleted.Valid {
		t := deleted.Time
		v.DeletedAt = &t
	}
	return &v, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
