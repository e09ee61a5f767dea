package visitor

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/esslidev/sga-advanced-system/internal/audit"
	"github.com/esslidev/sga-advanced-system/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct{ db audit.DBTX }

func NewPGStore(db audit.DBTX) *PGStore { return &PGStore{db: db} }

const visitorColumns = `id, cin, first_name, last_name, deleted_at, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, v *Visitor) error {
	if v.ID == "" {
		v.ID = ids.New()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into visitors(id, cin, first_name, last_name) values($1,$2,$3,$4)`,
		v.ID, v.CIN, v.FirstName, v.LastName,
	)
	return err
}

func (s *PGStore) FindActive(ctx context.Context, id string) (*Visitor, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+visitorColumns+` from visitors where id=$1 and deleted_at is null`, id)
	return scanVisitor(row)
}

func (s *PGStore) FindByCIN(ctx context.Context, cin string) (*Visitor, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+visitorColumns+` from visitors where cin=$1`, cin)
	return scanVisitor(row)
}

func (s *PGStore) List(ctx context.Context, p ListParams) ([]*Visitor, int, error) {
	where := []string{"v.deleted_at is null"}
	var args []any
	if search := strings.TrimSpace(p.Search); search != "" {
		args = append(args, "%"+search+"%")
		ph := "$" + strconv.Itoa(len(args))
		where = append(where, "(v.first_name ilike "+ph+" or v.last_name ilike "+ph+" or v.cin ilike "+ph+")")
	}
	clause := " where " + strings.Join(where, " and ")

	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from visitors v`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " order by v.created_at desc"
	if p.OrderByName {
		order = " order by v.first_name asc"
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
	query := `select v.id, v.cin, v.first_name, v.last_name, v.deleted_at, v.created_at, v.updated_at,
		count(vs.id) filter (where vs.deleted_at is null) as visits_count
		from visitors v left join visits vs on vs.visitor_id = v.id` +
		clause + ` group by v.id` + order +
		` limit $` + strconv.Itoa(len(args)-1) + ` offset $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Visitor
	for rows.Next() {
		var (
			v       Visitor
			deleted sql.NullTime
		)
		if err := rows.Scan(&v.ID, &v.CIN, &v.FirstName, &v.LastName, &deleted, &v.CreatedAt, &v.UpdatedAt, &v.VisitsCount); err != nil {
			return nil, 0, err
		}
		if deleted.Valid {
			t := deleted.Time
			v.DeletedAt = &t
		}
		out = append(out, &v)
	}
	return out, total, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, p UpdateParams) (*Visitor, error) {
	row := s.db.QueryRowContext(ctx,
		`update visitors set
			cin = coalesce(nullif($2, ''), cin),
			first_name = coalesce(nullif($3, ''), first_name),
			last_name = coalesce(nullif($4, ''), last_name),
			updated_at = now()
		 where id=$1 and deleted_at is null
		 returning `+visitorColumns, p.ID, p.CIN, p.FirstName, p.LastName)
	return scanVisitor(row)
}

func (s *PGStore) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`update visitors set deleted_at = now(), updated_at = now() where id=$1 and deleted_at is null`, id)
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

func scanVisitor(row *sql.Row) (*Visitor, error) {
	var (
		v       Visitor
		deleted sql.NullTime
	)
	if err := row.Scan(&v.ID, &v.CIN, &v.FirstName, &v.LastName, &deleted, &v.CreatedAt, &v.UpdatedAt); err != nil {
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
