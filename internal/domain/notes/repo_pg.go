package notes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/concierge/concierge/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const noteCols = `id, member_id, title, body, pinned, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.MemberID, &n.Title, &n.Body, &n.Pinned, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return db.Retry(ctx, func(ctx context.Context) error {
		return r.conn(ctx).QueryRow(ctx, `
			INSERT INTO member_note (id, member_id, title, body, pinned)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING created_at, updated_at`,
			n.ID, n.MemberID, n.Title, n.Body, n.Pinned).
			Scan(&n.CreatedAt, &n.UpdatedAt)
	})
}

func (r *repoPG) GetByID(ctx context.Context, memberID, id uuid.UUID) (*Note, error) {
	var n *Note
	err := db.Retry(ctx, func(ctx context.Context) error {
		var err error
		n, err = scanNote(r.conn(ctx).QueryRow(ctx,
			`SELECT `+noteCols+` FROM member_note WHERE id = $1 AND member_id = $2`, id, memberID))
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *repoPG) ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var items []*Note
	var total int

	err := db.Retry(ctx, func(ctx context.Context) error {
		items = nil
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT COUNT(*) FROM member_note WHERE member_id = $1`, memberID).Scan(&total); err != nil {
			return err
		}
		rows, err := r.conn(ctx).Query(ctx,
			`SELECT `+noteCols+` FROM member_note
			 WHERE member_id = $1 ORDER BY pinned DESC, updated_at DESC LIMIT $2 OFFSET $3`,
			memberID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			n, err := scanNote(rows)
			if err != nil {
				return err
			}
			items = append(items, n)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, n *Note) error {
	return r.exec(ctx, `
		UPDATE member_note SET title=$3, body=$4, pinned=$5, updated_at=NOW()
		WHERE id = $1 AND member_id = $2`,
		n.ID, n.MemberID, n.Title, n.Body, n.Pinned)
}

func (r *repoPG) Delete(ctx context.Context, memberID, id uuid.UUID) error {
	return r.exec(ctx,
		`DELETE FROM member_note WHERE id = $1 AND member_id = $2`, id, memberID)
}

func (r *repoPG) exec(ctx context.Context, sql string, args ...interface{}) error {
	var tag pgconn.CommandTag
	err := db.Retry(ctx, func(ctx context.Context) error {
		var err error
		tag, err = r.conn(ctx).Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
