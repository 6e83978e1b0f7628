package member

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

const memberCols = `id, email, full_name, phone, plan_tier, status, onboarded,
	preferred_language, last_login_at, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Email, &m.FullName, &m.Phone, &m.PlanTier, &m.Status, &m.Onboarded,
		&m.PreferredLanguage, &m.LastLoginAt, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := db.Retry(ctx, func(ctx context.Context) error {
		return r.conn(ctx).QueryRow(ctx, `
			INSERT INTO member (id, email, full_name, phone, plan_tier, status, preferred_language)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING created_at, updated_at`,
			m.ID, m.Email, m.FullName, m.Phone, m.PlanTier, m.Status, m.PreferredLanguage).
			Scan(&m.CreatedAt, &m.UpdatedAt)
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *repoPG) getWhere(ctx context.Context, where string, arg interface{}) (*Member, error) {
	var m *Member
	err := db.Retry(ctx, func(ctx context.Context) error {
		var err error
		m, err = scanMember(r.conn(ctx).QueryRow(ctx,
			`SELECT `+memberCols+` FROM member WHERE `+where, arg))
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Member, error) {
	return r.getWhere(ctx, `email = $1`, email)
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	var tag pgconn.CommandTag
	err := db.Retry(ctx, func(ctx context.Context) error {
		var err error
		tag, err = r.conn(ctx).Exec(ctx, `
			UPDATE member SET full_name=$2, phone=$3, plan_tier=$4, status=$5,
				onboarded=$6, preferred_language=$7, updated_at=NOW()
			WHERE id = $1`,
			m.ID, m.FullName, m.Phone, m.PlanTier, m.Status, m.Onboarded, m.PreferredLanguage)
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

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	var items []*Member
	var total int

	err := db.Retry(ctx, func(ctx context.Context) error {
		items = nil
		if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM member`).Scan(&total); err != nil {
			return err
		}
		rows, err := r.conn(ctx).Query(ctx,
			`SELECT `+memberCols+` FROM member ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanMember(rows)
			if err != nil {
				return err
			}
			items = append(items, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	return db.Retry(ctx, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx,
			`UPDATE member SET last_login_at = NOW() WHERE id = $1`, id)
		return err
	})
}
