package intake

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

// =========== Submission Repository ===========

type submissionRepoPG struct{ pool *pgxpool.Pool }

func NewSubmissionRepoPG(pool *pgxpool.Pool) SubmissionRepository { return &submissionRepoPG{pool: pool} }

func (r *submissionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const submissionCols = `id, member_id, symptoms, duration, severity, onset_date,
	urgency, status, assessment, risk_label, confidence, attachments_incomplete, created_at`

func scanSubmission(row pgx.Row) (*Submission, error) {
	var s Submission
	err := row.Scan(&s.ID, &s.MemberID, &s.Symptoms, &s.Duration, &s.Severity, &s.OnsetDate,
		&s.Urgency, &s.Status, &s.Assessment, &s.RiskLabel, &s.Confidence, &s.AttachmentsIncomplete, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "scan submission", Err: err}
	}
	return &s, nil
}

func (r *submissionRepoPG) Create(ctx context.Context, s *Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := db.Retry(ctx, func(ctx context.Context) error {
		return r.conn(ctx).QueryRow(ctx, `
			INSERT INTO symptom_submission (id, member_id, symptoms, duration, severity, onset_date,
				urgency, status, assessment, risk_label, confidence, attachments_incomplete)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			RETURNING created_at`,
			s.ID, s.MemberID, s.Symptoms, s.Duration, s.Severity, s.OnsetDate,
			s.Urgency, s.Status, s.Assessment, s.RiskLabel, s.Confidence, s.AttachmentsIncomplete).
			Scan(&s.CreatedAt)
	})
	if err != nil {
		return &PersistenceError{Op: "create submission", Err: err}
	}
	return nil
}

func (r *submissionRepoPG) getWhere(ctx context.Context, where string, args ...interface{}) (*Submission, error) {
	var sub *Submission
	err := db.Retry(ctx, func(ctx context.Context) error {
		var err error
		sub, err = scanSubmission(r.conn(ctx).QueryRow(ctx,
			`SELECT `+submissionCols+` FROM symptom_submission WHERE `+where, args...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *submissionRepoPG) GetByID(ctx context.Context, memberID, id uuid.UUID) (*Submission, error) {
	return r.getWhere(ctx, `id = $1 AND member_id = $2`, id, memberID)
}

func (r *submissionRepoPG) GetAnyByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *submissionRepoPG) ListByMember(ctx context.Context, memberID uuid.UUID, limit, offset int) ([]*Submission, int, error) {
	var items []*Submission
	var total int

	err := db.Retry(ctx, func(ctx context.Context) error {
		items = nil
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT COUNT(*) FROM symptom_submission WHERE member_id = $1`, memberID).Scan(&total); err != nil {
			return err
		}

		rows, err := r.conn(ctx).Query(ctx,
			`SELECT `+submissionCols+` FROM symptom_submission
			 WHERE member_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			memberID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanSubmission(rows)
			if err != nil {
				return err
			}
			items = append(items, s)
		}
		return rows.Err()
	})
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return nil, 0, err
		}
		return nil, 0, &PersistenceError{Op: "list submissions", Err: err}
	}
	return items, total, nil
}

func (r *submissionRepoPG) MarkAttachmentsIncomplete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "mark attachments incomplete",
		`UPDATE symptom_submission SET attachments_incomplete = TRUE WHERE id = $1`, id)
}

func (r *submissionRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.exec(ctx, "update status",
		`UPDATE symptom_submission SET status = $2 WHERE id = $1`, id, status)
}

func (r *submissionRepoPG) exec(ctx context.Context, op, sql string, args ...interface{}) error {
	var tag pgconn.CommandTag
	err := db.Retry(ctx, func(ctx context.Context) error {
		var err error
		tag, err = r.conn(ctx).Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== File Repository ===========

type fileRepoPG struct{ pool *pgxpool.Pool }

func NewFileRepoPG(pool *pgxpool.Pool) FileRepository { return &fileRepoPG{pool: pool} }

func (r *fileRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *fileRepoPG) Create(ctx context.Context, f *SubmissionFile) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	err := db.Retry(ctx, func(ctx context.Context) error {
		return r.conn(ctx).QueryRow(ctx, `
			INSERT INTO submission_file (id, submission_id, file_name, content_type, url)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING created_at`,
			f.ID, f.SubmissionID, f.FileName, f.ContentType, f.URL).
			Scan(&f.CreatedAt)
	})
	if err != nil {
		return &PersistenceError{Op: "create submission file", Err: err}
	}
	return nil
}

func (r *fileRepoPG) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]*SubmissionFile, error) {
	var files []*SubmissionFile
	err := db.Retry(ctx, func(ctx context.Context) error {
		files = nil
		rows, err := r.conn(ctx).Query(ctx, `
			SELECT id, submission_id, file_name, content_type, url, created_at
			FROM submission_file WHERE submission_id = $1 ORDER BY created_at ASC`, submissionID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var f SubmissionFile
			if err := rows.Scan(&f.ID, &f.SubmissionID, &f.FileName, &f.ContentType, &f.URL, &f.CreatedAt); err != nil {
				return err
			}
			files = append(files, &f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &PersistenceError{Op: "list submission files", Err: err}
	}
	return files, nil
}
