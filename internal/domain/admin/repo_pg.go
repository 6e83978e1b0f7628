package admin

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/concierge/concierge/internal/platform/db"
)

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) StatsRepository { return &statsRepoPG{pool: pool} }

func (r *statsRepoPG) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats *DashboardStats

	err := db.Retry(ctx, func(ctx context.Context) error {
		stats = &DashboardStats{
			ByUrgency: map[string]int{},
			ByStatus:  map[string]int{},
		}

		err := r.pool.QueryRow(ctx, `
			SELECT
				(SELECT COUNT(*) FROM member),
				(SELECT COUNT(*) FROM symptom_submission),
				(SELECT COUNT(*) FROM symptom_submission WHERE status IN ('submitted','under_review')),
				(SELECT COUNT(*) FROM symptom_submission WHERE attachments_incomplete)`).
			Scan(&stats.TotalMembers, &stats.TotalSubmissions, &stats.OpenSubmissions, &stats.IncompleteUploads)
		if err != nil {
			return err
		}

		if err := r.groupCount(ctx, `SELECT urgency, COUNT(*) FROM symptom_submission GROUP BY urgency`, stats.ByUrgency); err != nil {
			return err
		}
		return r.groupCount(ctx, `SELECT status, COUNT(*) FROM symptom_submission GROUP BY status`, stats.ByStatus)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statsRepoPG) groupCount(ctx context.Context, sql string, into map[string]int) error {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		into[key] = count
	}
	return rows.Err()
}

func (r *statsRepoPG) SubmissionsPerDay(ctx context.Context, days int) ([]DailyCount, error) {
	var out []DailyCount
	err := db.Retry(ctx, func(ctx context.Context) error {
		out = nil
		rows, err := r.pool.Query(ctx, `
			SELECT date_trunc('day', created_at) AS day, COUNT(*)
			FROM symptom_submission
			WHERE created_at >= NOW() - make_interval(days => $1)
			GROUP BY day ORDER BY day`, days)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var dc DailyCount
			if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
				return err
			}
			out = append(out, dc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
