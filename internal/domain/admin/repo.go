package admin

import "context"

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	SubmissionsPerDay(ctx context.Context, days int) ([]DailyCount, error)
}
