package admin

import "time"

// DashboardStats is the back-office overview of intake activity. All numbers
// come from real aggregates over current data.
type DashboardStats struct {
	TotalMembers      int            `json:"total_members"`
	TotalSubmissions  int            `json:"total_submissions"`
	OpenSubmissions   int            `json:"open_submissions"`
	ByUrgency         map[string]int `json:"by_urgency"`
	ByStatus          map[string]int `json:"by_status"`
	IncompleteUploads int            `json:"incomplete_uploads"`
}

// DailyCount is one day of submission volume.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}
