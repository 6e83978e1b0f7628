package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type mockStatsRepo struct {
	dashboard *DashboardStats
	daily     []DailyCount
	err       error
}

func (m *mockStatsRepo) Dashboard(ctx context.Context) (*DashboardStats, error) {
	return m.dashboard, m.err
}

func (m *mockStatsRepo) SubmissionsPerDay(ctx context.Context, days int) ([]DailyCount, error) {
	return m.daily, m.err
}

func TestDashboard(t *testing.T) {
	h := NewHandler(&mockStatsRepo{dashboard: &DashboardStats{
		TotalMembers:     12,
		TotalSubmissions: 40,
		OpenSubmissions:  7,
		ByUrgency:        map[string]int{"high": 3, "medium": 17, "low": 20},
		ByStatus:         map[string]int{"submitted": 7, "reviewed": 33},
	}})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	rec := httptest.NewRecorder()

	if err := h.Dashboard(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stats DashboardStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalSubmissions != 40 || stats.ByUrgency["high"] != 3 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestDashboard_StorageFailure(t *testing.T) {
	h := NewHandler(&mockStatsRepo{err: errors.New("down")})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	rec := httptest.NewRecorder()

	err := h.Dashboard(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}

func TestDaily_ValidatesRange(t *testing.T) {
	h := NewHandler(&mockStatsRepo{daily: []DailyCount{{Day: time.Now(), Count: 2}}})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/daily?days=0", nil)
	err := h.Daily(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/daily?days=7", nil)
	rec := httptest.NewRecorder()
	if err := h.Daily(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
