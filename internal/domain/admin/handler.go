package admin

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/concierge/concierge/internal/platform/auth"
)

type Handler struct {
	stats StatsRepository
}

func NewHandler(stats StatsRepository) *Handler {
	return &Handler{stats: stats}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/admin", auth.RequireRole("staff", "admin"))
	g.GET("/dashboard", h.Dashboard)
	g.GET("/dashboard/daily", h.Daily)
}

func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.stats.Dashboard(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "stats unavailable")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Daily(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 365 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 365")
		}
		days = parsed
	}
	counts, err := h.stats.SubmissionsPerDay(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "stats unavailable")
	}
	return c.JSON(http.StatusOK, counts)
}
