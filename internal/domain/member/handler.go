package member

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/concierge/concierge/internal/platform/auth"
	"github.com/concierge/concierge/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/members/me", h.Me)
	api.PUT("/members/me", h.UpdateMe)
	api.POST("/members/me/onboarding", h.CompleteOnboarding)

	staff := api.Group("/members", auth.RequireRole("staff", "admin"))
	staff.POST("", h.Create)
	staff.GET("", h.List)
	staff.GET("/:id", h.Get)
	staff.PUT("/:id/tier", h.ChangeTier)
}

func (h *Handler) Me(c echo.Context) error {
	id, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

type updateProfileRequest struct {
	FullName          string  `json:"full_name"`
	Phone             *string `json:"phone,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
}

func (h *Handler) UpdateMe(c echo.Context) error {
	id, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.UpdateProfile(c.Request().Context(), id, req.FullName, req.Phone, req.PreferredLanguage)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) CompleteOnboarding(c echo.Context) error {
	id, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	m, err := h.svc.CompleteOnboarding(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Create(c echo.Context) error {
	var m Member
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.Register(c.Request().Context(), &m)
	if errors.Is(err, ErrEmailTaken) {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type changeTierRequest struct {
	PlanTier string `json:"plan_tier"`
}

func (h *Handler) ChangeTier(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req changeTierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.ChangeTier(c.Request().Context(), id, req.PlanTier)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}
