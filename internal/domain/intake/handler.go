package intake

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

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
	g := api.Group("/intake")
	g.POST("/triage", h.Triage)
	g.POST("/submissions", h.Submit)
	g.GET("/submissions", h.History)
	g.GET("/submissions/:id", h.Detail)
	g.GET("/submissions/:id/files", h.Files)
	g.GET("/submissions/:id/summary", h.Summary)

	staff := api.Group("/intake", auth.RequireRole("staff", "admin"))
	staff.PUT("/submissions/:id/status", h.UpdateStatus)
}

func httpError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "submission not found")
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return echo.NewHTTPError(http.StatusInternalServerError, "storage unavailable")
	}
	return err
}

type triageRequest struct {
	Symptoms string `json:"symptoms"`
	Severity *int   `json:"severity,omitempty"`
}

type triageResponse struct {
	Urgency    Urgency    `json:"urgency"`
	Assessment Assessment `json:"assessment"`
}

// Triage returns an assessment preview without persisting anything.
func (h *Handler) Triage(c echo.Context) error {
	var req triageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Severity != nil && (*req.Severity < 1 || *req.Severity > 10) {
		return echo.NewHTTPError(http.StatusBadRequest, "severity must be between 1 and 10")
	}
	assessment, err := h.svc.Preview(c.Request().Context(), req.Symptoms)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, triageResponse{
		Urgency:    UrgencyFor(req.Symptoms, req.Severity),
		Assessment: assessment,
	})
}

type submitResponse struct {
	Submission  *Submission `json:"submission"`
	SessionID   string      `json:"session_id"`
	FailedFiles []string    `json:"failed_files,omitempty"`
}

// Submit accepts the completed wizard as a multipart form. Form fields:
// symptoms (required), duration, severity, onset_date (RFC 3339 date) and any
// number of attachments under the "files" key. The full wizard state machine
// runs server side so the same step rules apply regardless of client.
func (h *Handler) Submit(c echo.Context) error {
	memberID, err := auth.MemberID(c)
	if err != nil {
		return err
	}

	w := NewWizard(h.svc.classifier)
	w.SetSymptoms(c.FormValue("symptoms"))
	if v := c.FormValue("severity"); v != "" {
		sev, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "severity must be a number")
		}
		if err := w.SetSeverity(sev); err != nil {
			return httpError(err)
		}
	}
	if v := c.FormValue("duration"); v != "" {
		if err := w.SetDuration(v); err != nil {
			return httpError(err)
		}
	}
	if v := c.FormValue("onset_date"); v != "" {
		onset, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "onset_date must be YYYY-MM-DD")
		}
		if err := w.SetOnsetDate(onset); err != nil {
			return httpError(err)
		}
	}

	form, err := c.MultipartForm()
	if err != nil && err != http.ErrNotMultipart {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	if form != nil {
		for _, fh := range form.File["files"] {
			src, err := fh.Open()
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment "+fh.Filename)
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment "+fh.Filename)
			}
			if err := w.AddFile(fh.Filename, fh.Header.Get("Content-Type"), data); err != nil {
				return httpError(err)
			}
		}
	}

	ctx := c.Request().Context()
	for i := 0; i < 3; i++ {
		if _, err := w.Next(ctx); err != nil {
			return httpError(err)
		}
	}

	if !w.BeginSubmit() {
		return echo.NewHTTPError(http.StatusConflict, "submission already in progress")
	}

	state := w.State()
	sub, err := h.svc.Submit(ctx, memberID, state)
	var partial *PartialUploadError
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, submitResponse{Submission: sub, SessionID: state.SessionID})
	case errors.As(err, &partial):
		return c.JSON(http.StatusCreated, submitResponse{
			Submission:  sub,
			SessionID:   state.SessionID,
			FailedFiles: partial.FailedFiles,
		})
	default:
		w.EndSubmit()
		return httpError(err)
	}
}

func (h *Handler) History(c echo.Context) error {
	memberID, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.History(c.Request().Context(), memberID, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Detail(c echo.Context) error {
	memberID, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	detail, err := h.svc.Detail(c.Request().Context(), memberID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) Files(c echo.Context) error {
	memberID, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	files, err := h.svc.Files(c.Request().Context(), memberID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, files)
}

// Summary renders the shareable plain-text summary for a submission.
func (h *Handler) Summary(c echo.Context) error {
	memberID, err := auth.MemberID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	detail, err := h.svc.Detail(c.Request().Context(), memberID, id)
	if err != nil {
		return httpError(err)
	}
	text := SummaryText(detail.Submission.ID.String(), time.Now(), detail.Submission, detail.Files)
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sub, err := h.svc.AdvanceStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sub)
}
