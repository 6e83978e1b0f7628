package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/concierge/concierge/internal/platform/auth"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Error("expected generated request id")
	}
	if rec.Header().Get("X-Request-ID") != rid {
		t.Error("expected request id echoed in response header")
	}
}

func TestRequestID_ReusesHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rid, _ := c.Get("request_id").(string); rid != "req-123" {
		t.Errorf("expected req-123, got %s", rid)
	}
}

func TestLogger_IncludesMemberAndStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/intake/submissions", nil)
	ctx := context.WithValue(req.Context(), auth.MemberIDKey, "member-42")
	ctx = context.WithValue(ctx, auth.RoleKey, "member")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-9")

	var buf bytes.Buffer
	h := Logger(zerolog.New(&buf))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v\n%s", err, buf.String())
	}
	if entry["level"] != "info" || entry["status"] != float64(http.StatusOK) {
		t.Errorf("expected info/200, got level=%v status=%v", entry["level"], entry["status"])
	}
	if entry["member_id"] != "member-42" || entry["role"] != "member" {
		t.Errorf("missing member identity: %v", entry)
	}
	if entry["request_id"] != "req-9" || entry["path"] != "/intake/submissions" {
		t.Errorf("missing request fields: %v", entry)
	}
}

func TestLogger_ErrorLevelFollowsHTTPError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var buf bytes.Buffer
	wantErr := echo.NewHTTPError(http.StatusInternalServerError, "boom")
	h := Logger(zerolog.New(&buf))(func(c echo.Context) error {
		return wantErr
	})
	if err := h(c); err != wantErr {
		t.Fatalf("logger must pass the handler error through, got %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v\n%s", err, buf.String())
	}
	if entry["level"] != "error" || entry["status"] != float64(http.StatusInternalServerError) {
		t.Errorf("expected error/500, got level=%v status=%v", entry["level"], entry["status"])
	}
}

func TestRecovery_ConvertsPanicToError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})

	err := h(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 HTTPError, got %v", err)
	}
}

func TestRateLimit_Exhaustion(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		lastErr = h(e.NewContext(req, rec))
	}

	httpErr, ok := lastErr.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst exhausted, got %v", lastErr)
	}
}
