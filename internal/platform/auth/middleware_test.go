package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func withRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

func signToken(t *testing.T, key []byte, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return &c, h(c)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	mw := JWTMiddleware(JWTConfig{SigningKey: []byte("secret")})
	_, err := doRequest(t, mw, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	key := []byte("secret")
	memberID := uuid.New().String()
	token := signToken(t, key, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RoleMember,
	})

	mw := JWTMiddleware(JWTConfig{SigningKey: key})
	c, err := doRequest(t, mw, "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := MemberIDFromContext((*c).Request().Context()); got != memberID {
		t.Errorf("expected member id %s, got %s", memberID, got)
	}
	if got := RoleFromContext((*c).Request().Context()); got != RoleMember {
		t.Errorf("expected role member, got %s", got)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	token := signToken(t, []byte("other"), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	mw := JWTMiddleware(JWTConfig{SigningKey: []byte("secret")})
	_, err := doRequest(t, mw, "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, required ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			ctx := c.Request().Context()
			c.SetRequest(c.Request().WithContext(withRole(ctx, role)))
		}
		h := RequireRole(required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		return h(c)
	}

	if err := run(RoleAdmin, RoleStaff); err != nil {
		t.Errorf("admin should pass any role guard: %v", err)
	}
	if err := run(RoleStaff, RoleStaff); err != nil {
		t.Errorf("matching role should pass: %v", err)
	}
	if err := run(RoleMember, RoleStaff); err == nil {
		t.Error("member should be refused a staff-only route")
	}
	if err := run("", RoleStaff); err == nil {
		t.Error("anonymous should be refused")
	}
}

func TestMemberID_Unauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if _, err := MemberID(c); err == nil {
		t.Fatal("expected error for unauthenticated request")
	}
}
