package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// stubAuthService resolves a single known token.
type stubAuthService struct {
	token string
	user  *domain.User
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token != s.token {
		return nil, domain.ErrSessionNotFound
	}
	return s.user, nil
}

func (s *stubAuthService) Login(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) VerifyAdminPIN(context.Context, ports.AdminPINInput) (*ports.AdminPINResult, error) {
	return nil, domain.ErrInvalidPIN
}

func (s *stubAuthService) CompleteAdminLogin(context.Context, ports.AdminGoogleInput) (*ports.LoginResult, error) {
	return nil, domain.ErrChallengeRequired
}

func (s *stubAuthService) Profile(_ context.Context, user *domain.User) (*ports.UserProfile, error) {
	return &ports.UserProfile{User: user}, nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

func testContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestExtractToken_CookieWinsOverHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	c, _ := testContext(t, req)

	if got := ExtractToken(c); got != "cookie-token" {
		t.Fatalf("expected cookie token, got %q", got)
	}
}

func TestExtractToken_BearerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer header-token")
	c, _ := testContext(t, req)

	if got := ExtractToken(c); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}
}

func TestExtractToken_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	c, _ := testContext(t, req)

	if got := ExtractToken(c); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestAuth_InjectsUser(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleTeacher, Active: true}
	mw := Auth(&stubAuthService{token: "good", user: user})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	c, _ := testContext(t, req)

	err := mw(func(c echo.Context) error {
		got, _ := c.Get(ContextUserKey).(*domain.User)
		if got == nil || got.ID != "u1" {
			t.Fatalf("user not injected: %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	mw := Auth(&stubAuthService{token: "good"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := testContext(t, req)

	err := mw(okHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_RejectedToken(t *testing.T) {
	mw := Auth(&stubAuthService{token: "good"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked")
	c, _ := testContext(t, req)

	err := mw(okHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
