package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/api/middleware"
	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// stubAuthService accepts one credential pair and one live token.
type stubAuthService struct {
	email    string
	password string
	token    string
	user     *domain.User

	loggedOutToken string
}

func (s *stubAuthService) Login(_ context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Email != s.email || in.Password != s.password {
		return nil, domain.ErrInvalidCredentials
	}
	return &ports.LoginResult{Token: s.token, Profile: &ports.UserProfile{User: s.user}}, nil
}

func (s *stubAuthService) VerifyAdminPIN(_ context.Context, in ports.AdminPINInput) (*ports.AdminPINResult, error) {
	if in.PIN != "1234" {
		return nil, domain.ErrInvalidPIN
	}
	return &ports.AdminPINResult{
		Message:   "PIN verificato. Procedere con Google.",
		TempToken: "temp-token",
		UserID:    s.user.ID,
	}, nil
}

func (s *stubAuthService) CompleteAdminLogin(_ context.Context, in ports.AdminGoogleInput) (*ports.LoginResult, error) {
	if in.SessionID != "sess-ok" {
		return nil, domain.ErrIdentityRejected
	}
	return &ports.LoginResult{Token: s.token, Profile: &ports.UserProfile{User: s.user}}, nil
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if token != s.token {
		return nil, domain.ErrSessionNotFound
	}
	return s.user, nil
}

func (s *stubAuthService) Profile(_ context.Context, user *domain.User) (*ports.UserProfile, error) {
	return &ports.UserProfile{User: user}, nil
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOutToken = token
	return nil
}

func newAuthStub() *stubAuthService {
	return &stubAuthService{
		email:    "giulia@example.it",
		password: "student123",
		token:    "session-token-1",
		user: &domain.User{
			ID:        "u1",
			Role:      domain.RoleStudent,
			FirstName: "Giulia",
			LastName:  "Ferrari",
			Email:     "giulia@example.it",
			Active:    true,
		},
	}
}

func jsonRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandlerLogin_Success(t *testing.T) {
	stub := newAuthStub()
	h := NewAuthHandler(stub, time.Hour)

	c, rec := jsonRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"giulia@example.it","password":"student123"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Role string `json:"ruolo"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "session-token-1" || resp.User.Role != "allievo" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	cookie := rec.Header().Get(echo.HeaderSetCookie)
	if !strings.Contains(cookie, middleware.SessionCookie+"=session-token-1") {
		t.Fatalf("session cookie not set: %q", cookie)
	}
	if !strings.Contains(cookie, "HttpOnly") || !strings.Contains(cookie, "SameSite=None") {
		t.Fatalf("cookie attributes missing: %q", cookie)
	}
}

func TestAuthHandlerLogin_BadCredentials(t *testing.T) {
	h := NewAuthHandler(newAuthStub(), time.Hour)

	c, _ := jsonRequest(t, http.MethodPost, "/api/auth/login",
		`{"email":"giulia@example.it","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandlerLogin_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(newAuthStub(), time.Hour)

	c, _ := jsonRequest(t, http.MethodPost, "/api/auth/login", `{"email":"not-an-email"}`)

	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandlerVerifyAdminPIN(t *testing.T) {
	h := NewAuthHandler(newAuthStub(), time.Hour)

	c, rec := jsonRequest(t, http.MethodPost, "/api/auth/admin/pin",
		`{"email":"admin@example.it","pin":"1234"}`)

	if err := h.VerifyAdminPIN(c); err != nil {
		t.Fatalf("VerifyAdminPIN returned error: %v", err)
	}

	var resp struct {
		Message   string `json:"message"`
		TempToken string `json:"temp_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TempToken != "temp-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandlerVerifyAdminPIN_Rejected(t *testing.T) {
	h := NewAuthHandler(newAuthStub(), time.Hour)

	c, _ := jsonRequest(t, http.MethodPost, "/api/auth/admin/pin",
		`{"email":"admin@example.it","pin":"0000"}`)

	if err := h.VerifyAdminPIN(c); !errors.Is(err, domain.ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
}

func TestAuthHandlerCompleteAdminLogin(t *testing.T) {
	h := NewAuthHandler(newAuthStub(), time.Hour)

	c, rec := jsonRequest(t, http.MethodPost, "/api/auth/admin/google",
		`{"email":"admin@example.it","session_id":"sess-ok"}`)

	if err := h.CompleteAdminLogin(c); err != nil {
		t.Fatalf("CompleteAdminLogin returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderSetCookie), middleware.SessionCookie+"=") {
		t.Fatalf("session cookie not set")
	}
}

func TestAuthHandlerMe(t *testing.T) {
	stub := newAuthStub()
	h := NewAuthHandler(stub, time.Hour)

	c, rec := jsonRequest(t, http.MethodGet, "/api/auth/me", "")
	c.Set(middleware.ContextUserKey, stub.user)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}

	var resp struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "giulia@example.it" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	stub := newAuthStub()
	h := NewAuthHandler(stub, time.Hour)

	c, rec := jsonRequest(t, http.MethodPost, "/api/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer session-token-1")

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if stub.loggedOutToken != "session-token-1" {
		t.Fatalf("logout did not reach the service: %q", stub.loggedOutToken)
	}

	cookie := rec.Header().Get(echo.HeaderSetCookie)
	if !strings.Contains(cookie, "Max-Age=0") && !strings.Contains(cookie, "Max-Age=-1") {
		t.Fatalf("session cookie not cleared: %q", cookie)
	}
}
