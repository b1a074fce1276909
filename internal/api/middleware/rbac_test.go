package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
)

func TestRBAC_AllowsListedRole(t *testing.T) {
	mw := RBAC(domain.RoleAdmin, domain.RoleTeacher)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := testContext(t, req)
	c.Set(ContextUserKey, &domain.User{ID: "t1", Role: domain.RoleTeacher})

	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_ForbidsOtherRoles(t *testing.T) {
	mw := RBAC(domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := testContext(t, req)
	c.Set(ContextUserKey, &domain.User{ID: "s1", Role: domain.RoleStudent})

	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_RequiresAuthFirst(t *testing.T) {
	mw := RBAC(domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := testContext(t, req)

	err := mw(okHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
