package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/ports"
)

// SessionCookie is the cookie carrying the bearer token. The
// Authorization header is the fallback for non-browser clients.
const SessionCookie = "session_token"

// ContextUserKey is where Auth stores the resolved *domain.User.
const ContextUserKey = "user"

// ExtractToken returns the bearer token from the session cookie or,
// failing that, the Authorization header. Cookie wins when both exist.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Auth resolves the bearer token to its user through the session store
// and injects the user into context. Requests without a live session
// are rejected with 401.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}
