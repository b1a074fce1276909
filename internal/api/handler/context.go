package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/api/middleware"
	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// currentUser extracts the user injected by the Auth middleware. Its
// absence means the route was registered without the middleware, which
// is a wiring bug surfaced as 401 rather than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// userPayload is the wire shape for a user with its role detail
// embedded, matching what the frontend reads after login and on /me.
type userPayload struct {
	*domain.User
	Detail any `json:"dettaglio,omitempty"`
}

func profilePayload(p *ports.UserProfile) userPayload {
	out := userPayload{User: p.User}
	switch {
	case p.StudentDetail != nil:
		out.Detail = p.StudentDetail
	case p.TeacherDetail != nil:
		out.Detail = p.TeacherDetail
	}
	return out
}

func profilePayloads(profiles []*ports.UserProfile) []userPayload {
	out := make([]userPayload, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profilePayload(p))
	}
	return out
}
