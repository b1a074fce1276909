package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// LoginInput carries credentials plus the client metadata recorded on
// the session row.
type LoginInput struct {
	Email    string
	Password string
	Device   string
	IP       string
}

// AdminPINInput is step one of the two-step admin login.
type AdminPINInput struct {
	Email string
	PIN   string
}

// AdminGoogleInput is step two: the provider session id obtained after
// the external redirect.
type AdminGoogleInput struct {
	Email     string
	SessionID string
	Device    string
	IP        string
}

// LoginResult carries the bearer token and the authenticated profile.
type LoginResult struct {
	Token   string
	Profile *UserProfile
}

// AdminPINResult is returned by the PIN step. TempToken is advisory
// for the client; the server-side challenge is what authorizes the
// identity step.
type AdminPINResult struct {
	Message   string
	TempToken string
	UserID    string
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	VerifyAdminPIN(ctx context.Context, in AdminPINInput) (*AdminPINResult, error)
	CompleteAdminLogin(ctx context.Context, in AdminGoogleInput) (*LoginResult, error)
	// Authenticate resolves a bearer token to its active user. Expired
	// sessions are deleted as a side effect.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Profile(ctx context.Context, user *domain.User) (*UserProfile, error)
	Logout(ctx context.Context, token string) error
}
