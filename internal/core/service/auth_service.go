package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const maxDeviceLen = 100

// AuthService implements the password login, the two-step admin login
// and opaque bearer token resolution backed by session rows.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	admins     ports.AdminAccessRepository
	details    ports.DetailRepository
	challenges ports.ChallengeStore
	verifier   ports.IdentityVerifier
	jwtSecret  string
	tokenTTL   time.Duration
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	admins ports.AdminAccessRepository,
	details ports.DetailRepository,
	challenges ports.ChallengeStore,
	verifier ports.IdentityVerifier,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		admins:     admins,
		details:    details,
		challenges: challenges,
		verifier:   verifier,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.logger.Warn().Str("email", user.Email).Msg("login rejected: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.openSession(ctx, user, in.Device, in.IP)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("ruolo", string(user.Role)).Msg("login")
	return result, nil
}

func (s *AuthService) VerifyAdminPIN(ctx context.Context, in ports.AdminPINInput) (*ports.AdminPINResult, error) {
	email := strings.ToLower(in.Email)

	user, err := s.users.FindByEmailAndRole(ctx, email, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserDisabled
	}

	access, err := s.admins.FindByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPINNotConfigured) {
			return nil, domain.ErrPINNotConfigured
		}
		return nil, err
	}
	if !access.PINActive {
		return nil, domain.ErrPINNotConfigured
	}
	if bcrypt.CompareHashAndPassword([]byte(access.PINHash), []byte(in.PIN)) != nil {
		s.logger.Warn().Str("email", email).Msg("admin pin rejected")
		return nil, domain.ErrInvalidPIN
	}

	// The server-side challenge is what authorizes the identity step;
	// the temp token only lets the client show progress.
	if err := s.challenges.Put(ctx, email); err != nil {
		return nil, fmt.Errorf("store pin challenge: %w", err)
	}

	tempToken, err := s.signToken(jwt.MapClaims{
		"sub":  user.ID,
		"step": "google_pending",
		"exp":  time.Now().Add(5 * time.Minute).Unix(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("admin pin verified")
	return &ports.AdminPINResult{
		Message:   "PIN verificato. Procedere con Google.",
		TempToken: tempToken,
		UserID:    user.ID,
	}, nil
}

func (s *AuthService) CompleteAdminLogin(ctx context.Context, in ports.AdminGoogleInput) (*ports.LoginResult, error) {
	email := strings.ToLower(in.Email)

	user, err := s.users.FindByEmailAndRole(ctx, email, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// One-shot: the marker set by the PIN step is consumed here, so the
	// identity step cannot run twice or without a prior PIN check.
	ok, err := s.challenges.Consume(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("consume pin challenge: %w", err)
	}
	if !ok {
		s.logger.Warn().Str("email", email).Msg("identity step without pin challenge")
		return nil, domain.ErrChallengeRequired
	}

	claims, err := s.verifier.Verify(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(claims.Email, user.Email) {
		s.logger.Warn().Str("user_id", user.ID).Str("provider_email", claims.Email).Msg("identity email mismatch")
		return nil, domain.ErrIdentityMismatch
	}

	now := time.Now().UTC()
	if err := s.admins.RecordIdentity(ctx, user.ID, claims.Subject, now); err != nil {
		return nil, err
	}

	result, err := s.openSession(ctx, user, in.Device, in.IP)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("admin login completed")
	return result, nil
}

// Authenticate resolves a bearer token. The token is valid only while
// its session row exists, is unexpired and the user is still active.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now().UTC()) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to drop expired session")
		}
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserDisabled
	}
	return user, nil
}

// Profile attaches the role-specific detail row to the user.
func (s *AuthService) Profile(ctx context.Context, user *domain.User) (*ports.UserProfile, error) {
	profile := &ports.UserProfile{User: user}

	switch user.Role {
	case domain.RoleStudent:
		detail, err := s.details.FindStudentDetail(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrDetailNotFound) {
			return nil, err
		}
		profile.StudentDetail = detail
	case domain.RoleTeacher:
		detail, err := s.details.FindTeacherDetail(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrDetailNotFound) {
			return nil, err
		}
		profile.TeacherDetail = detail
	}
	return profile, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// openSession mints the JWT, records the session row, stamps last
// access and returns the full login payload.
func (s *AuthService) openSession(ctx context.Context, user *domain.User, device, ip string) (*ports.LoginResult, error) {
	now := time.Now().UTC()

	token, err := s.signToken(jwt.MapClaims{
		"sub":   user.ID,
		"ruolo": string(user.Role),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	if device == "" {
		device = "unknown"
	}
	if len(device) > maxDeviceLen {
		device = device[:maxDeviceLen]
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		Device:    device,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	user.LastAccess = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to stamp last access")
	}

	profile, err := s.Profile(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Token: token, Profile: profile}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
