package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/api/metrics"
	"github.com/imusici/academy-system/internal/api/middleware"
	"github.com/imusici/academy-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookieTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminPINRequest struct {
	Email string `json:"email" validate:"required,email"`
	PIN   string `json:"pin" validate:"required"`
}

type adminGoogleRequest struct {
	Email     string `json:"email" validate:"required,email"`
	SessionID string `json:"session_id" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type adminPINResponse struct {
	Message   string `json:"message"`
	TempToken string `json:"temp_token"`
	UserID    string `json:"user_id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login authenticates by email and password and opens a session.
//
// @Summary      Login with credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Device:   c.Request().UserAgent(),
		IP:       c.RealIP(),
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("unknown", "failure").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues(string(result.Profile.User.Role), "success").Inc()
	metrics.SessionsCreatedTotal.WithLabelValues("credentials").Inc()

	h.setSessionCookie(c, result.Token)
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, User: profilePayload(result.Profile)})
}

// VerifyAdminPIN is step one of the administrator login.
//
// @Summary      Verify the administrator PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminPINRequest  true  "Email and PIN"
// @Success      200   {object}  adminPINResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/admin/pin [post]
func (h *AuthHandler) VerifyAdminPIN(c echo.Context) error {
	var req adminPINRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.VerifyAdminPIN(c.Request().Context(), ports.AdminPINInput{
		Email: req.Email,
		PIN:   req.PIN,
	})
	if err != nil {
		metrics.PINChallengesTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.PINChallengesTotal.WithLabelValues("issued").Inc()
	return c.JSON(http.StatusOK, adminPINResponse{
		Message:   result.Message,
		TempToken: result.TempToken,
		UserID:    result.UserID,
	})
}

// CompleteAdminLogin is step two: the Google session id exchange.
//
// @Summary      Complete the administrator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminGoogleRequest  true  "Email and provider session id"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/admin/google [post]
func (h *AuthHandler) CompleteAdminLogin(c echo.Context) error {
	var req adminGoogleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.CompleteAdminLogin(c.Request().Context(), ports.AdminGoogleInput{
		Email:     req.Email,
		SessionID: req.SessionID,
		Device:    c.Request().UserAgent(),
		IP:        c.RealIP(),
	})
	if err != nil {
		return err
	}

	metrics.PINChallengesTotal.WithLabelValues("consumed").Inc()
	metrics.SessionsCreatedTotal.WithLabelValues("admin_google").Inc()

	h.setSessionCookie(c, result.Token)
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, User: profilePayload(result.Profile)})
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userPayload
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profilePayload(profile))
}

// Logout revokes the presented session.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.ExtractToken(c); token != "" {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout effettuato"})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
