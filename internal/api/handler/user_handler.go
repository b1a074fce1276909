package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Role       string `json:"ruolo" validate:"required"`
	FirstName  string `json:"nome" validate:"required"`
	LastName   string `json:"cognome" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	BirthDate  string `json:"data_nascita,omitempty"`
	AdminNotes string `json:"note_admin,omitempty"`
	TeacherID  string `json:"insegnante_id,omitempty"`
	Instrument string `json:"strumento,omitempty"`
}

type updateUserRequest struct {
	FirstName  *string `json:"nome,omitempty"`
	LastName   *string `json:"cognome,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	BirthDate  *string `json:"data_nascita,omitempty"`
	Active     *bool   `json:"attivo,omitempty"`
	FirstLogin *bool   `json:"first_login,omitempty"`
	AdminNotes *string `json:"note_admin,omitempty"`
	TeacherID  *string `json:"insegnante_id,omitempty"`
	Instrument *string `json:"strumento,omitempty"`
}

type studentDetailRequest struct {
	Phone      string `json:"telefono,omitempty"`
	BirthDate  string `json:"data_nascita,omitempty"`
	MainCourse string `json:"corso_principale,omitempty"`
	Notes      string `json:"note,omitempty"`
}

type teacherDetailRequest struct {
	Specialization string  `json:"specializzazione,omitempty"`
	HourlyRate     float64 `json:"compenso_orario,omitempty"`
	Notes          string  `json:"note,omitempty"`
}

type setPINRequest struct {
	PIN string `json:"pin" validate:"required"`
}

type duplicateCheckResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message,omitempty"`
}

// List returns all users with detail rows embedded.
//
// @Summary      List users
// @Tags         utenti
// @Produce      json
// @Param        ruolo   query  string  false  "Filter by role"
// @Param        attivo  query  bool    false  "Filter by active flag"
// @Success      200  {array}  userPayload
// @Router       /utenti [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.ListUsersFilter{}
	if roleParam := c.QueryParam("ruolo"); roleParam != "" {
		role, err := domain.ParseRole(roleParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		filter.Role = role
	}
	if activeParam := c.QueryParam("attivo"); activeParam != "" {
		active := activeParam == "true"
		filter.Active = &active
	}

	profiles, err := h.userService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profilePayloads(profiles))
}

// Get returns one user; non-admins can only read themselves.
//
// @Summary      Get a user
// @Tags         utenti
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  userPayload
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /utenti/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.userService.Get(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profilePayload(profile))
}

// Create registers a new account.
//
// @Summary      Create a user
// @Tags         utenti
// @Accept       json
// @Produce      json
// @Param        body  body  createUserRequest  true  "User"
// @Success      201  {object}  domain.User
// @Failure      409  {object}  map[string]string
// @Router       /utenti [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
	}

	user, err := h.userService.Create(c.Request().Context(), ports.CreateUserInput{
		Role:       role,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		BirthDate:  req.BirthDate,
		AdminNotes: req.AdminNotes,
		TeacherID:  req.TeacherID,
		Instrument: req.Instrument,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial update.
//
// @Summary      Update a user
// @Tags         utenti
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "User id"
// @Param        body  body  updateUserRequest  true  "Fields to change"
// @Success      200  {object}  domain.User
// @Router       /utenti/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.userService.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		BirthDate:  req.BirthDate,
		Active:     req.Active,
		FirstLogin: req.FirstLogin,
		AdminNotes: req.AdminNotes,
		TeacherID:  req.TeacherID,
		Instrument: req.Instrument,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user and its dependent rows.
//
// @Summary      Delete a user
// @Tags         utenti
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  messageResponse
// @Router       /utenti/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Utente eliminato"})
}

// CheckDuplicates verifies whether a person seems already registered.
//
// @Summary      Check for duplicate registrations
// @Tags         utenti
// @Produce      json
// @Param        email         query  string  false  "Exact email"
// @Param        nome          query  string  false  "First name"
// @Param        cognome       query  string  false  "Last name"
// @Param        data_nascita  query  string  false  "Birth date YYYY-MM-DD"
// @Success      200  {object}  duplicateCheckResponse
// @Router       /utenti/check-duplicates [get]
func (h *UserHandler) CheckDuplicates(c echo.Context) error {
	result, err := h.userService.CheckDuplicates(c.Request().Context(), ports.DuplicateCheck{
		Email:     c.QueryParam("email"),
		FirstName: c.QueryParam("nome"),
		LastName:  c.QueryParam("cognome"),
		BirthDate: c.QueryParam("data_nascita"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, duplicateCheckResponse{Exists: result.Exists, Message: result.Message})
}

// SaveStudentDetail upserts the allievo detail row.
//
// @Summary      Save student detail
// @Tags         utenti
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "User id"
// @Param        body  body  studentDetailRequest  true  "Detail"
// @Success      200  {object}  domain.StudentDetail
// @Router       /utenti/{id}/dettaglio-allievo [post]
func (h *UserHandler) SaveStudentDetail(c echo.Context) error {
	var req studentDetailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	detail, err := h.userService.SaveStudentDetail(c.Request().Context(), c.Param("id"), ports.StudentDetailInput{
		Phone:      req.Phone,
		BirthDate:  req.BirthDate,
		MainCourse: req.MainCourse,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// SaveTeacherDetail upserts the insegnante detail row.
//
// @Summary      Save teacher detail
// @Tags         utenti
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "User id"
// @Param        body  body  teacherDetailRequest  true  "Detail"
// @Success      200  {object}  domain.TeacherDetail
// @Router       /utenti/{id}/dettaglio-insegnante [post]
func (h *UserHandler) SaveTeacherDetail(c echo.Context) error {
	var req teacherDetailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	detail, err := h.userService.SaveTeacherDetail(c.Request().Context(), c.Param("id"), ports.TeacherDetailInput{
		Specialization: req.Specialization,
		HourlyRate:     req.HourlyRate,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// SetAdminPIN replaces an administrator's PIN.
//
// @Summary      Set an administrator PIN
// @Tags         utenti
// @Accept       json
// @Produce      json
// @Param        user_id  path  string         true  "User id"
// @Param        body     body  setPINRequest  true  "New PIN"
// @Success      200  {object}  messageResponse
// @Router       /admin/pin/{user_id} [put]
func (h *UserHandler) SetAdminPIN(c echo.Context) error {
	var req setPINRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.SetAdminPIN(c.Request().Context(), c.Param("user_id"), req.PIN); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "PIN aggiornato"})
}

// SecretaryPermissions returns the capability set for a secretary.
//
// @Summary      Get secretary permissions
// @Tags         utenti
// @Produce      json
// @Param        user_id  path  string  true  "User id"
// @Success      200  {object}  domain.SecretaryPermissions
// @Router       /segretaria/permessi/{user_id} [get]
func (h *UserHandler) SecretaryPermissions(c echo.Context) error {
	perms, err := h.userService.SecretaryPermissions(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perms)
}

// SaveSecretaryPermissions replaces the capability set for a secretary.
//
// @Summary      Save secretary permissions
// @Tags         utenti
// @Accept       json
// @Produce      json
// @Param        user_id  path  string                       true  "User id"
// @Param        body     body  domain.SecretaryPermissions  true  "Permissions"
// @Success      200  {object}  domain.SecretaryPermissions
// @Router       /segretaria/permessi/{user_id} [put]
func (h *UserHandler) SaveSecretaryPermissions(c echo.Context) error {
	var req domain.SecretaryPermissions
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	perms, err := h.userService.SaveSecretaryPermissions(c.Request().Context(), c.Param("user_id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perms)
}

// TeacherStudents lists the active students visible to the caller.
//
// @Summary      List a teacher's students
// @Tags         utenti
// @Produce      json
// @Success      200  {array}  userPayload
// @Router       /insegnante/allievi [get]
func (h *UserHandler) TeacherStudents(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	profiles, err := h.userService.StudentsForTeacher(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profilePayloads(profiles))
}
