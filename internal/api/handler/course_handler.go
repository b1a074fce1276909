package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type CourseHandler struct {
	courseService ports.CourseService
}

func NewCourseHandler(courseService ports.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type createCourseRequest struct {
	Name        string `json:"nome" validate:"required"`
	Instrument  string `json:"strumento" validate:"required"`
	TeacherID   string `json:"insegnante_id" validate:"required"`
	Description string `json:"descrizione,omitempty"`
}

type updateCourseRequest struct {
	Name        *string `json:"nome,omitempty"`
	Instrument  *string `json:"strumento,omitempty"`
	TeacherID   *string `json:"insegnante_id,omitempty"`
	Description *string `json:"descrizione,omitempty"`
	Active      *bool   `json:"attivo,omitempty"`
}

// coursePayload embeds the teacher summary the frontend shows.
type coursePayload struct {
	*domain.Course
	Teacher *personSummary `json:"insegnante,omitempty"`
}

type personSummary struct {
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
}

func coursePayloads(infos []*ports.CourseInfo) []coursePayload {
	out := make([]coursePayload, 0, len(infos))
	for _, info := range infos {
		p := coursePayload{Course: info.Course}
		if info.TeacherFirstName != "" || info.TeacherLastName != "" {
			p.Teacher = &personSummary{FirstName: info.TeacherFirstName, LastName: info.TeacherLastName}
		}
		out = append(out, p)
	}
	return out
}

// List returns the course catalogue scoped to the caller.
//
// @Summary      List courses
// @Tags         corsi
// @Produce      json
// @Param        insegnante_id  query  string  false  "Teacher filter"
// @Param        attivo         query  bool    false  "Active filter"
// @Success      200  {array}  coursePayload
// @Router       /corsi [get]
func (h *CourseHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	filter := ports.ListCoursesFilter{TeacherID: c.QueryParam("insegnante_id")}
	if activeParam := c.QueryParam("attivo"); activeParam != "" {
		active := activeParam == "true"
		filter.Active = &active
	}

	infos, err := h.courseService.List(c.Request().Context(), viewer, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coursePayloads(infos))
}

// Create registers a course.
//
// @Summary      Create a course
// @Tags         corsi
// @Accept       json
// @Produce      json
// @Param        body  body  createCourseRequest  true  "Course"
// @Success      201  {object}  domain.Course
// @Router       /corsi [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req createCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.Create(c.Request().Context(), ports.CreateCourseInput{
		Name:        req.Name,
		Instrument:  req.Instrument,
		TeacherID:   req.TeacherID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// Update modifies a course.
//
// @Summary      Update a course
// @Tags         corsi
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Course id"
// @Param        body  body  updateCourseRequest  true  "Fields to change"
// @Success      200  {object}  domain.Course
// @Router       /corsi/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	var req updateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	course, err := h.courseService.Update(c.Request().Context(), c.Param("id"), ports.UpdateCourseInput{
		Name:        req.Name,
		Instrument:  req.Instrument,
		TeacherID:   req.TeacherID,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Delete removes a course.
//
// @Summary      Delete a course
// @Tags         corsi
// @Produce      json
// @Param        id  path  string  true  "Course id"
// @Success      200  {object}  messageResponse
// @Router       /corsi/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.courseService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Corso eliminato"})
}
