package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type LessonHandler struct {
	lessonService ports.LessonService
}

func NewLessonHandler(lessonService ports.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

type createLessonRequest struct {
	CourseID  string `json:"corso_id" validate:"required"`
	TeacherID string `json:"insegnante_id" validate:"required"`
	Date      string `json:"data" validate:"required"`
	Hour      string `json:"ora" validate:"required"`
	Duration  int    `json:"durata,omitempty"`
}

type updateLessonRequest struct {
	Date     *string `json:"data,omitempty"`
	Hour     *string `json:"ora,omitempty"`
	Duration *int    `json:"durata,omitempty"`
	Notes    *string `json:"note,omitempty"`
}

// lessonPayload embeds the course and teacher summaries.
type lessonPayload struct {
	*domain.Lesson
	Course  *courseSummary `json:"corso,omitempty"`
	Teacher *personSummary `json:"insegnante,omitempty"`
}

type courseSummary struct {
	Name       string `json:"nome"`
	Instrument string `json:"strumento"`
}

func lessonPayloads(infos []*ports.LessonInfo) []lessonPayload {
	out := make([]lessonPayload, 0, len(infos))
	for _, info := range infos {
		p := lessonPayload{Lesson: info.Lesson}
		if info.CourseName != "" || info.CourseInstrument != "" {
			p.Course = &courseSummary{Name: info.CourseName, Instrument: info.CourseInstrument}
		}
		if info.TeacherFirstName != "" || info.TeacherLastName != "" {
			p.Teacher = &personSummary{FirstName: info.TeacherFirstName, LastName: info.TeacherLastName}
		}
		out = append(out, p)
	}
	return out
}

// List returns scheduled lessons scoped to the caller.
//
// @Summary      List lessons
// @Tags         lezioni
// @Produce      json
// @Param        corso_id       query  string  false  "Course filter"
// @Param        insegnante_id  query  string  false  "Teacher filter"
// @Param        from_date      query  string  false  "Start date YYYY-MM-DD"
// @Param        to_date        query  string  false  "End date YYYY-MM-DD"
// @Success      200  {array}  lessonPayload
// @Router       /lezioni [get]
func (h *LessonHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	from, err := parseDateParam(c.QueryParam("from_date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from_date")
	}
	to, err := parseDateParam(c.QueryParam("to_date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to_date")
	}

	infos, err := h.lessonService.List(c.Request().Context(), viewer, ports.ListLessonsFilter{
		CourseID:  c.QueryParam("corso_id"),
		TeacherID: c.QueryParam("insegnante_id"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lessonPayloads(infos))
}

// Create schedules a lesson.
//
// @Summary      Create a lesson
// @Tags         lezioni
// @Accept       json
// @Produce      json
// @Param        body  body  createLessonRequest  true  "Lesson"
// @Success      201  {object}  domain.Lesson
// @Router       /lezioni [post]
func (h *LessonHandler) Create(c echo.Context) error {
	var req createLessonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lesson, err := h.lessonService.Create(c.Request().Context(), ports.CreateLessonInput{
		CourseID:  req.CourseID,
		TeacherID: req.TeacherID,
		Date:      req.Date,
		Hour:      req.Hour,
		Duration:  req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lesson)
}

// Update modifies a lesson.
//
// @Summary      Update a lesson
// @Tags         lezioni
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Lesson id"
// @Param        body  body  updateLessonRequest  true  "Fields to change"
// @Success      200  {object}  domain.Lesson
// @Router       /lezioni/{id} [put]
func (h *LessonHandler) Update(c echo.Context) error {
	var req updateLessonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	lesson, err := h.lessonService.Update(c.Request().Context(), c.Param("id"), ports.UpdateLessonInput{
		Date:     req.Date,
		Hour:     req.Hour,
		Duration: req.Duration,
		Notes:    req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

// Delete removes a lesson.
//
// @Summary      Delete a lesson
// @Tags         lezioni
// @Produce      json
// @Param        id  path  string  true  "Lesson id"
// @Success      200  {object}  messageResponse
// @Router       /lezioni/{id} [delete]
func (h *LessonHandler) Delete(c echo.Context) error {
	if err := h.lessonService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Lezione eliminata"})
}
