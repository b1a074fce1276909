package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type AttendanceHandler struct {
	attendanceService ports.AttendanceService
}

func NewAttendanceHandler(attendanceService ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

type createAttendanceRequest struct {
	CourseID   string `json:"corso_id,omitempty"`
	LessonID   string `json:"lezione_id,omitempty"`
	StudentID  string `json:"allievo_id" validate:"required"`
	Date       string `json:"data" validate:"required"`
	Status     string `json:"stato" validate:"required"`
	MakeupDate string `json:"recupero_data,omitempty"`
	Notes      string `json:"note,omitempty"`
}

type updateAttendanceRequest struct {
	Status     *string `json:"stato,omitempty"`
	Notes      *string `json:"note,omitempty"`
	MakeupDate *string `json:"recupero_data,omitempty"`
}

// parseDateParam parses an optional YYYY-MM-DD query parameter.
func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

// List returns register entries scoped to the caller.
//
// @Summary      List attendance records
// @Tags         presenze
// @Produce      json
// @Param        allievo_id  query  string  false  "Student filter"
// @Param        from_date   query  string  false  "Start date YYYY-MM-DD"
// @Param        to_date     query  string  false  "End date YYYY-MM-DD"
// @Success      200  {array}  domain.Attendance
// @Router       /presenze [get]
func (h *AttendanceHandler) List(c echo.Context) error {
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

	records, err := h.attendanceService.List(c.Request().Context(), viewer, ports.ListAttendanceFilter{
		StudentID: c.QueryParam("allievo_id"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// Create records a register entry. The caller is stamped as teacher.
//
// @Summary      Record attendance
// @Tags         presenze
// @Accept       json
// @Produce      json
// @Param        body  body  createAttendanceRequest  true  "Entry"
// @Success      201  {object}  domain.Attendance
// @Router       /presenze [post]
func (h *AttendanceHandler) Create(c echo.Context) error {
	recorder, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.attendanceService.Create(c.Request().Context(), recorder, ports.CreateAttendanceInput{
		CourseID:   req.CourseID,
		LessonID:   req.LessonID,
		StudentID:  req.StudentID,
		Date:       req.Date,
		Status:     domain.AttendanceStatus(req.Status),
		MakeupDate: req.MakeupDate,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

// Update modifies a saved entry. Administrators only.
//
// @Summary      Update an attendance record
// @Tags         presenze
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Record id"
// @Param        body  body  updateAttendanceRequest  true  "Fields to change"
// @Success      200  {object}  domain.Attendance
// @Failure      403  {object}  map[string]string
// @Router       /presenze/{id} [put]
func (h *AttendanceHandler) Update(c echo.Context) error {
	editor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdateAttendanceInput{
		Notes:      req.Notes,
		MakeupDate: req.MakeupDate,
	}
	if req.Status != nil {
		status := domain.AttendanceStatus(*req.Status)
		in.Status = &status
	}

	record, err := h.attendanceService.Update(c.Request().Context(), editor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// Delete removes a register entry.
//
// @Summary      Delete an attendance record
// @Tags         presenze
// @Produce      json
// @Param        id  path  string  true  "Record id"
// @Success      200  {object}  messageResponse
// @Router       /presenze/{id} [delete]
func (h *AttendanceHandler) Delete(c echo.Context) error {
	if err := h.attendanceService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Presenza eliminata"})
}
