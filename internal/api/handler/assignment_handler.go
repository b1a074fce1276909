package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/ports"
)

type AssignmentHandler struct {
	assignmentService ports.AssignmentService
}

func NewAssignmentHandler(assignmentService ports.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

type createAssignmentRequest struct {
	StudentID   string `json:"allievo_id" validate:"required"`
	Title       string `json:"titolo" validate:"required"`
	Description string `json:"descrizione,omitempty"`
	DueDate     string `json:"data_scadenza" validate:"required"`
}

type updateAssignmentRequest struct {
	Title       *string `json:"titolo,omitempty"`
	Description *string `json:"descrizione,omitempty"`
	DueDate     *string `json:"data_scadenza,omitempty"`
	Completed   *bool   `json:"completato,omitempty"`
}

// List returns homework scoped to the caller.
//
// @Summary      List assignments
// @Tags         compiti
// @Produce      json
// @Param        allievo_id  query  string  false  "Student filter"
// @Success      200  {array}  domain.Assignment
// @Router       /compiti [get]
func (h *AssignmentHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	assignments, err := h.assignmentService.List(c.Request().Context(), viewer, ports.ListAssignmentsFilter{
		StudentID: c.QueryParam("allievo_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignments)
}

// Create gives homework to a student. The caller is the teacher.
//
// @Summary      Create an assignment
// @Tags         compiti
// @Accept       json
// @Produce      json
// @Param        body  body  createAssignmentRequest  true  "Assignment"
// @Success      201  {object}  domain.Assignment
// @Router       /compiti [post]
func (h *AssignmentHandler) Create(c echo.Context) error {
	teacher, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assignment, err := h.assignmentService.Create(c.Request().Context(), teacher, ports.CreateAssignmentInput{
		StudentID:   req.StudentID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, assignment)
}

// Update modifies an assignment. Students may only flip completato on
// their own homework.
//
// @Summary      Update an assignment
// @Tags         compiti
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Assignment id"
// @Param        body  body  updateAssignmentRequest  true  "Fields to change"
// @Success      200  {object}  domain.Assignment
// @Router       /compiti/{id} [put]
func (h *AssignmentHandler) Update(c echo.Context) error {
	editor, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.assignmentService.Update(c.Request().Context(), editor, c.Param("id"), ports.UpdateAssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignment)
}

// Delete removes an assignment.
//
// @Summary      Delete an assignment
// @Tags         compiti
// @Produce      json
// @Param        id  path  string  true  "Assignment id"
// @Success      200  {object}  messageResponse
// @Router       /compiti/{id} [delete]
func (h *AssignmentHandler) Delete(c echo.Context) error {
	if err := h.assignmentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Compito eliminato"})
}
