package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/api/metrics"
	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type SlotHandler struct {
	slotService ports.SlotService
}

func NewSlotHandler(slotService ports.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

type createSlotRequest struct {
	TeacherID  string `json:"insegnante_id" validate:"required"`
	Instrument string `json:"strumento" validate:"required"`
	Date       string `json:"data" validate:"required"`
	Hour       string `json:"ora" validate:"required"`
	Duration   int    `json:"durata,omitempty"`
}

type updateSlotRequest struct {
	TeacherID  *string `json:"insegnante_id,omitempty"`
	Instrument *string `json:"strumento,omitempty"`
	Date       *string `json:"data,omitempty"`
	Hour       *string `json:"ora,omitempty"`
	Duration   *int    `json:"durata,omitempty"`
	Notes      *string `json:"note,omitempty"`
}

type bookSlotRequest struct {
	StudentID string `json:"allievo_id,omitempty"`
}

type slotReminderRequest struct {
	Recipients []string `json:"destinatari" validate:"required,min=1"`
}

type slotPayload struct {
	*domain.LessonSlot
	Teacher *personSummary `json:"insegnante,omitempty"`
	Student *personSummary `json:"allievo,omitempty"`
}

func slotPayloadFrom(view *ports.SlotView) slotPayload {
	p := slotPayload{LessonSlot: view.Slot}
	if view.TeacherFirstName != "" || view.TeacherLastName != "" {
		p.Teacher = &personSummary{FirstName: view.TeacherFirstName, LastName: view.TeacherLastName}
	}
	if view.StudentFirstName != "" || view.StudentLastName != "" {
		p.Student = &personSummary{FirstName: view.StudentFirstName, LastName: view.StudentLastName}
	}
	return p
}

// List returns calendar slots.
//
// @Summary      List lesson slots
// @Tags         slot-lezioni
// @Produce      json
// @Param        insegnante_id  query  string  false  "Teacher filter"
// @Param        strumento      query  string  false  "Instrument filter"
// @Param        stato          query  string  false  "Status filter"
// @Param        from_date      query  string  false  "Start date YYYY-MM-DD"
// @Param        to_date        query  string  false  "End date YYYY-MM-DD"
// @Success      200  {array}  slotPayload
// @Router       /slot-lezioni [get]
func (h *SlotHandler) List(c echo.Context) error {
	from, err := parseDateParam(c.QueryParam("from_date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid from_date")
	}
	to, err := parseDateParam(c.QueryParam("to_date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid to_date")
	}

	views, err := h.slotService.List(c.Request().Context(), ports.ListSlotsFilter{
		TeacherID:  c.QueryParam("insegnante_id"),
		Instrument: c.QueryParam("strumento"),
		Status:     domain.SlotStatus(c.QueryParam("stato")),
		From:       from,
		To:         to,
	})
	if err != nil {
		return err
	}

	out := make([]slotPayload, 0, len(views))
	for _, view := range views {
		out = append(out, slotPayloadFrom(view))
	}
	return c.JSON(http.StatusOK, out)
}

// Create opens a bookable slot on a teacher's calendar.
//
// @Summary      Create a lesson slot
// @Tags         slot-lezioni
// @Accept       json
// @Produce      json
// @Param        body  body  createSlotRequest  true  "Slot"
// @Success      201  {object}  slotPayload
// @Failure      409  {object}  map[string]string
// @Router       /slot-lezioni [post]
func (h *SlotHandler) Create(c echo.Context) error {
	var req createSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.slotService.Create(c.Request().Context(), ports.CreateSlotInput{
		TeacherID:  req.TeacherID,
		Instrument: req.Instrument,
		Date:       req.Date,
		Hour:       req.Hour,
		Duration:   req.Duration,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, slotPayloadFrom(view))
}

// Update modifies a slot.
//
// @Summary      Update a lesson slot
// @Tags         slot-lezioni
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Slot id"
// @Param        body  body  updateSlotRequest  true  "Fields to change"
// @Success      200  {object}  slotPayload
// @Router       /slot-lezioni/{id} [put]
func (h *SlotHandler) Update(c echo.Context) error {
	var req updateSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.slotService.Update(c.Request().Context(), c.Param("id"), ports.UpdateSlotInput{
		TeacherID:  req.TeacherID,
		Instrument: req.Instrument,
		Date:       req.Date,
		Hour:       req.Hour,
		Duration:   req.Duration,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slotPayloadFrom(view))
}

// Delete removes a slot, or cancels it when a student had booked.
//
// @Summary      Delete a lesson slot
// @Tags         slot-lezioni
// @Produce      json
// @Param        id  path  string  true  "Slot id"
// @Success      200  {object}  messageResponse
// @Router       /slot-lezioni/{id} [delete]
func (h *SlotHandler) Delete(c echo.Context) error {
	result, err := h.slotService.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	msg := "Slot eliminato"
	if result.Cancelled {
		msg = "Slot annullato"
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// Book assigns a free slot to a student.
//
// @Summary      Book a lesson slot
// @Tags         slot-lezioni
// @Accept       json
// @Produce      json
// @Param        id    path  string           true   "Slot id"
// @Param        body  body  bookSlotRequest  false  "Student (admin only)"
// @Success      200  {object}  slotPayload
// @Failure      400  {object}  map[string]string
// @Router       /slot-lezioni/{id}/prenota [post]
func (h *SlotHandler) Book(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	var req bookSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.slotService.Book(c.Request().Context(), viewer, c.Param("id"), req.StudentID)
	if err != nil {
		return err
	}

	metrics.SlotBookingsTotal.WithLabelValues("booked").Inc()
	return c.JSON(http.StatusOK, slotPayloadFrom(view))
}

// CancelBooking frees a booked slot.
//
// @Summary      Cancel a slot booking
// @Tags         slot-lezioni
// @Produce      json
// @Param        id  path  string  true  "Slot id"
// @Success      200  {object}  slotPayload
// @Router       /slot-lezioni/{id}/annulla [post]
func (h *SlotHandler) CancelBooking(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	view, err := h.slotService.CancelBooking(c.Request().Context(), viewer, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.SlotBookingsTotal.WithLabelValues("cancelled").Inc()
	return c.JSON(http.StatusOK, slotPayloadFrom(view))
}

// SendReminder posts the lesson summary to the addressed parties.
//
// @Summary      Send a slot reminder
// @Tags         slot-lezioni
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Slot id"
// @Param        body  body  slotReminderRequest  true  "Recipients"
// @Success      200  {object}  map[string]any
// @Router       /slot-lezioni/{id}/notifica [post]
func (h *SlotHandler) SendReminder(c echo.Context) error {
	var req slotReminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.slotService.SendReminder(c.Request().Context(), c.Param("id"), ports.LessonReminderInput{
		Recipients: req.Recipients,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":     result.Message,
		"destinatari": result.Recipients,
	})
}
