package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/ports"
)

type CompensationHandler struct {
	compensationService ports.CompensationService
}

func NewCompensationHandler(compensationService ports.CompensationService) *CompensationHandler {
	return &CompensationHandler{compensationService: compensationService}
}

type createCompensationRequest struct {
	TeacherID     string  `json:"insegnante_id" validate:"required"`
	CourseID      string  `json:"corso_id,omitempty"`
	RatePerLesson float64 `json:"quota_per_presenza" validate:"required,gt=0"`
}

type updateCompensationRequest struct {
	RatePerLesson *float64 `json:"quota_per_presenza,omitempty"`
	CourseID      *string  `json:"corso_id,omitempty"`
}

// calculationResponse mirrors the original compensation report shape.
type calculationResponse struct {
	TeacherID string            `json:"insegnante_id"`
	Period    calculationPeriod `json:"periodo"`
	Detail    calculationDetail `json:"dettaglio"`
	Rate      float64           `json:"quota_per_presenza"`
	Payable   int               `json:"lezioni_pagate"`
	Total     float64           `json:"totale_compenso"`
}

type calculationPeriod struct {
	From string `json:"da"`
	To   string `json:"a"`
}

type calculationDetail struct {
	Present   int `json:"presenti"`
	Absent    int `json:"assenti"`
	Justified int `json:"giustificati"`
	Makeups   int `json:"recuperi"`
}

// List returns compensation rates scoped to the caller.
//
// @Summary      List compensation rates
// @Tags         compensi
// @Produce      json
// @Param        insegnante_id  query  string  false  "Teacher filter"
// @Success      200  {array}  domain.CompensationRate
// @Router       /compensi [get]
func (h *CompensationHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	rates, err := h.compensationService.List(c.Request().Context(), viewer, c.QueryParam("insegnante_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rates)
}

// Create registers a rate.
//
// @Summary      Create a compensation rate
// @Tags         compensi
// @Accept       json
// @Produce      json
// @Param        body  body  createCompensationRequest  true  "Rate"
// @Success      201  {object}  domain.CompensationRate
// @Router       /compensi [post]
func (h *CompensationHandler) Create(c echo.Context) error {
	var req createCompensationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rate, err := h.compensationService.Create(c.Request().Context(), ports.CreateCompensationInput{
		TeacherID:     req.TeacherID,
		CourseID:      req.CourseID,
		RatePerLesson: req.RatePerLesson,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rate)
}

// Update modifies a rate.
//
// @Summary      Update a compensation rate
// @Tags         compensi
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Rate id"
// @Param        body  body  updateCompensationRequest  true  "Fields to change"
// @Success      200  {object}  domain.CompensationRate
// @Router       /compensi/{id} [put]
func (h *CompensationHandler) Update(c echo.Context) error {
	var req updateCompensationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	rate, err := h.compensationService.Update(c.Request().Context(), c.Param("id"), ports.UpdateCompensationInput{
		RatePerLesson: req.RatePerLesson,
		CourseID:      req.CourseID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}

// Delete removes a rate.
//
// @Summary      Delete a compensation rate
// @Tags         compensi
// @Produce      json
// @Param        id  path  string  true  "Rate id"
// @Success      200  {object}  messageResponse
// @Router       /compensi/{id} [delete]
func (h *CompensationHandler) Delete(c echo.Context) error {
	if err := h.compensationService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Compenso eliminato"})
}

// Calculate builds the period compensation report for a teacher.
//
// @Summary      Calculate a teacher's compensation
// @Tags         compensi
// @Produce      json
// @Param        insegnante_id  path   string  true   "Teacher id"
// @Param        from_date      query  string  false  "Start date YYYY-MM-DD"
// @Param        to_date        query  string  false  "End date YYYY-MM-DD"
// @Success      200  {object}  calculationResponse
// @Failure      403  {object}  map[string]string
// @Router       /compensi/calcolo/{insegnante_id} [get]
func (h *CompensationHandler) Calculate(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	breakdown, err := h.compensationService.Calculate(
		c.Request().Context(),
		viewer,
		c.Param("insegnante_id"),
		c.QueryParam("from_date"),
		c.QueryParam("to_date"),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, calculationResponse{
		TeacherID: breakdown.TeacherID,
		Period:    calculationPeriod{From: breakdown.From, To: breakdown.To},
		Detail: calculationDetail{
			Present:   breakdown.Present,
			Absent:    breakdown.Absent,
			Justified: breakdown.Justified,
			Makeups:   breakdown.Makeups,
		},
		Rate:    breakdown.RatePerLesson,
		Payable: breakdown.PayableLessons,
		Total:   breakdown.Total,
	})
}
