package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/api/metrics"
	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type PaymentHandler struct {
	paymentService ports.PaymentService
}

func NewPaymentHandler(paymentService ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type createPaymentRequest struct {
	UserID        string  `json:"utente_id" validate:"required"`
	Type          string  `json:"tipo" validate:"required"`
	Amount        float64 `json:"importo" validate:"required,gt=0"`
	Description   string  `json:"descrizione" validate:"required"`
	DueDate       string  `json:"data_scadenza" validate:"required"`
	ToleranceDays int     `json:"tolleranza_giorni,omitempty"`
}

type updatePaymentRequest struct {
	Amount        *float64 `json:"importo,omitempty"`
	Description   *string  `json:"descrizione,omitempty"`
	DueDate       *string  `json:"data_scadenza,omitempty"`
	Status        *string  `json:"stato,omitempty"`
	VisibleToUser *bool    `json:"visibile_utente,omitempty"`
}

type paymentStatusRequest struct {
	Status string `json:"stato" validate:"required"`
}

type cashPaymentRequest struct {
	StudentID string  `json:"allievo_id" validate:"required"`
	Amount    float64 `json:"importo" validate:"required,gt=0"`
	Reason    string  `json:"causale" validate:"required"`
	Notes     string  `json:"note,omitempty"`
}

type cashReceiptPayload struct {
	Number   string  `json:"numero"`
	Date     string  `json:"data"`
	Student  string  `json:"allievo"`
	Amount   float64 `json:"importo"`
	Reason   string  `json:"causale"`
	Operator string  `json:"operatore"`
}

type cashPaymentResponse struct {
	Payment *domain.Payment    `json:"pagamento"`
	Receipt cashReceiptPayload `json:"ricevuta"`
}

type generateMonthlyRequest struct {
	Amount      float64 `json:"importo,omitempty"`
	Month       string  `json:"mese,omitempty"`
	Description string  `json:"descrizione,omitempty"`
}

type reminderRequest struct {
	Type string `json:"tipo" validate:"required,oneof=in_attesa scaduto"`
}

type countResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// expiringPaymentPayload pairs an annual payment with its holder.
type expiringPaymentPayload struct {
	*domain.Payment
	User personContact `json:"utente"`
}

type personContact struct {
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
	Email     string `json:"email"`
}

// List returns payments scoped to the caller.
//
// @Summary      List payments
// @Tags         pagamenti
// @Produce      json
// @Param        utente_id  query  string  false  "User filter (admin)"
// @Param        tipo       query  string  false  "Type filter"
// @Param        stato      query  string  false  "Status filter"
// @Success      200  {array}  domain.Payment
// @Router       /pagamenti [get]
func (h *PaymentHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	payments, err := h.paymentService.List(c.Request().Context(), viewer, ports.ListPaymentsFilter{
		UserID: c.QueryParam("utente_id"),
		Type:   domain.PaymentType(c.QueryParam("tipo")),
		Status: domain.PaymentStatus(c.QueryParam("stato")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// Create registers a payment.
//
// @Summary      Create a payment
// @Tags         pagamenti
// @Accept       json
// @Produce      json
// @Param        body  body  createPaymentRequest  true  "Payment"
// @Success      201  {object}  domain.Payment
// @Router       /pagamenti [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.paymentService.Create(c.Request().Context(), ports.CreatePaymentInput{
		UserID:        req.UserID,
		Type:          domain.PaymentType(req.Type),
		Amount:        req.Amount,
		Description:   req.Description,
		DueDate:       req.DueDate,
		ToleranceDays: req.ToleranceDays,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}

// Update applies a partial update.
//
// @Summary      Update a payment
// @Tags         pagamenti
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Payment id"
// @Param        body  body  updatePaymentRequest  true  "Fields to change"
// @Success      200  {object}  domain.Payment
// @Router       /pagamenti/{id} [put]
func (h *PaymentHandler) Update(c echo.Context) error {
	var req updatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	in := ports.UpdatePaymentInput{
		Amount:        req.Amount,
		Description:   req.Description,
		DueDate:       req.DueDate,
		VisibleToUser: req.VisibleToUser,
	}
	if req.Status != nil {
		status := domain.PaymentStatus(*req.Status)
		in.Status = &status
	}

	payment, err := h.paymentService.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// UpdateStatus moves a payment through its lifecycle.
//
// @Summary      Update a payment status
// @Tags         pagamenti
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Payment id"
// @Param        body  body  paymentStatusRequest  true  "New status"
// @Success      200  {object}  domain.Payment
// @Router       /pagamenti/{id}/stato [put]
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	var req paymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.paymentService.UpdateStatus(c.Request().Context(), c.Param("id"), domain.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// Delete removes a payment.
//
// @Summary      Delete a payment
// @Tags         pagamenti
// @Produce      json
// @Param        id  path  string  true  "Payment id"
// @Success      200  {object}  messageResponse
// @Router       /pagamenti/{id} [delete]
func (h *PaymentHandler) Delete(c echo.Context) error {
	if err := h.paymentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Pagamento eliminato"})
}

// RegisterCash records a front desk cash payment and returns a receipt.
//
// @Summary      Register a cash payment
// @Tags         pagamenti
// @Accept       json
// @Produce      json
// @Param        body  body  cashPaymentRequest  true  "Cash payment"
// @Success      201  {object}  cashPaymentResponse
// @Router       /pagamenti/contanti [post]
func (h *PaymentHandler) RegisterCash(c echo.Context) error {
	operator, err := currentUser(c)
	if err != nil {
		return err
	}

	var req cashPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.RegisterCash(c.Request().Context(), operator, ports.CashPaymentInput{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, cashPaymentResponse{
		Payment: result.Payment,
		Receipt: cashReceiptPayload{
			Number:   result.Receipt.Number,
			Date:     result.Receipt.Date.Format("2006-01-02 15:04"),
			Student:  result.Receipt.Student,
			Amount:   result.Receipt.Amount,
			Reason:   result.Receipt.Reason,
			Operator: result.Receipt.Operator,
		},
	})
}

// MarkOverdue sweeps pending payments past due date plus tolerance.
//
// @Summary      Mark overdue payments
// @Tags         automazioni
// @Produce      json
// @Success      200  {object}  countResponse
// @Router       /automazioni/aggiorna-pagamenti-scaduti [post]
func (h *PaymentHandler) MarkOverdue(c echo.Context) error {
	count, err := h.paymentService.MarkOverdue(c.Request().Context())
	if err != nil {
		return err
	}

	metrics.PaymentsMarkedOverdueTotal.Add(float64(count))
	return c.JSON(http.StatusOK, countResponse{Message: "Pagamenti scaduti aggiornati", Count: count})
}

// GenerateMonthly creates the month's fee for every active student.
//
// @Summary      Generate monthly payments
// @Tags         automazioni
// @Accept       json
// @Produce      json
// @Param        body  body  generateMonthlyRequest  false  "Overrides"
// @Success      200  {object}  countResponse
// @Router       /automazioni/crea-pagamenti-mensili [post]
func (h *PaymentHandler) GenerateMonthly(c echo.Context) error {
	var req generateMonthlyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.paymentService.GenerateMonthly(c.Request().Context(), ports.GenerateMonthlyInput{
		Month:       req.Month,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{
		Message: "Pagamenti mensili creati per " + result.Month,
		Count:   result.Created,
	})
}

// CreateReminders notifies every holder of payments in a state.
//
// @Summary      Send payment reminders
// @Tags         automazioni
// @Accept       json
// @Produce      json
// @Param        body  body  reminderRequest  true  "Payment state"
// @Success      200  {object}  countResponse
// @Router       /automazioni/avvisi-pagamento [post]
func (h *PaymentHandler) CreateReminders(c echo.Context) error {
	var req reminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.CreateReminders(c.Request().Context(), domain.PaymentStatus(req.Type))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Message: "Avvisi inviati", Count: result.Recipients})
}

// ListExpiringAnnual reports annual payments close to expiry.
//
// @Summary      List expiring annual payments
// @Tags         automazioni
// @Produce      json
// @Param        giorni  query  int  false  "Window in days (default 30)"
// @Success      200  {array}  expiringPaymentPayload
// @Router       /automazioni/pagamenti-in-scadenza [get]
func (h *PaymentHandler) ListExpiringAnnual(c echo.Context) error {
	days := 0
	if daysParam := c.QueryParam("giorni"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid giorni")
		}
		days = parsed
	}

	expiring, err := h.paymentService.ListExpiringAnnual(c.Request().Context(), days)
	if err != nil {
		return err
	}

	out := make([]expiringPaymentPayload, 0, len(expiring))
	for _, e := range expiring {
		out = append(out, expiringPaymentPayload{
			Payment: e.Payment,
			User: personContact{
				FirstName: e.UserFirstName,
				LastName:  e.UserLastName,
				Email:     e.UserEmail,
			},
		})
	}
	return c.JSON(http.StatusOK, out)
}
