package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type PaymentRequestHandler struct {
	requestService ports.PaymentRequestService
}

func NewPaymentRequestHandler(requestService ports.PaymentRequestService) *PaymentRequestHandler {
	return &PaymentRequestHandler{requestService: requestService}
}

type createPaymentRequestsRequest struct {
	RecipientIDs []string `json:"destinatari_ids" validate:"required,min=1"`
	Amount       float64  `json:"importo" validate:"required,gt=0"`
	Reason       string   `json:"causale" validate:"required"`
	DueDate      string   `json:"scadenza" validate:"required"`
	Notes        string   `json:"note,omitempty"`
}

type confirmRequestRequest struct {
	StudentNotes string `json:"note_allievo,omitempty"`
}

type rejectRequestRequest struct {
	Reason string `json:"motivo" validate:"required"`
}

type paymentRequestPayload struct {
	*domain.PaymentRequest
	User *personContact `json:"utente,omitempty"`
}

// Create fans out a payment request to each student recipient.
//
// @Summary      Create payment requests
// @Tags         richieste-pagamento
// @Accept       json
// @Produce      json
// @Param        body  body  createPaymentRequestsRequest  true  "Request"
// @Success      201  {array}  domain.PaymentRequest
// @Router       /richieste-pagamento [post]
func (h *PaymentRequestHandler) Create(c echo.Context) error {
	var req createPaymentRequestsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	requests, err := h.requestService.Create(c.Request().Context(), ports.CreatePaymentRequestsInput{
		RecipientIDs: req.RecipientIDs,
		Amount:       req.Amount,
		Reason:       req.Reason,
		DueDate:      req.DueDate,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, requests)
}

// List returns requests scoped to the caller.
//
// @Summary      List payment requests
// @Tags         richieste-pagamento
// @Produce      json
// @Success      200  {array}  paymentRequestPayload
// @Router       /richieste-pagamento [get]
func (h *PaymentRequestHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	infos, err := h.requestService.List(c.Request().Context(), viewer)
	if err != nil {
		return err
	}

	out := make([]paymentRequestPayload, 0, len(infos))
	for _, info := range infos {
		p := paymentRequestPayload{PaymentRequest: info.Request}
		if info.UserFirstName != "" || info.UserLastName != "" || info.UserEmail != "" {
			p.User = &personContact{
				FirstName: info.UserFirstName,
				LastName:  info.UserLastName,
				Email:     info.UserEmail,
			}
		}
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

// Confirm lets the owning student confirm a pending request.
//
// @Summary      Confirm a payment request
// @Tags         richieste-pagamento
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Request id"
// @Param        body  body  confirmRequestRequest  false  "Student notes"
// @Success      200  {object}  domain.PaymentRequest
// @Router       /richieste-pagamento/{id}/conferma [put]
func (h *PaymentRequestHandler) Confirm(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	var req confirmRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	request, err := h.requestService.Confirm(c.Request().Context(), viewer, c.Param("id"), req.StudentNotes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, request)
}

// Approve closes a confirmed request and records the paid payment.
//
// @Summary      Approve a payment request
// @Tags         richieste-pagamento
// @Produce      json
// @Param        id  path  string  true  "Request id"
// @Success      200  {object}  map[string]string
// @Router       /richieste-pagamento/{id}/approva [put]
func (h *PaymentRequestHandler) Approve(c echo.Context) error {
	result, err := h.requestService.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":      "Richiesta approvata",
		"pagamento_id": result.PaymentID,
	})
}

// Reject closes a request with a reason.
//
// @Summary      Reject a payment request
// @Tags         richieste-pagamento
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Request id"
// @Param        body  body  rejectRequestRequest  true  "Reason"
// @Success      200  {object}  messageResponse
// @Router       /richieste-pagamento/{id}/rifiuta [put]
func (h *PaymentRequestHandler) Reject(c echo.Context) error {
	var req rejectRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.requestService.Reject(c.Request().Context(), c.Param("id"), req.Reason); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Richiesta rifiutata"})
}
