package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type createNotificationRequest struct {
	Title         string   `json:"titolo" validate:"required"`
	Message       string   `json:"messaggio" validate:"required"`
	Type          string   `json:"tipo,omitempty"`
	RecipientType string   `json:"destinatari_tipo,omitempty"`
	RecipientIDs  []string `json:"destinatari_ids,omitempty"`
	PaymentFilter string   `json:"filtro_pagamento,omitempty"`
}

type updateNotificationRequest struct {
	Title   *string `json:"titolo,omitempty"`
	Message *string `json:"messaggio,omitempty"`
	Active  *bool   `json:"attivo,omitempty"`
}

// List returns notifications visible to the caller.
//
// @Summary      List notifications
// @Tags         notifiche
// @Produce      json
// @Param        attivo_only  query  bool  false  "Only active rows (default true)"
// @Success      200  {array}  domain.Notification
// @Router       /notifiche [get]
func (h *NotificationHandler) List(c echo.Context) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}

	activeOnly := c.QueryParam("attivo_only") != "false"
	notifications, err := h.notificationService.List(c.Request().Context(), viewer, activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

// Create posts a notification.
//
// @Summary      Create a notification
// @Tags         notifiche
// @Accept       json
// @Produce      json
// @Param        body  body  createNotificationRequest  true  "Notification"
// @Success      201  {object}  domain.Notification
// @Router       /notifiche [post]
func (h *NotificationHandler) Create(c echo.Context) error {
	var req createNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	notification, err := h.notificationService.Create(c.Request().Context(), ports.CreateNotificationInput{
		Title:         req.Title,
		Message:       req.Message,
		Type:          domain.NotificationType(req.Type),
		RecipientType: domain.RecipientType(req.RecipientType),
		RecipientIDs:  req.RecipientIDs,
		PaymentFilter: req.PaymentFilter,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, notification)
}

// Update modifies title, message or the active flag.
//
// @Summary      Update a notification
// @Tags         notifiche
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Notification id"
// @Param        body  body  updateNotificationRequest  true  "Fields to change"
// @Success      200  {object}  domain.Notification
// @Router       /notifiche/{id} [put]
func (h *NotificationHandler) Update(c echo.Context) error {
	var req updateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	notification, err := h.notificationService.Update(c.Request().Context(), c.Param("id"), ports.UpdateNotificationInput{
		Title:   req.Title,
		Message: req.Message,
		Active:  req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notification)
}

// Delete removes a notification.
//
// @Summary      Delete a notification
// @Tags         notifiche
// @Produce      json
// @Param        id  path  string  true  "Notification id"
// @Success      200  {object}  messageResponse
// @Router       /notifiche/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	if err := h.notificationService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notifica eliminata"})
}
