package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/ports"
)

type SettingsHandler struct {
	settingsService ports.SettingsService
}

func NewSettingsHandler(settingsService ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

type updateSettingsRequest struct {
	PaymentDueDay        *int     `json:"payment_due_day,omitempty"`
	PaymentToleranceDays *int     `json:"payment_tolerance_days,omitempty"`
	DefaultMonthlyFee    *float64 `json:"default_monthly_fee,omitempty"`
	AnnualReminderDays   *int     `json:"annual_reminder_days,omitempty"`
}

// Get returns the global settings, seeding defaults on first read.
//
// @Summary      Get settings
// @Tags         impostazioni
// @Produce      json
// @Success      200  {object}  domain.Settings
// @Router       /impostazioni [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settingsService.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Update applies a partial settings update.
//
// @Summary      Update settings
// @Tags         impostazioni
// @Accept       json
// @Produce      json
// @Param        body  body  updateSettingsRequest  true  "Fields to change"
// @Success      200  {object}  domain.Settings
// @Router       /impostazioni [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	settings, err := h.settingsService.Update(c.Request().Context(), ports.UpdateSettingsInput{
		PaymentDueDay:        req.PaymentDueDay,
		PaymentToleranceDays: req.PaymentToleranceDays,
		DefaultMonthlyFee:    req.DefaultMonthlyFee,
		AnnualReminderDays:   req.AnnualReminderDays,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}
