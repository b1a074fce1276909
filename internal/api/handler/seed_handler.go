package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/ports"
)

type SeedHandler struct {
	seedService ports.SeedService
}

func NewSeedHandler(seedService ports.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

type seedResponse struct {
	Message       string            `json:"message"`
	Admins        int               `json:"amministratori,omitempty"`
	Teachers      int               `json:"insegnanti,omitempty"`
	Students      int               `json:"allievi,omitempty"`
	Payments      int               `json:"pagamenti,omitempty"`
	Notifications int               `json:"notifiche,omitempty"`
	Credentials   map[string]string `json:"credenziali_test,omitempty"`
}

// Seed loads the sample dataset on an empty database.
//
// @Summary      Seed sample data
// @Tags         seed
// @Produce      json
// @Success      200  {object}  seedResponse
// @Router       /seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	summary, err := h.seedService.Seed(c.Request().Context())
	if err != nil {
		return err
	}

	if summary.Skipped {
		return c.JSON(http.StatusOK, seedResponse{Message: "Database già popolato, seed saltato"})
	}

	return c.JSON(http.StatusOK, seedResponse{
		Message:       "Dati di esempio creati",
		Admins:        summary.Admins,
		Teachers:      summary.Teachers,
		Students:      summary.Students,
		Payments:      summary.Payments,
		Notifications: summary.Notifications,
		Credentials: map[string]string{
			"admin":      "acc.imusici@gmail.com / Accademia2026 (PIN 1234)",
			"insegnante": "mario.rossi@musici.it / teacher123",
			"allievo":    "giulia.ferrari@email.it / student123",
		},
	})
}
