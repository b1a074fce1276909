package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imusici/academy-system/internal/core/ports"
)

type StatsHandler struct {
	statsService ports.StatsService
}

func NewStatsHandler(statsService ports.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

type adminStatsResponse struct {
	ActiveStudents      int64 `json:"allievi_attivi"`
	ActiveTeachers      int64 `json:"insegnanti_attivi"`
	UnpaidPayments      int64 `json:"pagamenti_non_pagati"`
	ActiveNotifications int64 `json:"notifiche_attive"`
	AttendanceToday     int64 `json:"presenze_oggi"`
}

// AdminStats returns the dashboard counters.
//
// @Summary      Admin dashboard counters
// @Tags         stats
// @Produce      json
// @Success      200  {object}  adminStatsResponse
// @Router       /stats/admin [get]
func (h *StatsHandler) AdminStats(c echo.Context) error {
	stats, err := h.statsService.AdminStats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminStatsResponse{
		ActiveStudents:      stats.ActiveStudents,
		ActiveTeachers:      stats.ActiveTeachers,
		UnpaidPayments:      stats.UnpaidPayments,
		ActiveNotifications: stats.ActiveNotifications,
		AttendanceToday:     stats.AttendanceToday,
	})
}
