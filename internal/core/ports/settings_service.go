package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

type UpdateSettingsInput struct {
	PaymentDueDay        *int
	PaymentToleranceDays *int
	DefaultMonthlyFee    *float64
	AnnualReminderDays   *int
}

type SettingsService interface {
	// Get seeds and returns the defaults on first read.
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, in UpdateSettingsInput) (*domain.Settings, error)
}
