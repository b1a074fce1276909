package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// SettingsService manages the singleton impostazioni document, seeding
// the defaults on first read.
type SettingsService struct {
	settings ports.SettingsRepository
	logger   zerolog.Logger
}

func NewSettingsService(settings ports.SettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	current, err := s.settings.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		return nil, err
	}

	defaults := domain.DefaultSettings()
	if err := s.settings.Save(ctx, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}

func (s *SettingsService) Update(ctx context.Context, in ports.UpdateSettingsInput) (*domain.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if in.PaymentDueDay != nil {
		current.PaymentDueDay = *in.PaymentDueDay
	}
	if in.PaymentToleranceDays != nil {
		current.PaymentToleranceDays = *in.PaymentToleranceDays
	}
	if in.DefaultMonthlyFee != nil {
		current.DefaultMonthlyFee = *in.DefaultMonthlyFee
	}
	if in.AnnualReminderDays != nil {
		current.AnnualReminderDays = *in.AnnualReminderDays
	}

	if err := s.settings.Save(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info().Msg("settings updated")
	return current, nil
}
