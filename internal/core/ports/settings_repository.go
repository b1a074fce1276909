package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// SettingsRepository persists the single impostazioni document.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
}
