package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// NotificationRepository persists notifiche rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	// List returns rows newest first. When forUserID is set, only rows
	// addressed to everyone or to that user are returned.
	List(ctx context.Context, forUserID string, activeOnly bool) ([]*domain.Notification, error)
	Update(ctx context.Context, n *domain.Notification) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}
