package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

type CreateNotificationInput struct {
	Title         string
	Message       string
	Type          domain.NotificationType
	RecipientType domain.RecipientType
	RecipientIDs  []string
	PaymentFilter string
}

type UpdateNotificationInput struct {
	Title   *string
	Message *string
	Active  *bool
}

type NotificationService interface {
	// List scopes non-admin viewers to notifications addressed to them.
	List(ctx context.Context, viewer *domain.User, activeOnly bool) ([]*domain.Notification, error)
	Create(ctx context.Context, in CreateNotificationInput) (*domain.Notification, error)
	Update(ctx context.Context, id string, in UpdateNotificationInput) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
}
