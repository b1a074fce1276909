package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// NotificationService manages the bulletin board. Non-admin viewers
// only ever see rows addressed to everyone or to them personally.
type NotificationService struct {
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewNotificationService(notifications ports.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

func (s *NotificationService) List(ctx context.Context, viewer *domain.User, activeOnly bool) ([]*domain.Notification, error) {
	forUserID := ""
	if viewer.Role != domain.RoleAdmin {
		forUserID = viewer.ID
	}
	return s.notifications.List(ctx, forUserID, activeOnly)
}

func (s *NotificationService) Create(ctx context.Context, in ports.CreateNotificationInput) (*domain.Notification, error) {
	notification := &domain.Notification{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Message:       in.Message,
		Type:          in.Type,
		RecipientType: in.RecipientType,
		RecipientIDs:  in.RecipientIDs,
		PaymentFilter: in.PaymentFilter,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	if notification.Type == "" {
		notification.Type = domain.NotificationGeneral
	}
	if notification.RecipientType == "" {
		notification.RecipientType = domain.RecipientsAll
	}
	if notification.RecipientIDs == nil {
		notification.RecipientIDs = []string{}
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Info().Str("notification_id", notification.ID).Str("tipo", string(notification.Type)).Msg("notification published")
	return notification, nil
}

func (s *NotificationService) Update(ctx context.Context, id string, in ports.UpdateNotificationInput) (*domain.Notification, error) {
	notification, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		notification.Title = *in.Title
	}
	if in.Message != nil {
		notification.Message = *in.Message
	}
	if in.Active != nil {
		notification.Active = *in.Active
	}

	if err := s.notifications.Update(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.notifications.FindByID(ctx, id); err != nil {
		return err
	}
	return s.notifications.Delete(ctx, id)
}
