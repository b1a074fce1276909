package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// PaymentRequestService implements the in-app payment flow: an admin
// requests money from students, the student confirms having paid, the
// admin approves or rejects. Each request rides a linked notification
// that is rewritten as the flow advances.
type PaymentRequestService struct {
	requests      ports.PaymentRequestRepository
	users         ports.UserRepository
	payments      ports.PaymentRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewPaymentRequestService(
	requests ports.PaymentRequestRepository,
	users ports.UserRepository,
	payments ports.PaymentRepository,
	notifications ports.NotificationRepository,
	logger zerolog.Logger,
) *PaymentRequestService {
	return &PaymentRequestService{
		requests:      requests,
		users:         users,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
	}
}

// Create fans out one request per student recipient. Ids that do not
// belong to allievo accounts are silently skipped, as the operator may
// have selected mixed rows in the UI.
func (s *PaymentRequestService) Create(ctx context.Context, in ports.CreatePaymentRequestsInput) ([]*domain.PaymentRequest, error) {
	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := make([]*domain.PaymentRequest, 0, len(in.RecipientIDs))

	for _, userID := range in.RecipientIDs {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		if user.Role != domain.RoleStudent {
			continue
		}

		notification := &domain.Notification{
			ID:            uuid.NewString(),
			Title:         "Pagamento da Effettuare",
			Message:       fmt.Sprintf("Causale: %s\nImporto: €%.2f\nScadenza: %s", in.Reason, in.Amount, in.DueDate),
			Type:          domain.NotificationPaymentsDue,
			RecipientType: domain.RecipientsSingle,
			RecipientIDs:  []string{userID},
			Active:        true,
			CreatedAt:     now,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			return nil, err
		}

		request := &domain.PaymentRequest{
			ID:             uuid.NewString(),
			UserID:         userID,
			Amount:         in.Amount,
			Reason:         in.Reason,
			DueDate:        due,
			Notes:          in.Notes,
			Status:         domain.RequestPending,
			CreatedAt:      now,
			NotificationID: notification.ID,
		}
		if err := s.requests.Create(ctx, request); err != nil {
			return nil, err
		}
		created = append(created, request)
	}

	s.logger.Info().Int("created", len(created)).Msg("payment requests created")
	return created, nil
}

func (s *PaymentRequestService) List(ctx context.Context, viewer *domain.User) ([]*ports.PaymentRequestInfo, error) {
	userID := ""
	if viewer.Role != domain.RoleAdmin {
		userID = viewer.ID
	}

	requests, err := s.requests.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]*ports.PaymentRequestInfo, 0, len(requests))
	for _, r := range requests {
		info := &ports.PaymentRequestInfo{Request: r}
		if viewer.Role == domain.RoleAdmin {
			if user, err := s.users.FindByID(ctx, r.UserID); err == nil {
				info.UserFirstName = user.FirstName
				info.UserLastName = user.LastName
				info.UserEmail = user.Email
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *PaymentRequestService) Confirm(ctx context.Context, viewer *domain.User, id, studentNotes string) (*domain.PaymentRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.UserID != viewer.ID {
		return nil, domain.ErrForbidden
	}
	if request.Status != domain.RequestPending {
		return nil, domain.ErrRequestNotPending
	}

	now := time.Now().UTC()
	request.Status = domain.RequestConfirmed
	request.StudentConfirmedAt = &now
	request.StudentNotes = studentNotes
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Approve closes the request, records the matching paid payment and
// rewrites the linked notification so the student sees the outcome.
func (s *PaymentRequestService) Approve(ctx context.Context, id string) (*ports.ApproveResult, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status == domain.RequestApproved || request.Status == domain.RequestRejected {
		return nil, domain.ErrRequestProcessed
	}

	now := time.Now().UTC()
	request.Status = domain.RequestApproved
	request.AdminApprovedAt = &now
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            uuid.NewString(),
		UserID:        request.UserID,
		Type:          domain.PaymentMonthly,
		Amount:        request.Amount,
		Description:   request.Reason,
		DueDate:       request.DueDate,
		Status:        domain.PaymentPaid,
		PaidAt:        &now,
		VisibleToUser: true,
		CreatedAt:     now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.rewriteNotification(ctx, request.NotificationID,
		"Pagamento Approvato",
		fmt.Sprintf("Il tuo pagamento di €%.2f per %s è stato approvato!", request.Amount, request.Reason))

	s.logger.Info().Str("request_id", id).Str("payment_id", payment.ID).Msg("payment request approved")
	return &ports.ApproveResult{PaymentID: payment.ID}, nil
}

func (s *PaymentRequestService) Reject(ctx context.Context, id, reason string) error {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if request.Status == domain.RequestApproved || request.Status == domain.RequestRejected {
		return domain.ErrRequestProcessed
	}

	request.Status = domain.RequestRejected
	request.AdminNotes = reason
	if err := s.requests.Update(ctx, request); err != nil {
		return err
	}

	s.rewriteNotification(ctx, request.NotificationID,
		"Pagamento Rifiutato",
		fmt.Sprintf("Il pagamento è stato rifiutato. Motivo: %s", reason))

	s.logger.Info().Str("request_id", id).Msg("payment request rejected")
	return nil
}

// rewriteNotification is best-effort: a missing linked notification is
// not worth failing the admin action for.
func (s *PaymentRequestService) rewriteNotification(ctx context.Context, id, title, message string) {
	if id == "" {
		return
	}
	notification, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("notification_id", id).Msg("linked notification not found")
		return
	}
	notification.Title = title
	notification.Message = message
	if err := s.notifications.Update(ctx, notification); err != nil {
		s.logger.Warn().Err(err).Str("notification_id", id).Msg("failed to rewrite linked notification")
	}
}
