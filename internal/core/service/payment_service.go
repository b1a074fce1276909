package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// PaymentService manages pagamenti rows plus the bulk automations:
// overdue sweeps, monthly fee generation, reminders and annual expiry
// monitoring.
type PaymentService struct {
	payments      ports.PaymentRepository
	users         ports.UserRepository
	notifications ports.NotificationRepository
	settings      ports.SettingsRepository
	logger        zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	settings ports.SettingsRepository,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:      payments,
		users:         users,
		notifications: notifications,
		settings:      settings,
		logger:        logger,
	}
}

func (s *PaymentService) List(ctx context.Context, viewer *domain.User, filter ports.ListPaymentsFilter) ([]*domain.Payment, error) {
	if viewer.Role != domain.RoleAdmin {
		filter.UserID = viewer.ID
		filter.VisibleOnly = true
	}
	return s.payments.List(ctx, filter)
}

func (s *PaymentService) Create(ctx context.Context, in ports.CreatePaymentInput) (*domain.Payment, error) {
	if _, err := s.users.FindByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Type:          in.Type,
		Amount:        in.Amount,
		Description:   in.Description,
		DueDate:       due,
		Status:        domain.PaymentPending,
		ToleranceDays: in.ToleranceDays,
		VisibleToUser: true,
		CreatedAt:     time.Now().UTC(),
	}
	if payment.Type == "" {
		payment.Type = domain.PaymentMonthly
	}
	if payment.Type == domain.PaymentAnnual {
		from := due
		to := due.AddDate(1, 0, 0)
		payment.ValidFrom = &from
		payment.ValidTo = &to
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Update(ctx context.Context, id string, in ports.UpdatePaymentInput) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		payment.Amount = *in.Amount
	}
	if in.Description != nil {
		payment.Description = *in.Description
	}
	if in.DueDate != nil {
		due, err := parseDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		payment.DueDate = due
	}
	if in.VisibleToUser != nil {
		payment.VisibleToUser = *in.VisibleToUser
	}
	if in.Status != nil {
		if !domain.ValidPaymentStatus(*in.Status) {
			return nil, domain.ErrInvalidPaymentStatus
		}
		if *in.Status == domain.PaymentPaid && payment.Status != domain.PaymentPaid {
			now := time.Now().UTC()
			payment.PaidAt = &now
		}
		payment.Status = *in.Status
	}

	now := time.Now().UTC()
	payment.UpdatedAt = &now
	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	if !domain.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidPaymentStatus
	}
	return s.Update(ctx, id, ports.UpdatePaymentInput{Status: &status})
}

func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if _, err := s.payments.FindByID(ctx, id); err != nil {
		return err
	}
	return s.payments.Delete(ctx, id)
}

// RegisterCash records a front desk payment already collected in cash.
// The receipt number is the first eight characters of the payment id.
func (s *PaymentService) RegisterCash(ctx context.Context, operator *domain.User, in ports.CashPaymentInput) (*ports.CashPaymentResult, error) {
	student, err := s.users.FindByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != domain.RoleStudent {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.NewString(),
		UserID:        in.StudentID,
		Type:          domain.PaymentMonthly,
		Amount:        in.Amount,
		Description:   in.Reason,
		DueDate:       now,
		Status:        domain.PaymentPaid,
		PaidAt:        &now,
		VisibleToUser: true,
		Method:        domain.PaymentMethodCash,
		OperatorID:    operator.ID,
		OperatorName:  operator.FullName(),
		CreatedAt:     now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info().Str("payment_id", payment.ID).Str("allievo_id", in.StudentID).
		Float64("importo", in.Amount).Msg("cash payment registered")

	return &ports.CashPaymentResult{
		Payment: payment,
		Receipt: ports.CashReceipt{
			Number:   strings.ToUpper(payment.ID[:8]),
			Date:     now,
			Student:  student.FullName(),
			Amount:   in.Amount,
			Reason:   in.Reason,
			Operator: operator.FullName(),
		},
	}, nil
}

// MarkOverdue flips every pending payment past its due date plus the
// per-row tolerance to scaduto and reports how many changed.
func (s *PaymentService) MarkOverdue(ctx context.Context) (int, error) {
	pending, err := s.payments.List(ctx, ports.ListPaymentsFilter{Status: domain.PaymentPending})
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	updated := 0
	for _, p := range pending {
		if !p.OverdueAt(now) {
			continue
		}
		p.Status = domain.PaymentOverdue
		p.UpdatedAt = &now
		if err := s.payments.Update(ctx, p); err != nil {
			return updated, err
		}
		updated++
	}

	s.logger.Info().Int("updated", updated).Msg("overdue sweep completed")
	return updated, nil
}

func (s *PaymentService) GenerateMonthly(ctx context.Context, in ports.GenerateMonthlyInput) (*ports.GenerateMonthlyResult, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	month := in.Month
	if month == "" {
		month = now.Format(monthLayout)
	}
	monthStart, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	amount := in.Amount
	if amount <= 0 {
		amount = cfg.DefaultMonthlyFee
	}
	description := in.Description
	if description == "" {
		description = "Quota mensile " + month
	}

	due := time.Date(monthStart.Year(), monthStart.Month(), cfg.PaymentDueDay, 23, 59, 59, 0, time.UTC)

	active := true
	students, err := s.users.List(ctx, ports.ListUsersFilter{Role: domain.RoleStudent, Active: &active})
	if err != nil {
		return nil, err
	}

	created := 0
	for _, student := range students {
		exists, err := s.payments.HasMonthlyFor(ctx, student.ID, month)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		payment := &domain.Payment{
			ID:            uuid.NewString(),
			UserID:        student.ID,
			Type:          domain.PaymentMonthly,
			Amount:        amount,
			Description:   description,
			DueDate:       due,
			Status:        domain.PaymentPending,
			ToleranceDays: cfg.PaymentToleranceDays,
			VisibleToUser: true,
			CreatedAt:     now,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return nil, err
		}
		created++
	}

	s.logger.Info().Str("mese", month).Int("created", created).Msg("monthly payments generated")
	return &ports.GenerateMonthlyResult{Month: month, Created: created}, nil
}

// CreateReminders posts one notification addressed to every user still
// holding a payment in the given state.
func (s *PaymentService) CreateReminders(ctx context.Context, status domain.PaymentStatus) (*ports.ReminderResult, error) {
	if status != domain.PaymentPending && status != domain.PaymentOverdue {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPaymentStatus, status)
	}

	userIDs, err := s.payments.DistinctUserIDsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return &ports.ReminderResult{Recipients: 0}, nil
	}

	title := "Promemoria pagamento"
	message := "Ricorda di effettuare il pagamento della quota entro la scadenza."
	if status == domain.PaymentOverdue {
		title = "Pagamento scaduto"
		message = "Hai un pagamento scaduto. Ti preghiamo di regolarizzare la tua posizione."
	}

	notification := &domain.Notification{
		ID:            uuid.NewString(),
		Title:         title,
		Message:       message,
		Type:          domain.NotificationPayment,
		RecipientType: domain.RecipientsSingle,
		RecipientIDs:  userIDs,
		PaymentFilter: string(status),
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Info().Str("stato", string(status)).Int("recipients", len(userIDs)).Msg("payment reminders sent")
	return &ports.ReminderResult{NotificationID: notification.ID, Recipients: len(userIDs)}, nil
}

func (s *PaymentService) ListExpiringAnnual(ctx context.Context, days int) ([]*ports.ExpiringPayment, error) {
	if days <= 0 {
		days = domain.DefaultAnnualReminderDays
	}

	now := time.Now().UTC()
	payments, err := s.payments.ListAnnualExpiring(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	result := make([]*ports.ExpiringPayment, 0, len(payments))
	for _, p := range payments {
		item := &ports.ExpiringPayment{Payment: p}
		if user, err := s.users.FindByID(ctx, p.UserID); err == nil {
			item.UserFirstName = user.FirstName
			item.UserLastName = user.LastName
			item.UserEmail = user.Email
		}
		result = append(result, item)
	}
	return result, nil
}
