package ports

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
)

type CreatePaymentInput struct {
	UserID        string
	Type          domain.PaymentType
	Amount        float64
	Description   string
	DueDate       string // YYYY-MM-DD
	ToleranceDays int
}

type UpdatePaymentInput struct {
	Amount        *float64
	Description   *string
	DueDate       *string
	Status        *domain.PaymentStatus
	VisibleToUser *bool
}

// CashPaymentInput registers a front desk payment already collected.
type CashPaymentInput struct {
	StudentID string
	Amount    float64
	Reason    string
	Notes     string
}

// CashReceipt is the printable confirmation block.
type CashReceipt struct {
	Number   string
	Date     time.Time
	Student  string
	Amount   float64
	Reason   string
	Operator string
}

type CashPaymentResult struct {
	Payment *domain.Payment
	Receipt CashReceipt
}

// GenerateMonthlyInput drives the monthly fee run. Zero values fall
// back to the current month and the configured default fee.
type GenerateMonthlyInput struct {
	Month       string // YYYY-MM
	Amount      float64
	Description string
}

type GenerateMonthlyResult struct {
	Month   string
	Created int
}

// ReminderResult reports a bulk payment notice.
type ReminderResult struct {
	NotificationID string
	Recipients     int
}

// ExpiringPayment decorates an annual payment with its holder.
type ExpiringPayment struct {
	Payment       *domain.Payment
	UserFirstName string
	UserLastName  string
	UserEmail     string
}

type PaymentService interface {
	// List forces non-admin viewers onto their own visible payments.
	List(ctx context.Context, viewer *domain.User, filter ListPaymentsFilter) ([]*domain.Payment, error)
	Create(ctx context.Context, in CreatePaymentInput) (*domain.Payment, error)
	// Update stamps data_pagamento when the status moves to pagato.
	Update(ctx context.Context, id string, in UpdatePaymentInput) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
	Delete(ctx context.Context, id string) error
	RegisterCash(ctx context.Context, operator *domain.User, in CashPaymentInput) (*CashPaymentResult, error)
	// MarkOverdue flips pending payments past due date plus tolerance.
	MarkOverdue(ctx context.Context) (int, error)
	// GenerateMonthly creates one mensile payment per active student,
	// skipping students already billed for the month.
	GenerateMonthly(ctx context.Context, in GenerateMonthlyInput) (*GenerateMonthlyResult, error)
	// CreateReminders posts one notification to every user holding a
	// payment in the given status.
	CreateReminders(ctx context.Context, status domain.PaymentStatus) (*ReminderResult, error)
	ListExpiringAnnual(ctx context.Context, days int) ([]*ExpiringPayment, error)
}
