package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// PaymentRequestRepository persists richieste_pagamento rows.
type PaymentRequestRepository interface {
	Create(ctx context.Context, r *domain.PaymentRequest) error
	FindByID(ctx context.Context, id string) (*domain.PaymentRequest, error)
	// List returns rows newest first, scoped to one user when userID
	// is set.
	List(ctx context.Context, userID string) ([]*domain.PaymentRequest, error)
	Update(ctx context.Context, r *domain.PaymentRequest) error
}
