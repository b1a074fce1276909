package ports

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListPaymentsFilter narrows payment queries.
type ListPaymentsFilter struct {
	UserID      string
	Type        domain.PaymentType
	Status      domain.PaymentStatus
	VisibleOnly bool // restrict to rows flagged visibile_utente
}

// PaymentRepository persists pagamenti rows.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	// List returns matching rows ordered by due date.
	List(ctx context.Context, filter ListPaymentsFilter) ([]*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, id string) error
	// HasMonthlyFor reports whether a mensile payment whose description
	// mentions month (YYYY-MM) already exists for the user.
	HasMonthlyFor(ctx context.Context, userID, month string) (bool, error)
	// ListAnnualExpiring returns paid annual payments whose validity
	// ends inside [from, to].
	ListAnnualExpiring(ctx context.Context, from, to time.Time) ([]*domain.Payment, error)
	// CountOpen counts rows still pending or overdue.
	CountOpen(ctx context.Context) (int64, error)
	DistinctUserIDsByStatus(ctx context.Context, status domain.PaymentStatus) ([]string, error)
}
