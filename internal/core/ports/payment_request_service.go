package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// CreatePaymentRequestsInput fans out one request per student in
// RecipientIDs; ids that are not active students are skipped.
type CreatePaymentRequestsInput struct {
	RecipientIDs []string
	Amount       float64
	Reason       string
	DueDate      string // YYYY-MM-DD
	Notes        string
}

// PaymentRequestInfo decorates a request with the student summary
// shown to administrators.
type PaymentRequestInfo struct {
	Request       *domain.PaymentRequest
	UserFirstName string
	UserLastName  string
	UserEmail     string
}

type ApproveResult struct {
	PaymentID string
}

type PaymentRequestService interface {
	Create(ctx context.Context, in CreatePaymentRequestsInput) ([]*domain.PaymentRequest, error)
	// List returns all requests for admins, own requests otherwise.
	List(ctx context.Context, viewer *domain.User) ([]*PaymentRequestInfo, error)
	// Confirm moves an owner's pending request to confermato.
	Confirm(ctx context.Context, viewer *domain.User, id, studentNotes string) (*domain.PaymentRequest, error)
	// Approve closes the request, records the matching paid Payment
	// and rewrites the linked notification.
	Approve(ctx context.Context, id string) (*ApproveResult, error)
	Reject(ctx context.Context, id, reason string) error
}
