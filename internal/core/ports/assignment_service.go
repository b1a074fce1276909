package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

type CreateAssignmentInput struct {
	StudentID   string
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD
}

type UpdateAssignmentInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Completed   *bool
}

type AssignmentService interface {
	// List scopes students to their own homework and teachers to the
	// homework they assigned.
	List(ctx context.Context, viewer *domain.User, filter ListAssignmentsFilter) ([]*domain.Assignment, error)
	// Create stamps the caller as the assigning teacher.
	Create(ctx context.Context, teacher *domain.User, in CreateAssignmentInput) (*domain.Assignment, error)
	// Update lets students flip only Completed on their own homework;
	// teachers and admins may change everything.
	Update(ctx context.Context, editor *domain.User, id string, in UpdateAssignmentInput) (*domain.Assignment, error)
	Delete(ctx context.Context, id string) error
}
