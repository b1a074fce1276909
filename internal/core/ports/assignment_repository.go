package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListAssignmentsFilter narrows homework queries.
type ListAssignmentsFilter struct {
	StudentID string
	TeacherID string
	Completed *bool
}

// AssignmentRepository persists compiti rows.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) error
	FindByID(ctx context.Context, id string) (*domain.Assignment, error)
	// List returns matching rows ordered by due date.
	List(ctx context.Context, filter ListAssignmentsFilter) ([]*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
}
