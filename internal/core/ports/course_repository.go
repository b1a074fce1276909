package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListCoursesFilter narrows course listings.
type ListCoursesFilter struct {
	TeacherID string
	Active    *bool
}

// CourseRepository persists corsi rows.
type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, filter ListCoursesFilter) ([]*domain.Course, error)
	Update(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context, id string) error
}
