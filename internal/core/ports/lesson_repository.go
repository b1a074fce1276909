package ports

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListLessonsFilter narrows lesson queries. Zero times are unbounded.
type ListLessonsFilter struct {
	CourseID  string
	TeacherID string
	From      time.Time
	To        time.Time
}

// LessonRepository persists lezioni rows.
type LessonRepository interface {
	Create(ctx context.Context, l *domain.Lesson) error
	FindByID(ctx context.Context, id string) (*domain.Lesson, error)
	// List returns matching rows in chronological order.
	List(ctx context.Context, filter ListLessonsFilter) ([]*domain.Lesson, error)
	Update(ctx context.Context, l *domain.Lesson) error
	Delete(ctx context.Context, id string) error
}
