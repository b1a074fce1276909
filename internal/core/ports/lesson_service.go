package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// LessonInfo decorates a lesson with course and teacher display fields.
type LessonInfo struct {
	Lesson           *domain.Lesson
	CourseName       string
	CourseInstrument string
	TeacherFirstName string
	TeacherLastName  string
}

type CreateLessonInput struct {
	CourseID  string
	TeacherID string
	Date      string // YYYY-MM-DD
	Hour      string // HH:MM
	Duration  int    // minutes
}

type UpdateLessonInput struct {
	Date     *string
	Hour     *string
	Duration *int
	Notes    *string
}

type LessonService interface {
	// List scopes teachers to their own lessons.
	List(ctx context.Context, viewer *domain.User, filter ListLessonsFilter) ([]*LessonInfo, error)
	Create(ctx context.Context, in CreateLessonInput) (*domain.Lesson, error)
	Update(ctx context.Context, id string, in UpdateLessonInput) (*domain.Lesson, error)
	Delete(ctx context.Context, id string) error
}
