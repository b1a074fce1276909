package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// CourseInfo decorates a course with the teacher's display name.
type CourseInfo struct {
	Course           *domain.Course
	TeacherFirstName string
	TeacherLastName  string
}

type CreateCourseInput struct {
	Name        string
	Instrument  string
	TeacherID   string
	Description string
}

type UpdateCourseInput struct {
	Name        *string
	Instrument  *string
	TeacherID   *string
	Description *string
	Active      *bool
}

type CourseService interface {
	// List scopes teachers to their own courses.
	List(ctx context.Context, viewer *domain.User, filter ListCoursesFilter) ([]*CourseInfo, error)
	Create(ctx context.Context, in CreateCourseInput) (*domain.Course, error)
	Update(ctx context.Context, id string, in UpdateCourseInput) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}
