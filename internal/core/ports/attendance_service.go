package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// CreateAttendanceInput records one register entry. Dates use the
// YYYY-MM-DD wire format.
type CreateAttendanceInput struct {
	CourseID   string
	LessonID   string
	StudentID  string
	Date       string
	Status     domain.AttendanceStatus
	MakeupDate string
	Notes      string
}

// UpdateAttendanceInput touches only non-nil fields. A pointer to the
// empty string clears MakeupDate.
type UpdateAttendanceInput struct {
	Status     *domain.AttendanceStatus
	Notes      *string
	MakeupDate *string
}

type AttendanceService interface {
	// List scopes results to the viewer: students see their own rows,
	// teachers the rows they recorded.
	List(ctx context.Context, viewer *domain.User, filter ListAttendanceFilter) ([]*domain.Attendance, error)
	// Create stamps the recorder as the row's teacher.
	Create(ctx context.Context, recorder *domain.User, in CreateAttendanceInput) (*domain.Attendance, error)
	// Update is reserved to administrators once a row is saved.
	Update(ctx context.Context, editor *domain.User, id string, in UpdateAttendanceInput) (*domain.Attendance, error)
	Delete(ctx context.Context, id string) error
}
