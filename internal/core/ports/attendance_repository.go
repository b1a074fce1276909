package ports

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListAttendanceFilter narrows register queries. Zero times are
// unbounded.
type ListAttendanceFilter struct {
	StudentID string
	TeacherID string
	From      time.Time
	To        time.Time
}

// AttendanceRepository persists presenze rows.
type AttendanceRepository interface {
	Create(ctx context.Context, a *domain.Attendance) error
	FindByID(ctx context.Context, id string) (*domain.Attendance, error)
	// List returns matching rows newest first.
	List(ctx context.Context, filter ListAttendanceFilter) ([]*domain.Attendance, error)
	Update(ctx context.Context, a *domain.Attendance) error
	Delete(ctx context.Context, id string) error
	CountSince(ctx context.Context, t time.Time) (int64, error)
}
