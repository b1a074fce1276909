package ports

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListSlotsFilter narrows calendar queries. Zero times are unbounded.
type ListSlotsFilter struct {
	TeacherID  string
	Instrument string
	Status     domain.SlotStatus
	From       time.Time
	To         time.Time
}

// SlotRepository persists slot_lezioni rows.
type SlotRepository interface {
	Create(ctx context.Context, s *domain.LessonSlot) error
	FindByID(ctx context.Context, id string) (*domain.LessonSlot, error)
	// List returns matching slots in chronological order.
	List(ctx context.Context, filter ListSlotsFilter) ([]*domain.LessonSlot, error)
	Update(ctx context.Context, s *domain.LessonSlot) error
	Delete(ctx context.Context, id string) error
	// FindOverlapping returns a non-cancelled slot of the teacher whose
	// [data, data+durata) interval intersects [start, end), if any.
	FindOverlapping(ctx context.Context, teacherID string, start, end time.Time) (*domain.LessonSlot, error)
}
