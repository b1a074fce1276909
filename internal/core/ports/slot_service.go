package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// SlotView decorates a slot with teacher and booked-student names.
type SlotView struct {
	Slot             *domain.LessonSlot
	TeacherFirstName string
	TeacherLastName  string
	StudentFirstName string
	StudentLastName  string
}

type CreateSlotInput struct {
	TeacherID  string
	Instrument string
	Date       string // YYYY-MM-DD
	Hour       string // HH:MM
	Duration   int    // minutes
}

type UpdateSlotInput struct {
	TeacherID  *string
	Instrument *string
	Date       *string // requires Hour as well
	Hour       *string
	Duration   *int
	Notes      *string
}

// LessonReminderInput addresses the slot reminder: allievo,
// insegnante or entrambi.
type LessonReminderInput struct {
	Recipients []string
}

type LessonReminderResult struct {
	Message    string
	Recipients []string
}

// DeleteSlotResult reports whether the slot was cancelled instead of
// removed because a student had booked it.
type DeleteSlotResult struct {
	Cancelled bool
}

type SlotService interface {
	List(ctx context.Context, filter ListSlotsFilter) ([]*SlotView, error)
	// Create rejects slots overlapping a non-cancelled slot of the
	// same teacher.
	Create(ctx context.Context, in CreateSlotInput) (*SlotView, error)
	Update(ctx context.Context, id string, in UpdateSlotInput) (*SlotView, error)
	Delete(ctx context.Context, id string) (*DeleteSlotResult, error)
	// Book assigns the slot: students book for themselves, admins for
	// any student via studentID.
	Book(ctx context.Context, viewer *domain.User, slotID, studentID string) (*SlotView, error)
	// CancelBooking frees a booked slot: owner student or admin.
	CancelBooking(ctx context.Context, viewer *domain.User, slotID string) (*SlotView, error)
	// SendReminder posts the lesson summary to the addressed parties.
	SendReminder(ctx context.Context, slotID string, in LessonReminderInput) (*LessonReminderResult, error)
}
