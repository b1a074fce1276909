package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const defaultSlotMinutes = 60

// SlotService manages the bookable calendar: teachers' availability
// windows, student bookings and lesson reminders.
type SlotService struct {
	slots         ports.SlotRepository
	users         ports.UserRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewSlotService(
	slots ports.SlotRepository,
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	logger zerolog.Logger,
) *SlotService {
	return &SlotService{slots: slots, users: users, notifications: notifications, logger: logger}
}

func (s *SlotService) List(ctx context.Context, filter ports.ListSlotsFilter) ([]*ports.SlotView, error) {
	slots, err := s.slots.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*ports.SlotView, 0, len(slots))
	for _, slot := range slots {
		view, err := s.decorate(ctx, slot)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Create rejects any window that intersects a non-cancelled slot of the
// same teacher, using genuine interval overlap on [data, data+durata).
func (s *SlotService) Create(ctx context.Context, in ports.CreateSlotInput) (*ports.SlotView, error) {
	teacher, err := s.users.FindByID(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != domain.RoleTeacher {
		return nil, domain.ErrRoleMismatch
	}

	start, err := parseDateHour(in.Date, in.Hour)
	if err != nil {
		return nil, err
	}
	duration := in.Duration
	if duration <= 0 {
		duration = defaultSlotMinutes
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	existing, err := s.slots.FindOverlapping(ctx, in.TeacherID, start, end)
	if err != nil && !errors.Is(err, domain.ErrSlotNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlotOverlap
	}

	slot := &domain.LessonSlot{
		ID:         uuid.NewString(),
		TeacherID:  in.TeacherID,
		Instrument: in.Instrument,
		Start:      start,
		Duration:   duration,
		Status:     domain.SlotAvailable,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info().Str("slot_id", slot.ID).Str("insegnante_id", slot.TeacherID).
		Time("data", slot.Start).Msg("lesson slot opened")
	return s.decorate(ctx, slot)
}

func (s *SlotService) Update(ctx context.Context, id string, in ports.UpdateSlotInput) (*ports.SlotView, error) {
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.TeacherID != nil {
		teacher, err := s.users.FindByID(ctx, *in.TeacherID)
		if err != nil {
			return nil, err
		}
		if teacher.Role != domain.RoleTeacher {
			return nil, domain.ErrRoleMismatch
		}
		slot.TeacherID = *in.TeacherID
	}
	if in.Date != nil || in.Hour != nil {
		if in.Date == nil || in.Hour == nil {
			return nil, domain.ErrSlotTimeIncomplete
		}
		start, err := parseDateHour(*in.Date, *in.Hour)
		if err != nil {
			return nil, err
		}
		slot.Start = start
	}
	if in.Instrument != nil {
		slot.Instrument = *in.Instrument
	}
	if in.Duration != nil && *in.Duration > 0 {
		slot.Duration = *in.Duration
	}
	if in.Notes != nil {
		slot.Notes = *in.Notes
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}
	return s.decorate(ctx, slot)
}

// Delete removes free slots; booked ones flip to annullato instead so
// the student keeps a trace of the cancelled lesson.
func (s *SlotService) Delete(ctx context.Context, id string) (*ports.DeleteSlotResult, error) {
	slot, err := s.slots.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if slot.Status == domain.SlotBooked {
		slot.Status = domain.SlotCancelled
		if err := s.slots.Update(ctx, slot); err != nil {
			return nil, err
		}
		return &ports.DeleteSlotResult{Cancelled: true}, nil
	}

	if err := s.slots.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &ports.DeleteSlotResult{Cancelled: false}, nil
}

func (s *SlotService) Book(ctx context.Context, viewer *domain.User, slotID, studentID string) (*ports.SlotView, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotAvailable {
		return nil, domain.ErrSlotNotAvailable
	}

	switch viewer.Role {
	case domain.RoleStudent:
		if studentID != "" && studentID != viewer.ID {
			return nil, domain.ErrForbidden
		}
		studentID = viewer.ID
	case domain.RoleAdmin:
		if studentID == "" {
			return nil, domain.ErrStudentRequired
		}
	default:
		return nil, domain.ErrForbidden
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != domain.RoleStudent {
		return nil, domain.ErrRoleMismatch
	}

	now := time.Now().UTC()
	slot.Status = domain.SlotBooked
	slot.StudentID = studentID
	slot.BookedAt = &now
	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info().Str("slot_id", slot.ID).Str("allievo_id", studentID).Msg("slot booked")
	return s.decorate(ctx, slot)
}

func (s *SlotService) CancelBooking(ctx context.Context, viewer *domain.User, slotID string) (*ports.SlotView, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != domain.SlotBooked {
		return nil, domain.ErrSlotNotBooked
	}
	if viewer.Role != domain.RoleAdmin && slot.StudentID != viewer.ID {
		return nil, domain.ErrForbidden
	}

	slot.Status = domain.SlotAvailable
	slot.StudentID = ""
	slot.BookedAt = nil
	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info().Str("slot_id", slot.ID).Msg("slot booking cancelled")
	return s.decorate(ctx, slot)
}

// SendReminder posts the lesson summary to the addressed parties
// (allievo, insegnante or entrambi) as single-recipient notifications
// referencing the slot.
func (s *SlotService) SendReminder(ctx context.Context, slotID string, in ports.LessonReminderInput) (*ports.LessonReminderResult, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	teacher, err := s.users.FindByID(ctx, slot.TeacherID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	var student *domain.User
	if slot.StudentID != "" {
		student, err = s.users.FindByID(ctx, slot.StudentID)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	toStudent := containsAny(in.Recipients, "allievo", "entrambi")
	toTeacher := containsAny(in.Recipients, "insegnante", "entrambi")

	message := s.reminderMessage(slot, teacher, student)
	title := "Promemoria: Lezione di " + slot.Instrument
	now := time.Now().UTC()

	notified := []string{}
	send := func(user *domain.User) error {
		notification := &domain.Notification{
			ID:            uuid.NewString(),
			Title:         title,
			Message:       message,
			Type:          domain.NotificationLesson,
			RecipientType: domain.RecipientsSingle,
			RecipientIDs:  []string{user.ID},
			ReferenceID:   slot.ID,
			ReferenceType: "slot_lezione",
			Active:        true,
			CreatedAt:     now,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			return err
		}
		notified = append(notified, user.FullName())
		return nil
	}

	if student != nil && toStudent {
		if err := send(student); err != nil {
			return nil, err
		}
	}
	if teacher != nil && toTeacher {
		if err := send(teacher); err != nil {
			return nil, err
		}
	}

	return &ports.LessonReminderResult{
		Message:    "Notifica inviata a: " + strings.Join(notified, ", "),
		Recipients: notified,
	}, nil
}

func (s *SlotService) reminderMessage(slot *domain.LessonSlot, teacher, student *domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lezione di %s\n", slot.Instrument)
	fmt.Fprintf(&b, "Data: %s\n", slot.Start.Format("02-01-2006"))
	fmt.Fprintf(&b, "Ora: %s\n", slot.Start.Format(hourLayout))
	if teacher != nil {
		fmt.Fprintf(&b, "Insegnante: %s\n", teacher.FullName())
	}
	if student != nil {
		fmt.Fprintf(&b, "Allievo: %s\n", student.FullName())
	}
	if slot.Notes != "" {
		fmt.Fprintf(&b, "Note: %s\n", slot.Notes)
	}
	return b.String()
}

func (s *SlotService) decorate(ctx context.Context, slot *domain.LessonSlot) (*ports.SlotView, error) {
	view := &ports.SlotView{Slot: slot}

	teacher, err := s.users.FindByID(ctx, slot.TeacherID)
	switch {
	case err == nil:
		view.TeacherFirstName = teacher.FirstName
		view.TeacherLastName = teacher.LastName
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	if slot.StudentID != "" {
		student, err := s.users.FindByID(ctx, slot.StudentID)
		switch {
		case err == nil:
			view.StudentFirstName = student.FirstName
			view.StudentLastName = student.LastName
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
	}
	return view, nil
}

func containsAny(values []string, wanted ...string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}
