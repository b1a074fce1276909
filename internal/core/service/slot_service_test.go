package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type stubSlotRepo struct {
	slots map[string]*domain.LessonSlot
}

func newStubSlotRepo(rows ...*domain.LessonSlot) *stubSlotRepo {
	r := &stubSlotRepo{slots: map[string]*domain.LessonSlot{}}
	for _, s := range rows {
		clone := *s
		r.slots[s.ID] = &clone
	}
	return r
}

func (r *stubSlotRepo) Create(_ context.Context, s *domain.LessonSlot) error {
	clone := *s
	r.slots[s.ID] = &clone
	return nil
}

func (r *stubSlotRepo) FindByID(_ context.Context, id string) (*domain.LessonSlot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSlotRepo) List(_ context.Context, filter ports.ListSlotsFilter) ([]*domain.LessonSlot, error) {
	var out []*domain.LessonSlot
	for _, s := range r.slots {
		if filter.TeacherID != "" && s.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubSlotRepo) Update(_ context.Context, s *domain.LessonSlot) error {
	if _, ok := r.slots[s.ID]; !ok {
		return domain.ErrSlotNotFound
	}
	clone := *s
	r.slots[s.ID] = &clone
	return nil
}

func (r *stubSlotRepo) Delete(_ context.Context, id string) error {
	delete(r.slots, id)
	return nil
}

func (r *stubSlotRepo) FindOverlapping(_ context.Context, teacherID string, start, end time.Time) (*domain.LessonSlot, error) {
	for _, s := range r.slots {
		if s.TeacherID != teacherID || s.Status == domain.SlotCancelled {
			continue
		}
		if s.Overlaps(start, end) {
			clone := *s
			return &clone, nil
		}
	}
	return nil, nil
}

type slotFixture struct {
	svc           *SlotService
	slots         *stubSlotRepo
	notifications *stubNotificationRepo
}

func newSlotFixture(users *stubUserRepo, slots *stubSlotRepo) *slotFixture {
	f := &slotFixture{slots: slots, notifications: &stubNotificationRepo{}}
	f.svc = NewSlotService(f.slots, users, f.notifications, zerolog.Nop())
	return f
}

func slotUsers() *stubUserRepo {
	return newStubUserRepo(
		&domain.User{ID: "t1", Role: domain.RoleTeacher, FirstName: "Mario", LastName: "Rossi", Active: true},
		&domain.User{ID: "s1", Role: domain.RoleStudent, FirstName: "Giulia", LastName: "Ferrari", Active: true},
		&domain.User{ID: "s2", Role: domain.RoleStudent, FirstName: "Luca", LastName: "Verdi", Active: true},
	)
}

func availableSlot(id string, start time.Time, minutes int) *domain.LessonSlot {
	return &domain.LessonSlot{
		ID:         id,
		TeacherID:  "t1",
		Instrument: "pianoforte",
		Start:      start,
		Duration:   minutes,
		Status:     domain.SlotAvailable,
		CreatedAt:  start.AddDate(0, 0, -7),
	}
}

func TestSlotCreate_RejectsOverlap(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	f := newSlotFixture(slotUsers(), newStubSlotRepo(availableSlot("sl1", start, 60)))

	// 15:30 starts inside the existing 15:00-16:00 window.
	_, err := f.svc.Create(context.Background(), ports.CreateSlotInput{
		TeacherID:  "t1",
		Instrument: "pianoforte",
		Date:       "2026-09-10",
		Hour:       "15:30",
		Duration:   60,
	})
	if !errors.Is(err, domain.ErrSlotOverlap) {
		t.Fatalf("expected ErrSlotOverlap, got %v", err)
	}
}

func TestSlotCreate_BackToBackIsAllowed(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	f := newSlotFixture(slotUsers(), newStubSlotRepo(availableSlot("sl1", start, 60)))

	// 16:00 begins exactly when the previous slot ends.
	view, err := f.svc.Create(context.Background(), ports.CreateSlotInput{
		TeacherID:  "t1",
		Instrument: "pianoforte",
		Date:       "2026-09-10",
		Hour:       "16:00",
		Duration:   60,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.Slot.Status != domain.SlotAvailable {
		t.Fatalf("new slot must start disponibile, got %s", view.Slot.Status)
	}
}

func TestSlotCreate_CancelledSlotsDoNotBlock(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	cancelled := availableSlot("sl1", start, 60)
	cancelled.Status = domain.SlotCancelled
	f := newSlotFixture(slotUsers(), newStubSlotRepo(cancelled))

	if _, err := f.svc.Create(context.Background(), ports.CreateSlotInput{
		TeacherID:  "t1",
		Instrument: "pianoforte",
		Date:       "2026-09-10",
		Hour:       "15:00",
		Duration:   60,
	}); err != nil {
		t.Fatalf("cancelled slots must not block, got %v", err)
	}
}

func TestSlotCreate_RequiresTeacherRole(t *testing.T) {
	f := newSlotFixture(slotUsers(), newStubSlotRepo())

	_, err := f.svc.Create(context.Background(), ports.CreateSlotInput{
		TeacherID:  "s1",
		Instrument: "pianoforte",
		Date:       "2026-09-10",
		Hour:       "15:00",
	})
	if !errors.Is(err, domain.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
}

func TestSlotBook_StudentBooksOwnLesson(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	f := newSlotFixture(slotUsers(), newStubSlotRepo(availableSlot("sl1", start, 60)))
	student := &domain.User{ID: "s1", Role: domain.RoleStudent}

	view, err := f.svc.Book(context.Background(), student, "sl1", "")
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if view.Slot.Status != domain.SlotBooked || view.Slot.StudentID != "s1" {
		t.Fatalf("unexpected slot after booking: %+v", view.Slot)
	}
	if view.Slot.BookedAt == nil {
		t.Fatalf("booking must stamp data_prenotazione")
	}
}

func TestSlotBook_StudentCannotBookForOthers(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	f := newSlotFixture(slotUsers(), newStubSlotRepo(availableSlot("sl1", start, 60)))
	student := &domain.User{ID: "s1", Role: domain.RoleStudent}

	if _, err := f.svc.Book(context.Background(), student, "sl1", "s2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSlotBook_AdminMustNameStudent(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	f := newSlotFixture(slotUsers(), newStubSlotRepo(availableSlot("sl1", start, 60)))
	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}

	if _, err := f.svc.Book(context.Background(), admin, "sl1", ""); !errors.Is(err, domain.ErrStudentRequired) {
		t.Fatalf("expected ErrStudentRequired, got %v", err)
	}
	if _, err := f.svc.Book(context.Background(), admin, "sl1", "s2"); err != nil {
		t.Fatalf("admin booking for a student failed: %v", err)
	}
}

func TestSlotBook_TakenSlotRejected(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	booked := availableSlot("sl1", start, 60)
	booked.Status = domain.SlotBooked
	booked.StudentID = "s2"
	f := newSlotFixture(slotUsers(), newStubSlotRepo(booked))
	student := &domain.User{ID: "s1", Role: domain.RoleStudent}

	if _, err := f.svc.Book(context.Background(), student, "sl1", ""); !errors.Is(err, domain.ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
	}
}

func TestSlotCancelBooking(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	booked := availableSlot("sl1", start, 60)
	booked.Status = domain.SlotBooked
	booked.StudentID = "s1"
	now := time.Now().UTC()
	booked.BookedAt = &now
	f := newSlotFixture(slotUsers(), newStubSlotRepo(booked))

	// Another student cannot free someone else's lesson.
	other := &domain.User{ID: "s2", Role: domain.RoleStudent}
	if _, err := f.svc.CancelBooking(context.Background(), other, "sl1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	owner := &domain.User{ID: "s1", Role: domain.RoleStudent}
	view, err := f.svc.CancelBooking(context.Background(), owner, "sl1")
	if err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}
	if view.Slot.Status != domain.SlotAvailable || view.Slot.StudentID != "" || view.Slot.BookedAt != nil {
		t.Fatalf("slot not fully freed: %+v", view.Slot)
	}
}

func TestSlotDelete_BookedSlotIsCancelledInstead(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	booked := availableSlot("sl1", start, 60)
	booked.Status = domain.SlotBooked
	booked.StudentID = "s1"
	f := newSlotFixture(slotUsers(), newStubSlotRepo(booked))

	result, err := f.svc.Delete(context.Background(), "sl1")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !result.Cancelled {
		t.Fatalf("booked slot must be cancelled, not removed")
	}
	if f.slots.slots["sl1"].Status != domain.SlotCancelled {
		t.Fatalf("slot row must flip to annullato")
	}
}

func TestSlotSendReminder_AddressesBothParties(t *testing.T) {
	start := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
	booked := availableSlot("sl1", start, 60)
	booked.Status = domain.SlotBooked
	booked.StudentID = "s1"
	f := newSlotFixture(slotUsers(), newStubSlotRepo(booked))

	result, err := f.svc.SendReminder(context.Background(), "sl1", ports.LessonReminderInput{
		Recipients: []string{"entrambi"},
	})
	if err != nil {
		t.Fatalf("SendReminder returned error: %v", err)
	}
	if len(result.Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %v", result.Recipients)
	}
	if len(f.notifications.created) != 2 {
		t.Fatalf("expected one notification per recipient, got %d", len(f.notifications.created))
	}
	for _, n := range f.notifications.created {
		if n.Type != domain.NotificationLesson || n.ReferenceID != "sl1" {
			t.Fatalf("unexpected notification: %+v", n)
		}
		if !strings.Contains(n.Message, "pianoforte") {
			t.Fatalf("reminder must mention the instrument: %q", n.Message)
		}
	}
}
