package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// CompensationService manages per-teacher rates and computes period
// compensation from the attendance register.
type CompensationService struct {
	rates      ports.CompensationRepository
	attendance ports.AttendanceRepository
	users      ports.UserRepository
	logger     zerolog.Logger
}

func NewCompensationService(
	rates ports.CompensationRepository,
	attendance ports.AttendanceRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *CompensationService {
	return &CompensationService{rates: rates, attendance: attendance, users: users, logger: logger}
}

func (s *CompensationService) List(ctx context.Context, viewer *domain.User, teacherID string) ([]*domain.CompensationRate, error) {
	if viewer.Role == domain.RoleTeacher {
		teacherID = viewer.ID
	}
	return s.rates.List(ctx, teacherID)
}

func (s *CompensationService) Create(ctx context.Context, in ports.CreateCompensationInput) (*domain.CompensationRate, error) {
	teacher, err := s.users.FindByID(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != domain.RoleTeacher {
		return nil, domain.ErrRoleMismatch
	}

	rate := &domain.CompensationRate{
		ID:            uuid.NewString(),
		TeacherID:     in.TeacherID,
		CourseID:      in.CourseID,
		RatePerLesson: in.RatePerLesson,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.rates.Create(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *CompensationService) Update(ctx context.Context, id string, in ports.UpdateCompensationInput) (*domain.CompensationRate, error) {
	rate, err := s.rates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.RatePerLesson != nil {
		rate.RatePerLesson = *in.RatePerLesson
	}
	if in.CourseID != nil {
		rate.CourseID = *in.CourseID
	}
	if err := s.rates.Update(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *CompensationService) Delete(ctx context.Context, id string) error {
	if _, err := s.rates.FindByID(ctx, id); err != nil {
		return err
	}
	return s.rates.Delete(ctx, id)
}

// Calculate tallies the teacher's register rows in [fromDate, toDate].
// Paid: presente, assente non giustificato, and justified absences with
// a recorded makeup date. Justified absences without one are unpaid.
func (s *CompensationService) Calculate(ctx context.Context, viewer *domain.User, teacherID, fromDate, toDate string) (*ports.CompensationBreakdown, error) {
	if viewer.Role == domain.RoleTeacher && viewer.ID != teacherID {
		return nil, domain.ErrForbidden
	}

	from, err := parseDate(fromDate)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(toDate)
	if err != nil {
		return nil, err
	}

	rate := domain.DefaultAttendanceRate
	configured, err := s.rates.FindByTeacher(ctx, teacherID)
	switch {
	case err == nil:
		rate = configured.RatePerLesson
	case !errors.Is(err, domain.ErrCompensationNotFound):
		return nil, err
	}

	rows, err := s.attendance.List(ctx, ports.ListAttendanceFilter{
		TeacherID: teacherID,
		From:      from,
		To:        to,
	})
	if err != nil {
		return nil, err
	}

	b := &ports.CompensationBreakdown{
		TeacherID:     teacherID,
		From:          fromDate,
		To:            toDate,
		RatePerLesson: rate,
	}
	for _, r := range rows {
		switch r.Status {
		case domain.AttendancePresent:
			b.Present++
		case domain.AttendanceUnjustified:
			b.Absent++
		case domain.AttendanceJustified:
			b.Justified++
			if r.MakeupDate != nil {
				b.Makeups++
			}
		case domain.AttendanceMakeupLesson:
			b.Makeups++
		}
	}

	b.PayableLessons = b.Present + b.Absent + b.Makeups
	b.Total = float64(b.PayableLessons) * rate
	return b, nil
}
