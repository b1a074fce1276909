package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// AttendanceService implements the lesson register. Teachers record
// rows; once saved, only administrators may change them.
type AttendanceService struct {
	attendance ports.AttendanceRepository
	logger     zerolog.Logger
}

func NewAttendanceService(attendance ports.AttendanceRepository, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{attendance: attendance, logger: logger}
}

func (s *AttendanceService) List(ctx context.Context, viewer *domain.User, filter ports.ListAttendanceFilter) ([]*domain.Attendance, error) {
	switch viewer.Role {
	case domain.RoleStudent:
		filter.StudentID = viewer.ID
		filter.TeacherID = ""
	case domain.RoleTeacher:
		// Teachers see what they recorded; the allievo_id filter stays.
		filter.TeacherID = viewer.ID
	}
	return s.attendance.List(ctx, filter)
}

func (s *AttendanceService) Create(ctx context.Context, recorder *domain.User, in ports.CreateAttendanceInput) (*domain.Attendance, error) {
	if !domain.ValidAttendanceStatus(in.Status) {
		return nil, domain.ErrInvalidAttendanceStatus
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	row := &domain.Attendance{
		ID:        uuid.NewString(),
		CourseID:  in.CourseID,
		LessonID:  in.LessonID,
		StudentID: in.StudentID,
		TeacherID: recorder.ID,
		Date:      date,
		Status:    in.Status,
		Notes:     in.Notes,
		CreatedAt: time.Now().UTC(),
	}
	if in.MakeupDate != "" {
		makeup, err := parseDate(in.MakeupDate)
		if err != nil {
			return nil, err
		}
		row.MakeupDate = &makeup
	}

	if err := s.attendance.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info().Str("attendance_id", row.ID).Str("allievo_id", row.StudentID).
		Str("stato", string(row.Status)).Msg("attendance recorded")
	return row, nil
}

func (s *AttendanceService) Update(ctx context.Context, editor *domain.User, id string, in ports.UpdateAttendanceInput) (*domain.Attendance, error) {
	if editor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	row, err := s.attendance.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !domain.ValidAttendanceStatus(*in.Status) {
			return nil, domain.ErrInvalidAttendanceStatus
		}
		row.Status = *in.Status
	}
	if in.Notes != nil {
		row.Notes = *in.Notes
	}
	if in.MakeupDate != nil {
		if *in.MakeupDate == "" {
			row.MakeupDate = nil
		} else {
			makeup, err := parseDate(*in.MakeupDate)
			if err != nil {
				return nil, err
			}
			row.MakeupDate = &makeup
		}
	}

	if err := s.attendance.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.attendance.FindByID(ctx, id); err != nil {
		return err
	}
	return s.attendance.Delete(ctx, id)
}
