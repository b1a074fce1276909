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

const defaultLessonMinutes = 60

// LessonService manages scheduled lezioni occurrences.
type LessonService struct {
	lessons ports.LessonRepository
	courses ports.CourseRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewLessonService(
	lessons ports.LessonRepository,
	courses ports.CourseRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *LessonService {
	return &LessonService{lessons: lessons, courses: courses, users: users, logger: logger}
}

func (s *LessonService) List(ctx context.Context, viewer *domain.User, filter ports.ListLessonsFilter) ([]*ports.LessonInfo, error) {
	if viewer.Role == domain.RoleTeacher {
		filter.TeacherID = viewer.ID
	}

	lessons, err := s.lessons.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]*ports.LessonInfo, 0, len(lessons))
	for _, l := range lessons {
		info := &ports.LessonInfo{Lesson: l}

		course, err := s.courses.FindByID(ctx, l.CourseID)
		switch {
		case err == nil:
			info.CourseName = course.Name
			info.CourseInstrument = course.Instrument
		case !errors.Is(err, domain.ErrCourseNotFound):
			return nil, err
		}

		teacher, err := s.users.FindByID(ctx, l.TeacherID)
		switch {
		case err == nil:
			info.TeacherFirstName = teacher.FirstName
			info.TeacherLastName = teacher.LastName
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}

		infos = append(infos, info)
	}
	return infos, nil
}

func (s *LessonService) Create(ctx context.Context, in ports.CreateLessonInput) (*domain.Lesson, error) {
	course, err := s.courses.FindByID(ctx, in.CourseID)
	if err != nil {
		return nil, err
	}

	teacherID := in.TeacherID
	if teacherID == "" {
		teacherID = course.TeacherID
	}

	date, err := parseDateHour(in.Date, in.Hour)
	if err != nil {
		return nil, err
	}

	duration := in.Duration
	if duration <= 0 {
		duration = defaultLessonMinutes
	}

	lesson := &domain.Lesson{
		ID:        uuid.NewString(),
		CourseID:  in.CourseID,
		TeacherID: teacherID,
		Date:      date,
		Hour:      in.Hour,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	s.logger.Info().Str("lesson_id", lesson.ID).Str("course_id", lesson.CourseID).Msg("lesson scheduled")
	return lesson, nil
}

func (s *LessonService) Update(ctx context.Context, id string, in ports.UpdateLessonInput) (*domain.Lesson, error) {
	lesson, err := s.lessons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Date != nil || in.Hour != nil {
		date := lesson.Date.Format(dateLayout)
		hour := lesson.Hour
		if in.Date != nil {
			date = *in.Date
		}
		if in.Hour != nil {
			hour = *in.Hour
		}
		when, err := parseDateHour(date, hour)
		if err != nil {
			return nil, err
		}
		lesson.Date = when
		lesson.Hour = hour
	}
	if in.Duration != nil && *in.Duration > 0 {
		lesson.Duration = *in.Duration
	}
	if in.Notes != nil {
		lesson.Notes = *in.Notes
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(ctx context.Context, id string) error {
	if _, err := s.lessons.FindByID(ctx, id); err != nil {
		return err
	}
	return s.lessons.Delete(ctx, id)
}
