package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// CourseService manages the corsi catalogue.
type CourseService struct {
	courses ports.CourseRepository
	users   ports.UserRepository
	logger  zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, users ports.UserRepository, logger zerolog.Logger) *CourseService {
	return &CourseService{courses: courses, users: users, logger: logger}
}

func (s *CourseService) List(ctx context.Context, viewer *domain.User, filter ports.ListCoursesFilter) ([]*ports.CourseInfo, error) {
	if viewer.Role == domain.RoleTeacher {
		filter.TeacherID = viewer.ID
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	teachers, err := s.teacherNames(ctx, teacherIDsOfCourses(courses))
	if err != nil {
		return nil, err
	}

	infos := make([]*ports.CourseInfo, 0, len(courses))
	for _, c := range courses {
		info := &ports.CourseInfo{Course: c}
		if t, ok := teachers[c.TeacherID]; ok {
			info.TeacherFirstName = t.FirstName
			info.TeacherLastName = t.LastName
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *CourseService) Create(ctx context.Context, in ports.CreateCourseInput) (*domain.Course, error) {
	teacher, err := s.users.FindByID(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != domain.RoleTeacher {
		return nil, domain.ErrRoleMismatch
	}

	course := &domain.Course{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Instrument:  in.Instrument,
		TeacherID:   in.TeacherID,
		Description: in.Description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Str("course_id", course.ID).Str("strumento", course.Instrument).Msg("course created")
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id string, in ports.UpdateCourseInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
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
		course.TeacherID = *in.TeacherID
	}
	if in.Name != nil {
		course.Name = *in.Name
	}
	if in.Instrument != nil {
		course.Instrument = *in.Instrument
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Active != nil {
		course.Active = *in.Active
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		return err
	}
	return s.courses.Delete(ctx, id)
}

// teacherNames loads the given users keyed by id for list decoration.
func (s *CourseService) teacherNames(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	if len(ids) == 0 {
		return map[string]*domain.User{}, nil
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func teacherIDsOfCourses(courses []*domain.Course) []string {
	seen := make(map[string]struct{}, len(courses))
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		if _, ok := seen[c.TeacherID]; ok {
			continue
		}
		seen[c.TeacherID] = struct{}{}
		ids = append(ids, c.TeacherID)
	}
	return ids
}
