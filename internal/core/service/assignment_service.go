package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// AssignmentService manages homework (compiti). Students may only flip
// the completion flag on their own rows.
type AssignmentService struct {
	assignments ports.AssignmentRepository
	users       ports.UserRepository
	logger      zerolog.Logger
}

func NewAssignmentService(assignments ports.AssignmentRepository, users ports.UserRepository, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{assignments: assignments, users: users, logger: logger}
}

func (s *AssignmentService) List(ctx context.Context, viewer *domain.User, filter ports.ListAssignmentsFilter) ([]*domain.Assignment, error) {
	switch viewer.Role {
	case domain.RoleStudent:
		filter.StudentID = viewer.ID
		filter.TeacherID = ""
	case domain.RoleTeacher:
		filter.TeacherID = viewer.ID
	}
	return s.assignments.List(ctx, filter)
}

func (s *AssignmentService) Create(ctx context.Context, teacher *domain.User, in ports.CreateAssignmentInput) (*domain.Assignment, error) {
	student, err := s.users.FindByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != domain.RoleStudent {
		return nil, domain.ErrRoleMismatch
	}

	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	assignment := &domain.Assignment{
		ID:          uuid.NewString(),
		TeacherID:   teacher.ID,
		StudentID:   in.StudentID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     due,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID).Str("allievo_id", in.StudentID).Msg("assignment created")
	return assignment, nil
}

func (s *AssignmentService) Update(ctx context.Context, editor *domain.User, id string, in ports.UpdateAssignmentInput) (*domain.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if editor.Role == domain.RoleStudent {
		if assignment.StudentID != editor.ID {
			return nil, domain.ErrForbidden
		}
		// Students only mark homework done or not done.
		if in.Title != nil || in.Description != nil || in.DueDate != nil {
			return nil, domain.ErrForbidden
		}
	}

	if in.Title != nil {
		assignment.Title = *in.Title
	}
	if in.Description != nil {
		assignment.Description = *in.Description
	}
	if in.DueDate != nil {
		due, err := parseDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		assignment.DueDate = due
	}
	if in.Completed != nil {
		assignment.Completed = *in.Completed
	}

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.assignments.FindByID(ctx, id); err != nil {
		return err
	}
	return s.assignments.Delete(ctx, id)
}
