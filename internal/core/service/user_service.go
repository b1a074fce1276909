package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// defaultAdminPIN is assigned when an amministratore account is created;
// operators are expected to replace it from the PIN management screen.
const defaultAdminPIN = "1234"

const minPINLength = 4

// UserService implements account management: CRUD, role detail rows,
// admin PIN rotation and secretary capability sets.
type UserService struct {
	users       ports.UserRepository
	details     ports.DetailRepository
	sessions    ports.SessionRepository
	admins      ports.AdminAccessRepository
	permissions ports.PermissionsRepository
	logger      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	details ports.DetailRepository,
	sessions ports.SessionRepository,
	admins ports.AdminAccessRepository,
	permissions ports.PermissionsRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:       users,
		details:     details,
		sessions:    sessions,
		admins:      admins,
		permissions: permissions,
		logger:      logger,
	}
}

func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) ([]*ports.UserProfile, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	profiles := make([]*ports.UserProfile, 0, len(users))
	for _, u := range users {
		p, err := s.profileOf(ctx, u)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *UserService) Get(ctx context.Context, viewer *domain.User, id string) (*ports.UserProfile, error) {
	if viewer.Role != domain.RoleAdmin && viewer.ID != id {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profileOf(ctx, user)
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrRoleMismatch, in.Role)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.EmailInUse(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := hashSecret(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Role:         in.Role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		BirthDate:    in.BirthDate,
		Active:       true,
		FirstLogin:   true,
		CreatedAt:    time.Now().UTC(),
		AdminNotes:   in.AdminNotes,
	}
	switch in.Role {
	case domain.RoleStudent:
		user.TeacherID = in.TeacherID
	case domain.RoleTeacher:
		user.Instrument = in.Instrument
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// New administrators start with the default PIN so the two-step
	// login works out of the box.
	if in.Role == domain.RoleAdmin {
		pinHash, err := hashSecret(defaultAdminPIN)
		if err != nil {
			return nil, err
		}
		access := &domain.AdminAccess{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			PINHash:   pinHash,
			PINActive: true,
		}
		if err := s.admins.Upsert(ctx, access); err != nil {
			return nil, fmt.Errorf("create admin access: %w", err)
		}
	}

	s.logger.Info().Str("user_id", user.ID).Str("ruolo", string(user.Role)).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		taken, err := s.users.EmailInUse(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = email
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := hashSecret(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.BirthDate != nil {
		user.BirthDate = *in.BirthDate
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.FirstLogin != nil {
		user.FirstLogin = *in.FirstLogin
	}
	if in.AdminNotes != nil {
		user.AdminNotes = *in.AdminNotes
	}
	if in.TeacherID != nil {
		user.TeacherID = *in.TeacherID
	}
	if in.Instrument != nil {
		user.Instrument = *in.Instrument
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account together with its sessions, admin access
// and detail rows so no orphaned credentials survive.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to drop sessions of deleted user")
	}
	if err := s.admins.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to drop admin access of deleted user")
	}
	if err := s.details.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("user_id", id).Msg("failed to drop detail rows of deleted user")
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) CheckDuplicates(ctx context.Context, in ports.DuplicateCheck) (*ports.DuplicateCheckResult, error) {
	if in.Email != "" {
		_, err := s.users.FindByEmail(ctx, strings.ToLower(in.Email))
		switch {
		case err == nil:
			return &ports.DuplicateCheckResult{
				Exists:  true,
				Message: "Un utente con questa email esiste già",
			}, nil
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
	}

	if in.FirstName != "" && in.LastName != "" && in.BirthDate != "" {
		matches, err := s.users.FindByName(ctx, in.FirstName, in.LastName)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if m.BirthDate == in.BirthDate {
				return &ports.DuplicateCheckResult{
					Exists:  true,
					Message: "Un utente con questo nome e data di nascita esiste già",
				}, nil
			}
		}
	}

	return &ports.DuplicateCheckResult{Exists: false}, nil
}

func (s *UserService) SaveStudentDetail(ctx context.Context, userID string, in ports.StudentDetailInput) (*domain.StudentDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleStudent {
		return nil, domain.ErrRoleMismatch
	}

	detail := &domain.StudentDetail{
		ID:         uuid.NewString(),
		UserID:     userID,
		Phone:      in.Phone,
		BirthDate:  in.BirthDate,
		MainCourse: in.MainCourse,
		TeacherID:  user.TeacherID,
		Notes:      in.Notes,
	}
	if err := s.details.UpsertStudentDetail(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *UserService) SaveTeacherDetail(ctx context.Context, userID string, in ports.TeacherDetailInput) (*domain.TeacherDetail, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleTeacher {
		return nil, domain.ErrRoleMismatch
	}

	detail := &domain.TeacherDetail{
		ID:             uuid.NewString(),
		UserID:         userID,
		Specialization: in.Specialization,
		HourlyRate:     in.HourlyRate,
		Notes:          in.Notes,
	}
	if err := s.details.UpsertTeacherDetail(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *UserService) SetAdminPIN(ctx context.Context, userID, pin string) error {
	if len(pin) < minPINLength {
		return domain.ErrPINTooShort
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin {
		return domain.ErrRoleMismatch
	}

	hash, err := hashSecret(pin)
	if err != nil {
		return err
	}
	if err := s.admins.SetPIN(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Msg("admin pin updated")
	return nil
}

func (s *UserService) SecretaryPermissions(ctx context.Context, userID string) (*domain.SecretaryPermissions, error) {
	perms, err := s.permissions.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrPermissionsNotFound) {
			def := domain.DefaultSecretaryPermissions(userID)
			return &def, nil
		}
		return nil, err
	}
	return perms, nil
}

func (s *UserService) SaveSecretaryPermissions(ctx context.Context, userID string, p domain.SecretaryPermissions) (*domain.SecretaryPermissions, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	p.UserID = userID
	p.UpdatedAt = time.Now().UTC()
	if err := s.permissions.Upsert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// StudentsForTeacher returns the active students a teacher works with:
// those whose corso_principale matches the teacher's specializzazione.
// Administrators get every active student.
func (s *UserService) StudentsForTeacher(ctx context.Context, viewer *domain.User) ([]*ports.UserProfile, error) {
	active := true

	if viewer.Role != domain.RoleTeacher {
		return s.List(ctx, ports.ListUsersFilter{Role: domain.RoleStudent, Active: &active})
	}

	detail, err := s.details.FindTeacherDetail(ctx, viewer.ID)
	if err != nil {
		if errors.Is(err, domain.ErrDetailNotFound) {
			return []*ports.UserProfile{}, nil
		}
		return nil, err
	}
	if detail.Specialization == "" {
		return []*ports.UserProfile{}, nil
	}

	studentDetails, err := s.details.FindStudentsByMainCourse(ctx, detail.Specialization)
	if err != nil {
		return nil, err
	}

	profiles := make([]*ports.UserProfile, 0, len(studentDetails))
	for _, d := range studentDetails {
		user, err := s.users.FindByID(ctx, d.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		if !user.Active {
			continue
		}
		profiles = append(profiles, &ports.UserProfile{User: user, StudentDetail: d})
	}
	return profiles, nil
}

func (s *UserService) profileOf(ctx context.Context, user *domain.User) (*ports.UserProfile, error) {
	profile := &ports.UserProfile{User: user}

	switch user.Role {
	case domain.RoleStudent:
		detail, err := s.details.FindStudentDetail(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrDetailNotFound) {
			return nil, err
		}
		profile.StudentDetail = detail
	case domain.RoleTeacher:
		detail, err := s.details.FindTeacherDetail(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrDetailNotFound) {
			return nil, err
		}
		profile.TeacherDetail = detail
	}
	return profile, nil
}

func hashSecret(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}
