package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// UserProfile pairs a user with its role-specific detail row. At most
// one of the detail pointers is set.
type UserProfile struct {
	User          *domain.User
	StudentDetail *domain.StudentDetail
	TeacherDetail *domain.TeacherDetail
}

type CreateUserInput struct {
	Role       domain.Role
	FirstName  string
	LastName   string
	Email      string
	Password   string
	BirthDate  string
	AdminNotes string
	TeacherID  string // students: assigned teacher
	Instrument string // teachers: taught instrument
}

// UpdateUserInput uses pointers so absent fields stay untouched.
type UpdateUserInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	BirthDate  *string
	Active     *bool
	FirstLogin *bool
	AdminNotes *string
	TeacherID  *string
	Instrument *string
}

// StudentDetailInput replaces the whole detail row on save.
type StudentDetailInput struct {
	Phone      string
	BirthDate  string
	MainCourse string
	Notes      string
}

// TeacherDetailInput replaces the whole detail row on save.
type TeacherDetailInput struct {
	Specialization string
	HourlyRate     float64
	Notes          string
}

// DuplicateCheck carries the fields an operator wants verified before
// registering a new person.
type DuplicateCheck struct {
	Email     string
	FirstName string
	LastName  string
	BirthDate string
}

type DuplicateCheckResult struct {
	Exists  bool
	Message string
}

type UserService interface {
	// List returns all users with their detail rows attached.
	List(ctx context.Context, filter ListUsersFilter) ([]*UserProfile, error)
	// Get returns one profile. Non-admin viewers may only read their own.
	Get(ctx context.Context, viewer *domain.User, id string) (*UserProfile, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	// Delete removes the user and its sessions, admin access and
	// detail rows.
	Delete(ctx context.Context, id string) error
	CheckDuplicates(ctx context.Context, in DuplicateCheck) (*DuplicateCheckResult, error)
	SaveStudentDetail(ctx context.Context, userID string, in StudentDetailInput) (*domain.StudentDetail, error)
	SaveTeacherDetail(ctx context.Context, userID string, in TeacherDetailInput) (*domain.TeacherDetail, error)
	SetAdminPIN(ctx context.Context, userID, pin string) error
	SecretaryPermissions(ctx context.Context, userID string) (*domain.SecretaryPermissions, error)
	SaveSecretaryPermissions(ctx context.Context, userID string, p domain.SecretaryPermissions) (*domain.SecretaryPermissions, error)
	// StudentsForTeacher lists active students, narrowed to the
	// viewer's specialization when the viewer is a teacher.
	StudentsForTeacher(ctx context.Context, viewer *domain.User) ([]*UserProfile, error)
}
