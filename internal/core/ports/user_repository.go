package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// ListUsersFilter narrows user listings.
type ListUsersFilter struct {
	Role   domain.Role // empty = all roles
	Active *bool       // nil = both active and disabled
}

// UserRepository persists utenti rows.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	// EmailInUse reports whether another user already has the email.
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	// FindByName matches nome and cognome case-insensitively.
	FindByName(ctx context.Context, firstName, lastName string) ([]*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role, activeOnly bool) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// DetailRepository persists the role-specific detail rows kept in
// allievi_dettaglio and insegnanti_dettaglio.
type DetailRepository interface {
	FindStudentDetail(ctx context.Context, userID string) (*domain.StudentDetail, error)
	UpsertStudentDetail(ctx context.Context, d *domain.StudentDetail) error
	FindTeacherDetail(ctx context.Context, userID string) (*domain.TeacherDetail, error)
	UpsertTeacherDetail(ctx context.Context, d *domain.TeacherDetail) error
	// FindStudentsByMainCourse returns student details whose
	// corso_principale equals course.
	FindStudentsByMainCourse(ctx context.Context, course string) ([]*domain.StudentDetail, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// PermissionsRepository persists segretaria capability rows.
type PermissionsRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.SecretaryPermissions, error)
	Upsert(ctx context.Context, p *domain.SecretaryPermissions) error
}
