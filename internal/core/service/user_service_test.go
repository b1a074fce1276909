package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
)

type stubPermissionsRepo struct {
	rows map[string]*domain.SecretaryPermissions // keyed by user id
}

func newStubPermissionsRepo() *stubPermissionsRepo {
	return &stubPermissionsRepo{rows: map[string]*domain.SecretaryPermissions{}}
}

func (r *stubPermissionsRepo) FindByUser(_ context.Context, userID string) (*domain.SecretaryPermissions, error) {
	p, ok := r.rows[userID]
	if !ok {
		return nil, domain.ErrPermissionsNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPermissionsRepo) Upsert(_ context.Context, p *domain.SecretaryPermissions) error {
	clone := *p
	r.rows[p.UserID] = &clone
	return nil
}

type userFixture struct {
	svc         *UserService
	users       *stubUserRepo
	permissions *stubPermissionsRepo
}

func newUserFixture(users ...*domain.User) *userFixture {
	f := &userFixture{
		users:       newStubUserRepo(users...),
		permissions: newStubPermissionsRepo(),
	}
	f.svc = NewUserService(
		f.users,
		newStubDetailRepo(),
		newStubSessionRepo(),
		newStubAdminRepo(),
		f.permissions,
		zerolog.Nop(),
	)
	return f
}

func TestSecretaryPermissionsDefaults(t *testing.T) {
	f := newUserFixture()

	perms, err := f.svc.SecretaryPermissions(context.Background(), "sec-1")
	if err != nil {
		t.Fatalf("permissions lookup: %v", err)
	}
	if !perms.ViewCalendar {
		t.Fatal("calendar viewing should be granted by default")
	}
	if perms.ManageUsers || perms.EditPayments || perms.SendNotifications {
		t.Fatal("no other capability should be granted by default")
	}
	if !perms.UpdatedAt.IsZero() {
		t.Fatal("defaults were never saved, so no update timestamp is expected")
	}
}

func TestSaveSecretaryPermissionsStampsUpdate(t *testing.T) {
	secretary := &domain.User{ID: "sec-1", Role: domain.RoleSecretary, Active: true}
	f := newUserFixture(secretary)

	saved, err := f.svc.SaveSecretaryPermissions(context.Background(), secretary.ID, domain.SecretaryPermissions{
		ViewPayments: true,
		ViewCalendar: true,
	})
	if err != nil {
		t.Fatalf("save permissions: %v", err)
	}
	if saved.UserID != secretary.ID {
		t.Fatalf("saved row belongs to %q, want %q", saved.UserID, secretary.ID)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("saving must stamp data_aggiornamento")
	}

	stored, err := f.permissions.FindByUser(context.Background(), secretary.ID)
	if err != nil {
		t.Fatalf("stored row lookup: %v", err)
	}
	if !stored.ViewPayments || stored.UpdatedAt.IsZero() {
		t.Fatalf("stored row = %+v, want payments capability and update timestamp persisted", stored)
	}
}

func TestSaveSecretaryPermissionsUnknownUser(t *testing.T) {
	f := newUserFixture()

	if _, err := f.svc.SaveSecretaryPermissions(context.Background(), "ghost", domain.SecretaryPermissions{}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("save for unknown user = %v, want ErrUserNotFound", err)
	}
}
