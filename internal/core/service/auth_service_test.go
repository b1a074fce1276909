package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		clone := *u
		r.users[u.ID] = &clone
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailAndRole(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Role == role {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context, _ ports.ListUsersFilter) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) EmailInUse(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindByName(_ context.Context, _, _ string) ([]*domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role, activeOnly bool) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role && (!activeOnly || u.Active) {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubSessionRepo struct {
	sessions map[string]*domain.Session // keyed by token
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	clone := *s
	r.sessions[s.Token] = &clone
	return nil
}

func (r *stubSessionRepo) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) error {
	if _, ok := r.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return nil
}

func (r *stubSessionRepo) DeleteByUser(_ context.Context, userID string) error {
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

type stubAdminRepo struct {
	access map[string]*domain.AdminAccess // keyed by user id
}

func newStubAdminRepo(rows ...*domain.AdminAccess) *stubAdminRepo {
	r := &stubAdminRepo{access: map[string]*domain.AdminAccess{}}
	for _, a := range rows {
		clone := *a
		r.access[a.UserID] = &clone
	}
	return r
}

func (r *stubAdminRepo) FindByUser(_ context.Context, userID string) (*domain.AdminAccess, error) {
	a, ok := r.access[userID]
	if !ok {
		return nil, domain.ErrPINNotConfigured
	}
	clone := *a
	return &clone, nil
}

func (r *stubAdminRepo) Upsert(_ context.Context, a *domain.AdminAccess) error {
	clone := *a
	r.access[a.UserID] = &clone
	return nil
}

func (r *stubAdminRepo) SetPIN(_ context.Context, userID, pinHash string) error {
	a, ok := r.access[userID]
	if !ok {
		a = &domain.AdminAccess{UserID: userID}
		r.access[userID] = a
	}
	a.PINHash = pinHash
	a.PINActive = true
	return nil
}

func (r *stubAdminRepo) RecordIdentity(_ context.Context, userID, googleID string, at time.Time) error {
	a, ok := r.access[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	a.GoogleID = googleID
	a.LastAccess = &at
	return nil
}

func (r *stubAdminRepo) DeleteByUser(_ context.Context, userID string) error {
	delete(r.access, userID)
	return nil
}

type stubDetailRepo struct {
	students map[string]*domain.StudentDetail
	teachers map[string]*domain.TeacherDetail
}

func newStubDetailRepo() *stubDetailRepo {
	return &stubDetailRepo{
		students: map[string]*domain.StudentDetail{},
		teachers: map[string]*domain.TeacherDetail{},
	}
}

func (r *stubDetailRepo) FindStudentDetail(_ context.Context, userID string) (*domain.StudentDetail, error) {
	d, ok := r.students[userID]
	if !ok {
		return nil, domain.ErrDetailNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDetailRepo) UpsertStudentDetail(_ context.Context, d *domain.StudentDetail) error {
	clone := *d
	r.students[d.UserID] = &clone
	return nil
}

func (r *stubDetailRepo) FindTeacherDetail(_ context.Context, userID string) (*domain.TeacherDetail, error) {
	d, ok := r.teachers[userID]
	if !ok {
		return nil, domain.ErrDetailNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDetailRepo) UpsertTeacherDetail(_ context.Context, d *domain.TeacherDetail) error {
	clone := *d
	r.teachers[d.UserID] = &clone
	return nil
}

func (r *stubDetailRepo) FindStudentsByMainCourse(_ context.Context, _ string) ([]*domain.StudentDetail, error) {
	return nil, nil
}

func (r *stubDetailRepo) DeleteByUser(_ context.Context, userID string) error {
	delete(r.students, userID)
	delete(r.teachers, userID)
	return nil
}

type stubChallengeStore struct {
	pending map[string]bool
}

func newStubChallengeStore() *stubChallengeStore {
	return &stubChallengeStore{pending: map[string]bool{}}
}

func (s *stubChallengeStore) Put(_ context.Context, email string) error {
	s.pending[email] = true
	return nil
}

func (s *stubChallengeStore) Consume(_ context.Context, email string) (bool, error) {
	if !s.pending[email] {
		return false, nil
	}
	delete(s.pending, email)
	return true, nil
}

type stubVerifier struct {
	claims *ports.IdentityClaims
	err    error
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (*ports.IdentityClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

type authFixture struct {
	svc        *AuthService
	users      *stubUserRepo
	sessions   *stubSessionRepo
	admins     *stubAdminRepo
	challenges *stubChallengeStore
	verifier   *stubVerifier
}

func newAuthFixture(t *testing.T, users *stubUserRepo, admins *stubAdminRepo) *authFixture {
	t.Helper()
	f := &authFixture{
		users:      users,
		sessions:   newStubSessionRepo(),
		admins:     admins,
		challenges: newStubChallengeStore(),
		verifier:   &stubVerifier{},
	}
	f.svc = NewAuthService(
		f.users, f.sessions, f.admins, newStubDetailRepo(),
		f.challenges, f.verifier,
		"test-secret", time.Hour, zerolog.Nop(),
	)
	return f
}

func studentUser(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           "u1",
		Role:         domain.RoleStudent,
		FirstName:    "Giulia",
		LastName:     "Ferrari",
		Email:        "giulia@example.it",
		PasswordHash: mustHash(t, "student123"),
		Active:       true,
	}
}

func adminUser(t *testing.T) *domain.User {
	t.Helper()
	return &domain.User{
		ID:           "a1",
		Role:         domain.RoleAdmin,
		FirstName:    "Anna",
		LastName:     "Bianchi",
		Email:        "admin@example.it",
		PasswordHash: mustHash(t, "adminpass"),
		Active:       true,
	}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	result, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "giulia@example.it",
		Password: "student123",
		Device:   "test-agent",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}
	if result.Profile.User.Role != domain.RoleStudent {
		t.Fatalf("unexpected role: %s", result.Profile.User.Role)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["ruolo"] != string(domain.RoleStudent) {
		t.Fatalf("unexpected ruolo claim: %v", claims["ruolo"])
	}

	if _, err := f.sessions.FindByToken(context.Background(), result.Token); err != nil {
		t.Fatalf("session row missing: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	_, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "giulia@example.it",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmailHidesExistence(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(), newStubAdminRepo())

	_, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "ghost@example.it",
		Password: "pass",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_DisabledUser(t *testing.T) {
	user := studentUser(t)
	user.Active = false
	f := newAuthFixture(t, newStubUserRepo(user), newStubAdminRepo())

	_, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "giulia@example.it",
		Password: "student123",
	})
	if !errors.Is(err, domain.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestVerifyAdminPIN_Success(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo(&domain.AdminAccess{
		UserID:    admin.ID,
		PINHash:   mustHash(t, "1234"),
		PINActive: true,
	}))

	result, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it",
		PIN:   "1234",
	})
	if err != nil {
		t.Fatalf("VerifyAdminPIN returned error: %v", err)
	}
	if result.TempToken == "" {
		t.Fatalf("expected a temp token")
	}
	if !f.challenges.pending["admin@example.it"] {
		t.Fatalf("expected a pending challenge after PIN verification")
	}
}

func TestVerifyAdminPIN_WrongPIN(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo(&domain.AdminAccess{
		UserID:    admin.ID,
		PINHash:   mustHash(t, "1234"),
		PINActive: true,
	}))

	_, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it",
		PIN:   "9999",
	})
	if !errors.Is(err, domain.ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
	if f.challenges.pending["admin@example.it"] {
		t.Fatalf("rejected PIN must not create a challenge")
	}
}

func TestVerifyAdminPIN_NotConfigured(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(adminUser(t)), newStubAdminRepo())

	_, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it",
		PIN:   "1234",
	})
	if !errors.Is(err, domain.ErrPINNotConfigured) {
		t.Fatalf("expected ErrPINNotConfigured, got %v", err)
	}
}

func TestVerifyAdminPIN_NonAdminAccount(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	_, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "giulia@example.it",
		PIN:   "1234",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCompleteAdminLogin_Success(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo(&domain.AdminAccess{
		UserID:    admin.ID,
		PINHash:   mustHash(t, "1234"),
		PINActive: true,
	}))
	f.verifier.claims = &ports.IdentityClaims{Subject: "google-sub-1", Email: "Admin@Example.it"}

	if _, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it", PIN: "1234",
	}); err != nil {
		t.Fatalf("pin step failed: %v", err)
	}

	result, err := f.svc.CompleteAdminLogin(context.Background(), ports.AdminGoogleInput{
		Email:     "admin@example.it",
		SessionID: "sess-123",
	})
	if err != nil {
		t.Fatalf("CompleteAdminLogin returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a token")
	}

	access, _ := f.admins.FindByUser(context.Background(), admin.ID)
	if access.GoogleID != "google-sub-1" {
		t.Fatalf("identity subject not recorded: %q", access.GoogleID)
	}
}

func TestCompleteAdminLogin_WithoutChallenge(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo())
	f.verifier.claims = &ports.IdentityClaims{Subject: "sub", Email: "admin@example.it"}

	_, err := f.svc.CompleteAdminLogin(context.Background(), ports.AdminGoogleInput{
		Email:     "admin@example.it",
		SessionID: "sess-123",
	})
	if !errors.Is(err, domain.ErrChallengeRequired) {
		t.Fatalf("expected ErrChallengeRequired, got %v", err)
	}
}

func TestCompleteAdminLogin_ChallengeIsOneShot(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo(&domain.AdminAccess{
		UserID:    admin.ID,
		PINHash:   mustHash(t, "1234"),
		PINActive: true,
	}))
	f.verifier.claims = &ports.IdentityClaims{Subject: "sub", Email: "admin@example.it"}

	if _, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it", PIN: "1234",
	}); err != nil {
		t.Fatalf("pin step failed: %v", err)
	}

	input := ports.AdminGoogleInput{Email: "admin@example.it", SessionID: "sess-123"}
	if _, err := f.svc.CompleteAdminLogin(context.Background(), input); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if _, err := f.svc.CompleteAdminLogin(context.Background(), input); !errors.Is(err, domain.ErrChallengeRequired) {
		t.Fatalf("expected ErrChallengeRequired on replay, got %v", err)
	}
}

func TestCompleteAdminLogin_IdentityMismatch(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo(&domain.AdminAccess{
		UserID:    admin.ID,
		PINHash:   mustHash(t, "1234"),
		PINActive: true,
	}))
	f.verifier.claims = &ports.IdentityClaims{Subject: "sub", Email: "someone.else@example.it"}

	if _, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it", PIN: "1234",
	}); err != nil {
		t.Fatalf("pin step failed: %v", err)
	}

	_, err := f.svc.CompleteAdminLogin(context.Background(), ports.AdminGoogleInput{
		Email:     "admin@example.it",
		SessionID: "sess-123",
	})
	if !errors.Is(err, domain.ErrIdentityMismatch) {
		t.Fatalf("expected ErrIdentityMismatch, got %v", err)
	}
}

func TestCompleteAdminLogin_ProviderRejection(t *testing.T) {
	admin := adminUser(t)
	f := newAuthFixture(t, newStubUserRepo(admin), newStubAdminRepo(&domain.AdminAccess{
		UserID:    admin.ID,
		PINHash:   mustHash(t, "1234"),
		PINActive: true,
	}))
	f.verifier.err = domain.ErrIdentityRejected

	if _, err := f.svc.VerifyAdminPIN(context.Background(), ports.AdminPINInput{
		Email: "admin@example.it", PIN: "1234",
	}); err != nil {
		t.Fatalf("pin step failed: %v", err)
	}

	_, err := f.svc.CompleteAdminLogin(context.Background(), ports.AdminGoogleInput{
		Email:     "admin@example.it",
		SessionID: "bad-session",
	})
	if !errors.Is(err, domain.ErrIdentityRejected) {
		t.Fatalf("expected ErrIdentityRejected, got %v", err)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	result, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "giulia@example.it",
		Password: "student123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	user, err := f.svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(), newStubAdminRepo())

	if _, err := f.svc.Authenticate(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthenticate_ExpiredSessionIsDropped(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	past := time.Now().UTC().Add(-time.Hour)
	_ = f.sessions.Create(context.Background(), &domain.Session{
		ID:        "s1",
		UserID:    "u1",
		Token:     "stale-token",
		CreatedAt: past.Add(-time.Hour),
		ExpiresAt: past,
	})

	if _, err := f.svc.Authenticate(context.Background(), "stale-token"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := f.sessions.sessions["stale-token"]; ok {
		t.Fatalf("expired session row must be deleted")
	}
}

func TestAuthenticate_DisabledUserRevoked(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	result, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "giulia@example.it",
		Password: "student123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	stored := f.users.users["u1"]
	stored.Active = false

	if _, err := f.svc.Authenticate(context.Background(), result.Token); !errors.Is(err, domain.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestLogout_RemovesSession(t *testing.T) {
	f := newAuthFixture(t, newStubUserRepo(studentUser(t)), newStubAdminRepo())

	result, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "giulia@example.it",
		Password: "student123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := f.svc.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, err := f.svc.Authenticate(context.Background(), result.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
	// A second logout with the same token is a no-op.
	if err := f.svc.Logout(context.Background(), result.Token); err != nil {
		t.Fatalf("repeat Logout returned error: %v", err)
	}
}
