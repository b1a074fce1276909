package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// seedMaxExistingUsers keeps the endpoint inert on populated databases.
const seedMaxExistingUsers = 3

// SeedService loads the demo dataset: one administrator, four teachers
// with details, five students with details, three payments and two
// notifications.
type SeedService struct {
	users         ports.UserRepository
	details       ports.DetailRepository
	admins        ports.AdminAccessRepository
	payments      ports.PaymentRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewSeedService(
	users ports.UserRepository,
	details ports.DetailRepository,
	admins ports.AdminAccessRepository,
	payments ports.PaymentRepository,
	notifications ports.NotificationRepository,
	logger zerolog.Logger,
) *SeedService {
	return &SeedService{
		users:         users,
		details:       details,
		admins:        admins,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *SeedService) Seed(ctx context.Context) (*ports.SeedSummary, error) {
	existing, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing > seedMaxExistingUsers {
		return &ports.SeedSummary{Skipped: true}, nil
	}

	now := time.Now().UTC()

	adminHash, err := hashSecret("Accademia2026")
	if err != nil {
		return nil, err
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Role:         domain.RoleAdmin,
		FirstName:    "Admin",
		LastName:     "Accademia",
		Email:        "acc.imusici@gmail.com",
		PasswordHash: adminHash,
		Active:       true,
		CreatedAt:    now,
		AdminNotes:   "Account amministratore principale",
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}

	pinHash, err := hashSecret(defaultAdminPIN)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Upsert(ctx, &domain.AdminAccess{
		ID:        uuid.NewString(),
		UserID:    admin.ID,
		PINHash:   pinHash,
		PINActive: true,
	}); err != nil {
		return nil, err
	}

	teacherHash, err := hashSecret("teacher123")
	if err != nil {
		return nil, err
	}
	teachers := []struct {
		first, last, email, spec string
		rate                     float64
	}{
		{"Mario", "Rossi", "mario.rossi@musici.it", domain.InstrumentPiano, 30.0},
		{"Lucia", "Bianchi", "lucia.bianchi@musici.it", domain.InstrumentViolin, 35.0},
		{"Paolo", "Verdi", "paolo.verdi@musici.it", domain.InstrumentGuitar, 28.0},
		{"Anna", "Neri", "anna.neri@musici.it", domain.InstrumentVoice, 32.0},
	}
	for _, t := range teachers {
		teacher := &domain.User{
			ID:           uuid.NewString(),
			Role:         domain.RoleTeacher,
			FirstName:    t.first,
			LastName:     t.last,
			Email:        t.email,
			PasswordHash: teacherHash,
			Active:       true,
			CreatedAt:    now,
			Instrument:   t.spec,
		}
		if err := s.users.Create(ctx, teacher); err != nil {
			return nil, err
		}
		if err := s.details.UpsertTeacherDetail(ctx, &domain.TeacherDetail{
			ID:             uuid.NewString(),
			UserID:         teacher.ID,
			Specialization: t.spec,
			HourlyRate:     t.rate,
		}); err != nil {
			return nil, err
		}
	}

	studentHash, err := hashSecret("student123")
	if err != nil {
		return nil, err
	}
	students := []struct {
		first, last, email, course, phone string
	}{
		{"Giulia", "Ferrari", "giulia.ferrari@email.it", domain.InstrumentPiano, "+39 340 1111111"},
		{"Marco", "Romano", "marco.romano@email.it", domain.InstrumentPiano, "+39 340 2222222"},
		{"Sara", "Conti", "sara.conti@email.it", domain.InstrumentViolin, "+39 340 3333333"},
		{"Luca", "Esposito", "luca.esposito@email.it", domain.InstrumentGuitar, "+39 340 4444444"},
		{"Anna", "Bruno", "anna.bruno@email.it", domain.InstrumentVoice, "+39 340 5555555"},
	}
	studentIDs := make([]string, 0, len(students))
	for _, st := range students {
		student := &domain.User{
			ID:           uuid.NewString(),
			Role:         domain.RoleStudent,
			FirstName:    st.first,
			LastName:     st.last,
			Email:        st.email,
			PasswordHash: studentHash,
			Active:       true,
			CreatedAt:    now,
		}
		if err := s.users.Create(ctx, student); err != nil {
			return nil, err
		}
		studentIDs = append(studentIDs, student.ID)
		if err := s.details.UpsertStudentDetail(ctx, &domain.StudentDetail{
			ID:         uuid.NewString(),
			UserID:     student.ID,
			Phone:      st.phone,
			MainCourse: st.course,
		}); err != nil {
			return nil, err
		}
	}

	monthLabel := now.Format(monthLayout)
	paymentsCreated := 0
	for i, sid := range studentIDs[:3] {
		status := domain.PaymentPending
		if i == 2 {
			status = domain.PaymentOverdue
		}
		payment := &domain.Payment{
			ID:            uuid.NewString(),
			UserID:        sid,
			Type:          domain.PaymentMonthly,
			Amount:        domain.DefaultMonthlyFee,
			Description:   "Quota mensile " + monthLabel,
			DueDate:       now.AddDate(0, 0, 10-i*5),
			Status:        status,
			VisibleToUser: true,
			CreatedAt:     now,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return nil, err
		}
		paymentsCreated++
	}

	bulletins := []struct{ title, message string }{
		{"Benvenuti!", "Benvenuti nella nuova app dell'Accademia de 'I Musici'."},
		{"Concerto di fine anno", "Il concerto si terrà il 20 Dicembre 2025."},
	}
	for _, b := range bulletins {
		if err := s.notifications.Create(ctx, &domain.Notification{
			ID:            uuid.NewString(),
			Title:         b.title,
			Message:       b.message,
			Type:          domain.NotificationGeneral,
			RecipientType: domain.RecipientsAll,
			RecipientIDs:  []string{},
			Active:        true,
			CreatedAt:     now,
		}); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Msg("demo dataset loaded")
	return &ports.SeedSummary{
		Admins:        1,
		Teachers:      len(teachers),
		Students:      len(students),
		Payments:      paymentsCreated,
		Notifications: len(bulletins),
	}, nil
}
