package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

func newNotificationFixture() (*NotificationService, *stubNotificationRepo) {
	repo := &stubNotificationRepo{}
	return NewNotificationService(repo, zerolog.Nop()), repo
}

func publish(t *testing.T, svc *NotificationService, in ports.CreateNotificationInput) *domain.Notification {
	t.Helper()
	n, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}
	return n
}

func TestNotificationCreateDefaults(t *testing.T) {
	svc, _ := newNotificationFixture()

	n := publish(t, svc, ports.CreateNotificationInput{
		Title:   "Chiusura estiva",
		Message: "La segreteria chiude ad agosto",
	})

	if n.Type != domain.NotificationGeneral {
		t.Fatalf("type = %s, want %s", n.Type, domain.NotificationGeneral)
	}
	if n.RecipientType != domain.RecipientsAll {
		t.Fatalf("recipient type = %s, want %s", n.RecipientType, domain.RecipientsAll)
	}
	if n.RecipientIDs == nil {
		t.Fatal("recipient ids not initialised")
	}
	if !n.Active {
		t.Fatal("new notification should start active")
	}
	if n.ID == "" || n.CreatedAt.IsZero() {
		t.Fatal("id and creation time must be assigned")
	}
}

func TestNotificationListScopedToViewer(t *testing.T) {
	svc, _ := newNotificationFixture()

	broadcast := publish(t, svc, ports.CreateNotificationInput{Title: "Saggio", Message: "Sabato ore 18"})
	mine := publish(t, svc, ports.CreateNotificationInput{
		Title:         "Quota in scadenza",
		Message:       "Saldare entro il 7",
		RecipientType: domain.RecipientsSingle,
		RecipientIDs:  []string{"student-1"},
	})
	publish(t, svc, ports.CreateNotificationInput{
		Title:         "Sollecito",
		Message:       "Per altri",
		RecipientType: domain.RecipientsSingle,
		RecipientIDs:  []string{"student-2"},
	})

	student := &domain.User{ID: "student-1", Role: domain.RoleStudent}
	rows, err := svc.List(context.Background(), student, true)
	if err != nil {
		t.Fatalf("list for student: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("student sees %d rows, want 2", len(rows))
	}
	for _, n := range rows {
		if n.ID != broadcast.ID && n.ID != mine.ID {
			t.Fatalf("student sees someone else's notification %q", n.Title)
		}
	}

	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	rows, err = svc.List(context.Background(), admin, true)
	if err != nil {
		t.Fatalf("list for admin: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("admin sees %d rows, want 3", len(rows))
	}
}

func TestNotificationListActiveFilter(t *testing.T) {
	svc, _ := newNotificationFixture()

	publish(t, svc, ports.CreateNotificationInput{Title: "Attiva", Message: "resta in bacheca"})
	retired := publish(t, svc, ports.CreateNotificationInput{Title: "Vecchia", Message: "da archiviare"})

	inactive := false
	if _, err := svc.Update(context.Background(), retired.ID, ports.UpdateNotificationInput{Active: &inactive}); err != nil {
		t.Fatalf("deactivate notification: %v", err)
	}

	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	rows, err := svc.List(context.Background(), admin, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Attiva" {
		t.Fatalf("active listing = %d rows, want only the active one", len(rows))
	}

	rows, err = svc.List(context.Background(), admin, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("full listing = %d rows, want 2", len(rows))
	}
}

func TestNotificationDeleteMissing(t *testing.T) {
	svc, _ := newNotificationFixture()

	if err := svc.Delete(context.Background(), "no-such-id"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Fatalf("delete missing = %v, want ErrNotificationNotFound", err)
	}
}
