package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

type stubCompensationRepo struct {
	rates map[string]*domain.CompensationRate
}

func newStubCompensationRepo(rows ...*domain.CompensationRate) *stubCompensationRepo {
	r := &stubCompensationRepo{rates: map[string]*domain.CompensationRate{}}
	for _, rate := range rows {
		clone := *rate
		r.rates[rate.ID] = &clone
	}
	return r
}

func (r *stubCompensationRepo) Create(_ context.Context, rate *domain.CompensationRate) error {
	clone := *rate
	r.rates[rate.ID] = &clone
	return nil
}

func (r *stubCompensationRepo) FindByID(_ context.Context, id string) (*domain.CompensationRate, error) {
	rate, ok := r.rates[id]
	if !ok {
		return nil, domain.ErrCompensationNotFound
	}
	clone := *rate
	return &clone, nil
}

func (r *stubCompensationRepo) FindByTeacher(_ context.Context, teacherID string) (*domain.CompensationRate, error) {
	for _, rate := range r.rates {
		if rate.TeacherID == teacherID {
			clone := *rate
			return &clone, nil
		}
	}
	return nil, domain.ErrCompensationNotFound
}

func (r *stubCompensationRepo) List(_ context.Context, teacherID string) ([]*domain.CompensationRate, error) {
	var out []*domain.CompensationRate
	for _, rate := range r.rates {
		if teacherID != "" && rate.TeacherID != teacherID {
			continue
		}
		clone := *rate
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCompensationRepo) Update(_ context.Context, rate *domain.CompensationRate) error {
	clone := *rate
	r.rates[rate.ID] = &clone
	return nil
}

func (r *stubCompensationRepo) Delete(_ context.Context, id string) error {
	delete(r.rates, id)
	return nil
}

type stubAttendanceRepo struct {
	rows []*domain.Attendance
}

func (r *stubAttendanceRepo) Create(_ context.Context, a *domain.Attendance) error {
	clone := *a
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *stubAttendanceRepo) FindByID(_ context.Context, id string) (*domain.Attendance, error) {
	for _, a := range r.rows {
		if a.ID == id {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAttendanceNotFound
}

func (r *stubAttendanceRepo) List(_ context.Context, filter ports.ListAttendanceFilter) ([]*domain.Attendance, error) {
	var out []*domain.Attendance
	for _, a := range r.rows {
		if filter.TeacherID != "" && a.TeacherID != filter.TeacherID {
			continue
		}
		if filter.StudentID != "" && a.StudentID != filter.StudentID {
			continue
		}
		if !filter.From.IsZero() && a.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.Date.After(filter.To) {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubAttendanceRepo) Update(_ context.Context, _ *domain.Attendance) error { return nil }
func (r *stubAttendanceRepo) Delete(_ context.Context, _ string) error             { return nil }

func (r *stubAttendanceRepo) CountSince(_ context.Context, t time.Time) (int64, error) {
	var n int64
	for _, a := range r.rows {
		if !a.Date.Before(t) {
			n++
		}
	}
	return n, nil
}

func attendanceRow(teacherID string, day int, status domain.AttendanceStatus, makeup bool) *domain.Attendance {
	row := &domain.Attendance{
		ID:        string(status) + "-" + time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC).Format("02"),
		StudentID: "s1",
		TeacherID: teacherID,
		Date:      time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
	if makeup {
		d := row.Date.AddDate(0, 0, 7)
		row.MakeupDate = &d
	}
	return row
}

func TestCalculate_Tallies(t *testing.T) {
	attendance := &stubAttendanceRepo{rows: []*domain.Attendance{
		attendanceRow("t1", 2, domain.AttendancePresent, false),
		attendanceRow("t1", 3, domain.AttendancePresent, false),
		attendanceRow("t1", 4, domain.AttendanceUnjustified, false),
		attendanceRow("t1", 5, domain.AttendanceJustified, false), // no makeup: unpaid
		attendanceRow("t1", 6, domain.AttendanceJustified, true),  // recovered: paid
		attendanceRow("t1", 7, domain.AttendanceMakeupLesson, false),
		attendanceRow("t2", 8, domain.AttendancePresent, false), // other teacher
	}}
	rates := newStubCompensationRepo(&domain.CompensationRate{
		ID: "r1", TeacherID: "t1", RatePerLesson: 25,
	})
	svc := NewCompensationService(rates, attendance, newStubUserRepo(), zerolog.Nop())

	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	b, err := svc.Calculate(context.Background(), admin, "t1", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if b.Present != 2 || b.Absent != 1 || b.Justified != 2 || b.Makeups != 2 {
		t.Fatalf("unexpected tallies: %+v", b)
	}
	if b.PayableLessons != 5 {
		t.Fatalf("expected 5 payable lessons, got %d", b.PayableLessons)
	}
	if b.Total != 125 {
		t.Fatalf("expected total 125, got %v", b.Total)
	}
}

func TestCalculate_DefaultRateWhenUnconfigured(t *testing.T) {
	attendance := &stubAttendanceRepo{rows: []*domain.Attendance{
		attendanceRow("t1", 2, domain.AttendancePresent, false),
	}}
	svc := NewCompensationService(newStubCompensationRepo(), attendance, newStubUserRepo(), zerolog.Nop())

	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	b, err := svc.Calculate(context.Background(), admin, "t1", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Calculate returned error: %v", err)
	}
	if b.RatePerLesson != domain.DefaultAttendanceRate {
		t.Fatalf("expected the default rate, got %v", b.RatePerLesson)
	}
	if b.Total != domain.DefaultAttendanceRate {
		t.Fatalf("expected one paid lesson at the default rate, got %v", b.Total)
	}
}

func TestCalculate_TeacherScopedToOwnPeriod(t *testing.T) {
	svc := NewCompensationService(newStubCompensationRepo(), &stubAttendanceRepo{}, newStubUserRepo(), zerolog.Nop())

	teacher := &domain.User{ID: "t1", Role: domain.RoleTeacher}
	if _, err := svc.Calculate(context.Background(), teacher, "t2", "2026-03-01", "2026-03-31"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Calculate(context.Background(), teacher, "t1", "2026-03-01", "2026-03-31"); err != nil {
		t.Fatalf("own period must be allowed, got %v", err)
	}
}

func TestCompensationCreate_RequiresTeacher(t *testing.T) {
	users := newStubUserRepo(&domain.User{ID: "s1", Role: domain.RoleStudent, Active: true})
	svc := NewCompensationService(newStubCompensationRepo(), &stubAttendanceRepo{}, users, zerolog.Nop())

	_, err := svc.Create(context.Background(), ports.CreateCompensationInput{
		TeacherID:     "s1",
		RatePerLesson: 25,
	})
	if !errors.Is(err, domain.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
}
