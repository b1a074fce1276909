package service

import (
	"context"
	"time"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

// StatsService builds the admin dashboard counters.
type StatsService struct {
	users         ports.UserRepository
	payments      ports.PaymentRepository
	notifications ports.NotificationRepository
	attendance    ports.AttendanceRepository
}

func NewStatsService(
	users ports.UserRepository,
	payments ports.PaymentRepository,
	notifications ports.NotificationRepository,
	attendance ports.AttendanceRepository,
) *StatsService {
	return &StatsService{users: users, payments: payments, notifications: notifications, attendance: attendance}
}

func (s *StatsService) AdminStats(ctx context.Context) (*ports.AdminStats, error) {
	students, err := s.users.CountByRole(ctx, domain.RoleStudent, true)
	if err != nil {
		return nil, err
	}
	teachers, err := s.users.CountByRole(ctx, domain.RoleTeacher, true)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.payments.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.notifications.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.attendance.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	return &ports.AdminStats{
		ActiveStudents:      students,
		ActiveTeachers:      teachers,
		UnpaidPayments:      unpaid,
		ActiveNotifications: notifications,
		AttendanceToday:     today,
	}, nil
}
