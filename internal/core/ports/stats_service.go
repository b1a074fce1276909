package ports

import "context"

// AdminStats is the dashboard counter block.
type AdminStats struct {
	ActiveStudents      int64
	ActiveTeachers      int64
	UnpaidPayments      int64
	ActiveNotifications int64
	AttendanceToday     int64
}

type StatsService interface {
	AdminStats(ctx context.Context) (*AdminStats, error)
}
