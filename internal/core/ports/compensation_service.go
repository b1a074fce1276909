package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

type CreateCompensationInput struct {
	TeacherID     string
	CourseID      string
	RatePerLesson float64
}

type UpdateCompensationInput struct {
	RatePerLesson *float64
	CourseID      *string
}

// CompensationBreakdown summarizes payable lessons for one teacher in
// a period. Payable = presenti + assenti non giustificati + recuperi;
// justified absences without a makeup date are unpaid.
type CompensationBreakdown struct {
	TeacherID      string
	From           string
	To             string
	Present        int
	Absent         int
	Justified      int
	Makeups        int
	RatePerLesson  float64
	PayableLessons int
	Total          float64
}

type CompensationService interface {
	// List scopes teachers to their own rates.
	List(ctx context.Context, viewer *domain.User, teacherID string) ([]*domain.CompensationRate, error)
	Create(ctx context.Context, in CreateCompensationInput) (*domain.CompensationRate, error)
	Update(ctx context.Context, id string, in UpdateCompensationInput) (*domain.CompensationRate, error)
	Delete(ctx context.Context, id string) error
	// Calculate builds the period breakdown from the register. Teachers
	// may only calculate their own.
	Calculate(ctx context.Context, viewer *domain.User, teacherID, fromDate, toDate string) (*CompensationBreakdown, error)
}
