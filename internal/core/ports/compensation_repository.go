package ports

import (
	"context"

	"github.com/imusici/academy-system/internal/core/domain"
)

// CompensationRepository persists compensi rows.
type CompensationRepository interface {
	Create(ctx context.Context, r *domain.CompensationRate) error
	FindByID(ctx context.Context, id string) (*domain.CompensationRate, error)
	// FindByTeacher returns the teacher's configured rate, if any.
	FindByTeacher(ctx context.Context, teacherID string) (*domain.CompensationRate, error)
	// List returns all rates, or only the teacher's when teacherID is set.
	List(ctx context.Context, teacherID string) ([]*domain.CompensationRate, error)
	Update(ctx context.Context, r *domain.CompensationRate) error
	Delete(ctx context.Context, id string) error
}
