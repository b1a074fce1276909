package domain

import (
	"errors"
	"time"
)

var ErrCompensationNotFound = errors.New("compensation rate not found")

// DefaultAttendanceRate is applied when a teacher has no configured rate.
const DefaultAttendanceRate = 30.0

// CompensationRate is a compensi row: how much a teacher earns per
// payable attendance, optionally scoped to one course.
type CompensationRate struct {
	ID            string    `json:"id" bson:"id"`
	TeacherID     string    `json:"insegnante_id" bson:"insegnante_id"`
	CourseID      string    `json:"corso_id,omitempty" bson:"corso_id,omitempty"`
	RatePerLesson float64   `json:"quota_per_presenza" bson:"quota_per_presenza"`
	CreatedAt     time.Time `json:"data_creazione" bson:"data_creazione"`
}
