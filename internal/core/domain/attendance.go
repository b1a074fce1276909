package domain

import (
	"errors"
	"time"
)

// AttendanceStatus is the outcome recorded for one lesson date.
type AttendanceStatus string

const (
	AttendancePresent      AttendanceStatus = "presente"
	AttendanceJustified    AttendanceStatus = "assente_giustificato"
	AttendanceUnjustified  AttendanceStatus = "assente_non_giustificato"
	AttendanceMakeupLesson AttendanceStatus = "recupero"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")
var ErrInvalidAttendanceStatus = errors.New("invalid attendance status")

// ValidAttendanceStatus reports whether s is an accepted stored value.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceJustified, AttendanceUnjustified, AttendanceMakeupLesson:
		return true
	}
	return false
}

// Attendance is one register entry in the presenze collection.
// MakeupDate set on a justified absence means the lesson was recovered
// and counts as payable for the teacher.
type Attendance struct {
	ID         string           `json:"id" bson:"id"`
	CourseID   string           `json:"corso_id,omitempty" bson:"corso_id,omitempty"`
	LessonID   string           `json:"lezione_id,omitempty" bson:"lezione_id,omitempty"`
	StudentID  string           `json:"allievo_id" bson:"allievo_id"`
	TeacherID  string           `json:"insegnante_id" bson:"insegnante_id"`
	Date       time.Time        `json:"data" bson:"data"`
	Status     AttendanceStatus `json:"stato" bson:"stato"`
	MakeupDate *time.Time       `json:"recupero_data,omitempty" bson:"recupero_data,omitempty"`
	Notes      string           `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time        `json:"data_creazione" bson:"data_creazione"`
}
