package domain

import (
	"errors"
	"time"
)

var ErrLessonNotFound = errors.New("lesson not found")

// Lesson is a scheduled occurrence of a course in the lezioni collection.
type Lesson struct {
	ID        string    `json:"id" bson:"id"`
	CourseID  string    `json:"corso_id" bson:"corso_id"`
	TeacherID string    `json:"insegnante_id" bson:"insegnante_id"`
	Date      time.Time `json:"data" bson:"data"`
	Hour      string    `json:"ora" bson:"ora"`
	Duration  int       `json:"durata" bson:"durata"`
	Notes     string    `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time `json:"data_creazione" bson:"data_creazione"`
}
