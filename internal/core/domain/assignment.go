package domain

import (
	"errors"
	"time"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

// Assignment is a compiti row: homework a teacher gives to one student.
type Assignment struct {
	ID          string    `json:"id" bson:"id"`
	TeacherID   string    `json:"insegnante_id" bson:"insegnante_id"`
	StudentID   string    `json:"allievo_id" bson:"allievo_id"`
	Title       string    `json:"titolo" bson:"titolo"`
	Description string    `json:"descrizione" bson:"descrizione"`
	DueDate     time.Time `json:"data_scadenza" bson:"data_scadenza"`
	Completed   bool      `json:"completato" bson:"completato"`
	CreatedAt   time.Time `json:"data_creazione" bson:"data_creazione"`
}
