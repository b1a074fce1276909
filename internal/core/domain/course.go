package domain

import (
	"errors"
	"time"
)

var ErrCourseNotFound = errors.New("course not found")

// Instruments taught at the academy, used for courses and lesson slots.
const (
	InstrumentPiano          = "pianoforte"
	InstrumentVoice          = "canto"
	InstrumentPercussion     = "percussioni"
	InstrumentViolin         = "violino"
	InstrumentGuitar         = "chitarra"
	InstrumentElectricGuitar = "chitarra_elettrica"
)

// Course is a corsi row: one instrument taught by one teacher.
type Course struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"nome" bson:"nome"`
	Instrument  string    `json:"strumento" bson:"strumento"`
	TeacherID   string    `json:"insegnante_id" bson:"insegnante_id"`
	Description string    `json:"descrizione,omitempty" bson:"descrizione,omitempty"`
	Active      bool      `json:"attivo" bson:"attivo"`
	CreatedAt   time.Time `json:"data_creazione" bson:"data_creazione"`
}
