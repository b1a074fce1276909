package domain

import (
	"errors"
	"time"
)

// SlotStatus is the booking state of a calendar slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "disponibile"
	SlotBooked    SlotStatus = "prenotato"
	SlotCancelled SlotStatus = "annullato"
)

var ErrSlotNotFound = errors.New("lesson slot not found")
var ErrSlotNotAvailable = errors.New("lesson slot not available")
var ErrSlotNotBooked = errors.New("lesson slot not booked")
var ErrSlotOverlap = errors.New("lesson slot overlaps an existing one")
var ErrSlotTimeIncomplete = errors.New("data and ora must be provided together")
var ErrStudentRequired = errors.New("allievo_id is required")

// LessonSlot is a slot_lezioni row: a bookable window on a teacher's
// calendar. Duration is minutes, typically 30, 45 or 60.
type LessonSlot struct {
	ID         string     `json:"id" bson:"id"`
	TeacherID  string     `json:"insegnante_id" bson:"insegnante_id"`
	Instrument string     `json:"strumento" bson:"strumento"`
	Start      time.Time  `json:"data" bson:"data"`
	Duration   int        `json:"durata" bson:"durata"`
	Status     SlotStatus `json:"stato" bson:"stato"`
	StudentID  string     `json:"allievo_id,omitempty" bson:"allievo_id,omitempty"`
	Notes      string     `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time  `json:"data_creazione" bson:"data_creazione"`
	BookedAt   *time.Time `json:"data_prenotazione,omitempty" bson:"data_prenotazione,omitempty"`
}

// End returns the instant the slot finishes.
func (s *LessonSlot) End() time.Time {
	return s.Start.Add(time.Duration(s.Duration) * time.Minute)
}

// Overlaps reports whether two half-open intervals [Start, End) on the
// same calendar share any time.
func (s *LessonSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End().After(start)
}
