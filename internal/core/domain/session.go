package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionExpired = errors.New("session expired")

// Session is a server-side login session in the sessioni collection.
// The bearer token is only valid while a matching unexpired row exists,
// so deleting the row revokes the login immediately.
type Session struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"utente_id" bson:"utente_id"`
	Token     string    `json:"token_sessione" bson:"token_sessione"`
	Device    string    `json:"dispositivo" bson:"dispositivo"`
	IP        string    `json:"ip,omitempty" bson:"ip,omitempty"`
	CreatedAt time.Time `json:"data_creazione" bson:"data_creazione"`
	ExpiresAt time.Time `json:"data_scadenza" bson:"data_scadenza"`
}

// Expired reports whether the session is past its deadline at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
