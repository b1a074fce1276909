package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role identifies what an account is allowed to do. Stored values are
// the Italian canonical forms.
type Role string

const (
	RoleAdmin     Role = "amministratore"
	RoleTeacher   Role = "insegnante"
	RoleStudent   Role = "allievo"
	RoleSecretary Role = "segretaria"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserDisabled = errors.New("user disabled")
var ErrDetailNotFound = errors.New("detail record not found")
var ErrPermissionsNotFound = errors.New("permissions record not found")
var ErrPINNotConfigured = errors.New("pin not configured")
var ErrPINTooShort = errors.New("pin must be at least 4 characters")
var ErrInvalidPIN = errors.New("invalid pin")

// ParseRole maps a stored or user-supplied role string to its canonical
// value. Legacy English spellings from older imports are accepted.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amministratore", "admin", "administrator":
		return RoleAdmin, nil
	case "insegnante", "teacher":
		return RoleTeacher, nil
	case "allievo", "studente", "student":
		return RoleStudent, nil
	case "segretaria", "secretary":
		return RoleSecretary, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleSecretary:
		return true
	}
	return false
}

// User is an account in the utenti collection. PasswordHash is never
// serialized to API responses.
type User struct {
	ID           string     `json:"id" bson:"id"`
	Role         Role       `json:"ruolo" bson:"ruolo"`
	FirstName    string     `json:"nome" bson:"nome"`
	LastName     string     `json:"cognome" bson:"cognome"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	BirthDate    string     `json:"data_nascita,omitempty" bson:"data_nascita,omitempty"`
	Active       bool       `json:"attivo" bson:"attivo"`
	FirstLogin   bool       `json:"first_login" bson:"first_login"`
	CreatedAt    time.Time  `json:"data_creazione" bson:"data_creazione"`
	LastAccess   *time.Time `json:"ultimo_accesso,omitempty" bson:"ultimo_accesso,omitempty"`
	AdminNotes   string     `json:"note_admin,omitempty" bson:"note_admin,omitempty"`

	// TeacherID is set on allievo accounts, Instrument on insegnante
	// accounts. Both live on the user document itself in addition to
	// the detail collections.
	TeacherID  string `json:"insegnante_id,omitempty" bson:"insegnante_id,omitempty"`
	Instrument string `json:"strumento,omitempty" bson:"strumento,omitempty"`
}

// FullName returns "Nome Cognome" for display and notification text.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AdminAccess holds the second factor (PIN and identity provider id)
// for amministratore accounts.
type AdminAccess struct {
	ID         string     `json:"id" bson:"id"`
	UserID     string     `json:"utente_id" bson:"utente_id"`
	PINHash    string     `json:"-" bson:"pin_hash"`
	PINActive  bool       `json:"pin_attivo" bson:"pin_attivo"`
	GoogleID   string     `json:"google_id,omitempty" bson:"google_id,omitempty"`
	LastAccess *time.Time `json:"ultimo_accesso,omitempty" bson:"ultimo_accesso,omitempty"`
}

// StudentDetail is the allievi_dettaglio row attached to an allievo.
type StudentDetail struct {
	ID         string `json:"id" bson:"id"`
	UserID     string `json:"utente_id" bson:"utente_id"`
	Phone      string `json:"telefono,omitempty" bson:"telefono,omitempty"`
	BirthDate  string `json:"data_nascita,omitempty" bson:"data_nascita,omitempty"`
	MainCourse string `json:"corso_principale,omitempty" bson:"corso_principale,omitempty"`
	TeacherID  string `json:"insegnante_id,omitempty" bson:"insegnante_id,omitempty"`
	Notes      string `json:"note,omitempty" bson:"note,omitempty"`
}

// TeacherDetail is the insegnanti_dettaglio row attached to an insegnante.
type TeacherDetail struct {
	ID             string  `json:"id" bson:"id"`
	UserID         string  `json:"utente_id" bson:"utente_id"`
	Specialization string  `json:"specializzazione,omitempty" bson:"specializzazione,omitempty"`
	HourlyRate     float64 `json:"compenso_orario,omitempty" bson:"compenso_orario,omitempty"`
	Notes          string  `json:"note,omitempty" bson:"note,omitempty"`
}

// SecretaryPermissions is the per-secretary capability set. The API
// stores and serves it; enforcement is left to the consuming client.
type SecretaryPermissions struct {
	UserID               string    `json:"utente_id,omitempty" bson:"utente_id"`
	ViewPayments         bool      `json:"visualizza_pagamenti" bson:"visualizza_pagamenti"`
	EditPayments         bool      `json:"modifica_pagamenti" bson:"modifica_pagamenti"`
	ViewRefunds          bool      `json:"visualizza_rimborsi" bson:"visualizza_rimborsi"`
	EditRefunds          bool      `json:"modifica_rimborsi" bson:"modifica_rimborsi"`
	ViewBureaucraticData bool      `json:"visualizza_dati_burocratici" bson:"visualizza_dati_burocratici"`
	ManageUsers          bool      `json:"gestione_utenti" bson:"gestione_utenti"`
	ViewCalendar         bool      `json:"visualizza_calendario" bson:"visualizza_calendario"`
	EditCalendar         bool      `json:"modifica_calendario" bson:"modifica_calendario"`
	SendNotifications    bool      `json:"invia_notifiche" bson:"invia_notifiche"`
	UpdatedAt            time.Time `json:"data_aggiornamento,omitempty" bson:"data_aggiornamento,omitempty"`
}

// DefaultSecretaryPermissions is served when no row exists yet.
// Calendar viewing is the only capability granted out of the box.
func DefaultSecretaryPermissions(userID string) SecretaryPermissions {
	return SecretaryPermissions{UserID: userID, ViewCalendar: true}
}
