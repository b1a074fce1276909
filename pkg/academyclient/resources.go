package academyclient

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// PersonSummary is the embedded {nome, cognome} pair list endpoints
// attach to related people.
type PersonSummary struct {
	FirstName string `json:"nome"`
	LastName  string `json:"cognome"`
}

// Attendance is one register row.
type Attendance struct {
	ID        string    `json:"id"`
	StudentID string    `json:"allievo_id"`
	TeacherID string    `json:"insegnante_id"`
	Date      time.Time `json:"data"`
	Status    string    `json:"stato"`
	Notes     string    `json:"note,omitempty"`
}

// Payment is one fee row.
type Payment struct {
	ID          string     `json:"id"`
	UserID      string     `json:"utente_id"`
	Amount      float64    `json:"importo"`
	Type        string     `json:"tipo"`
	Description string     `json:"descrizione"`
	Status      string     `json:"stato"`
	DueDate     time.Time  `json:"data_scadenza"`
	PaidDate    *time.Time `json:"data_pagamento,omitempty"`
	Method      string     `json:"metodo_pagamento,omitempty"`
	Receipt     string     `json:"ricevuta,omitempty"`
}

// Notification is one board entry; empty RecipientIDs means everyone.
type Notification struct {
	ID           string    `json:"id"`
	Title        string    `json:"titolo"`
	Message      string    `json:"messaggio"`
	Type         string    `json:"tipo"`
	RecipientIDs []string  `json:"destinatari_ids"`
	Active       bool      `json:"attivo"`
	CreatedAt    time.Time `json:"data_creazione"`
}

// Slot is one bookable calendar entry.
type Slot struct {
	ID         string         `json:"id"`
	TeacherID  string         `json:"insegnante_id"`
	Instrument string         `json:"strumento"`
	Date       time.Time      `json:"data"`
	Hour       string         `json:"ora"`
	Duration   int            `json:"durata"`
	Status     string         `json:"stato"`
	StudentID  string         `json:"allievo_id,omitempty"`
	Notes      string         `json:"note,omitempty"`
	Teacher    *PersonSummary `json:"insegnante,omitempty"`
	Student    *PersonSummary `json:"allievo,omitempty"`
}

// AdminStats is the dashboard counter set.
type AdminStats struct {
	ActiveStudents      int64 `json:"allievi_attivi"`
	ActiveTeachers      int64 `json:"insegnanti_attivi"`
	UnpaidPayments      int64 `json:"pagamenti_non_pagati"`
	ActiveNotifications int64 `json:"notifiche_attive"`
	AttendanceToday     int64 `json:"presenze_oggi"`
}

// ListUsersFilter narrows Users; zero values mean no filter.
type ListUsersFilter struct {
	Role       string
	ActiveOnly bool
}

// Users lists accounts, admin only.
func (c *Client) Users(ctx context.Context, filter ListUsersFilter) ([]User, error) {
	query := url.Values{}
	if filter.Role != "" {
		query.Set("ruolo", filter.Role)
	}
	if filter.ActiveOnly {
		query.Set("attivo", "true")
	}

	var users []User
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/utenti", query), nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// ListAttendanceFilter narrows AttendanceList.
type ListAttendanceFilter struct {
	StudentID string
	TeacherID string
	From      string // YYYY-MM-DD
	To        string
}

// AttendanceList returns register rows visible to the caller.
func (c *Client) AttendanceList(ctx context.Context, filter ListAttendanceFilter) ([]Attendance, error) {
	query := url.Values{}
	if filter.StudentID != "" {
		query.Set("allievo_id", filter.StudentID)
	}
	if filter.TeacherID != "" {
		query.Set("insegnante_id", filter.TeacherID)
	}
	if filter.From != "" {
		query.Set("from_date", filter.From)
	}
	if filter.To != "" {
		query.Set("to_date", filter.To)
	}

	var rows []Attendance
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/presenze", query), nil, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// Payments returns fee rows visible to the caller, optionally limited
// to one status.
func (c *Client) Payments(ctx context.Context, status string) ([]Payment, error) {
	query := url.Values{}
	if status != "" {
		query.Set("stato", status)
	}

	var rows []Payment
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/pagamenti", query), nil, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// Notifications returns board entries addressed to the caller.
// Inactive entries are included only when all is set.
func (c *Client) Notifications(ctx context.Context, all bool) ([]Notification, error) {
	query := url.Values{}
	if all {
		query.Set("attivo_only", "false")
	}

	var rows []Notification
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/notifiche", query), nil, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSlotsFilter narrows Slots.
type ListSlotsFilter struct {
	TeacherID  string
	Instrument string
	Status     string
	From       string // YYYY-MM-DD
	To         string
}

// Slots lists calendar slots.
func (c *Client) Slots(ctx context.Context, filter ListSlotsFilter) ([]Slot, error) {
	query := url.Values{}
	if filter.TeacherID != "" {
		query.Set("insegnante_id", filter.TeacherID)
	}
	if filter.Instrument != "" {
		query.Set("strumento", filter.Instrument)
	}
	if filter.Status != "" {
		query.Set("stato", filter.Status)
	}
	if filter.From != "" {
		query.Set("from_date", filter.From)
	}
	if filter.To != "" {
		query.Set("to_date", filter.To)
	}

	var rows []Slot
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/slot-lezioni", query), nil, &rows, true); err != nil {
		return nil, err
	}
	return rows, nil
}

// BookSlot reserves a free slot. studentID is required only when an
// administrator books on a student's behalf.
func (c *Client) BookSlot(ctx context.Context, slotID, studentID string) (*Slot, error) {
	body := map[string]string{}
	if studentID != "" {
		body["allievo_id"] = studentID
	}

	var slot Slot
	if err := c.doJSON(ctx, http.MethodPost, "/slot-lezioni/"+slotID+"/prenota", body, &slot, true); err != nil {
		return nil, err
	}
	return &slot, nil
}

// CancelSlotBooking frees a booked slot.
func (c *Client) CancelSlotBooking(ctx context.Context, slotID string) (*Slot, error) {
	var slot Slot
	if err := c.doJSON(ctx, http.MethodPost, "/slot-lezioni/"+slotID+"/annulla", nil, &slot, true); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Stats returns the admin dashboard counters.
func (c *Client) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.doJSON(ctx, http.MethodGet, "/stats/admin", nil, &stats, true); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Seed populates an empty database with the demo accounts and returns
// the server's outcome message.
func (c *Client) Seed(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/seed", nil, &resp, false); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
