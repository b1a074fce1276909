package domain

import (
	"errors"
	"time"
)

// PaymentStatus is the lifecycle state of a pagamenti row.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "in_attesa"
	PaymentPaid      PaymentStatus = "pagato"
	PaymentOverdue   PaymentStatus = "scaduto"
	PaymentCancelled PaymentStatus = "annullato"
)

// PaymentType classifies what a payment is for.
type PaymentType string

const (
	PaymentMonthly     PaymentType = "mensile"
	PaymentAnnual      PaymentType = "annuale"
	PaymentTeacherComp PaymentType = "compenso_insegnante"
)

// PaymentMethodCash marks payments registered at the front desk.
const PaymentMethodCash = "contanti"

var ErrPaymentNotFound = errors.New("payment not found")
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// ValidPaymentStatus reports whether s is an accepted stored value.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// Payment is a pagamenti row. The same document shape covers generated
// monthly fees, annual enrollments, teacher compensations and cash desk
// entries; cash entries carry Method, OperatorID and OperatorName.
type Payment struct {
	ID            string        `json:"id" bson:"id"`
	UserID        string        `json:"utente_id" bson:"utente_id"`
	Type          PaymentType   `json:"tipo" bson:"tipo"`
	Amount        float64       `json:"importo" bson:"importo"`
	Description   string        `json:"descrizione" bson:"descrizione"`
	DueDate       time.Time     `json:"data_scadenza" bson:"data_scadenza"`
	Status        PaymentStatus `json:"stato" bson:"stato"`
	PaidAt        *time.Time    `json:"data_pagamento,omitempty" bson:"data_pagamento,omitempty"`
	ValidFrom     *time.Time    `json:"data_inizio_validita,omitempty" bson:"data_inizio_validita,omitempty"`
	ValidTo       *time.Time    `json:"data_fine_validita,omitempty" bson:"data_fine_validita,omitempty"`
	ToleranceDays int           `json:"tolleranza_giorni" bson:"tolleranza_giorni"`
	VisibleToUser bool          `json:"visibile_utente" bson:"visibile_utente"`
	Method        string        `json:"metodo,omitempty" bson:"metodo,omitempty"`
	OperatorID    string        `json:"operatore_id,omitempty" bson:"operatore_id,omitempty"`
	OperatorName  string        `json:"operatore_nome,omitempty" bson:"operatore_nome,omitempty"`
	UpdatedAt     *time.Time    `json:"data_aggiornamento,omitempty" bson:"data_aggiornamento,omitempty"`
	CreatedAt     time.Time     `json:"data_creazione" bson:"data_creazione"`
}

// OverdueAt reports whether a pending payment is past its due date plus
// the configured tolerance at now.
func (p *Payment) OverdueAt(now time.Time) bool {
	if p.Status != PaymentPending {
		return false
	}
	return now.After(p.DueDate.AddDate(0, 0, p.ToleranceDays))
}

// PaymentRequestStatus tracks the in-app payment flow:
// in_attesa -> confermato (student) -> approvato or rifiutato (admin).
type PaymentRequestStatus string

const (
	RequestPending   PaymentRequestStatus = "in_attesa"
	RequestConfirmed PaymentRequestStatus = "confermato"
	RequestApproved  PaymentRequestStatus = "approvato"
	RequestRejected  PaymentRequestStatus = "rifiutato"
)

var ErrPaymentRequestNotFound = errors.New("payment request not found")
var ErrRequestNotPending = errors.New("payment request already confirmed or processed")
var ErrRequestProcessed = errors.New("payment request already processed")

// PaymentRequest is a richieste_pagamento row.
type PaymentRequest struct {
	ID                 string               `json:"id" bson:"id"`
	UserID             string               `json:"utente_id" bson:"utente_id"`
	Amount             float64              `json:"importo" bson:"importo"`
	Reason             string               `json:"causale" bson:"causale"`
	DueDate            time.Time            `json:"scadenza" bson:"scadenza"`
	Notes              string               `json:"note,omitempty" bson:"note,omitempty"`
	Status             PaymentRequestStatus `json:"stato" bson:"stato"`
	CreatedAt          time.Time            `json:"data_creazione" bson:"data_creazione"`
	StudentConfirmedAt *time.Time           `json:"data_conferma_allievo,omitempty" bson:"data_conferma_allievo,omitempty"`
	AdminApprovedAt    *time.Time           `json:"data_approvazione_admin,omitempty" bson:"data_approvazione_admin,omitempty"`
	StudentNotes       string               `json:"note_allievo,omitempty" bson:"note_allievo,omitempty"`
	AdminNotes         string               `json:"note_admin,omitempty" bson:"note_admin,omitempty"`
	NotificationID     string               `json:"notification_id,omitempty" bson:"notification_id,omitempty"`
}
