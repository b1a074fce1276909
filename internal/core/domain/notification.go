package domain

import (
	"errors"
	"time"
)

// NotificationType classifies a bulletin board message.
type NotificationType string

const (
	NotificationGeneral     NotificationType = "generale"
	NotificationPayment     NotificationType = "pagamento"
	NotificationLesson      NotificationType = "lezione"
	NotificationPaymentsDue NotificationType = "pagamenti_da_effettuare"
	NotificationEvents      NotificationType = "eventi"
)

// RecipientType says whether a notification targets everyone or a list.
type RecipientType string

const (
	RecipientsAll    RecipientType = "tutti"
	RecipientsSingle RecipientType = "singoli"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is a notifiche row. With RecipientsAll an optional
// PaymentFilter narrows delivery to users having payments in that state.
type Notification struct {
	ID            string           `json:"id" bson:"id"`
	Title         string           `json:"titolo" bson:"titolo"`
	Message       string           `json:"messaggio" bson:"messaggio"`
	Type          NotificationType `json:"tipo" bson:"tipo"`
	RecipientType RecipientType    `json:"destinatari_tipo" bson:"destinatari_tipo"`
	RecipientIDs  []string         `json:"destinatari_ids" bson:"destinatari_ids"`
	PaymentFilter string           `json:"filtro_pagamento,omitempty" bson:"filtro_pagamento,omitempty"`
	ReferenceID   string           `json:"riferimento_id,omitempty" bson:"riferimento_id,omitempty"`
	ReferenceType string           `json:"riferimento_tipo,omitempty" bson:"riferimento_tipo,omitempty"`
	Read          bool             `json:"letta" bson:"letta"`
	Active        bool             `json:"attivo" bson:"attivo"`
	CreatedAt     time.Time        `json:"data_creazione" bson:"data_creazione"`
}
