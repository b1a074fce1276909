package domain

import "errors"

var ErrSettingsNotFound = errors.New("settings not found")

// Defaults applied when the impostazioni collection is still empty.
const (
	DefaultPaymentDueDay        = 7
	DefaultPaymentToleranceDays = 0
	DefaultMonthlyFee           = 150.0
	DefaultAnnualReminderDays   = 30
)

// Settings is the single impostazioni document. Field names predate the
// Italian wire vocabulary and are kept for stored-data compatibility.
type Settings struct {
	PaymentDueDay        int     `json:"payment_due_day" bson:"payment_due_day"`
	PaymentToleranceDays int     `json:"payment_tolerance_days" bson:"payment_tolerance_days"`
	DefaultMonthlyFee    float64 `json:"default_monthly_fee" bson:"default_monthly_fee"`
	AnnualReminderDays   int     `json:"annual_reminder_days" bson:"annual_reminder_days"`
}

// DefaultSettings returns the values seeded on first read.
func DefaultSettings() Settings {
	return Settings{
		PaymentDueDay:        DefaultPaymentDueDay,
		PaymentToleranceDays: DefaultPaymentToleranceDays,
		DefaultMonthlyFee:    DefaultMonthlyFee,
		AnnualReminderDays:   DefaultAnnualReminderDays,
	}
}
