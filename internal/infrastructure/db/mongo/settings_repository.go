package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imusici/academy-system/internal/core/domain"
)

const settingsCollection = "impostazioni"

// The collection holds a single document.
const settingsDocID = "globale"

// SettingsRepository stores the impostazioni singleton.
type SettingsRepository struct {
	coll *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{coll: db.Collection(settingsCollection)}
}

func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	err := r.coll.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *domain.Settings) error {
	doc := bson.M{
		"_id":                    settingsDocID,
		"payment_due_day":        s.PaymentDueDay,
		"payment_tolerance_days": s.PaymentToleranceDays,
		"default_monthly_fee":    s.DefaultMonthlyFee,
		"annual_reminder_days":   s.AnnualReminderDays,
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
