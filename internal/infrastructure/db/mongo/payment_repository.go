package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const paymentCollection = "pagamenti"

// PaymentRepository stores pagamenti rows.
type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentCollection)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &payment, nil
}

func (r *PaymentRepository) List(ctx context.Context, filter ports.ListPaymentsFilter) ([]*domain.Payment, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["utente_id"] = filter.UserID
	}
	if filter.Type != "" {
		query["tipo"] = string(filter.Type)
	}
	if filter.Status != "" {
		query["stato"] = string(filter.Status)
	}
	if filter.VisibleOnly {
		query["visibile_utente"] = true
	}
	return r.find(ctx, query, bson.D{{Key: "data_scadenza", Value: 1}})
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) HasMonthlyFor(ctx context.Context, userID, month string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"utente_id":   userID,
		"tipo":        string(domain.PaymentMonthly),
		"descrizione": primitive.Regex{Pattern: escapeRegex(month)},
	})
	if err != nil {
		return false, fmt.Errorf("count monthly payments: %w", err)
	}
	return n > 0, nil
}

func (r *PaymentRepository) ListAnnualExpiring(ctx context.Context, from, to time.Time) ([]*domain.Payment, error) {
	query := bson.M{
		"tipo":                string(domain.PaymentAnnual),
		"stato":               string(domain.PaymentPaid),
		"data_fine_validita":  bson.M{"$gte": from, "$lte": to},
	}
	return r.find(ctx, query, bson.D{{Key: "data_fine_validita", Value: 1}})
}

func (r *PaymentRepository) CountOpen(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"stato": bson.M{"$in": []string{string(domain.PaymentPending), string(domain.PaymentOverdue)}},
	})
	if err != nil {
		return 0, fmt.Errorf("count open payments: %w", err)
	}
	return n, nil
}

func (r *PaymentRepository) DistinctUserIDsByStatus(ctx context.Context, status domain.PaymentStatus) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "utente_id", bson.M{"stato": string(status)})
	if err != nil {
		return nil, fmt.Errorf("distinct payment holders: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *PaymentRepository) find(ctx context.Context, query bson.M, sort bson.D) ([]*domain.Payment, error) {
	cur, err := r.coll.Find(ctx, query, findOptions(sort)...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cur.Close(ctx)

	payments := []*domain.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return payments, nil
}
