package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
)

const paymentRequestCollection = "richieste_pagamento"

// PaymentRequestRepository stores richieste_pagamento rows.
type PaymentRequestRepository struct {
	coll *mongo.Collection
}

func NewPaymentRequestRepository(db *mongo.Database) *PaymentRequestRepository {
	return &PaymentRequestRepository{coll: db.Collection(paymentRequestCollection)}
}

func (r *PaymentRequestRepository) Create(ctx context.Context, req *domain.PaymentRequest) error {
	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("insert payment request: %w", err)
	}
	return nil
}

func (r *PaymentRequestRepository) FindByID(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	var req domain.PaymentRequest
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentRequestNotFound
		}
		return nil, fmt.Errorf("find payment request: %w", err)
	}
	return &req, nil
}

func (r *PaymentRequestRepository) List(ctx context.Context, userID string) ([]*domain.PaymentRequest, error) {
	query := bson.M{}
	if userID != "" {
		query["utente_id"] = userID
	}

	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "data_creazione", Value: -1}})...)
	if err != nil {
		return nil, fmt.Errorf("list payment requests: %w", err)
	}
	defer cur.Close(ctx)

	requests := []*domain.PaymentRequest{}
	if err := cur.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode payment requests: %w", err)
	}
	return requests, nil
}

func (r *PaymentRequestRepository) Update(ctx context.Context, req *domain.PaymentRequest) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": req.ID}, req)
	if err != nil {
		return fmt.Errorf("update payment request: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaymentRequestNotFound
	}
	return nil
}
