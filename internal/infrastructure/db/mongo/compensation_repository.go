package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
)

const compensationCollection = "compensi"

// CompensationRepository stores per-teacher rates in the compensi collection.
type CompensationRepository struct {
	coll *mongo.Collection
}

func NewCompensationRepository(db *mongo.Database) *CompensationRepository {
	return &CompensationRepository{coll: db.Collection(compensationCollection)}
}

func (r *CompensationRepository) Create(ctx context.Context, rate *domain.CompensationRate) error {
	if _, err := r.coll.InsertOne(ctx, rate); err != nil {
		return fmt.Errorf("insert compensation rate: %w", err)
	}
	return nil
}

func (r *CompensationRepository) FindByID(ctx context.Context, id string) (*domain.CompensationRate, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *CompensationRepository) FindByTeacher(ctx context.Context, teacherID string) (*domain.CompensationRate, error) {
	return r.findOne(ctx, bson.M{"insegnante_id": teacherID})
}

func (r *CompensationRepository) List(ctx context.Context, teacherID string) ([]*domain.CompensationRate, error) {
	query := bson.M{}
	if teacherID != "" {
		query["insegnante_id"] = teacherID
	}

	cur, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list compensation rates: %w", err)
	}
	defer cur.Close(ctx)

	rates := []*domain.CompensationRate{}
	if err := cur.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("decode compensation rates: %w", err)
	}
	return rates, nil
}

func (r *CompensationRepository) Update(ctx context.Context, rate *domain.CompensationRate) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": rate.ID}, rate)
	if err != nil {
		return fmt.Errorf("update compensation rate: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompensationNotFound
	}
	return nil
}

func (r *CompensationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete compensation rate: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCompensationNotFound
	}
	return nil
}

func (r *CompensationRepository) findOne(ctx context.Context, query bson.M) (*domain.CompensationRate, error) {
	var rate domain.CompensationRate
	err := r.coll.FindOne(ctx, query).Decode(&rate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompensationNotFound
		}
		return nil, fmt.Errorf("find compensation rate: %w", err)
	}
	return &rate, nil
}
