package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const slotCollection = "slot_lezioni"

// A slot never lasts longer than this, so overlap candidates can be
// bounded with a plain range query on data.
const maxSlotSpan = 4 * time.Hour

// SlotRepository stores slot_lezioni rows.
type SlotRepository struct {
	coll *mongo.Collection
}

func NewSlotRepository(db *mongo.Database) *SlotRepository {
	return &SlotRepository{coll: db.Collection(slotCollection)}
}

func (r *SlotRepository) Create(ctx context.Context, s *domain.LessonSlot) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id string) (*domain.LessonSlot, error) {
	var slot domain.LessonSlot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return &slot, nil
}

func (r *SlotRepository) List(ctx context.Context, filter ports.ListSlotsFilter) ([]*domain.LessonSlot, error) {
	query := bson.M{}
	if filter.TeacherID != "" {
		query["insegnante_id"] = filter.TeacherID
	}
	if filter.Instrument != "" {
		query["strumento"] = filter.Instrument
	}
	if filter.Status != "" {
		query["stato"] = string(filter.Status)
	}
	if dateRange := rangeQuery(filter.From, filter.To); dateRange != nil {
		query["data"] = dateRange
	}
	return r.find(ctx, query)
}

func (r *SlotRepository) Update(ctx context.Context, s *domain.LessonSlot) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}

func (r *SlotRepository) FindOverlapping(ctx context.Context, teacherID string, start, end time.Time) (*domain.LessonSlot, error) {
	candidates, err := r.find(ctx, bson.M{
		"insegnante_id": teacherID,
		"stato":         bson.M{"$ne": string(domain.SlotCancelled)},
		"data":          bson.M{"$gt": start.Add(-maxSlotSpan), "$lt": end},
	})
	if err != nil {
		return nil, err
	}

	for _, slot := range candidates {
		if slot.Overlaps(start, end) {
			return slot, nil
		}
	}
	return nil, nil
}

func (r *SlotRepository) find(ctx context.Context, query bson.M) ([]*domain.LessonSlot, error) {
	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "data", Value: 1}})...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer cur.Close(ctx)

	slots := []*domain.LessonSlot{}
	if err := cur.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	return slots, nil
}
