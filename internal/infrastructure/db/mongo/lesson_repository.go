package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const lessonCollection = "lezioni"

// LessonRepository stores scheduled lessons in the lezioni collection.
type LessonRepository struct {
	coll *mongo.Collection
}

func NewLessonRepository(db *mongo.Database) *LessonRepository {
	return &LessonRepository{coll: db.Collection(lessonCollection)}
}

func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	if _, err := r.coll.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

func (r *LessonRepository) FindByID(ctx context.Context, id string) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return &lesson, nil
}

func (r *LessonRepository) List(ctx context.Context, filter ports.ListLessonsFilter) ([]*domain.Lesson, error) {
	query := bson.M{}
	if filter.CourseID != "" {
		query["corso_id"] = filter.CourseID
	}
	if filter.TeacherID != "" {
		query["insegnante_id"] = filter.TeacherID
	}
	if dateRange := rangeQuery(filter.From, filter.To); dateRange != nil {
		query["data"] = dateRange
	}

	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "data", Value: 1}})...)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer cur.Close(ctx)

	lessons := []*domain.Lesson{}
	if err := cur.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("decode lessons: %w", err)
	}
	return lessons, nil
}

func (r *LessonRepository) Update(ctx context.Context, l *domain.Lesson) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": l.ID}, l)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}

func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}
