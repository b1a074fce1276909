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

const courseCollection = "corsi"

// CourseRepository stores the corsi catalogue.
type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{coll: db.Collection(courseCollection)}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

func (r *CourseRepository) List(ctx context.Context, filter ports.ListCoursesFilter) ([]*domain.Course, error) {
	query := bson.M{}
	if filter.TeacherID != "" {
		query["insegnante_id"] = filter.TeacherID
	}
	if filter.Active != nil {
		query["attivo"] = *filter.Active
	}

	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "nome", Value: 1}})...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cur.Close(ctx)

	courses := []*domain.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}
