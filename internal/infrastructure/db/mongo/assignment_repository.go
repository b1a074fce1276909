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

const assignmentCollection = "compiti"

// AssignmentRepository stores compiti rows.
type AssignmentRepository struct {
	coll *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{coll: db.Collection(assignmentCollection)}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

func (r *AssignmentRepository) List(ctx context.Context, filter ports.ListAssignmentsFilter) ([]*domain.Assignment, error) {
	query := bson.M{}
	if filter.StudentID != "" {
		query["allievo_id"] = filter.StudentID
	}
	if filter.TeacherID != "" {
		query["insegnante_id"] = filter.TeacherID
	}
	if filter.Completed != nil {
		query["completato"] = *filter.Completed
	}

	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "data_scadenza", Value: 1}})...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer cur.Close(ctx)

	assignments := []*domain.Assignment{}
	if err := cur.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return assignments, nil
}

func (r *AssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}
