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

const attendanceCollection = "presenze"

// AttendanceRepository stores register rows in the presenze collection.
type AttendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{coll: db.Collection(attendanceCollection)}
}

func (r *AttendanceRepository) Create(ctx context.Context, a *domain.Attendance) error {
	if _, err := r.coll.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*domain.Attendance, error) {
	var row domain.Attendance
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &row, nil
}

func (r *AttendanceRepository) List(ctx context.Context, filter ports.ListAttendanceFilter) ([]*domain.Attendance, error) {
	query := bson.M{}
	if filter.StudentID != "" {
		query["allievo_id"] = filter.StudentID
	}
	if filter.TeacherID != "" {
		query["insegnante_id"] = filter.TeacherID
	}
	if dateRange := rangeQuery(filter.From, filter.To); dateRange != nil {
		query["data"] = dateRange
	}

	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "data", Value: -1}})...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer cur.Close(ctx)

	rows := []*domain.Attendance{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}
	return rows, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, a *domain.Attendance) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAttendanceNotFound
	}
	return nil
}

func (r *AttendanceRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"data_creazione": bson.M{"$gte": t}})
	if err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return n, nil
}

// rangeQuery builds a $gte/$lte clause from optional bounds.
func rangeQuery(from, to time.Time) bson.M {
	q := bson.M{}
	if !from.IsZero() {
		q["$gte"] = from
	}
	if !to.IsZero() {
		q["$lte"] = to
	}
	if len(q) == 0 {
		return nil
	}
	return q
}
