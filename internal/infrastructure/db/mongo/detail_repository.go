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

const (
	studentDetailCollection = "allievi_dettaglio"
	teacherDetailCollection = "insegnanti_dettaglio"
	permissionsCollection   = "segretaria_permessi"
)

// DetailRepository stores the role-specific detail rows.
type DetailRepository struct {
	students *mongo.Collection
	teachers *mongo.Collection
}

func NewDetailRepository(db *mongo.Database) *DetailRepository {
	return &DetailRepository{
		students: db.Collection(studentDetailCollection),
		teachers: db.Collection(teacherDetailCollection),
	}
}

func (r *DetailRepository) FindStudentDetail(ctx context.Context, userID string) (*domain.StudentDetail, error) {
	var detail domain.StudentDetail
	err := r.students.FindOne(ctx, bson.M{"utente_id": userID}).Decode(&detail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDetailNotFound
		}
		return nil, fmt.Errorf("find student detail: %w", err)
	}
	return &detail, nil
}

func (r *DetailRepository) UpsertStudentDetail(ctx context.Context, d *domain.StudentDetail) error {
	_, err := r.students.ReplaceOne(ctx,
		bson.M{"utente_id": d.UserID},
		d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert student detail: %w", err)
	}
	return nil
}

func (r *DetailRepository) FindTeacherDetail(ctx context.Context, userID string) (*domain.TeacherDetail, error) {
	var detail domain.TeacherDetail
	err := r.teachers.FindOne(ctx, bson.M{"utente_id": userID}).Decode(&detail)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDetailNotFound
		}
		return nil, fmt.Errorf("find teacher detail: %w", err)
	}
	return &detail, nil
}

func (r *DetailRepository) UpsertTeacherDetail(ctx context.Context, d *domain.TeacherDetail) error {
	_, err := r.teachers.ReplaceOne(ctx,
		bson.M{"utente_id": d.UserID},
		d,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert teacher detail: %w", err)
	}
	return nil
}

func (r *DetailRepository) FindStudentsByMainCourse(ctx context.Context, course string) ([]*domain.StudentDetail, error) {
	cur, err := r.students.Find(ctx, bson.M{"corso_principale": course})
	if err != nil {
		return nil, fmt.Errorf("find students by course: %w", err)
	}
	defer cur.Close(ctx)

	details := []*domain.StudentDetail{}
	if err := cur.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("decode student details: %w", err)
	}
	return details, nil
}

func (r *DetailRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.students.DeleteMany(ctx, bson.M{"utente_id": userID}); err != nil {
		return fmt.Errorf("delete student detail: %w", err)
	}
	if _, err := r.teachers.DeleteMany(ctx, bson.M{"utente_id": userID}); err != nil {
		return fmt.Errorf("delete teacher detail: %w", err)
	}
	return nil
}

// PermissionsRepository stores secretary capability rows.
type PermissionsRepository struct {
	coll *mongo.Collection
}

func NewPermissionsRepository(db *mongo.Database) *PermissionsRepository {
	return &PermissionsRepository{coll: db.Collection(permissionsCollection)}
}

func (r *PermissionsRepository) FindByUser(ctx context.Context, userID string) (*domain.SecretaryPermissions, error) {
	var perms domain.SecretaryPermissions
	err := r.coll.FindOne(ctx, bson.M{"utente_id": userID}).Decode(&perms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionsNotFound
		}
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	return &perms, nil
}

func (r *PermissionsRepository) Upsert(ctx context.Context, p *domain.SecretaryPermissions) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"utente_id": p.UserID},
		p,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert permissions: %w", err)
	}
	return nil
}
