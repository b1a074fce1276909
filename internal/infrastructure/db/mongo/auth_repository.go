package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imusici/academy-system/internal/core/domain"
)

const (
	sessionCollection     = "sessioni"
	adminAccessCollection = "accesso_amministrazione"
)

// SessionRepository stores login sessions in the sessioni collection.
type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection)}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := r.coll.FindOne(ctx, bson.M{"token_sessione": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	res, err := r.coll.DeleteMany(ctx, bson.M{"token_sessione": token})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"utente_id": userID}); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// AdminAccessRepository stores the PIN second factor in the
// accesso_amministrazione collection.
type AdminAccessRepository struct {
	coll *mongo.Collection
}

func NewAdminAccessRepository(db *mongo.Database) *AdminAccessRepository {
	return &AdminAccessRepository{coll: db.Collection(adminAccessCollection)}
}

func (r *AdminAccessRepository) FindByUser(ctx context.Context, userID string) (*domain.AdminAccess, error) {
	var access domain.AdminAccess
	err := r.coll.FindOne(ctx, bson.M{"utente_id": userID}).Decode(&access)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPINNotConfigured
		}
		return nil, fmt.Errorf("find admin access: %w", err)
	}
	return &access, nil
}

func (r *AdminAccessRepository) Upsert(ctx context.Context, access *domain.AdminAccess) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"utente_id": access.UserID},
		access,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert admin access: %w", err)
	}
	return nil
}

func (r *AdminAccessRepository) SetPIN(ctx context.Context, userID, pinHash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"utente_id": userID},
		bson.M{"$set": bson.M{"pin_hash": pinHash, "pin_attivo": true}},
	)
	if err != nil {
		return fmt.Errorf("set admin pin: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPINNotConfigured
	}
	return nil
}

func (r *AdminAccessRepository) RecordIdentity(ctx context.Context, userID, googleID string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"utente_id": userID},
		bson.M{"$set": bson.M{"google_id": googleID, "ultimo_accesso": at}},
	)
	if err != nil {
		return fmt.Errorf("record identity: %w", err)
	}
	return nil
}

func (r *AdminAccessRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"utente_id": userID}); err != nil {
		return fmt.Errorf("delete admin access: %w", err)
	}
	return nil
}
