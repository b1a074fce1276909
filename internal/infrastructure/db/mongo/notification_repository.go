package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
)

const notificationCollection = "notifiche"

// notificationActiveField must match the bson tag on
// domain.Notification.Active, since documents are inserted by struct
// marshaling.
const notificationActiveField = "attivo"

// NotificationRepository stores notifiche rows.
type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(notificationCollection)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&notification)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return &notification, nil
}

func (r *NotificationRepository) List(ctx context.Context, forUserID string, activeOnly bool) ([]*domain.Notification, error) {
	query := bson.M{}
	if forUserID != "" {
		// Rows addressed to everyone carry an empty recipient list.
		query["$or"] = []bson.M{
			{"destinatari_ids": bson.M{"$size": 0}},
			{"destinatari_ids": forUserID},
		}
	}
	if activeOnly {
		query[notificationActiveField] = true
	}

	cur, err := r.coll.Find(ctx, query, findOptions(bson.D{{Key: "data_creazione", Value: -1}})...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cur.Close(ctx)

	notifications := []*domain.Notification{}
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": n.ID}, n)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) CountActive(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{notificationActiveField: true})
	if err != nil {
		return 0, fmt.Errorf("count active notifications: %w", err)
	}
	return n, nil
}
