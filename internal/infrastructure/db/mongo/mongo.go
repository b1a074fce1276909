package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Safe to
// call on every startup; existing indexes are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		userCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "ruolo", Value: 1}}},
		},
		sessionCollection: {
			{Keys: bson.D{{Key: "token_sessione", Value: 1}}},
			{Keys: bson.D{{Key: "utente_id", Value: 1}}},
		},
		adminAccessCollection: {
			{Keys: bson.D{{Key: "utente_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		attendanceCollection: {
			{Keys: bson.D{{Key: "insegnante_id", Value: 1}, {Key: "data", Value: -1}}},
			{Keys: bson.D{{Key: "allievo_id", Value: 1}, {Key: "data", Value: -1}}},
		},
		paymentCollection: {
			{Keys: bson.D{{Key: "utente_id", Value: 1}}},
			{Keys: bson.D{{Key: "stato", Value: 1}, {Key: "data_scadenza", Value: 1}}},
		},
		slotCollection: {
			{Keys: bson.D{{Key: "insegnante_id", Value: 1}, {Key: "data", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// findOptions turns an optional sort spec into Find options.
func findOptions(sort bson.D) []*options.FindOptions {
	if sort == nil {
		return nil
	}
	return []*options.FindOptions{options.Find().SetSort(sort)}
}
