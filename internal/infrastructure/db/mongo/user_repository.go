package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/imusici/academy-system/internal/core/domain"
	"github.com/imusici/academy-system/internal/core/ports"
)

const userCollection = "utenti"

// UserRepository stores accounts in the utenti collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email), "ruolo": string(role)})
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"id": bson.M{"$in": ids}}, nil)
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["ruolo"] = string(filter.Role)
	}
	if filter.Active != nil {
		query["attivo"] = *filter.Active
	}
	return r.find(ctx, query, bson.D{{Key: "cognome", Value: 1}, {Key: "nome", Value: 1}})
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": u.ID}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	query := bson.M{"email": strings.ToLower(email)}
	if excludeID != "" {
		query["id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return false, fmt.Errorf("count emails: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByName(ctx context.Context, firstName, lastName string) ([]*domain.User, error) {
	query := bson.M{
		"nome":    caseInsensitiveExact(firstName),
		"cognome": caseInsensitiveExact(lastName),
	}
	return r.find(ctx, query, nil)
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role, activeOnly bool) (int64, error) {
	query := bson.M{"ruolo": string(role)}
	if activeOnly {
		query["attivo"] = true
	}
	n, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) findOne(ctx context.Context, query bson.M) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, query).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) find(ctx context.Context, query bson.M, sort bson.D) ([]*domain.User, error) {
	opts := findOptions(sort)
	cur, err := r.coll.Find(ctx, query, opts...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := []*domain.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// caseInsensitiveExact builds a ^...$ regex match ignoring case.
func caseInsensitiveExact(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + escapeRegex(s) + "$", Options: "i"}
}

func escapeRegex(s string) string {
	special := `\.+*?()|[]{}^$`
	var b strings.Builder
	for _, c := range s {
		if strings.ContainsRune(special, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
