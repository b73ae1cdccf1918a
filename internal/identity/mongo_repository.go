package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contactbook/contactbook/internal/apperr"
)

const usersCollection = "users"

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// MongoRepository stores users in a MongoDB collection with a unique email index.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a Mongo-backed user repository and ensures the
// unique index on email exists.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(usersCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create users email index: %w", err)
	}
	return &MongoRepository{coll: coll}, nil
}

// Create inserts a user document under a fresh ObjectID.
func (r *MongoRepository) Create(ctx context.Context, user User) (User, error) {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, apperr.ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("%w: insert user: %v", apperr.ErrPersistence, err)
	}
	user.ID = doc.ID.Hex()
	return user, nil
}

// FindByEmail fetches a user by exact email.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, apperr.ErrNotFound
		}
		return User{}, fmt.Errorf("%w: find user: %v", apperr.ErrPersistence, err)
	}
	return User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}
