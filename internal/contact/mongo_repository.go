package contact

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

const contactsCollection = "contacts"

type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Lastname  string             `bson:"lastname"`
	Num       string             `bson:"num"`
	ImageURL  string             `bson:"imageUrl"`
	UserID    string             `bson:"userId"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d contactDocument) toContact() Contact {
	return Contact{
		ID:        d.ID.Hex(),
		OwnerID:   d.UserID,
		Name:      d.Name,
		Lastname:  d.Lastname,
		Num:       d.Num,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoRepository stores contacts as documents keyed by ObjectID with a userId owner field.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository builds a Mongo-backed contact repository and ensures the
// owner index exists.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(contactsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create contacts owner index: %w", err)
	}
	return &MongoRepository{coll: coll}, nil
}

// Create inserts a contact document under a fresh ObjectID.
func (r *MongoRepository) Create(ctx context.Context, c Contact) (Contact, error) {
	doc := contactDocument{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Lastname:  c.Lastname,
		Num:       c.Num,
		ImageURL:  c.ImageURL,
		UserID:    c.OwnerID,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return Contact{}, fmt.Errorf("%w: insert contact: %v", apperr.ErrPersistence, err)
	}
	c.ID = doc.ID.Hex()
	return c, nil
}

// ListByOwner returns the owner's contacts in creation order.
func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", apperr.ErrPersistence, err)
	}
	defer cur.Close(ctx)

	out := make([]Contact, 0)
	for cur.Next(ctx) {
		var doc contactDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode contact: %v", apperr.ErrPersistence, err)
		}
		out = append(out, doc.toContact())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", apperr.ErrPersistence, err)
	}
	return out, nil
}

// FindByOwner fetches one contact by id, restricted to the owner.
func (r *MongoRepository) FindByOwner(ctx context.Context, ownerID, id string) (Contact, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return Contact{}, err
	}
	var doc contactDocument
	if err := r.coll.FindOne(ctx, ownerFilter(oid, ownerID)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, apperr.ErrNotFound
		}
		return Contact{}, fmt.Errorf("%w: find contact: %v", apperr.ErrPersistence, err)
	}
	return doc.toContact(), nil
}

// UpdateByOwner $sets the non-nil patch fields on the owner's contact.
func (r *MongoRepository) UpdateByOwner(ctx context.Context, ownerID, id string, patch Patch, at time.Time) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}
	set := bson.M{"updatedAt": at.UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Lastname != nil {
		set["lastname"] = *patch.Lastname
	}
	if patch.Num != nil {
		set["num"] = *patch.Num
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	res, err := r.coll.UpdateOne(ctx, ownerFilter(oid, ownerID), bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("%w: update contact: %v", apperr.ErrPersistence, err)
	}
	return res.MatchedCount, nil
}

// DeleteByOwner removes the owner's contact.
func (r *MongoRepository) DeleteByOwner(ctx context.Context, ownerID, id string) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteOne(ctx, ownerFilter(oid, ownerID))
	if err != nil {
		return 0, fmt.Errorf("%w: delete contact: %v", apperr.ErrPersistence, err)
	}
	return res.DeletedCount, nil
}

func ownerFilter(id primitive.ObjectID, ownerID string) bson.M {
	return bson.M{"_id": id, "userId": ownerID}
}

func parseObjectID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid contact id %q", apperr.ErrValidation, raw)
	}
	return oid, nil
}
