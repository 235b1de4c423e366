package identity

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDirectory resolves users against the Booking4U users collection.
// The REST API owns that collection; the relay only reads it.
type MongoDirectory struct {
	col *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database, collection string) *MongoDirectory {
	return &MongoDirectory{col: db.Collection(collection)}
}

type userDoc struct {
	Name   string `bson:"name"`
	Active bool   `bson:"active"`
}

func (d *MongoDirectory) Lookup(ctx context.Context, userID string) (*Profile, error) {
	// User ids issued by the API are ObjectID hex; tolerate plain string ids
	// for fixtures and legacy documents.
	var filter bson.M
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		filter = bson.M{"_id": oid}
	} else {
		filter = bson.M{"_id": userID}
	}

	var doc userDoc
	err := d.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "identity lookup")
	}
	return &Profile{ID: userID, Name: doc.Name, Active: doc.Active}, nil
}
