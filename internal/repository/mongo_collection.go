package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/dine-service/internal/domain"
)

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps a driver collection. Identifiers are ObjectIDs.
func NewMongoCollection[T any](coll *mongo.Collection) Collection[T] {
	return &mongoCollection[T]{coll: coll}
}

// NewMongoCollections builds all service collections on a database.
func NewMongoCollections(db *mongo.Database) *Collections {
	return &Collections{
		Users:   NewMongoCollection[domain.User](db.Collection(UsersCollection)),
		Menu:    NewMongoCollection[domain.MenuItem](db.Collection(MenuCollection)),
		Reviews: NewMongoCollection[domain.Review](db.Collection(ReviewsCollection)),
		Carts:   NewMongoCollection[domain.CartItem](db.Collection(CartCollection)),
	}
}

func (c *mongoCollection[T]) ParseID(raw string) (any, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

func (c *mongoCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	cur, err := c.coll.Find(ctx, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return out, nil
}

func (c *mongoCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	var doc T
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

func (c *mongoCollection[T]) InsertOne(ctx context.Context, doc *T) (*InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", c.coll.Name(), err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (c *mongoCollection[T]) UpdateOne(ctx context.Context, filter Filter, set Document) (*UpdateResult, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	res, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": toBSON(Filter(set))})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (c *mongoCollection[T]) DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}
	res, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", c.coll.Name(), err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// toBSON never yields a nil map; the driver cannot encode nil as a top-level
// document.
func toBSON(f Filter) bson.M {
	if f == nil {
		return bson.M{}
	}
	return bson.M(f)
}
