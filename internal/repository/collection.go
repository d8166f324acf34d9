package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/dine-service/internal/domain"
)

// IDField is the document key holding the store-native identifier.
const IDField = "_id"

var (
	// ErrNotFound is returned by FindOne when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when a raw id cannot be converted to the
	// store's identifier type.
	ErrInvalidID = errors.New("invalid document id")
	// ErrInvalidFilter is returned when a filter value is nil. Backends
	// disagree on whether null matches an absent field, so no backend
	// accepts it.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Filter matches documents whose top-level fields equal the given values.
// An empty filter matches every document. Values must not be nil.
type Filter map[string]any

func (f Filter) validate() error {
	for key, val := range f {
		if val == nil {
			return fmt.Errorf("%w: nil value for %q", ErrInvalidFilter, key)
		}
	}
	return nil
}

// Document is a set of top-level fields, used as the $set part of updates.
type Document map[string]any

// InsertResult acknowledges an insert.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// UpdateResult acknowledges an update of at most one document.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

// DeleteResult acknowledges a delete of at most one document.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is filter-based access to one document collection.
type Collection[T any] interface {
	Find(ctx context.Context, filter Filter) ([]T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	InsertOne(ctx context.Context, doc *T) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter Filter, set Document) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error)
	ParseID(raw string) (any, error)
}

// Collection names.
const (
	UsersCollection   = "users"
	MenuCollection    = "menu"
	ReviewsCollection = "reviews"
	CartCollection    = "cart"
)

// Collections bundles the typed collections the service works with.
type Collections struct {
	Users   Collection[domain.User]
	Menu    Collection[domain.MenuItem]
	Reviews Collection[domain.Review]
	Carts   Collection[domain.CartItem]
}

// ByID builds a filter addressing a single document.
func ByID(id any) Filter {
	return Filter{IDField: id}
}
