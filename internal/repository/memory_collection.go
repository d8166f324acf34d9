package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/dine-service/internal/domain"
)

type memoryCollection[T any] struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]map[string]any
}

// NewMemoryCollection returns an in-process collection preserving insertion
// order. It is intended for tests and local development.
func NewMemoryCollection[T any]() Collection[T] {
	return &memoryCollection[T]{docs: make(map[string]map[string]any)}
}

// NewMemoryCollections builds all service collections in memory.
func NewMemoryCollections() *Collections {
	return &Collections{
		Users:   NewMemoryCollection[domain.User](),
		Menu:    NewMemoryCollection[domain.MenuItem](),
		Reviews: NewMemoryCollection[domain.Review](),
		Carts:   NewMemoryCollection[domain.CartItem](),
	}
}

func (c *memoryCollection[T]) ParseID(raw string) (any, error) {
	return parseUUID(raw)
}

func (c *memoryCollection[T]) Find(_ context.Context, filter Filter) ([]T, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range c.order {
		fields := c.docs[id]
		if !matches(fields, want) {
			continue
		}
		doc, err := fromFields[T](fields)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (c *memoryCollection[T]) FindOne(_ context.Context, filter Filter) (*T, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.firstMatch(want)
	if !ok {
		return nil, ErrNotFound
	}
	doc, err := fromFields[T](c.docs[id])
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *memoryCollection[T]) InsertOne(_ context.Context, doc *T) (*InsertResult, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, err
	}
	id := newDocumentID()
	fields[IDField] = id

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[id] = fields
	c.order = append(c.order, id)
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *memoryCollection[T]) UpdateOne(_ context.Context, filter Filter, set Document) (*UpdateResult, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}
	changes, err := toFields(set)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res := &UpdateResult{Acknowledged: true}
	id, ok := c.firstMatch(want)
	if !ok {
		return res, nil
	}
	res.MatchedCount = 1
	if applySet(c.docs[id], changes) {
		res.ModifiedCount = 1
	}
	return res, nil
}

func (c *memoryCollection[T]) DeleteOne(_ context.Context, filter Filter) (*DeleteResult, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res := &DeleteResult{Acknowledged: true}
	id, ok := c.firstMatch(want)
	if !ok {
		return res, nil
	}
	delete(c.docs, id)
	for i, cur := range c.order {
		if cur == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	res.DeletedCount = 1
	return res, nil
}

// firstMatch must be called with the lock held.
func (c *memoryCollection[T]) firstMatch(want map[string]any) (string, bool) {
	if id, ok := lookupID(want); ok {
		fields, exists := c.docs[id]
		if exists && matches(fields, want) {
			return id, true
		}
		return "", false
	}
	for _, id := range c.order {
		if matches(c.docs[id], want) {
			return id, true
		}
	}
	return "", false
}
