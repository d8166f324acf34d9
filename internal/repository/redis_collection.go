package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/dine-service/internal/domain"
)

// redisCollection keeps each collection in one hash keyed by document id.
type redisCollection[T any] struct {
	client redis.Cmdable
	key    string
}

// NewRedisCollection stores documents under the hash "<prefix>:<name>".
func NewRedisCollection[T any](client redis.Cmdable, prefix, name string) Collection[T] {
	key := name
	if prefix != "" {
		key = prefix + ":" + name
	}
	return &redisCollection[T]{client: client, key: key}
}

// NewRedisCollections builds all service collections on a Redis client.
func NewRedisCollections(client redis.Cmdable, prefix string) *Collections {
	return &Collections{
		Users:   NewRedisCollection[domain.User](client, prefix, UsersCollection),
		Menu:    NewRedisCollection[domain.MenuItem](client, prefix, MenuCollection),
		Reviews: NewRedisCollection[domain.Review](client, prefix, ReviewsCollection),
		Carts:   NewRedisCollection[domain.CartItem](client, prefix, CartCollection),
	}
}

func (c *redisCollection[T]) ParseID(raw string) (any, error) {
	return parseUUID(raw)
}

type redisEntry[T any] struct {
	id     string
	raw    string
	doc    T
	fields map[string]any
}

// The scripts change a hash field only while it still holds the value the
// caller read. They return 1 on success, 0 when the field is gone and -1
// when it was rewritten in between.
const (
	replaceIfUnchanged = `local cur = redis.call('HGET', KEYS[1], ARGV[1])
if not cur then return 0 end
if cur ~= ARGV[2] then return -1 end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[3])
return 1`

	deleteIfUnchanged = `local cur = redis.call('HGET', KEYS[1], ARGV[1])
if not cur then return 0 end
if cur ~= ARGV[2] then return -1 end
return redis.call('HDEL', KEYS[1], ARGV[1])`
)

// maxWriteAttempts bounds how often a conditional write is retried after a
// concurrent rewrite of the same document.
const maxWriteAttempts = 5

// ErrWriteConflict is returned when a document kept changing underneath a
// conditional write.
var ErrWriteConflict = errors.New("concurrent write conflict")

// scan loads the documents matching want, in id order. When the filter
// addresses an id only that hash field is read.
func (c *redisCollection[T]) scan(ctx context.Context, want map[string]any, limit int) ([]redisEntry[T], error) {
	raw := map[string]string{}
	if id, ok := lookupID(want); ok {
		val, err := c.client.HGet(ctx, c.key, id).Result()
		switch {
		case errors.Is(err, redis.Nil):
			return nil, nil
		case err != nil:
			return nil, fmt.Errorf("redis hget %s: %w", c.key, err)
		}
		raw[id] = val
	} else {
		all, err := c.client.HGetAll(ctx, c.key).Result()
		if err != nil {
			return nil, fmt.Errorf("redis hgetall %s: %w", c.key, err)
		}
		raw = all
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]redisEntry[T], 0, len(ids))
	for _, id := range ids {
		doc, fields, err := decodeDocument[T]([]byte(raw[id]))
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.key, id, err)
		}
		if !matches(fields, want) {
			continue
		}
		entries = append(entries, redisEntry[T]{id: id, raw: raw[id], doc: doc, fields: fields})
		if limit > 0 && len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func (c *redisCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}
	entries, err := c.scan(ctx, want, 0)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.doc)
	}
	return out, nil
}

func (c *redisCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}
	entries, err := c.scan(ctx, want, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return &entries[0].doc, nil
}

func (c *redisCollection[T]) InsertOne(ctx context.Context, doc *T) (*InsertResult, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, err
	}
	id := newDocumentID()
	if err := c.write(ctx, id, fields); err != nil {
		return nil, err
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// UpdateOne re-reads and retries when the matched document is rewritten
// between the read and the write. A document deleted in between is left
// deleted.
func (c *redisCollection[T]) UpdateOne(ctx context.Context, filter Filter, set Document) (*UpdateResult, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}
	changes, err := toFields(set)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		entries, err := c.scan(ctx, want, 1)
		if err != nil {
			return nil, err
		}
		res := &UpdateResult{Acknowledged: true}
		if len(entries) == 0 {
			return res, nil
		}
		entry := entries[0]
		if !applySet(entry.fields, changes) {
			res.MatchedCount = 1
			return res, nil
		}
		entry.fields[IDField] = entry.id
		next, err := json.Marshal(entry.fields)
		if err != nil {
			return nil, err
		}

		outcome, err := c.client.Eval(ctx, replaceIfUnchanged, []string{c.key}, entry.id, entry.raw, string(next)).Int64()
		if err != nil {
			return nil, fmt.Errorf("redis update %s: %w", c.key, err)
		}
		switch outcome {
		case 1:
			res.MatchedCount, res.ModifiedCount = 1, 1
			return res, nil
		case 0:
			return res, nil
		}
	}
	return nil, fmt.Errorf("update %s: %w", c.key, ErrWriteConflict)
}

func (c *redisCollection[T]) DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error) {
	want, err := filterFields(filter)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		entries, err := c.scan(ctx, want, 1)
		if err != nil {
			return nil, err
		}
		res := &DeleteResult{Acknowledged: true}
		if len(entries) == 0 {
			return res, nil
		}

		outcome, err := c.client.Eval(ctx, deleteIfUnchanged, []string{c.key}, entries[0].id, entries[0].raw).Int64()
		if err != nil {
			return nil, fmt.Errorf("redis delete %s: %w", c.key, err)
		}
		if outcome >= 0 {
			res.DeletedCount = outcome
			return res, nil
		}
	}
	return nil, fmt.Errorf("delete %s: %w", c.key, ErrWriteConflict)
}

func (c *redisCollection[T]) write(ctx context.Context, id string, fields map[string]any) error {
	fields[IDField] = id
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := c.client.HSet(ctx, c.key, id, raw).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", c.key, err)
	}
	return nil
}
