package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dine-service/internal/domain"
)

// collectionContract exercises the behavior every JSON-backed collection
// shares.
func collectionContract(t *testing.T, newCollection func(t *testing.T) Collection[domain.CartItem]) {
	ctx := context.Background()

	t.Run("Should insert and find by field", func(t *testing.T) {
		coll := newCollection(t)
		first, err := coll.InsertOne(ctx, &domain.CartItem{Email: "b@x.com", Name: "Soup", Price: 4.5})
		require.NoError(t, err)
		assert.True(t, first.Acknowledged)
		assert.NotEmpty(t, first.InsertedID)
		_, err = coll.InsertOne(ctx, &domain.CartItem{Email: "c@x.com", Name: "Salad"})
		require.NoError(t, err)
		_, err = coll.InsertOne(ctx, &domain.CartItem{Email: "b@x.com", Name: "Pie"})
		require.NoError(t, err)

		items, err := coll.Find(ctx, Filter{"email": "b@x.com"})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Soup", items[0].Name)
		assert.Equal(t, first.InsertedID, items[0].ID)
		assert.Equal(t, 4.5, items[0].Price)
		assert.Equal(t, "Pie", items[1].Name)

		all, err := coll.Find(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Should return an empty slice when nothing matches", func(t *testing.T) {
		coll := newCollection(t)
		items, err := coll.Find(ctx, Filter{"email": "nobody@x.com"})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("Should report ErrNotFound from FindOne", func(t *testing.T) {
		coll := newCollection(t)
		_, err := coll.FindOne(ctx, Filter{"email": "nobody@x.com"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should update one document by id", func(t *testing.T) {
		coll := newCollection(t)
		ins, err := coll.InsertOne(ctx, &domain.CartItem{Email: "b@x.com", Name: "Soup"})
		require.NoError(t, err)

		res, err := coll.UpdateOne(ctx, ByID(ins.InsertedID), Document{"name": "Stew"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)

		res, err = coll.UpdateOne(ctx, ByID(ins.InsertedID), Document{"name": "Stew"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(0), res.ModifiedCount)

		got, err := coll.FindOne(ctx, ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, "Stew", got.Name)
		assert.Equal(t, "b@x.com", got.Email)
	})

	t.Run("Should report zero matches when updating a missing id", func(t *testing.T) {
		coll := newCollection(t)
		id, err := coll.ParseID("0190f3a2-7b1c-7d4e-9a5b-3c2d1e0f9a8b")
		require.NoError(t, err)
		res, err := coll.UpdateOne(ctx, ByID(id), Document{"name": "x"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.MatchedCount)
	})

	t.Run("Should delete at most once", func(t *testing.T) {
		coll := newCollection(t)
		ins, err := coll.InsertOne(ctx, &domain.CartItem{Email: "b@x.com"})
		require.NoError(t, err)

		res, err := coll.DeleteOne(ctx, ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.DeletedCount)

		res, err = coll.DeleteOne(ctx, ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.Equal(t, int64(0), res.DeletedCount)
	})

	t.Run("Should reject malformed ids", func(t *testing.T) {
		coll := newCollection(t)
		_, err := coll.ParseID("not-an-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("Should reject nil filter values", func(t *testing.T) {
		coll := newCollection(t)
		_, err := coll.Find(ctx, Filter{"email": nil})
		assert.ErrorIs(t, err, ErrInvalidFilter)
		var missing *string
		_, err = coll.DeleteOne(ctx, Filter{"email": missing})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestMemoryCollection(t *testing.T) {
	collectionContract(t, func(*testing.T) Collection[domain.CartItem] {
		return NewMemoryCollection[domain.CartItem]()
	})
}

func TestRedisCollection(t *testing.T) {
	collectionContract(t, func(t *testing.T) Collection[domain.CartItem] {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisCollection[domain.CartItem](client, "test", CartCollection)
	})

	t.Run("Should keep documents under the prefixed hash", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()
		colls := NewRedisCollections(client, "dine")

		ins, err := colls.Users.InsertOne(context.Background(), &domain.User{Email: "a@x.com"})
		require.NoError(t, err)
		assert.True(t, mr.Exists("dine:users"))
		keys, err := mr.HKeys("dine:users")
		require.NoError(t, err)
		assert.Contains(t, keys, ins.InsertedID)
	})
}

// interleavedClient runs before once, right ahead of the next script call,
// to simulate another writer landing between a read and its write.
type interleavedClient struct {
	redis.Cmdable
	before func()
}

func (c *interleavedClient) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if hook := c.before; hook != nil {
		c.before = nil
		hook()
	}
	return c.Cmdable.Eval(ctx, script, keys, args...)
}

func TestRedisCollection_ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	setup := func(t *testing.T) (*interleavedClient, Collection[domain.User], Collection[domain.User]) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		hooked := &interleavedClient{Cmdable: client}
		return hooked, NewRedisCollection[domain.User](hooked, "test", UsersCollection), NewRedisCollection[domain.User](client, "test", UsersCollection)
	}

	t.Run("Should leave a document deleted during an update deleted", func(t *testing.T) {
		hooked, users, other := setup(t)
		ins, err := users.InsertOne(ctx, &domain.User{Email: "a@x.com"})
		require.NoError(t, err)

		hooked.before = func() {
			res, err := other.DeleteOne(ctx, ByID(ins.InsertedID))
			require.NoError(t, err)
			require.Equal(t, int64(1), res.DeletedCount)
		}
		res, err := users.UpdateOne(ctx, ByID(ins.InsertedID), Document{"role": domain.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.MatchedCount)
		assert.Equal(t, int64(0), res.ModifiedCount)

		_, err = other.FindOne(ctx, ByID(ins.InsertedID))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Should reapply an update over a concurrent rewrite", func(t *testing.T) {
		hooked, users, other := setup(t)
		ins, err := users.InsertOne(ctx, &domain.User{Email: "a@x.com"})
		require.NoError(t, err)

		hooked.before = func() {
			_, err := other.UpdateOne(ctx, ByID(ins.InsertedID), Document{"name": "Ann"})
			require.NoError(t, err)
		}
		res, err := users.UpdateOne(ctx, ByID(ins.InsertedID), Document{"role": domain.RoleAdmin})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ModifiedCount)

		got, err := other.FindOne(ctx, ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.Name)
		assert.True(t, got.IsAdmin())
	})

	t.Run("Should not delete a document rewritten out of the filter", func(t *testing.T) {
		hooked, users, other := setup(t)
		ins, err := users.InsertOne(ctx, &domain.User{Email: "a@x.com"})
		require.NoError(t, err)

		hooked.before = func() {
			_, err := other.UpdateOne(ctx, ByID(ins.InsertedID), Document{"email": "b@x.com"})
			require.NoError(t, err)
		}
		res, err := users.DeleteOne(ctx, Filter{"email": "a@x.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.DeletedCount)

		got, err := other.FindOne(ctx, ByID(ins.InsertedID))
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", got.Email)
	})

	t.Run("Should never resurrect a deleted user under concurrent promote", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		users := NewRedisCollection[domain.User](client, "test", UsersCollection)

		for round := 0; round < 100; round++ {
			ins, err := users.InsertOne(ctx, &domain.User{Email: "a@x.com"})
			require.NoError(t, err)

			var (
				wg      sync.WaitGroup
				deleted *DeleteResult
				delErr  error
				updErr  error
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, updErr = users.UpdateOne(ctx, ByID(ins.InsertedID), Document{"role": domain.RoleAdmin})
			}()
			go func() {
				defer wg.Done()
				deleted, delErr = users.DeleteOne(ctx, ByID(ins.InsertedID))
			}()
			wg.Wait()
			require.NoError(t, updErr)
			require.NoError(t, delErr)
			require.Equal(t, int64(1), deleted.DeletedCount)

			_, err = users.FindOne(ctx, ByID(ins.InsertedID))
			require.ErrorIs(t, err, ErrNotFound, "round %d", round)
		}
	})
}
