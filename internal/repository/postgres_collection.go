package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/dine-service/internal/domain"
)

// PgxQuerier is the subset of *pgxpool.Pool used by the postgres collections.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// postgresCollection stores documents as JSONB rows in the shared
// documents table, partitioned by the collection column.
type postgresCollection[T any] struct {
	db   PgxQuerier
	name string
}

// NewPostgresCollection returns a collection backed by the documents table.
func NewPostgresCollection[T any](db PgxQuerier, name string) Collection[T] {
	return &postgresCollection[T]{db: db, name: name}
}

// NewPostgresCollections builds all service collections on a pgx pool.
func NewPostgresCollections(db PgxQuerier) *Collections {
	return &Collections{
		Users:   NewPostgresCollection[domain.User](db, UsersCollection),
		Menu:    NewPostgresCollection[domain.MenuItem](db, MenuCollection),
		Reviews: NewPostgresCollection[domain.Review](db, ReviewsCollection),
		Carts:   NewPostgresCollection[domain.CartItem](db, CartCollection),
	}
}

func (c *postgresCollection[T]) ParseID(raw string) (any, error) {
	return parseUUID(raw)
}

// where renders the filter as a predicate over the documents table. The id
// lives in its own column; every other field is matched by containment.
func (c *postgresCollection[T]) where(filter Filter) (string, []any, error) {
	fields, err := filterFields(filter)
	if err != nil {
		return "", nil, err
	}
	id, hasID := lookupID(fields)
	delete(fields, IDField)

	contains, err := json.Marshal(fields)
	if err != nil {
		return "", nil, err
	}

	clause := "collection = $1 AND doc @> $2::jsonb"
	args := []any{c.name, string(contains)}
	if hasID {
		clause += " AND id = $3::uuid"
		args = append(args, id)
	}
	return clause, args, nil
}

const selectDocument = `SELECT doc || jsonb_build_object('_id', id::text) FROM documents`

func (c *postgresCollection[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.Query(ctx, selectDocument+" WHERE "+clause+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (c *postgresCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = c.db.QueryRow(ctx, selectDocument+" WHERE "+clause+" ORDER BY id LIMIT 1", args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", c.name, err)
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return &doc, nil
}

func (c *postgresCollection[T]) InsertOne(ctx context.Context, doc *T) (*InsertResult, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, err
	}
	delete(fields, IDField)
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	const query = `INSERT INTO documents (id, collection, doc) VALUES ($1::uuid, $2, $3::jsonb)`
	id := newDocumentID()
	if _, err := c.db.Exec(ctx, query, id, c.name, string(raw)); err != nil {
		return nil, fmt.Errorf("insert %s: %w", c.name, err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (c *postgresCollection[T]) UpdateOne(ctx context.Context, filter Filter, set Document) (*UpdateResult, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	changes, err := toFields(set)
	if err != nil {
		return nil, err
	}
	delete(changes, IDField)
	patch, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}
	setArg := fmt.Sprintf("$%d::jsonb", len(args)+1)
	args = append(args, string(patch))

	query := `
        WITH target AS (
            SELECT id, doc FROM documents WHERE ` + clause + ` ORDER BY id LIMIT 1
        ), updated AS (
            UPDATE documents d SET doc = d.doc || ` + setArg + `
            FROM target t
            WHERE d.id = t.id AND NOT (t.doc @> ` + setArg + `)
            RETURNING d.id
        )
        SELECT (SELECT count(*) FROM target), (SELECT count(*) FROM updated)`

	res := &UpdateResult{Acknowledged: true}
	if err := c.db.QueryRow(ctx, query, args...).Scan(&res.MatchedCount, &res.ModifiedCount); err != nil {
		return nil, fmt.Errorf("update %s: %w", c.name, err)
	}
	return res, nil
}

func (c *postgresCollection[T]) DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error) {
	clause, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	query := `DELETE FROM documents WHERE id = (SELECT id FROM documents WHERE ` + clause + ` ORDER BY id LIMIT 1)`
	cmd, err := c.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", c.name, err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: cmd.RowsAffected()}, nil
}
