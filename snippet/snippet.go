// Package snippet resolves reusable content fragments referenced from
// documents by id. A fragment names a source article and the subset of its
// block keys it includes.
package snippet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"sdx/shelf"
)

// ErrNotFound is returned when an id has no stored fragment.
var ErrNotFound = errors.New("snippet not found")

// Resolver looks up a content fragment by id and returns the source article
// blocks it includes, in the source article's document order.
type Resolver interface {
	Resolve(ctx context.Context, id string) ([]shelf.Block, error)
}

// SQLiteResolver reads fragments from a local sqlite database. The expected
// schema is a single table:
//
//	CREATE TABLE snippets (id TEXT PRIMARY KEY, keys TEXT NOT NULL, body TEXT NOT NULL);
//
// where keys is a JSON array of included block keys and body is the source
// article serialized as JSON.
type SQLiteResolver struct {
	pool *sqlitex.Pool
}

// OpenSQLite opens a snippet database for reading.
func OpenSQLite(path string) (*SQLiteResolver, error) {
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		Flags:    sqlite.OpenReadOnly,
		PoolSize: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open snippet database %s: %w", path, err)
	}
	return &SQLiteResolver{pool: pool}, nil
}

// Close releases the database connections.
func (r *SQLiteResolver) Close() error {
	return r.pool.Close()
}

// Resolve fetches the fragment stored under id and filters the source article
// blocks down to the included keys.
func (r *SQLiteResolver) Resolve(ctx context.Context, id string) ([]shelf.Block, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to get database connection: %w", err)
	}
	defer r.pool.Put(conn)

	var keysJSON, body string
	err = sqlitex.Execute(conn, "SELECT keys, body FROM snippets WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			keysJSON = stmt.ColumnText(0)
			body = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to query snippet %q: %w", id, err)
	}
	if body == "" {
		return nil, fmt.Errorf("snippet %q: %w", id, ErrNotFound)
	}

	var keys []string
	if err := json.Unmarshal([]byte(keysJSON), &keys); err != nil {
		return nil, fmt.Errorf("unable to parse snippet %q keys: %w", id, err)
	}
	art, err := shelf.ParseArticle(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to parse snippet %q body: %w", id, err)
	}
	return Filter(art.Blocks, keys), nil
}

// Filter keeps the blocks whose key is in keys, preserving source order.
func Filter(blocks []shelf.Block, keys []string) []shelf.Block {
	included := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		included[k] = struct{}{}
	}
	var out []shelf.Block
	for _, b := range blocks {
		if _, ok := included[b.Key]; ok {
			out = append(out, b)
		}
	}
	return out
}
