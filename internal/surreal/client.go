// ABOUTME: SurrealDB client with an explicit open/close lifecycle
// ABOUTME: Wraps the surrealdb.go SDK behind the Queryer interface
package surreal

import (
	"context"
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

// Options configures the connection to SurrealDB
type Options struct {
	// URL is the RPC endpoint, e.g. ws://localhost:8000/rpc
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Client is an explicitly constructed handle to SurrealDB. There is no
// lazy first-call connect: Open establishes the connection, signs in,
// selects the namespace/database, and the caller owns Close on every
// exit path. The handle is safe for concurrent logical use; the server
// is responsible for serialization.
type Client struct {
	db *surrealdb.DB
}

// Open connects to SurrealDB and selects the configured namespace and
// database. Connection and authentication failures are returned
// immediately, never retried here.
func Open(ctx context.Context, opts Options) (*Client, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.URL, err)
	}

	if opts.Username != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: opts.Username,
			Password: opts.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to sign in: %w", err)
		}
	}

	if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to select %s/%s: %w", opts.Namespace, opts.Database, err)
	}

	return &Client{db: db}, nil
}

// Close releases the underlying connection
func (c *Client) Close(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close(ctx)
}

// Query runs a single SurrealQL statement and returns its rows. The
// first statement's result set is returned; per-statement errors from
// the server propagate unchanged.
func (c *Client) Query(ctx context.Context, sql string, vars map[string]any) ([]map[string]any, error) {
	results, err := surrealdb.Query[[]map[string]any](ctx, c.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	first := (*results)[0]
	if first.Status != "OK" {
		return nil, fmt.Errorf("query failed with status %s", first.Status)
	}
	return first.Result, nil
}
