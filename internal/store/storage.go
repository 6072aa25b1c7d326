// ABOUTME: Unified Storage facade wiring every store over one SurrealDB client
// ABOUTME: Owns connection lifecycle and idempotent schema initialization
package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/config"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

// Storage bundles all entity stores behind a single handle. Every store
// shares one Queryer; there is no in-process caching, so every read
// reflects the database's state at call time.
type Storage struct {
	client *surreal.Client

	Threads   *ThreadStore
	Messages  *MessageStore
	Vectors   *VectorStore
	Resources *ResourceStore
	Workflows *WorkflowStore
	Evals     *EvalStore
	Traces    *TraceStore
}

// NewStorage connects to SurrealDB using the given configuration,
// applies the schema, and returns a ready Storage. The caller owns
// Close.
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	client, err := surreal.Open(ctx, surreal.Options{
		URL:       cfg.URL,
		Namespace: cfg.Namespace,
		Database:  cfg.Database,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open surrealdb: %w", err)
	}

	s := NewStorageWithQueryer(client)
	s.client = client

	if err := s.Init(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}
	return s, nil
}

// NewStorageWithQueryer builds a Storage over an existing query
// capability. Used by tests and by callers embedding the adapter behind
// their own connection management; Close is a no-op for such storages.
func NewStorageWithQueryer(db surreal.Queryer) *Storage {
	return &Storage{
		Threads:   NewThreadStore(db),
		Messages:  NewMessageStore(db),
		Vectors:   NewVectorStore(db),
		Resources: NewResourceStore(db),
		Workflows: NewWorkflowStore(db),
		Evals:     NewEvalStore(db),
		Traces:    NewTraceStore(db),
	}
}

// Init applies the table and index definitions. All statements are
// idempotent, so running Init on every startup is safe.
func (s *Storage) Init(ctx context.Context) error {
	db := s.queryer()
	for _, stmt := range surreal.Schema {
		if _, err := db.Query(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	log.Printf("[Storage] schema applied (%d statements)", len(surreal.Schema))
	return nil
}

// Close releases the underlying connection when this Storage owns one
func (s *Storage) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Close(ctx)
}

// queryer returns the shared query capability
func (s *Storage) queryer() surreal.Queryer {
	return s.Threads.db
}
