// ABOUTME: Resource storage operations against SurrealDB
// ABOUTME: Per-owner working memory shared across that owner's threads
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const (
	sqlGetResource = `SELECT * FROM type::thing("resources", $id)`

	sqlSaveResource = `UPSERT type::thing("resources", $id) CONTENT {
		working_memory: $working_memory,
		metadata: $metadata,
		created_at: $created_at,
		updated_at: $updated_at
	}`

	sqlUpdateResource = `UPDATE type::thing("resources", $id) SET working_memory = $working_memory, metadata = $metadata, updated_at = $updated_at`
)

// ResourceStore handles resource persistence
type ResourceStore struct {
	db surreal.Queryer
}

// NewResourceStore creates a new ResourceStore
func NewResourceStore(db surreal.Queryer) *ResourceStore {
	return &ResourceStore{db: db}
}

// Get retrieves a resource by id, or nil when it does not exist
func (s *ResourceStore) Get(ctx context.Context, resourceID string) (*models.Resource, error) {
	rows, err := s.db.Query(ctx, sqlGetResource, map[string]any{"id": resourceID})
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	res := resourceFromRow(rows[0])
	return &res, nil
}

// Save upserts a resource
func (s *ResourceStore) Save(ctx context.Context, res *models.Resource) error {
	if res.ID == "" {
		return fmt.Errorf("resource id is required")
	}

	now := time.Now().UTC()
	createdAt := res.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := s.db.Query(ctx, sqlSaveResource, map[string]any{
		"id":             res.ID,
		"working_memory": res.WorkingMemory,
		"metadata":       res.Metadata,
		"created_at":     createdAt,
		"updated_at":     now,
	})
	if err != nil {
		return fmt.Errorf("failed to save resource: %w", err)
	}
	return nil
}

// UpdateResourceParams patches a resource's working memory and/or
// metadata. Nil fields are left untouched; metadata keys merge into the
// existing metadata.
type UpdateResourceParams struct {
	ID            string
	WorkingMemory *string
	Metadata      map[string]any
}

// Update patches an existing resource. Returns ErrNotFound when the
// target resource does not exist.
func (s *ResourceStore) Update(ctx context.Context, params UpdateResourceParams) (*models.Resource, error) {
	existing, err := s.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("resource %s: %w", params.ID, ErrNotFound)
	}

	if params.WorkingMemory != nil {
		existing.WorkingMemory = *params.WorkingMemory
	}
	if params.Metadata != nil {
		if existing.Metadata == nil {
			existing.Metadata = map[string]any{}
		}
		for k, v := range params.Metadata {
			existing.Metadata[k] = v
		}
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.Query(ctx, sqlUpdateResource, map[string]any{
		"id":             existing.ID,
		"working_memory": existing.WorkingMemory,
		"metadata":       existing.Metadata,
		"updated_at":     existing.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update resource: %w", err)
	}
	return existing, nil
}

// resourceFromRow maps a result row onto a Resource
func resourceFromRow(row map[string]any) models.Resource {
	return models.Resource{
		ID:            surreal.IDField(row, "id"),
		WorkingMemory: surreal.StringField(row, "working_memory"),
		Metadata:      surreal.MapField(row, "metadata"),
		CreatedAt:     surreal.TimeField(row, "created_at"),
		UpdatedAt:     surreal.TimeField(row, "updated_at"),
	}
}
