// ABOUTME: Thread storage operations against SurrealDB
// ABOUTME: CRUD for conversation threads with cascade delete of messages
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const (
	sqlGetThread = `SELECT * FROM type::thing("threads", $id)`

	sqlThreadsByResource = `SELECT * FROM threads WHERE resource_id = $resource_id ORDER BY updated_at DESC`

	sqlSaveThread = `UPSERT type::thing("threads", $id) CONTENT {
		resource_id: $resource_id,
		title: $title,
		metadata: $metadata,
		created_at: $created_at,
		updated_at: $updated_at
	}`

	sqlUpdateThread = `UPDATE type::thing("threads", $id) SET title = $title, metadata = $metadata, updated_at = $updated_at`

	sqlDeleteThreadMessages = `DELETE FROM messages WHERE thread_id = $thread_id`

	sqlDeleteThread = `DELETE type::thing("threads", $id)`
)

// ThreadStore handles thread persistence
type ThreadStore struct {
	db surreal.Queryer
}

// NewThreadStore creates a new ThreadStore
func NewThreadStore(db surreal.Queryer) *ThreadStore {
	return &ThreadStore{db: db}
}

// Get retrieves a thread by id, or nil when it does not exist
func (s *ThreadStore) Get(ctx context.Context, threadID string) (*models.Thread, error) {
	rows, err := s.db.Query(ctx, sqlGetThread, map[string]any{"id": threadID})
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	thread := threadFromRow(rows[0])
	return &thread, nil
}

// GetByResource retrieves every thread owned by a resource, most
// recently updated first
func (s *ThreadStore) GetByResource(ctx context.Context, resourceID string) ([]models.Thread, error) {
	rows, err := s.db.Query(ctx, sqlThreadsByResource, map[string]any{"resource_id": resourceID})
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	threads := make([]models.Thread, 0, len(rows))
	for _, row := range rows {
		threads = append(threads, threadFromRow(row))
	}
	return threads, nil
}

// Save upserts a thread
func (s *ThreadStore) Save(ctx context.Context, thread *models.Thread) error {
	if thread.ID == "" {
		return fmt.Errorf("thread id is required")
	}

	now := time.Now().UTC()
	createdAt := thread.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := thread.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.db.Query(ctx, sqlSaveThread, map[string]any{
		"id":          thread.ID,
		"resource_id": thread.ResourceID,
		"title":       thread.Title,
		"metadata":    thread.Metadata,
		"created_at":  createdAt,
		"updated_at":  updatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}
	return nil
}

// UpdateThreadParams patches a thread's title and/or metadata. Nil
// fields are left untouched; metadata keys are merged into the existing
// metadata.
type UpdateThreadParams struct {
	ID       string
	Title    *string
	Metadata map[string]any
}

// Update patches an existing thread. Returns ErrNotFound when the
// target thread does not exist.
func (s *ThreadStore) Update(ctx context.Context, params UpdateThreadParams) (*models.Thread, error) {
	existing, err := s.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("thread %s: %w", params.ID, ErrNotFound)
	}

	if params.Title != nil {
		existing.Title = *params.Title
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

	_, err = s.db.Query(ctx, sqlUpdateThread, map[string]any{
		"id":         existing.ID,
		"title":      existing.Title,
		"metadata":   existing.Metadata,
		"updated_at": existing.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}
	return existing, nil
}

// Delete removes a thread and cascades to all its messages
func (s *ThreadStore) Delete(ctx context.Context, threadID string) error {
	if _, err := s.db.Query(ctx, sqlDeleteThreadMessages, map[string]any{"thread_id": threadID}); err != nil {
		return fmt.Errorf("failed to delete thread messages: %w", err)
	}
	if _, err := s.db.Query(ctx, sqlDeleteThread, map[string]any{"id": threadID}); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}

// threadFromRow maps a result row onto a Thread
func threadFromRow(row map[string]any) models.Thread {
	return models.Thread{
		ID:         surreal.IDField(row, "id"),
		ResourceID: surreal.StringField(row, "resource_id"),
		Title:      surreal.StringField(row, "title"),
		Metadata:   surreal.MapField(row, "metadata"),
		CreatedAt:  surreal.TimeField(row, "created_at"),
		UpdatedAt:  surreal.TimeField(row, "updated_at"),
	}
}
