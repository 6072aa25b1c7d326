// ABOUTME: Message storage operations against SurrealDB
// ABOUTME: Batch save/update/delete plus last-N and anchor-expanded listing
package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const (
	sqlGetMessage = `SELECT * FROM type::thing("messages", $id)`

	sqlMessagesByThread = `SELECT * FROM messages WHERE thread_id = $thread_id ORDER BY created_at ASC, id ASC`

	sqlSaveMessage = `UPSERT type::thing("messages", $id) CONTENT {
		thread_id: $thread_id,
		resource_id: $resource_id,
		role: $role,
		content: $content,
		metadata: $metadata,
		created_at: $created_at
	}`

	sqlTouchThread = `UPDATE type::thing("threads", $id) SET updated_at = $updated_at`

	sqlUpdateMessage = `UPDATE type::thing("messages", $id) SET content = $content, metadata = $metadata`

	sqlDeleteMessage = `DELETE type::thing("messages", $id)`
)

// MessageStore handles message persistence
type MessageStore struct {
	db surreal.Queryer
}

// NewMessageStore creates a new MessageStore
func NewMessageStore(db surreal.Queryer) *MessageStore {
	return &MessageStore{db: db}
}

// Get retrieves a message by id, or nil when it does not exist
func (s *MessageStore) Get(ctx context.Context, messageID string) (*models.Message, error) {
	rows, err := s.db.Query(ctx, sqlGetMessage, map[string]any{"id": messageID})
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	msg := messageFromRow(rows[0])
	return &msg, nil
}

// ListByThread retrieves the full ordered message list of a thread
func (s *MessageStore) ListByThread(ctx context.Context, threadID string) ([]models.Message, error) {
	rows, err := s.db.Query(ctx, sqlMessagesByThread, map[string]any{"thread_id": threadID})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	msgs := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, messageFromRow(row))
	}
	return msgs, nil
}

// ListMessagesParams selects messages for retrieval. Last limits the
// thread listing to its trailing N messages (0 means all). Include
// expands context anchors (typically vector search hits), each from
// its own thread.
type ListMessagesParams struct {
	ThreadID string
	Last     int
	Include  []models.ContextAnchor
}

// List returns the selected thread messages merged with the expanded
// anchor windows, deduplicated by id and sorted chronologically.
func (s *MessageStore) List(ctx context.Context, params ListMessagesParams) ([]models.Message, error) {
	var result []models.Message
	seen := make(map[string]bool)

	if params.ThreadID != "" {
		msgs, err := s.ListByThread(ctx, params.ThreadID)
		if err != nil {
			return nil, err
		}
		if params.Last > 0 && len(msgs) > params.Last {
			msgs = msgs[len(msgs)-params.Last:]
		}
		for _, msg := range msgs {
			seen[msg.ID] = true
			result = append(result, msg)
		}
	}

	if len(params.Include) > 0 {
		expanded, err := contextAssembler{src: s}.Expand(ctx, params.Include)
		if err != nil {
			return nil, err
		}
		for _, msg := range expanded {
			if !seen[msg.ID] {
				seen[msg.ID] = true
				result = append(result, msg)
			}
		}
	}

	sortMessages(result)
	return result, nil
}

// Save upserts a batch of messages sequentially and bumps each touched
// thread's updated_at. There is no rollback: on error, messages already
// applied stay applied (at-least-once, not atomic).
func (s *MessageStore) Save(ctx context.Context, msgs []models.Message) ([]models.Message, error) {
	now := time.Now().UTC()
	touched := make(map[string]bool)

	saved := make([]models.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.ThreadID == "" {
			return nil, fmt.Errorf("message %q has no thread id", msg.ID)
		}
		if msg.ID == "" {
			msg.ID = models.NewID()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = now
		}

		_, err := s.db.Query(ctx, sqlSaveMessage, map[string]any{
			"id":          msg.ID,
			"thread_id":   msg.ThreadID,
			"resource_id": msg.ResourceID,
			"role":        string(msg.Role),
			"content":     msg.Content,
			"metadata":    msg.Metadata,
			"created_at":  msg.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save message %s: %w", msg.ID, err)
		}

		touched[msg.ThreadID] = true
		saved = append(saved, msg)
	}

	for threadID := range touched {
		_, err := s.db.Query(ctx, sqlTouchThread, map[string]any{
			"id":         threadID,
			"updated_at": now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to touch thread %s: %w", threadID, err)
		}
	}

	return saved, nil
}

// UpdateMessageParams patches one message's content and/or metadata.
// Nil fields are left untouched; metadata keys merge into the existing
// metadata.
type UpdateMessageParams struct {
	ID       string
	Content  *string
	Metadata map[string]any
}

// Update applies content/metadata patches. A patch targeting a missing
// message fails with ErrNotFound; patches already applied stay applied.
func (s *MessageStore) Update(ctx context.Context, patches []UpdateMessageParams) ([]models.Message, error) {
	updated := make([]models.Message, 0, len(patches))

	for _, patch := range patches {
		existing, err := s.Get(ctx, patch.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("message %s: %w", patch.ID, ErrNotFound)
		}

		if patch.Content != nil {
			existing.Content = *patch.Content
		}
		if patch.Metadata != nil {
			if existing.Metadata == nil {
				existing.Metadata = map[string]any{}
			}
			for k, v := range patch.Metadata {
				existing.Metadata[k] = v
			}
		}

		_, err = s.db.Query(ctx, sqlUpdateMessage, map[string]any{
			"id":       existing.ID,
			"content":  existing.Content,
			"metadata": existing.Metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update message %s: %w", existing.ID, err)
		}
		updated = append(updated, *existing)
	}

	return updated, nil
}

// Delete removes messages by id. Missing ids are no-ops.
func (s *MessageStore) Delete(ctx context.Context, messageIDs []string) error {
	for _, id := range messageIDs {
		if _, err := s.db.Query(ctx, sqlDeleteMessage, map[string]any{"id": id}); err != nil {
			return fmt.Errorf("failed to delete message %s: %w", id, err)
		}
	}
	return nil
}

// sortMessages orders messages chronologically; ULID ids break
// created_at ties in insertion order
func sortMessages(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

// messageFromRow maps a result row onto a Message
func messageFromRow(row map[string]any) models.Message {
	return models.Message{
		ID:         surreal.IDField(row, "id"),
		ThreadID:   surreal.StringField(row, "thread_id"),
		ResourceID: surreal.StringField(row, "resource_id"),
		Role:       models.MessageRole(surreal.StringField(row, "role")),
		Content:    surreal.StringField(row, "content"),
		Metadata:   surreal.MapField(row, "metadata"),
		CreatedAt:  surreal.TimeField(row, "created_at"),
	}
}
