// ABOUTME: MCP tool handler implementations for the memory server
// ABOUTME: Bridges tool calls to the SurrealDB stores and the embedding client
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/llm"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage    *store.Storage
	embedder   *llm.EmbeddingClient
	collection string
	dimension  int

	collectionOnce sync.Once
	collectionErr  error
}

// ensureCollection declares the recall collection on first use
func (h *Handlers) ensureCollection(ctx context.Context) error {
	h.collectionOnce.Do(func() {
		h.collectionErr = h.storage.Vectors.CreateCollection(ctx, store.CreateCollectionParams{
			Name:      h.collection,
			Dimension: h.dimension,
			Metric:    models.MetricCosine,
		})
	})
	return h.collectionErr
}

// SaveMessage handles the save_message tool
func (h *Handlers) SaveMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadID, err := request.RequireString("thread_id")
	if err != nil {
		return mcp.NewToolResultError("thread_id argument is required and must be a string"), nil
	}
	resourceID, err := request.RequireString("resource_id")
	if err != nil {
		return mcp.NewToolResultError("resource_id argument is required and must be a string"), nil
	}
	roleStr, err := request.RequireString("role")
	if err != nil {
		return mcp.NewToolResultError("role argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	role := models.MessageRole(roleStr)
	if !role.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown role %q (want user, assistant, system, or tool)", roleStr)), nil
	}

	// Ensure the thread exists before attaching messages to it
	thread, err := h.storage.Threads.Get(ctx, threadID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load thread: %v", err)), nil
	}
	if thread == nil {
		thread = models.NewThread(resourceID, "")
		thread.ID = threadID
		if err := h.storage.Threads.Save(ctx, thread); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create thread: %v", err)), nil
		}
	}

	saved, err := h.storage.Messages.Save(ctx, []models.Message{{
		ThreadID:   threadID,
		ResourceID: resourceID,
		Role:       role,
		Content:    content,
	}})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save message: %v", err)), nil
	}
	msg := saved[0]

	// Index for semantic recall. A failed embedding leaves the message
	// saved but unindexed; recall just won't surface it.
	indexed := false
	if h.embedder != nil {
		if err := h.indexMessage(ctx, msg); err != nil {
			log.Printf("[MCP] indexing failed for message %s: %v", msg.ID, err)
		} else {
			indexed = true
		}
	}

	response := map[string]interface{}{
		"message_id": msg.ID,
		"thread_id":  msg.ThreadID,
		"created_at": msg.CreatedAt.Format(time.RFC3339),
		"indexed":    indexed,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// indexMessage embeds a message and upserts it into the recall collection
func (h *Handlers) indexMessage(ctx context.Context, msg models.Message) error {
	if err := h.ensureCollection(ctx); err != nil {
		return err
	}

	embedding, err := h.embedder.GenerateEmbedding(ctx, msg.Content)
	if err != nil {
		return err
	}

	_, err = h.storage.Vectors.Upsert(ctx, store.UpsertParams{
		Collection: h.collection,
		Records: []models.VectorRecord{{
			ID:        msg.ID,
			Embedding: embedding,
			Metadata: map[string]any{
				"thread_id":   msg.ThreadID,
				"resource_id": msg.ResourceID,
			},
		}},
	})
	return err
}

// Recall handles the recall tool
func (h *Handlers) Recall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	resourceID := request.GetString("resource_id", "")
	topK := request.GetInt("top_k", 5)
	before := request.GetInt("before", 2)
	after := request.GetInt("after", 1)

	if h.embedder == nil {
		return mcp.NewToolResultError("recall requires an embedding client (set OPENAI_API_KEY)"), nil
	}
	if err := h.ensureCollection(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to prepare recall collection: %v", err)), nil
	}

	embedding, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to embed query: %v", err)), nil
	}

	var filter map[string]any
	if resourceID != "" {
		filter = map[string]any{"resource_id": resourceID}
	}

	hits, err := h.storage.Vectors.Query(ctx, store.QueryParams{
		Collection: h.collection,
		Vector:     embedding,
		TopK:       topK,
		Filter:     filter,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("vector search failed: %v", err)), nil
	}

	// Expand each hit into a context window from its own thread
	anchors := make([]models.ContextAnchor, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, hit := range hits {
		anchors = append(anchors, models.ContextAnchor{
			ID:       hit.ID,
			ThreadID: surrealString(hit.Metadata, "thread_id"),
			Before:   before,
			After:    after,
		})
		scores[hit.ID] = hit.Score
	}

	messages, err := h.storage.Messages.List(ctx, store.ListMessagesParams{Include: anchors})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to expand matches: %v", err)), nil
	}

	results := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		entry := map[string]interface{}{
			"message_id": msg.ID,
			"thread_id":  msg.ThreadID,
			"role":       string(msg.Role),
			"content":    msg.Content,
			"created_at": msg.CreatedAt.Format(time.RFC3339),
		}
		if score, ok := scores[msg.ID]; ok {
			entry["score"] = score
		}
		results = append(results, entry)
	}

	response := map[string]interface{}{
		"matches":  len(hits),
		"messages": results,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListThreads handles the list_threads tool
func (h *Handlers) ListThreads(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resourceID, err := request.RequireString("resource_id")
	if err != nil {
		return mcp.NewToolResultError("resource_id argument is required and must be a string"), nil
	}

	threads, err := h.storage.Threads.GetByResource(ctx, resourceID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list threads: %v", err)), nil
	}

	entries := make([]map[string]interface{}, 0, len(threads))
	for _, th := range threads {
		entries = append(entries, map[string]interface{}{
			"thread_id":  th.ID,
			"title":      th.Title,
			"created_at": th.CreatedAt.Format(time.RFC3339),
			"updated_at": th.UpdatedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"resource_id": resourceID,
		"threads":     entries,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetThread handles the get_thread tool
func (h *Handlers) GetThread(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threadID, err := request.RequireString("thread_id")
	if err != nil {
		return mcp.NewToolResultError("thread_id argument is required and must be a string"), nil
	}
	last := request.GetInt("last", 0)

	thread, err := h.storage.Threads.Get(ctx, threadID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load thread: %v", err)), nil
	}
	if thread == nil {
		return mcp.NewToolResultError(fmt.Sprintf("thread %q not found", threadID)), nil
	}

	messages, err := h.storage.Messages.List(ctx, store.ListMessagesParams{
		ThreadID: threadID,
		Last:     last,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load messages: %v", err)), nil
	}

	entries := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, map[string]interface{}{
			"message_id": msg.ID,
			"role":       string(msg.Role),
			"content":    msg.Content,
			"created_at": msg.CreatedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"thread_id":   thread.ID,
		"resource_id": thread.ResourceID,
		"title":       thread.Title,
		"messages":    entries,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// surrealString reads a string value out of hit metadata
func surrealString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
