// ABOUTME: MCP tool definitions and registration for the memory server
// ABOUTME: Defines JSON schemas for the conversation memory tools
package mcp

import (
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/config"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/llm"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, storage *store.Storage, embedder *llm.EmbeddingClient, cfg *config.Config) *Handlers {
	handlers := &Handlers{
		storage:    storage,
		embedder:   embedder,
		collection: cfg.RecallCollection,
		dimension:  cfg.VectorDimension,
	}

	// 1. save_message - Store a conversation turn
	server.AddTool(mcp.Tool{
		Name:        "save_message",
		Description: "Store a conversation message in a thread. Creates the thread on first use and indexes the message for semantic recall.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"thread_id": map[string]interface{}{
					"type":        "string",
					"description": "Thread to append to (created if it does not exist)",
				},
				"resource_id": map[string]interface{}{
					"type":        "string",
					"description": "Owner of the thread (user or entity id)",
				},
				"role": map[string]interface{}{
					"type":        "string",
					"description": "Message role: user, assistant, system, or tool",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Message content",
				},
			},
			Required: []string{"thread_id", "resource_id", "role", "content"},
		},
	}, handlers.SaveMessage)

	// 2. recall - Semantic search across conversation history
	server.AddTool(mcp.Tool{
		Name:        "recall",
		Description: "Retrieve relevant conversation excerpts by semantic similarity. Each match is expanded with surrounding messages from its thread.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"resource_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to threads owned by this resource",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of matches (default: 5)",
					"default":     5,
				},
				"before": map[string]interface{}{
					"type":        "number",
					"description": "Messages of context before each match (default: 2)",
					"default":     2,
				},
				"after": map[string]interface{}{
					"type":        "number",
					"description": "Messages of context after each match (default: 1)",
					"default":     1,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.Recall)

	// 3. list_threads - List threads for a resource
	server.AddTool(mcp.Tool{
		Name:        "list_threads",
		Description: "List all conversation threads owned by a resource, most recently active first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"resource_id": map[string]interface{}{
					"type":        "string",
					"description": "Owner to list threads for",
				},
			},
			Required: []string{"resource_id"},
		},
	}, handlers.ListThreads)

	// 4. get_thread - Full message history of one thread
	server.AddTool(mcp.Tool{
		Name:        "get_thread",
		Description: "Get a thread and its full message history in chronological order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"thread_id": map[string]interface{}{
					"type":        "string",
					"description": "Thread to retrieve",
				},
				"last": map[string]interface{}{
					"type":        "number",
					"description": "Only return the trailing N messages (default: all)",
				},
			},
			Required: []string{"thread_id"},
		},
	}, handlers.GetThread)

	return handlers
}
