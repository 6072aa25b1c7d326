// ABOUTME: Main entry point for the memory MCP server with stdio transport
// ABOUTME: Initializes SurrealDB storage, the embedding client, and all tools
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/config"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/llm"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/mcp"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys and connection settings)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	storage, err := store.NewStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer storage.Close(ctx)

	// Embeddings are optional: without a key the server still stores and
	// lists, it just cannot recall semantically
	var embedder *llm.EmbeddingClient
	if cfg.OpenAIKey != "" {
		embedder, err = llm.NewEmbeddingClient(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize embedding client: %v", err)
		}
	} else {
		log.Println("Warning: OPENAI_API_KEY not set - semantic recall will not work")
	}

	server := mcpserver.NewMCPServer(
		"Mastra SurrealDB Memory",
		"0.1.0",
	)

	mcp.RegisterTools(server, storage, embedder, cfg)

	log.Println("Memory MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
