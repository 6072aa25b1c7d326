// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to use memory tools via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/llm"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Memory as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to store and recall conversation memory
via stdio.

Configure in Claude Desktop's config file to enable memory tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  memory mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "memory": {
  #       "command": "memory",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, cfg, err := openStorage(ctx)
	if err != nil {
		return err
	}

	// Embeddings are optional - without a key the server can still
	// store and list, just not recall semantically
	var embedder *llm.EmbeddingClient
	if cfg.OpenAIKey != "" {
		embedder, err = llm.NewEmbeddingClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize embedding client: %v", err)
		}
	} else {
		log.Println("Warning: OPENAI_API_KEY not set - semantic recall will not work")
	}

	server := mcpserver.NewMCPServer(
		"Mastra SurrealDB Memory",
		"0.1.0",
	)

	mcp.RegisterTools(server, storage, embedder, cfg)

	if !quiet {
		log.Println("Memory MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		if err := storage.Close(context.Background()); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
