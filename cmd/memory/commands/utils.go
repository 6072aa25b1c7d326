// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Storage setup plus formatting helpers used across subcommands
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/config"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/llm"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
)

// openStorage loads config from the environment and connects to SurrealDB
func openStorage(ctx context.Context) (*store.Storage, *config.Config, error) {
	// Load .env for API keys and connection settings
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	storage, err := store.NewStorage(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return storage, cfg, nil
}

// newEmbedder builds the embedding client, or errors when no key is set
func newEmbedder(cfg *config.Config) (*llm.EmbeddingClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return llm.NewEmbeddingClient(cfg)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
