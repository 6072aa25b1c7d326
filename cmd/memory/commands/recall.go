// ABOUTME: CLI command for semantic recall across conversation history
// ABOUTME: Embeds the query, runs vector search, and expands each match
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
)

var (
	recallResource string
	recallTopK     int
	recallBefore   int
	recallAfter    int
)

// NewRecallCmd creates recall command
func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall <query>",
		Short: "Search conversation history semantically",
		Long: `Find messages semantically similar to the query and print them
with surrounding context from their threads.

Examples:
  memory recall "what did we decide about the database"
  memory recall --resource alice --top-k 3 "project timeline"`,
		Args: cobra.ExactArgs(1),
		RunE: runRecall,
	}

	cmd.Flags().StringVar(&recallResource, "resource", "", "Restrict to threads owned by this resource")
	cmd.Flags().IntVar(&recallTopK, "top-k", 5, "Maximum number of matches")
	cmd.Flags().IntVar(&recallBefore, "before", 2, "Messages of context before each match")
	cmd.Flags().IntVar(&recallAfter, "after", 1, "Messages of context after each match")

	return cmd
}

func runRecall(cmd *cobra.Command, args []string) error {
	query := args[0]

	if err := validatePositiveInt(recallTopK, "top-k"); err != nil {
		return err
	}

	ctx := context.Background()
	storage, cfg, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(ctx) }()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	embedding, err := embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	var filter map[string]any
	if recallResource != "" {
		filter = map[string]any{"resource_id": recallResource}
	}

	hits, err := storage.Vectors.Query(ctx, store.QueryParams{
		Collection: cfg.RecallCollection,
		Vector:     embedding,
		TopK:       recallTopK,
		Filter:     filter,
	})
	if err != nil {
		return fmt.Errorf("vector search: %w", err)
	}

	anchors := make([]models.ContextAnchor, 0, len(hits))
	scores := make(map[string]float64, len(hits))
	for _, hit := range hits {
		threadID, _ := hit.Metadata["thread_id"].(string)
		anchors = append(anchors, models.ContextAnchor{
			ID:       hit.ID,
			ThreadID: threadID,
			Before:   recallBefore,
			After:    recallAfter,
		})
		scores[hit.ID] = hit.Score
	}

	messages, err := storage.Messages.List(ctx, store.ListMessagesParams{Include: anchors})
	if err != nil {
		return fmt.Errorf("expanding matches: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}

	if len(messages) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches")
		return nil
	}

	lastThread := ""
	for _, msg := range messages {
		if msg.ThreadID != lastThread {
			fmt.Fprintf(cmd.OutOrStdout(), "\n── thread %s ──\n", msg.ThreadID)
			lastThread = msg.ThreadID
		}
		marker := "  "
		if score, ok := scores[msg.ID]; ok {
			marker = fmt.Sprintf("* %.3f ", score)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s[%s] %s\n", marker, msg.Role, truncate(msg.Content, 100))
	}
	return nil
}
