// ABOUTME: CLI command to append a message to a conversation thread
// ABOUTME: Creates the thread on first use and indexes the message for recall
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/config"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
)

var (
	addThread   string
	addResource string
	addRole     string
	addFile     string
	addNoIndex  bool
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a message to a thread",
		Long: `Append a message to a conversation thread, creating the thread
if it does not exist, and index it for semantic recall.

Examples:
  memory add --thread t1 --resource alice "Met about project X"
  memory add --thread t1 --resource alice --role assistant "Noted."
  memory add --thread t1 --resource alice --file notes.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addThread, "thread", "", "Thread id (required)")
	cmd.Flags().StringVar(&addResource, "resource", "", "Resource id owning the thread (required)")
	cmd.Flags().StringVar(&addRole, "role", "user", "Message role: user, assistant, system, or tool")
	cmd.Flags().StringVar(&addFile, "file", "", "Read message content from file")
	cmd.Flags().BoolVar(&addNoIndex, "no-index", false, "Skip embedding and recall indexing")
	_ = cmd.MarkFlagRequired("thread")
	_ = cmd.MarkFlagRequired("resource")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Get message text
	var text string
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	} else if len(args) > 0 {
		text = args[0]
	} else {
		// Read from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no text provided")
	}

	role := models.MessageRole(addRole)
	if !role.Valid() {
		return fmt.Errorf("unknown role %q (want user, assistant, system, or tool)", addRole)
	}

	ctx := context.Background()
	storage, cfg, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(ctx) }()

	// Create the thread on first use
	thread, err := storage.Threads.Get(ctx, addThread)
	if err != nil {
		return fmt.Errorf("loading thread: %w", err)
	}
	if thread == nil {
		thread = models.NewThread(addResource, "")
		thread.ID = addThread
		if err := storage.Threads.Save(ctx, thread); err != nil {
			return fmt.Errorf("creating thread: %w", err)
		}
	}

	saved, err := storage.Messages.Save(ctx, []models.Message{{
		ThreadID:   addThread,
		ResourceID: addResource,
		Role:       role,
		Content:    text,
	}})
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	msg := saved[0]

	if !addNoIndex {
		if err := indexForRecall(ctx, storage, cfg, msg); err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: recall indexing skipped: %v\n", err)
			}
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved message %s to thread %s\n", msg.ID, msg.ThreadID)
	}
	return nil
}

// indexForRecall embeds a message and upserts it into the recall collection
func indexForRecall(ctx context.Context, storage *store.Storage, cfg *config.Config, msg models.Message) error {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	err = storage.Vectors.CreateCollection(ctx, store.CreateCollectionParams{
		Name:      cfg.RecallCollection,
		Dimension: cfg.VectorDimension,
		Metric:    models.MetricCosine,
	})
	if err != nil {
		return fmt.Errorf("preparing recall collection: %w", err)
	}

	embedding, err := embedder.GenerateEmbedding(ctx, msg.Content)
	if err != nil {
		return fmt.Errorf("embedding message: %w", err)
	}

	_, err = storage.Vectors.Upsert(ctx, store.UpsertParams{
		Collection: cfg.RecallCollection,
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
