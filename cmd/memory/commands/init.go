// ABOUTME: CLI command to initialize the SurrealDB schema
// ABOUTME: Applies table definitions and creates the recall collection
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the database schema",
		Long: `Connect to SurrealDB, apply the table definitions, and create
the recall collection used for semantic search.

Safe to run repeatedly: definitions are idempotent.

Examples:
  memory init
  SURREAL_URL=ws://db:8000/rpc memory init`,
		RunE: runInit,
	}

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	storage, cfg, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(ctx) }()

	err = storage.Vectors.CreateCollection(ctx, store.CreateCollectionParams{
		Name:      cfg.RecallCollection,
		Dimension: cfg.VectorDimension,
		Metric:    models.MetricCosine,
	})
	if err != nil {
		return fmt.Errorf("creating recall collection: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s/%s at %s\n", cfg.Namespace, cfg.Database, cfg.URL)
		fmt.Fprintf(cmd.OutOrStdout(), "Recall collection: %s (%d dimensions, cosine)\n",
			cfg.RecallCollection, cfg.VectorDimension)
	}
	return nil
}
