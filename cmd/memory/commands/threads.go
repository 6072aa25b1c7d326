// ABOUTME: CLI command to list conversation threads for a resource
// ABOUTME: Supports tabular and JSON output
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var threadsResource string

// NewThreadsCmd creates threads command
func NewThreadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List threads for a resource",
		Long: `List all conversation threads owned by a resource, most
recently active first.

Examples:
  memory threads --resource alice
  memory threads --resource alice --format json`,
		RunE: runThreads,
	}

	cmd.Flags().StringVar(&threadsResource, "resource", "", "Resource id to list threads for (required)")
	_ = cmd.MarkFlagRequired("resource")

	return cmd
}

func runThreads(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	storage, _, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(ctx) }()

	threads, err := storage.Threads.GetByResource(ctx, threadsResource)
	if err != nil {
		return fmt.Errorf("listing threads: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(threads)
	}

	if len(threads) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No threads for resource %s\n", threadsResource)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "THREAD\tTITLE\tUPDATED")
	for _, th := range threads {
		title := th.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", th.ID, truncate(title, 40), formatTime(th.UpdatedAt))
	}
	return w.Flush()
}
