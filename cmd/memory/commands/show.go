// ABOUTME: CLI command to print a thread's message history
// ABOUTME: Shows messages chronologically with roles and timestamps
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/store"
)

var showLast int

// NewShowCmd creates show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <thread-id>",
		Short: "Show a thread's messages",
		Long: `Print a thread's message history in chronological order.

Examples:
  memory show t1
  memory show t1 --last 10
  memory show t1 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().IntVar(&showLast, "last", 0, "Only show the trailing N messages")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	threadID := args[0]

	ctx := context.Background()
	storage, _, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(ctx) }()

	thread, err := storage.Threads.Get(ctx, threadID)
	if err != nil {
		return fmt.Errorf("loading thread: %w", err)
	}
	if thread == nil {
		return fmt.Errorf("thread %q not found", threadID)
	}

	messages, err := storage.Messages.List(ctx, store.ListMessagesParams{
		ThreadID: threadID,
		Last:     showLast,
	})
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}

	title := thread.Title
	if title == "" {
		title = thread.ID
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Thread: %s (resource %s)\n\n", title, thread.ResourceID)

	for _, msg := range messages {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  %s\n", msg.Role, formatTime(msg.CreatedAt), msg.Content)
	}
	if len(messages) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no messages)")
	}
	return nil
}
