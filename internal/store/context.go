// ABOUTME: Context retrieval engine for cross-thread semantic recall
// ABOUTME: Expands message anchors into clipped windows from their own threads
package store

import (
	"context"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
)

// messageSource is the narrow read surface the context engine needs.
// MessageStore implements it against SurrealDB; tests substitute an
// in-memory fake.
type messageSource interface {
	Get(ctx context.Context, messageID string) (*models.Message, error)
	ListByThread(ctx context.Context, threadID string) ([]models.Message, error)
}

// contextAssembler expands context anchors into a deduplicated,
// chronologically ordered message set. Each anchor resolves
// independently and may reach into a different thread, which is what
// lets semantic recall span every conversation a resource owns without
// cross-contaminating adjacent messages from the wrong thread.
type contextAssembler struct {
	src messageSource
}

// Expand resolves each anchor in input order and returns the merged
// window members sorted by created_at ascending (message id as a stable
// tiebreak). Missing messages and stale anchors are silently skipped:
// semantic search results can reference deleted messages, and the goal
// is degraded recall, not a hard failure. Store-level errors still
// propagate.
//
// Windowing fetches the anchor's entire thread and slices in memory,
// an O(thread length) cost per anchor. The store's query surface has no
// "nth row from a given row" primitive; very large threads would want an
// indexed offset query instead.
func (a contextAssembler) Expand(ctx context.Context, anchors []models.ContextAnchor) ([]models.Message, error) {
	seen := make(map[string]bool)
	var result []models.Message

	for _, anchor := range anchors {
		if anchor.ID == "" {
			continue
		}

		// Without a thread id only the exact message can be fetched;
		// no window is possible since the owning thread is unknown.
		if anchor.ThreadID == "" {
			msg, err := a.src.Get(ctx, anchor.ID)
			if err != nil {
				return nil, err
			}
			if msg != nil && !seen[msg.ID] {
				seen[msg.ID] = true
				result = append(result, *msg)
			}
			continue
		}

		msg, err := a.src.Get(ctx, anchor.ID)
		if err != nil {
			return nil, err
		}
		// Ownership check: an anchor whose stated thread does not match
		// the message's true thread yields nothing, so a caller error
		// cannot leak another conversation's context.
		if msg == nil || msg.ThreadID != anchor.ThreadID {
			continue
		}

		thread, err := a.src.ListByThread(ctx, anchor.ThreadID)
		if err != nil {
			return nil, err
		}

		pos := -1
		for i := range thread {
			if thread[i].ID == anchor.ID {
				pos = i
				break
			}
		}
		if pos < 0 {
			continue
		}

		start := pos - anchor.Before
		if start < 0 {
			start = 0
		}
		end := pos + anchor.After
		if end > len(thread)-1 {
			end = len(thread) - 1
		}

		for i := start; i <= end; i++ {
			if !seen[thread[i].ID] {
				seen[thread[i].ID] = true
				result = append(result, thread[i])
			}
		}
	}

	sortMessages(result)
	return result, nil
}
