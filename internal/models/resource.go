// ABOUTME: Resource represents the cross-thread owner of conversations
// ABOUTME: Carries per-owner working memory shared across that owner's threads
package models

import "time"

// Resource is the cross-thread grouping key (typically a user). Its
// working memory is a free-form document the agent maintains across
// conversations.
type Resource struct {
	ID            string         `json:"id"`
	WorkingMemory string         `json:"working_memory,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
