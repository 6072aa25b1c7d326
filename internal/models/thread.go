// ABOUTME: Thread represents a single conversation owned by a resource
// ABOUTME: Core grouping entity for agent memory storage
package models

import (
	"time"
)

// Thread represents one conversation. Threads belonging to the same
// resource (user/entity) form the scope for cross-thread semantic recall.
type Thread struct {
	ID         string         `json:"id"`
	ResourceID string         `json:"resource_id"`
	Title      string         `json:"title,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewThread creates a thread with a generated id and current timestamps
func NewThread(resourceID, title string) *Thread {
	now := time.Now().UTC()
	return &Thread{
		ID:         NewID(),
		ResourceID: resourceID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
