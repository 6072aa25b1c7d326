// ABOUTME: Message represents a single conversation turn and its context anchor
// ABOUTME: Messages are ordered by created_at with ULID ids as a stable tiebreak
package models

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// MessageRole identifies who produced a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
	RoleTool      MessageRole = "tool"
)

// Valid reports whether the role is one of the known roles
func (r MessageRole) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	}
	return false
}

// Message represents a single turn in a thread. Content is opaque to the
// storage layer: plain text or a serialized structured payload (tool calls,
// multi-part content).
type Message struct {
	ID         string         `json:"id"`
	ThreadID   string         `json:"thread_id"`
	ResourceID string         `json:"resource_id,omitempty"`
	Role       MessageRole    `json:"role"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ContextAnchor references a matched message plus a requested context
// window. Anchors are how vector search hits get expanded into readable
// conversation excerpts, each from its own thread.
type ContextAnchor struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id,omitempty"`
	Before   int    `json:"before,omitempty"`
	After    int    `json:"after,omitempty"`
}

// NewID generates a ULID string. ULIDs sort lexicographically by creation
// time, which gives messages a stable insertion-order tiebreak when
// created_at timestamps collide.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}
