// ABOUTME: Trace stores one telemetry span emitted by the agent framework
// ABOUTME: Attributes and status bodies are opaque to the storage layer
package models

import "time"

// Trace is one span of agent telemetry
type Trace struct {
	ID           string         `json:"id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	TraceID      string         `json:"trace_id"`
	Name         string         `json:"name"`
	Scope        string         `json:"scope,omitempty"`
	Kind         int            `json:"kind"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Status       string         `json:"status,omitempty"`
	Events       string         `json:"events,omitempty"`
	Links        string         `json:"links,omitempty"`
	StartTime    int64          `json:"start_time"`
	EndTime      int64          `json:"end_time"`
	CreatedAt    time.Time      `json:"created_at"`
}
