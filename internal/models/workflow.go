// ABOUTME: WorkflowSnapshot persists suspended workflow run state
// ABOUTME: Keyed by workflow name plus run id, snapshot body is opaque JSON
package models

import "time"

// WorkflowSnapshot is the serialized state of one workflow run
type WorkflowSnapshot struct {
	WorkflowName string    `json:"workflow_name"`
	RunID        string    `json:"run_id"`
	Snapshot     string    `json:"snapshot"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
