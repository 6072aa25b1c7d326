// ABOUTME: EvalRecord stores one evaluation result for an agent run
// ABOUTME: TestInfo distinguishes CI test runs from live evaluation rows
package models

import "time"

// EvalRecord is one scored evaluation of an agent's output
type EvalRecord struct {
	ID           string    `json:"id"`
	AgentName    string    `json:"agent_name"`
	Input        string    `json:"input"`
	Output       string    `json:"output"`
	Result       string    `json:"result"`
	MetricName   string    `json:"metric_name"`
	Instructions string    `json:"instructions,omitempty"`
	TestInfo     string    `json:"test_info,omitempty"`
	GlobalRunID  string    `json:"global_run_id"`
	RunID        string    `json:"run_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// EvalType selects which eval rows to list
type EvalType string

const (
	EvalTypeLive EvalType = "live"
	EvalTypeTest EvalType = "test"
)
