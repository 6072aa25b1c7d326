// ABOUTME: Workflow snapshot storage operations against SurrealDB
// ABOUTME: Persists and restores suspended workflow run state by name and run id
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const (
	sqlGetSnapshot = `SELECT * FROM workflow_snapshots WHERE workflow_name = $workflow_name AND run_id = $run_id`

	sqlSaveSnapshot = `UPSERT type::thing("workflow_snapshots", $id) SET
		workflow_name = $workflow_name,
		run_id = $run_id,
		snapshot = $snapshot,
		updated_at = $now,
		created_at = created_at ?? $now`

	sqlListRuns = `SELECT * FROM workflow_snapshots WHERE workflow_name = $workflow_name ORDER BY created_at DESC`
)

// WorkflowStore handles workflow snapshot persistence
type WorkflowStore struct {
	db surreal.Queryer
}

// NewWorkflowStore creates a new WorkflowStore
func NewWorkflowStore(db surreal.Queryer) *WorkflowStore {
	return &WorkflowStore{db: db}
}

// PersistSnapshotParams identifies one run's serialized state
type PersistSnapshotParams struct {
	WorkflowName string
	RunID        string
	Snapshot     string
}

// PersistSnapshot upserts the snapshot for a workflow run
func (s *WorkflowStore) PersistSnapshot(ctx context.Context, params PersistSnapshotParams) error {
	if params.WorkflowName == "" || params.RunID == "" {
		return fmt.Errorf("workflow name and run id are required")
	}

	_, err := s.db.Query(ctx, sqlSaveSnapshot, map[string]any{
		"id":            snapshotID(params.WorkflowName, params.RunID),
		"workflow_name": params.WorkflowName,
		"run_id":        params.RunID,
		"snapshot":      params.Snapshot,
		"now":           time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves one run's snapshot, or nil when no snapshot
// was persisted for it
func (s *WorkflowStore) LoadSnapshot(ctx context.Context, workflowName, runID string) (*models.WorkflowSnapshot, error) {
	rows, err := s.db.Query(ctx, sqlGetSnapshot, map[string]any{
		"workflow_name": workflowName,
		"run_id":        runID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	snap := snapshotFromRow(rows[0])
	return &snap, nil
}

// ListRuns retrieves every persisted run of a workflow, newest first
func (s *WorkflowStore) ListRuns(ctx context.Context, workflowName string) ([]models.WorkflowSnapshot, error) {
	rows, err := s.db.Query(ctx, sqlListRuns, map[string]any{"workflow_name": workflowName})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	snaps := make([]models.WorkflowSnapshot, 0, len(rows))
	for _, row := range rows {
		snaps = append(snaps, snapshotFromRow(row))
	}
	return snaps, nil
}

// snapshotID derives the record id for a workflow/run pair
func snapshotID(workflowName, runID string) string {
	return workflowName + ":" + runID
}

// snapshotFromRow maps a result row onto a WorkflowSnapshot
func snapshotFromRow(row map[string]any) models.WorkflowSnapshot {
	return models.WorkflowSnapshot{
		WorkflowName: surreal.StringField(row, "workflow_name"),
		RunID:        surreal.StringField(row, "run_id"),
		Snapshot:     surreal.StringField(row, "snapshot"),
		CreatedAt:    surreal.TimeField(row, "created_at"),
		UpdatedAt:    surreal.TimeField(row, "updated_at"),
	}
}
