// ABOUTME: Eval record storage operations against SurrealDB
// ABOUTME: Saves evaluation results and lists them per agent, test or live
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const (
	sqlSaveEval = `UPSERT type::thing("evals", $id) CONTENT {
		agent_name: $agent_name,
		input: $input,
		output: $output,
		result: $result,
		metric_name: $metric_name,
		instructions: $instructions,
		test_info: $test_info,
		global_run_id: $global_run_id,
		run_id: $run_id,
		created_at: $created_at
	}`

	sqlEvalsByAgent = `SELECT * FROM evals WHERE agent_name = $agent_name ORDER BY created_at DESC`

	sqlTestEvalsByAgent = `SELECT * FROM evals WHERE agent_name = $agent_name AND test_info != "" ORDER BY created_at DESC`

	sqlLiveEvalsByAgent = `SELECT * FROM evals WHERE agent_name = $agent_name AND (test_info = NONE OR test_info = "") ORDER BY created_at DESC`
)

// EvalStore handles eval record persistence
type EvalStore struct {
	db surreal.Queryer
}

// NewEvalStore creates a new EvalStore
func NewEvalStore(db surreal.Queryer) *EvalStore {
	return &EvalStore{db: db}
}

// Save upserts one eval record, generating an id when absent
func (s *EvalStore) Save(ctx context.Context, eval *models.EvalRecord) error {
	if eval.AgentName == "" {
		return fmt.Errorf("eval agent name is required")
	}
	if eval.ID == "" {
		eval.ID = models.NewID()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Query(ctx, sqlSaveEval, map[string]any{
		"id":            eval.ID,
		"agent_name":    eval.AgentName,
		"input":         eval.Input,
		"output":        eval.Output,
		"result":        eval.Result,
		"metric_name":   eval.MetricName,
		"instructions":  eval.Instructions,
		"test_info":     eval.TestInfo,
		"global_run_id": eval.GlobalRunID,
		"run_id":        eval.RunID,
		"created_at":    eval.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save eval: %w", err)
	}
	return nil
}

// GetByAgent retrieves eval records for an agent, newest first.
// EvalTypeTest selects rows written by CI runs (test_info present),
// EvalTypeLive everything else; an empty type selects both.
func (s *EvalStore) GetByAgent(ctx context.Context, agentName string, evalType models.EvalType) ([]models.EvalRecord, error) {
	sql := sqlEvalsByAgent
	switch evalType {
	case models.EvalTypeTest:
		sql = sqlTestEvalsByAgent
	case models.EvalTypeLive:
		sql = sqlLiveEvalsByAgent
	}

	rows, err := s.db.Query(ctx, sql, map[string]any{"agent_name": agentName})
	if err != nil {
		return nil, fmt.Errorf("failed to list evals: %w", err)
	}

	evals := make([]models.EvalRecord, 0, len(rows))
	for _, row := range rows {
		evals = append(evals, evalFromRow(row))
	}
	return evals, nil
}

// evalFromRow maps a result row onto an EvalRecord
func evalFromRow(row map[string]any) models.EvalRecord {
	return models.EvalRecord{
		ID:           surreal.IDField(row, "id"),
		AgentName:    surreal.StringField(row, "agent_name"),
		Input:        surreal.StringField(row, "input"),
		Output:       surreal.StringField(row, "output"),
		Result:       surreal.StringField(row, "result"),
		MetricName:   surreal.StringField(row, "metric_name"),
		Instructions: surreal.StringField(row, "instructions"),
		TestInfo:     surreal.StringField(row, "test_info"),
		GlobalRunID:  surreal.StringField(row, "global_run_id"),
		RunID:        surreal.StringField(row, "run_id"),
		CreatedAt:    surreal.TimeField(row, "created_at"),
	}
}
