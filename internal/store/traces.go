// ABOUTME: Trace span storage operations against SurrealDB
// ABOUTME: Batch insert plus paginated listing with parameterized filters
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const sqlSaveTrace = `UPSERT type::thing("traces", $id) CONTENT {
	parent_span_id: $parent_span_id,
	trace_id: $trace_id,
	name: $name,
	scope: $scope,
	kind: $kind,
	attributes: $attributes,
	status: $status,
	events: $events,
	links: $links,
	start_time: $start_time,
	end_time: $end_time,
	created_at: $created_at
}`

// TraceStore handles trace span persistence
type TraceStore struct {
	db surreal.Queryer
}

// NewTraceStore creates a new TraceStore
func NewTraceStore(db surreal.Queryer) *TraceStore {
	return &TraceStore{db: db}
}

// BatchInsert saves spans sequentially. No rollback: spans already
// applied stay applied when a later one fails.
func (s *TraceStore) BatchInsert(ctx context.Context, traces []models.Trace) error {
	for _, tr := range traces {
		if tr.ID == "" {
			return fmt.Errorf("trace span id is required")
		}
		createdAt := tr.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err := s.db.Query(ctx, sqlSaveTrace, map[string]any{
			"id":             tr.ID,
			"parent_span_id": tr.ParentSpanID,
			"trace_id":       tr.TraceID,
			"name":           tr.Name,
			"scope":          tr.Scope,
			"kind":           tr.Kind,
			"attributes":     tr.Attributes,
			"status":         tr.Status,
			"events":         tr.Events,
			"links":          tr.Links,
			"start_time":     tr.StartTime,
			"end_time":       tr.EndTime,
			"created_at":     createdAt,
		})
		if err != nil {
			return fmt.Errorf("failed to save trace %s: %w", tr.ID, err)
		}
	}
	return nil
}

// ListTracesParams filters and paginates the trace listing. Name
// matches span names by prefix; Scope matches exactly. Page is
// zero-based.
type ListTracesParams struct {
	Name    string
	Scope   string
	Page    int
	PerPage int
}

// List retrieves trace spans newest first. Filters are parameterized;
// nothing caller-controlled reaches the statement text.
func (s *TraceStore) List(ctx context.Context, params ListTracesParams) ([]models.Trace, error) {
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	page := params.Page
	if page < 0 {
		page = 0
	}

	var clauses []string
	vars := map[string]any{
		"limit": perPage,
		"start": page * perPage,
	}
	if params.Name != "" {
		clauses = append(clauses, "string::starts_with(name, $name)")
		vars["name"] = params.Name
	}
	if params.Scope != "" {
		clauses = append(clauses, "scope = $scope")
		vars["scope"] = params.Scope
	}

	sql := "SELECT * FROM traces"
	if len(clauses) > 0 {
		sql += " WHERE " + strings.Join(clauses, " AND ")
	}
	sql += " ORDER BY start_time DESC LIMIT $limit START $start"

	rows, err := s.db.Query(ctx, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list traces: %w", err)
	}

	traces := make([]models.Trace, 0, len(rows))
	for _, row := range rows {
		traces = append(traces, traceFromRow(row))
	}
	return traces, nil
}

// traceFromRow maps a result row onto a Trace
func traceFromRow(row map[string]any) models.Trace {
	return models.Trace{
		ID:           surreal.IDField(row, "id"),
		ParentSpanID: surreal.StringField(row, "parent_span_id"),
		TraceID:      surreal.StringField(row, "trace_id"),
		Name:         surreal.StringField(row, "name"),
		Scope:        surreal.StringField(row, "scope"),
		Kind:         surreal.IntField(row, "kind"),
		Attributes:   surreal.MapField(row, "attributes"),
		Status:       surreal.StringField(row, "status"),
		Events:       surreal.StringField(row, "events"),
		Links:        surreal.StringField(row, "links"),
		StartTime:    surreal.Int64Field(row, "start_time"),
		EndTime:      surreal.Int64Field(row, "end_time"),
		CreatedAt:    surreal.TimeField(row, "created_at"),
	}
}
