// ABOUTME: In-memory fake Queryer backing the store tests
// ABOUTME: Dispatches on the store's SQL statements against map-backed tables
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
)

// fakeQueryer implements surreal.Queryer over in-memory maps. It
// understands exactly the statements the stores issue; anything else
// must be intercepted by the hook or the test fails loudly.
type fakeQueryer struct {
	threads     map[string]map[string]any
	messages    map[string]map[string]any
	collections map[string]map[string]any
	vectors     map[string]map[string]map[string]any // table -> id -> row
	resources   map[string]map[string]any
	snapshots   map[string]map[string]any
	evals       map[string]map[string]any
	traces      map[string]map[string]any

	queries []string
	vars    []map[string]any
	failOn  string

	// hook intercepts statements first; used for the dynamically
	// composed vector search query
	hook func(sql string, vars map[string]any) ([]map[string]any, bool)
}

func newFakeQueryer() *fakeQueryer {
	return &fakeQueryer{
		threads:     map[string]map[string]any{},
		messages:    map[string]map[string]any{},
		collections: map[string]map[string]any{},
		vectors:     map[string]map[string]map[string]any{},
		resources:   map[string]map[string]any{},
		snapshots:   map[string]map[string]any{},
		evals:       map[string]map[string]any{},
		traces:      map[string]map[string]any{},
	}
}

func (f *fakeQueryer) seedThread(th models.Thread) {
	f.threads[th.ID] = map[string]any{
		"id":          th.ID,
		"resource_id": th.ResourceID,
		"title":       th.Title,
		"metadata":    th.Metadata,
		"created_at":  th.CreatedAt,
		"updated_at":  th.UpdatedAt,
	}
}

func (f *fakeQueryer) seedMessage(msg models.Message) {
	f.messages[msg.ID] = map[string]any{
		"id":          msg.ID,
		"thread_id":   msg.ThreadID,
		"resource_id": msg.ResourceID,
		"role":        string(msg.Role),
		"content":     msg.Content,
		"metadata":    msg.Metadata,
		"created_at":  msg.CreatedAt,
	}
}

func (f *fakeQueryer) seedCollection(name string, dimension int, metric models.DistanceMetric) {
	table := "vector_" + strings.ReplaceAll(name, "-", "_")
	f.collections[name] = map[string]any{
		"id":         name,
		"dimension":  dimension,
		"metric":     string(metric),
		"table_name": table,
		"created_at": time.Now().UTC(),
	}
	if f.vectors[table] == nil {
		f.vectors[table] = map[string]map[string]any{}
	}
}

func (f *fakeQueryer) Query(ctx context.Context, sql string, vars map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, sql)
	f.vars = append(f.vars, vars)

	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return nil, fmt.Errorf("injected failure")
	}
	if f.hook != nil {
		if rows, ok := f.hook(sql, vars); ok {
			return rows, nil
		}
	}

	switch sql {
	case sqlGetThread:
		if row, ok := f.threads[stringVar(vars, "id")]; ok {
			return []map[string]any{row}, nil
		}
		return nil, nil

	case sqlThreadsByResource:
		var rows []map[string]any
		for _, row := range f.threads {
			if row["resource_id"] == vars["resource_id"] {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i]["updated_at"].(time.Time).After(rows[j]["updated_at"].(time.Time))
		})
		return rows, nil

	case sqlSaveThread:
		id := stringVar(vars, "id")
		f.threads[id] = map[string]any{
			"id":          id,
			"resource_id": vars["resource_id"],
			"title":       vars["title"],
			"metadata":    vars["metadata"],
			"created_at":  vars["created_at"],
			"updated_at":  vars["updated_at"],
		}
		return []map[string]any{f.threads[id]}, nil

	case sqlUpdateThread:
		id := stringVar(vars, "id")
		if row, ok := f.threads[id]; ok {
			row["title"] = vars["title"]
			row["metadata"] = vars["metadata"]
			row["updated_at"] = vars["updated_at"]
		}
		return nil, nil

	case sqlDeleteThreadMessages:
		for id, row := range f.messages {
			if row["thread_id"] == vars["thread_id"] {
				delete(f.messages, id)
			}
		}
		return nil, nil

	case sqlDeleteThread:
		delete(f.threads, stringVar(vars, "id"))
		return nil, nil

	case sqlGetMessage:
		if row, ok := f.messages[stringVar(vars, "id")]; ok {
			return []map[string]any{row}, nil
		}
		return nil, nil

	case sqlMessagesByThread:
		var rows []map[string]any
		for _, row := range f.messages {
			if row["thread_id"] == vars["thread_id"] {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			ti := rows[i]["created_at"].(time.Time)
			tj := rows[j]["created_at"].(time.Time)
			if ti.Equal(tj) {
				return rows[i]["id"].(string) < rows[j]["id"].(string)
			}
			return ti.Before(tj)
		})
		return rows, nil

	case sqlSaveMessage:
		id := stringVar(vars, "id")
		f.messages[id] = map[string]any{
			"id":          id,
			"thread_id":   vars["thread_id"],
			"resource_id": vars["resource_id"],
			"role":        vars["role"],
			"content":     vars["content"],
			"metadata":    vars["metadata"],
			"created_at":  vars["created_at"],
		}
		return []map[string]any{f.messages[id]}, nil

	case sqlTouchThread:
		if row, ok := f.threads[stringVar(vars, "id")]; ok {
			row["updated_at"] = vars["updated_at"]
		}
		return nil, nil

	case sqlUpdateMessage:
		if row, ok := f.messages[stringVar(vars, "id")]; ok {
			row["content"] = vars["content"]
			row["metadata"] = vars["metadata"]
		}
		return nil, nil

	case sqlDeleteMessage:
		delete(f.messages, stringVar(vars, "id"))
		return nil, nil

	case sqlGetCollection:
		if row, ok := f.collections[stringVar(vars, "name")]; ok {
			return []map[string]any{row}, nil
		}
		return nil, nil

	case sqlSaveCollection:
		name := stringVar(vars, "name")
		f.collections[name] = map[string]any{
			"id":         name,
			"dimension":  vars["dimension"],
			"metric":     vars["metric"],
			"table_name": vars["table_name"],
			"created_at": vars["created_at"],
		}
		return nil, nil

	case sqlDeleteCollection:
		delete(f.collections, stringVar(vars, "name"))
		return nil, nil

	case sqlUpsertVector:
		table := stringVar(vars, "tb")
		if f.vectors[table] == nil {
			f.vectors[table] = map[string]map[string]any{}
		}
		id := stringVar(vars, "id")
		row, exists := f.vectors[table][id]
		createdAt := vars["now"]
		if exists {
			createdAt = row["created_at"]
		}
		f.vectors[table][id] = map[string]any{
			"id":         id,
			"embedding":  vars["embedding"],
			"metadata":   vars["metadata"],
			"updated_at": vars["now"],
			"created_at": createdAt,
		}
		return nil, nil

	case sqlCountVectors:
		table := stringVar(vars, "tb")
		return []map[string]any{{"count": len(f.vectors[table])}}, nil

	case sqlDeleteVector:
		delete(f.vectors[stringVar(vars, "tb")], stringVar(vars, "id"))
		return nil, nil

	case sqlTruncateVectors:
		f.vectors[stringVar(vars, "tb")] = map[string]map[string]any{}
		return nil, nil

	case sqlGetResource:
		if row, ok := f.resources[stringVar(vars, "id")]; ok {
			return []map[string]any{row}, nil
		}
		return nil, nil

	case sqlSaveResource:
		id := stringVar(vars, "id")
		f.resources[id] = map[string]any{
			"id":             id,
			"working_memory": vars["working_memory"],
			"metadata":       vars["metadata"],
			"created_at":     vars["created_at"],
			"updated_at":     vars["updated_at"],
		}
		return nil, nil

	case sqlUpdateResource:
		if row, ok := f.resources[stringVar(vars, "id")]; ok {
			row["working_memory"] = vars["working_memory"]
			row["metadata"] = vars["metadata"]
			row["updated_at"] = vars["updated_at"]
		}
		return nil, nil

	case sqlGetSnapshot:
		for _, row := range f.snapshots {
			if row["workflow_name"] == vars["workflow_name"] && row["run_id"] == vars["run_id"] {
				return []map[string]any{row}, nil
			}
		}
		return nil, nil

	case sqlSaveSnapshot:
		id := stringVar(vars, "id")
		row, exists := f.snapshots[id]
		createdAt := vars["now"]
		if exists {
			createdAt = row["created_at"]
		}
		f.snapshots[id] = map[string]any{
			"id":            id,
			"workflow_name": vars["workflow_name"],
			"run_id":        vars["run_id"],
			"snapshot":      vars["snapshot"],
			"updated_at":    vars["now"],
			"created_at":    createdAt,
		}
		return nil, nil

	case sqlListRuns:
		var rows []map[string]any
		for _, row := range f.snapshots {
			if row["workflow_name"] == vars["workflow_name"] {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i]["created_at"].(time.Time).After(rows[j]["created_at"].(time.Time))
		})
		return rows, nil

	case sqlSaveEval:
		id := stringVar(vars, "id")
		f.evals[id] = map[string]any{
			"id":            id,
			"agent_name":    vars["agent_name"],
			"input":         vars["input"],
			"output":        vars["output"],
			"result":        vars["result"],
			"metric_name":   vars["metric_name"],
			"instructions":  vars["instructions"],
			"test_info":     vars["test_info"],
			"global_run_id": vars["global_run_id"],
			"run_id":        vars["run_id"],
			"created_at":    vars["created_at"],
		}
		return nil, nil

	case sqlEvalsByAgent, sqlTestEvalsByAgent, sqlLiveEvalsByAgent:
		var rows []map[string]any
		for _, row := range f.evals {
			if row["agent_name"] != vars["agent_name"] {
				continue
			}
			testInfo, _ := row["test_info"].(string)
			if sql == sqlTestEvalsByAgent && testInfo == "" {
				continue
			}
			if sql == sqlLiveEvalsByAgent && testInfo != "" {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i]["created_at"].(time.Time).After(rows[j]["created_at"].(time.Time))
		})
		return rows, nil

	case sqlSaveTrace:
		id := stringVar(vars, "id")
		f.traces[id] = map[string]any{
			"id":             id,
			"parent_span_id": vars["parent_span_id"],
			"trace_id":       vars["trace_id"],
			"name":           vars["name"],
			"scope":          vars["scope"],
			"kind":           vars["kind"],
			"attributes":     vars["attributes"],
			"status":         vars["status"],
			"events":         vars["events"],
			"links":          vars["links"],
			"start_time":     vars["start_time"],
			"end_time":       vars["end_time"],
			"created_at":     vars["created_at"],
		}
		return nil, nil

	case `SELECT * FROM vector_collections ORDER BY created_at ASC`:
		var rows []map[string]any
		for _, row := range f.collections {
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i]["created_at"].(time.Time).Before(rows[j]["created_at"].(time.Time))
		})
		return rows, nil
	}

	if strings.HasPrefix(sql, "SELECT * FROM traces") {
		var rows []map[string]any
		for _, row := range f.traces {
			if name, ok := vars["name"].(string); ok {
				if !strings.HasPrefix(row["name"].(string), name) {
					continue
				}
			}
			if scope, ok := vars["scope"].(string); ok && row["scope"] != scope {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i]["start_time"].(int64) > rows[j]["start_time"].(int64)
		})
		start := vars["start"].(int)
		limit := vars["limit"].(int)
		if start > len(rows) {
			start = len(rows)
		}
		rows = rows[start:]
		if len(rows) > limit {
			rows = rows[:limit]
		}
		return rows, nil
	}
	if strings.HasPrefix(sql, "DEFINE TABLE IF NOT EXISTS ") {
		table := strings.TrimSuffix(strings.TrimPrefix(sql, "DEFINE TABLE IF NOT EXISTS "), " SCHEMALESS")
		if f.vectors[table] == nil {
			f.vectors[table] = map[string]map[string]any{}
		}
		return nil, nil
	}
	if strings.HasPrefix(sql, "DEFINE INDEX IF NOT EXISTS ") {
		return nil, nil
	}
	if strings.HasPrefix(sql, "REMOVE TABLE IF EXISTS ") {
		delete(f.vectors, strings.TrimPrefix(sql, "REMOVE TABLE IF EXISTS "))
		return nil, nil
	}
	if strings.HasPrefix(sql, sqlTruncateVectors+" WHERE ") {
		// Filtered delete: tests assert on the statement, not the rows
		return nil, nil
	}

	return nil, fmt.Errorf("fakeQueryer: unhandled statement %q", sql)
}

func stringVar(vars map[string]any, key string) string {
	if s, ok := vars[key].(string); ok {
		return s
	}
	return fmt.Sprint(vars[key])
}

// lastQuery returns the most recent statement seen
func (f *fakeQueryer) lastQuery() string {
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}
