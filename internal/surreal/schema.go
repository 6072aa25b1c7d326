// ABOUTME: SurrealDB table and index definitions for agent memory storage
// ABOUTME: Applied statement by statement at startup, all idempotent
package surreal

// Schema contains the DDL statements for the fixed tables. Vector data
// tables are defined per collection at creation time; only the registry
// lives here.
var Schema = []string{
	`DEFINE TABLE IF NOT EXISTS resources SCHEMALESS`,
	`DEFINE TABLE IF NOT EXISTS threads SCHEMALESS`,
	`DEFINE TABLE IF NOT EXISTS messages SCHEMALESS`,
	`DEFINE TABLE IF NOT EXISTS workflow_snapshots SCHEMALESS`,
	`DEFINE TABLE IF NOT EXISTS evals SCHEMALESS`,
	`DEFINE TABLE IF NOT EXISTS traces SCHEMALESS`,
	`DEFINE TABLE IF NOT EXISTS vector_collections SCHEMALESS`,

	`DEFINE INDEX IF NOT EXISTS idx_threads_resource ON TABLE threads FIELDS resource_id`,
	`DEFINE INDEX IF NOT EXISTS idx_messages_thread ON TABLE messages FIELDS thread_id`,
	`DEFINE INDEX IF NOT EXISTS idx_evals_agent ON TABLE evals FIELDS agent_name`,
	`DEFINE INDEX IF NOT EXISTS idx_traces_name ON TABLE traces FIELDS name`,
}
