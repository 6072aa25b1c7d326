// ABOUTME: Queryer is the execute-query capability the stores run on
// ABOUTME: Production implementation is Client, tests substitute fakes
package surreal

import "context"

// Queryer executes one SurrealQL statement with named parameters and
// returns the result rows. Rows come back in the store's native dynamic
// shape; callers normalize ids and fields via the helpers in this package.
//
// All user-supplied scalar values must be passed through vars, never
// interpolated into the statement text.
type Queryer interface {
	Query(ctx context.Context, sql string, vars map[string]any) ([]map[string]any, error)
}
