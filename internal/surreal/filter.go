// ABOUTME: Compiles flat metadata filters into parameterized SurrealQL fragments
// ABOUTME: Scalar values become equality clauses, slices become set membership
package surreal

import (
	"fmt"
	"regexp"
	"sort"
)

// identifierPattern allow-lists filter keys. Keys are interpolated into
// the query text as field names, so anything outside this pattern is
// rejected rather than escaped.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MalformedFilterError reports a filter entry the compiler cannot
// translate: a key that is not a plain identifier, or a value of an
// unsupported shape (nested maps, structs, mixed slices).
type MalformedFilterError struct {
	Key   string
	Value any
}

func (e *MalformedFilterError) Error() string {
	return fmt.Sprintf("malformed filter: key %q with value of type %T", e.Key, e.Value)
}

// CompiledFilter is a boolean SurrealQL fragment plus its bound
// parameters, ready to be conjoined (AND) with a similarity clause or a
// plain WHERE clause. An empty Expr means "no filter".
type CompiledFilter struct {
	Expr string
	Vars map[string]any
}

// CompileFilter translates a flat metadata filter into one clause per
// key, ANDed together. Scalars compile to equality, slices to "value is
// a member of the set". Nil values are skipped, not treated as "equals
// null". Values are always bound as parameters ($f0, $f1, ...), never
// interpolated.
//
// Nested filters, boolean combinators and range operators are not
// supported; a value of an unsupported shape fails with
// MalformedFilterError rather than being dropped silently.
func CompileFilter(field string, filter map[string]any) (*CompiledFilter, error) {
	compiled := &CompiledFilter{Vars: map[string]any{}}
	if len(filter) == 0 {
		return compiled, nil
	}

	// Deterministic clause order keeps queries stable across calls
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	expr := ""
	for _, key := range keys {
		value := filter[key]
		if value == nil {
			continue
		}
		if !identifierPattern.MatchString(key) {
			return nil, &MalformedFilterError{Key: key, Value: value}
		}

		param := fmt.Sprintf("f%d", len(compiled.Vars))
		clause, bound, err := compileClause(field, key, param, value)
		if err != nil {
			return nil, err
		}

		if expr != "" {
			expr += " AND "
		}
		expr += clause
		compiled.Vars[param] = bound
	}

	compiled.Expr = expr
	return compiled, nil
}

// compileClause builds one clause for a single key. field is the
// allow-listed record field holding the metadata object.
func compileClause(field, key, param string, value any) (string, any, error) {
	path := fmt.Sprintf("%s.%s", field, key)

	switch v := value.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%s = $%s", path, param), v, nil
	case []string:
		return fmt.Sprintf("%s IN $%s", path, param), v, nil
	case []int:
		return fmt.Sprintf("%s IN $%s", path, param), v, nil
	case []float64:
		return fmt.Sprintf("%s IN $%s", path, param), v, nil
	case []any:
		for _, member := range v {
			switch member.(type) {
			case string, int, int64, float32, float64:
			default:
				return "", nil, &MalformedFilterError{Key: key, Value: value}
			}
		}
		return fmt.Sprintf("%s IN $%s", path, param), v, nil
	default:
		return "", nil, &MalformedFilterError{Key: key, Value: value}
	}
}
