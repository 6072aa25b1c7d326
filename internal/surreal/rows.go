// ABOUTME: Duck-typed field extraction from SurrealDB result rows
// ABOUTME: Tolerates the several native shapes the store emits per field type
package surreal

import (
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// IDField extracts and normalizes a record id field
func IDField(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok {
		return ""
	}
	return NormalizeID(v)
}

// StringField extracts a string field, stringifying non-nil scalars
func StringField(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// TimeField extracts a timestamp field. SurrealDB datetimes come back as
// the SDK's CustomDateTime wrapper, a plain time.Time, or an RFC 3339
// string depending on the decode path; all are accepted. Missing or
// unreadable values yield the zero time.
func TimeField(row map[string]any, key string) time.Time {
	switch v := row[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case models.CustomDateTime:
		return v.Time
	case *models.CustomDateTime:
		if v != nil {
			return v.Time
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IntField extracts an integer field across the numeric shapes CBOR
// decoding produces
func IntField(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return 0
}

// Int64Field extracts a 64-bit integer field
func Int64Field(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// FloatField extracts a float field
func FloatField(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// MapField extracts an object field
func MapField(row map[string]any, key string) map[string]any {
	switch v := row[key].(type) {
	case map[string]any:
		return v
	case map[any]any:
		// CBOR may decode object keys as any
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}

// FloatSliceField extracts a numeric array field as []float64
func FloatSliceField(row map[string]any, key string) []float64 {
	switch v := row[key].(type) {
	case []float64:
		return v
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out
	case []any:
		out := make([]float64, 0, len(v))
		for _, member := range v {
			switch f := member.(type) {
			case float64:
				out = append(out, f)
			case float32:
				out = append(out, float64(f))
			case int:
				out = append(out, float64(f))
			case int64:
				out = append(out, float64(f))
			case uint64:
				out = append(out, float64(f))
			default:
				return nil
			}
		}
		return out
	}
	return nil
}
