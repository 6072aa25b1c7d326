// ABOUTME: Identifier normalization for SurrealDB record references
// ABOUTME: Collapses RecordID structs and table:⟨id⟩ strings into plain id tokens
package surreal

import (
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// NormalizeID converts any record reference the store is known to emit
// into the plain id token: the SDK's RecordID struct, a "table:id"
// string, a "table:⟨id⟩" string with angle-bracket or backtick
// decoration, or an already-plain id. Unknown shapes are stringified.
//
// The function is idempotent and never fails; malformed ids must not
// crash read paths.
func NormalizeID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case models.RecordID:
		return stripDecoration(fmt.Sprint(id.ID))
	case *models.RecordID:
		if id == nil {
			return ""
		}
		return stripDecoration(fmt.Sprint(id.ID))
	case string:
		return normalizeString(id)
	case fmt.Stringer:
		return normalizeString(id.String())
	default:
		return fmt.Sprint(v)
	}
}

// normalizeString strips a leading table prefix and any id decoration
// from a string-shaped record reference. Strings without a table prefix
// are returned as-is (idempotence: a previously normalized id passes
// through unchanged).
//
// Anything before the first ":" is treated as a table prefix. Ids
// generated here are ULIDs and UUIDs, which never contain a colon; a
// caller-supplied id with one would be misread as table-prefixed.
func normalizeString(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		return stripDecoration(s[i+1:])
	}
	return stripDecoration(s)
}

// stripDecoration removes the ⟨…⟩ or `…` delimiters SurrealDB wraps
// around complex id values
func stripDecoration(s string) string {
	if strings.HasPrefix(s, "⟨") && strings.HasSuffix(s, "⟩") {
		return strings.TrimSuffix(strings.TrimPrefix(s, "⟨"), "⟩")
	}
	if len(s) >= 2 && strings.HasPrefix(s, "`") && strings.HasSuffix(s, "`") {
		return strings.Trim(s, "`")
	}
	return s
}
