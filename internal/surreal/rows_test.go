// ABOUTME: Tests for duck-typed row field extraction
// ABOUTME: Covers the native shapes CBOR decoding produces per field type
package surreal

import (
	"reflect"
	"testing"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestIDField(t *testing.T) {
	row := map[string]any{
		"id":     models.RecordID{Table: "messages", ID: "m1"},
		"string": "messages:m2",
	}

	if got := IDField(row, "id"); got != "m1" {
		t.Errorf("IDField(id) = %q, want m1", got)
	}
	if got := IDField(row, "string"); got != "m2" {
		t.Errorf("IDField(string) = %q, want m2", got)
	}
	if got := IDField(row, "missing"); got != "" {
		t.Errorf("IDField(missing) = %q, want empty", got)
	}
}

func TestStringField(t *testing.T) {
	row := map[string]any{"title": "hello", "n": 42, "nil": nil}

	if got := StringField(row, "title"); got != "hello" {
		t.Errorf("StringField(title) = %q", got)
	}
	if got := StringField(row, "n"); got != "42" {
		t.Errorf("StringField(n) = %q, want 42", got)
	}
	if got := StringField(row, "nil"); got != "" {
		t.Errorf("StringField(nil) = %q, want empty", got)
	}
	if got := StringField(row, "missing"); got != "" {
		t.Errorf("StringField(missing) = %q, want empty", got)
	}
}

func TestTimeField(t *testing.T) {
	ref := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{"time.Time", ref, ref},
		{"pointer", &ref, ref},
		{"custom datetime", models.CustomDateTime{Time: ref}, ref},
		{"custom datetime pointer", &models.CustomDateTime{Time: ref}, ref},
		{"rfc3339 string", "2026-03-14T09:26:53Z", ref},
		{"garbage string", "not-a-time", time.Time{}},
		{"nil", nil, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeField(map[string]any{"t": tt.value}, "t")
			if !got.Equal(tt.want) {
				t.Errorf("TimeField() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntField(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 7, 7},
		{"int64", int64(7), 7},
		{"uint64", uint64(7), 7},
		{"float64", float64(7), 7},
		{"string", "7", 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntField(map[string]any{"n": tt.value}, "n")
			if got != tt.want {
				t.Errorf("IntField() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFloatField(t *testing.T) {
	if got := FloatField(map[string]any{"s": 0.87}, "s"); got != 0.87 {
		t.Errorf("FloatField(float64) = %v", got)
	}
	if got := FloatField(map[string]any{"s": float32(0.5)}, "s"); got != 0.5 {
		t.Errorf("FloatField(float32) = %v", got)
	}
	if got := FloatField(map[string]any{"s": int64(3)}, "s"); got != 3 {
		t.Errorf("FloatField(int64) = %v", got)
	}
}

func TestMapField(t *testing.T) {
	row := map[string]any{
		"plain": map[string]any{"k": "v"},
		"cbor":  map[any]any{"k": "v"},
		"wrong": "string",
	}

	if got := MapField(row, "plain"); !reflect.DeepEqual(got, map[string]any{"k": "v"}) {
		t.Errorf("MapField(plain) = %v", got)
	}
	if got := MapField(row, "cbor"); !reflect.DeepEqual(got, map[string]any{"k": "v"}) {
		t.Errorf("MapField(cbor) = %v", got)
	}
	if got := MapField(row, "wrong"); got != nil {
		t.Errorf("MapField(wrong) = %v, want nil", got)
	}
	if got := MapField(row, "missing"); got != nil {
		t.Errorf("MapField(missing) = %v, want nil", got)
	}
}

func TestFloatSliceField(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []float64
	}{
		{"float64 slice", []float64{0.1, 0.2}, []float64{0.1, 0.2}},
		{"float32 slice", []float32{0.5}, []float64{0.5}},
		{"any slice", []any{0.1, float32(0.5), 2, int64(3)}, []float64{0.1, 0.5, 2, 3}},
		{"non numeric member", []any{0.1, "x"}, nil},
		{"missing", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FloatSliceField(map[string]any{"e": tt.value}, "e")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FloatSliceField() = %v, want %v", got, tt.want)
			}
		})
	}
}
