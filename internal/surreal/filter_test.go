// ABOUTME: Tests for metadata filter compilation
// ABOUTME: Covers equality, membership, key ordering, and malformed rejection
package surreal

import (
	"errors"
	"reflect"
	"testing"
)

func TestCompileFilter_Empty(t *testing.T) {
	for _, filter := range []map[string]any{nil, {}} {
		compiled, err := CompileFilter("metadata", filter)
		if err != nil {
			t.Fatalf("CompileFilter() error = %v", err)
		}
		if compiled.Expr != "" {
			t.Errorf("Expr = %q, want empty", compiled.Expr)
		}
		if len(compiled.Vars) != 0 {
			t.Errorf("Vars = %v, want empty", compiled.Vars)
		}
	}
}

func TestCompileFilter_ScalarEquality(t *testing.T) {
	compiled, err := CompileFilter("metadata", map[string]any{"genre": "jazz"})
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}

	if compiled.Expr != "metadata.genre = $f0" {
		t.Errorf("Expr = %q", compiled.Expr)
	}
	if compiled.Vars["f0"] != "jazz" {
		t.Errorf("Vars[f0] = %v, want jazz", compiled.Vars["f0"])
	}
}

func TestCompileFilter_NumericAndBool(t *testing.T) {
	compiled, err := CompileFilter("metadata", map[string]any{
		"year":   1959,
		"active": true,
		"score":  0.5,
	})
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}

	// Keys sort alphabetically: active, score, year
	want := "metadata.active = $f0 AND metadata.score = $f1 AND metadata.year = $f2"
	if compiled.Expr != want {
		t.Errorf("Expr = %q, want %q", compiled.Expr, want)
	}
	if compiled.Vars["f0"] != true || compiled.Vars["f1"] != 0.5 || compiled.Vars["f2"] != 1959 {
		t.Errorf("Vars = %v", compiled.Vars)
	}
}

func TestCompileFilter_SliceMembership(t *testing.T) {
	compiled, err := CompileFilter("metadata", map[string]any{
		"genre": []string{"jazz", "blues"},
	})
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}

	if compiled.Expr != "metadata.genre IN $f0" {
		t.Errorf("Expr = %q", compiled.Expr)
	}
	if !reflect.DeepEqual(compiled.Vars["f0"], []string{"jazz", "blues"}) {
		t.Errorf("Vars[f0] = %v", compiled.Vars["f0"])
	}
}

func TestCompileFilter_AnySliceOfScalars(t *testing.T) {
	compiled, err := CompileFilter("metadata", map[string]any{
		"year": []any{1959, 1960},
	})
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}
	if compiled.Expr != "metadata.year IN $f0" {
		t.Errorf("Expr = %q", compiled.Expr)
	}
}

func TestCompileFilter_NilValueSkipped(t *testing.T) {
	compiled, err := CompileFilter("metadata", map[string]any{
		"genre": "jazz",
		"year":  nil,
	})
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}

	if compiled.Expr != "metadata.genre = $f0" {
		t.Errorf("Expr = %q, nil value should be skipped not compiled to null equality", compiled.Expr)
	}
	if len(compiled.Vars) != 1 {
		t.Errorf("Vars = %v, want one binding", compiled.Vars)
	}
}

func TestCompileFilter_DeterministicOrder(t *testing.T) {
	filter := map[string]any{"b": 2, "a": 1, "c": 3}

	first, err := CompileFilter("metadata", filter)
	if err != nil {
		t.Fatalf("CompileFilter() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := CompileFilter("metadata", filter)
		if err != nil {
			t.Fatalf("CompileFilter() error = %v", err)
		}
		if again.Expr != first.Expr {
			t.Fatalf("Expr changed between calls: %q vs %q", first.Expr, again.Expr)
		}
	}

	want := "metadata.a = $f0 AND metadata.b = $f1 AND metadata.c = $f2"
	if first.Expr != want {
		t.Errorf("Expr = %q, want %q", first.Expr, want)
	}
}

func TestCompileFilter_MalformedRejected(t *testing.T) {
	tests := []struct {
		name   string
		filter map[string]any
	}{
		{"nested map", map[string]any{"meta": map[string]any{"deep": 1}}},
		{"struct value", map[string]any{"v": struct{ X int }{1}}},
		{"mixed slice", map[string]any{"v": []any{"ok", map[string]any{}}}},
		{"bad key", map[string]any{"genre; DROP TABLE": "jazz"}},
		{"dotted key", map[string]any{"a.b": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFilter("metadata", tt.filter)
			if err == nil {
				t.Fatal("CompileFilter() should reject malformed filter")
			}
			var mfe *MalformedFilterError
			if !errors.As(err, &mfe) {
				t.Errorf("error = %T, want *MalformedFilterError", err)
			}
		})
	}
}
