package settings

import (
	"strings"
	"testing"
)

func TestCheckValues_SubsetWithExtras(t *testing.T) {
	actual := map[string]any{
		"line-length": 80,
		"preview":     true,
	}
	expected := map[string]any{
		"line-length": 80,
	}
	if err := CheckValues("[tool.black]", actual, expected); err != nil {
		t.Errorf("CheckValues() error = %v, want nil", err)
	}
}

func TestCheckValues_MissingKey(t *testing.T) {
	actual := map[string]any{"a": 1}
	expected := map[string]any{"a": 1, "b": 2}

	err := CheckValues("cfg", actual, expected)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), `missing key "b"`) {
		t.Errorf("error = %q, want missing key", err)
	}
}

func TestCheckValues_DifferingScalar(t *testing.T) {
	err := CheckValues("cfg", map[string]any{"a": "x"}, map[string]any{"a": "y"})
	if err == nil {
		t.Fatal("expected error for differing scalar")
	}
	if !strings.Contains(err.Error(), "cfg.a") {
		t.Errorf("error = %q, want path cfg.a", err)
	}
}

func TestCheckValues_NumericTypesCompareEqual(t *testing.T) {
	if err := CheckValues("cfg", int64(80), 80); err != nil {
		t.Errorf("int64 vs int: %v", err)
	}
	if err := CheckValues("cfg", 6.0, 6); err != nil {
		t.Errorf("float vs int: %v", err)
	}
	if err := CheckValues("cfg", "6.0", 6.0); err == nil {
		t.Error("string vs float should not compare equal")
	}
}

func TestCheckValues_ListIgnoresOrder(t *testing.T) {
	actual := []any{"b", "a", "c"}
	expected := []string{"a", "b"}
	if err := CheckValues("cfg", actual, expected); err != nil {
		t.Errorf("CheckValues() error = %v, want nil", err)
	}
}

func TestCheckValues_ListMissingValue(t *testing.T) {
	err := CheckValues("cfg", []any{"a"}, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error for missing value")
	}
	if !strings.Contains(err.Error(), "missing value") {
		t.Errorf("error = %q, want missing value", err)
	}
}

func TestCheckValues_NestedMapsRecurse(t *testing.T) {
	actual := map[string]any{
		"jobs": map[string]any{
			"pre-commit": map[string]any{"runs-on": "ubuntu-latest"},
		},
	}
	expected := map[string]any{
		"jobs": map[string]any{
			"pre-commit": map[string]any{"runs-on": "macos-latest"},
		},
	}

	err := CheckValues("wf", actual, expected)
	if err == nil {
		t.Fatal("expected error for nested mismatch")
	}
	if !strings.Contains(err.Error(), "wf.jobs.pre-commit.runs-on") {
		t.Errorf("error = %q, want nested path", err)
	}
}

func TestCheckValues_ListOfMaps(t *testing.T) {
	actual := []any{
		map[string]any{"root": "src"},
	}
	expected := []any{
		map[string]any{"root": "src"},
	}
	if err := CheckValues("cfg", actual, expected); err != nil {
		t.Errorf("CheckValues() error = %v, want nil", err)
	}

	if err := CheckValues("cfg", actual, []any{map[string]any{"root": "lib"}}); err == nil {
		t.Error("expected error for differing map element")
	}
}
