package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const validTemplate = `id: credit-card-statement
version: 2
issuers:
  - HDFC
  - ICICI
fields:
  totalDue:
    patterns:
      - 'Total Due: ₹(?P<value>[\d,]+)'
  dueDate:
    patterns:
      - 'Due Date: (?P<value>[^\n]+)'
post_rules:
  - ensure_amount_numeric:
      - totalDue
red_flags:
  - finance charges present
`

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestCompileDir_ValidTemplate(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeTemplate(t, src, "credit-card-statement.yaml", validTemplate)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if result.Failed() {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}

	data, err := os.ReadFile(filepath.Join(out, "credit-card-statement.json"))
	if err != nil {
		t.Fatalf("Expected manifest to be written: %v", err)
	}

	var tpl struct {
		ID         string   `json:"id"`
		Version    string   `json:"version"`
		FieldOrder []string `json:"field_order"`
		Fields     map[string]struct {
			Patterns  []string `json:"patterns"`
			GroupName string   `json:"group_name"`
		} `json:"fields"`
	}
	if err := json.Unmarshal(data, &tpl); err != nil {
		t.Fatalf("Manifest is not valid JSON: %v", err)
	}

	if tpl.ID != "credit-card-statement" {
		t.Errorf("Expected id credit-card-statement, got %q", tpl.ID)
	}
	if tpl.Version != "2" {
		t.Errorf("Expected version normalized to \"2\", got %q", tpl.Version)
	}
	if len(tpl.FieldOrder) != 2 || tpl.FieldOrder[0] != "totalDue" || tpl.FieldOrder[1] != "dueDate" {
		t.Errorf("Expected field order [totalDue dueDate], got %v", tpl.FieldOrder)
	}
	for name, spec := range tpl.Fields {
		if spec.GroupName != "value" {
			t.Errorf("Field %q: expected group_name value, got %q", name, spec.GroupName)
		}
		if len(spec.Patterns) == 0 {
			t.Errorf("Field %q: expected non-empty patterns", name)
		}
	}
}

func TestCompileDir_IndexListsOnlySuccesses(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "good.yaml", validTemplate)
	writeTemplate(t, src, "bad.yaml", `version: 1
fields:
  amount:
    patterns:
      - '₹(?P<value>\d+)'
`)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}

	if !result.Failed() {
		t.Fatal("Expected failure for template missing id")
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}

	index := LoadIndex(out)
	if len(index.DocTypes) != 1 {
		t.Fatalf("Expected index with 1 entry, got %d", len(index.DocTypes))
	}
	if index.DocTypes[0].ID != "credit-card-statement" {
		t.Errorf("Expected credit-card-statement in index, got %q", index.DocTypes[0].ID)
	}

	// The bad template has no id, so only the good manifest plus the
	// index should exist.
	entries, _ := os.ReadDir(out)
	if len(entries) != 2 {
		t.Errorf("Expected 2 output files, got %d", len(entries))
	}
}

func TestCompileDir_InvalidRegexFailsOnlyThatTemplate(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "good.yaml", validTemplate)
	writeTemplate(t, src, "broken.yaml", `id: broken
version: 1
fields:
  amount:
    patterns:
      - '₹(?P<value>[\d,+'
`)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(result.Errors), result.Errors)
	}
	ce, ok := result.Errors[0].(*CompileError)
	if !ok {
		t.Fatalf("Expected *CompileError, got %T", result.Errors[0])
	}
	if ce.File != "broken.yaml" || ce.Field != "amount" || ce.Pattern == "" {
		t.Errorf("Expected error with file/field/pattern context, got %+v", ce)
	}

	if _, err := os.Stat(filepath.Join(out, "broken.json")); !os.IsNotExist(err) {
		t.Error("Expected no manifest for the broken template")
	}
	if _, err := os.Stat(filepath.Join(out, "good.json")); err == nil {
		t.Error("Manifest should be named after the template id, not the file")
	}
	if _, err := os.Stat(filepath.Join(out, "credit-card-statement.json")); err != nil {
		t.Errorf("Expected the valid template to still compile: %v", err)
	}
}

func TestCompileDir_EmptyPatternsIsError(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "empty.yaml", `id: empty
version: 1
fields:
  amount:
    patterns: []
`)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if !result.Failed() {
		t.Fatal("Expected a field with zero patterns to fail validation")
	}
}

func TestCompileDir_MissingPatternsIsError(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "missing.yaml", `id: missing
version: 1
fields:
  amount: {}
`)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if !result.Failed() {
		t.Fatal("Expected a field without patterns to fail validation")
	}
}

func TestCompileDir_FieldsMustBeMapping(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "list.yaml", `id: list
version: 1
fields:
  - totalDue
`)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if !result.Failed() {
		t.Fatal("Expected non-mapping fields to fail validation")
	}
}

func TestCompileDir_AllFilesAttempted(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "a.yaml", "id: a\nfields: {}\n")           // missing version
	writeTemplate(t, src, "b.yaml", "version: 1\nfields: {}\n")     // missing id
	writeTemplate(t, src, "c.yaml", validTemplate)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}

	if len(result.Errors) != 2 {
		t.Errorf("Expected errors from both bad files, got %d: %v", len(result.Errors), result.Errors)
	}
	if len(result.Index.DocTypes) != 1 {
		t.Errorf("Expected 1 compiled template, got %d", len(result.Index.DocTypes))
	}
}

func TestCompileDir_StringVersion(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writeTemplate(t, src, "v.yaml", `id: versioned
version: "2024.1"
fields:
  amount:
    patterns:
      - '₹(?P<value>\d+)'
`)

	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if result.Failed() {
		t.Fatalf("Expected string version to compile, got %v", result.Errors)
	}
	if got := string(result.Index.DocTypes[0].Version); got != "2024.1" {
		t.Errorf("Expected version 2024.1, got %q", got)
	}
}

func TestLoadIndex_MissingDirectory(t *testing.T) {
	index := LoadIndex(filepath.Join(t.TempDir(), "nope"))
	if index.DocTypes == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(index.DocTypes) != 0 {
		t.Errorf("Expected empty index, got %d entries", len(index.DocTypes))
	}
}
