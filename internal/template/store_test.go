package template

import (
	"os"
	"path/filepath"
	"testing"
)

// compileAndLoad runs a template source through the full compile+load
// round trip, which is how templates reach the store in production.
func compileAndLoad(t *testing.T, sources map[string]string) *Store {
	t.Helper()
	src := t.TempDir()
	out := t.TempDir()
	for name, content := range sources {
		writeTemplate(t, src, name, content)
	}
	result, err := CompileDir(src, out)
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if result.Failed() {
		t.Fatalf("Compile errors: %v", result.Errors)
	}
	store, err := Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store
}

func TestLoad_RoundTrip(t *testing.T) {
	store := compileAndLoad(t, map[string]string{
		"credit-card-statement.yaml": validTemplate,
	})

	if store.Len() != 1 {
		t.Fatalf("Expected 1 template, got %d", store.Len())
	}

	c, ok := store.Get("credit-card-statement")
	if !ok {
		t.Fatal("Expected credit-card-statement to be loaded")
	}
	if got := c.Template.FieldOrder; len(got) != 2 || got[0] != "totalDue" {
		t.Errorf("Expected field order preserved across round trip, got %v", got)
	}
	if len(c.FieldPatterns("totalDue")) != 1 {
		t.Errorf("Expected 1 compiled pattern for totalDue, got %d", len(c.FieldPatterns("totalDue")))
	}
}

func TestLoad_SkipsMalformedManifests(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "no-id.json"), []byte(`{"version":"1","fields":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.json"), []byte(`{"id":"ok","version":"1","fields":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 template loaded, got %d", store.Len())
	}
	if store.Skipped() != 2 {
		t.Errorf("Expected 2 skipped manifests, got %d", store.Skipped())
	}
}

func TestLoad_IgnoresIndexAndNonJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(`{"docTypes":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d templates", store.Len())
	}
	if store.Skipped() != 0 {
		t.Errorf("Index and non-JSON files should not count as skipped, got %d", store.Skipped())
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Expected missing directory to yield empty store, got error: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d templates", store.Len())
	}
}

func TestGet_UnknownType(t *testing.T) {
	store := compileAndLoad(t, map[string]string{
		"credit-card-statement.yaml": validTemplate,
	})
	if _, ok := store.Get("rent-agreement"); ok {
		t.Error("Expected miss for a type with no template")
	}
}

func TestLoad_FieldOrderFallback(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "id": "legacy",
  "version": "1",
  "fields": {
    "zebra": {"patterns": ["z(?P<value>\\d+)"], "group_name": "value"},
    "apple": {"patterns": ["a(?P<value>\\d+)"], "group_name": "value"}
  }
}`
	if err := os.WriteFile(filepath.Join(dir, "legacy.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, ok := store.Get("legacy")
	if !ok {
		t.Fatal("Expected legacy template to load")
	}
	if got := c.Template.FieldOrder; len(got) != 2 || got[0] != "apple" || got[1] != "zebra" {
		t.Errorf("Expected sorted fallback order [apple zebra], got %v", got)
	}
}
