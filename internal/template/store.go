package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/simpledoc/simpledoc/internal/model"
)

// Compiled pairs a loaded manifest with its ready-to-run patterns.
// Patterns that fail to compile are dropped here and simply never match.
type Compiled struct {
	Template *model.Template
	patterns map[string][]*regexp.Regexp
}

// FieldPatterns returns the compiled patterns for a field, in manifest
// order.
func (c *Compiled) FieldPatterns(name string) []*regexp.Regexp {
	return c.patterns[name]
}

// Store is the in-memory set of compiled templates, built once at startup
// and immutable afterwards, so it is safe for any number of concurrent
// readers without locking.
type Store struct {
	templates map[string]*Compiled
	skipped   int
}

// Load reads every compiled manifest in dir into memory. Manifest files
// that cannot be read or parsed are skipped rather than failing the load:
// templates are independently authored and one corrupt file must not take
// down the service. A missing directory yields an empty store.
func Load(dir string) (*Store, error) {
	store := &Store{templates: map[string]*Compiled{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == IndexFile || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			store.skipped++
			continue
		}

		var tpl model.Template
		if err := json.Unmarshal(data, &tpl); err != nil || tpl.ID == "" {
			store.skipped++
			continue
		}

		store.templates[tpl.ID] = compileTemplate(&tpl)
	}

	return store, nil
}

// compileTemplate precompiles every pattern and fills in a deterministic
// field order for manifests that predate the field_order key.
func compileTemplate(tpl *model.Template) *Compiled {
	if len(tpl.FieldOrder) == 0 {
		for name := range tpl.Fields {
			tpl.FieldOrder = append(tpl.FieldOrder, name)
		}
		sort.Strings(tpl.FieldOrder)
	}

	compiled := &Compiled{
		Template: tpl,
		patterns: map[string][]*regexp.Regexp{},
	}
	for name, spec := range tpl.Fields {
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				continue
			}
			compiled.patterns[name] = append(compiled.patterns[name], re)
		}
	}
	return compiled
}

// Get looks up a document type. The second return is false when no
// template exists for the type; that is a normal condition, not an error.
func (s *Store) Get(docType string) (*Compiled, bool) {
	c, ok := s.templates[docType]
	return c, ok
}

// Len returns the number of loaded templates.
func (s *Store) Len() int {
	return len(s.templates)
}

// Skipped returns how many manifest files were unreadable or malformed
// and therefore left out of the store.
func (s *Store) Skipped() int {
	return s.skipped
}

// Types returns the loaded document type ids, sorted.
func (s *Store) Types() []string {
	types := make([]string, 0, len(s.templates))
	for id := range s.templates {
		types = append(types, id)
	}
	sort.Strings(types)
	return types
}
