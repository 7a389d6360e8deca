// Package template turns declarative YAML template sources into
// validated, executable JSON manifests and loads them at runtime.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/simpledoc/simpledoc/internal/model"
)

// IndexFile is the aggregate index written next to the compiled manifests.
const IndexFile = "index.json"

// CompileError describes a validation or pattern failure in one template
// source file. One bad file never blocks the others, but any CompileError
// fails the overall compiler run.
type CompileError struct {
	File    string
	Field   string
	Pattern string
	Msg     string
}

func (e *CompileError) Error() string {
	switch {
	case e.Pattern != "":
		return fmt.Sprintf("%s: field %q: invalid pattern %q: %s", e.File, e.Field, e.Pattern, e.Msg)
	case e.Field != "":
		return fmt.Sprintf("%s: field %q: %s", e.File, e.Field, e.Msg)
	default:
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
}

// CompileResult reports what a compiler run produced.
type CompileResult struct {
	Index  model.Index
	Errors []error
}

// Failed reports whether any template file failed to compile.
func (r *CompileResult) Failed() bool {
	return len(r.Errors) > 0
}

// CompileDir compiles every .yaml/.yml template source in sourceDir into
// outDir, one <id>.json manifest per template plus an index.json listing
// all successfully compiled templates. Compilation is all-or-nothing per
// file and independent across files: every file is attempted so that
// authors see all errors in one run.
func CompileDir(sourceDir, outDir string) (*CompileResult, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read template sources: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	result := &CompileResult{}
	for _, entry := range entries {
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		tpl, errs := compileFile(filepath.Join(sourceDir, name))
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}

		if err := writeManifest(outDir, tpl); err != nil {
			result.Errors = append(result.Errors, &CompileError{File: name, Msg: err.Error()})
			continue
		}

		result.Index.DocTypes = append(result.Index.DocTypes, model.IndexEntry{
			ID:      tpl.ID,
			Version: tpl.Version,
			Issuers: tpl.Issuers,
		})
	}

	if err := writeIndex(outDir, result.Index); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	return result, nil
}

// compileFile validates and compiles a single template source. It returns
// either a complete template or the full list of problems found; a
// partially compiled template is never returned.
func compileFile(path string) (*model.Template, []error) {
	file := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&CompileError{File: file, Msg: err.Error()}}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, []error{&CompileError{File: file, Msg: "invalid YAML: " + err.Error()}}
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, []error{&CompileError{File: file, Msg: "template must be a mapping"}}
	}
	doc := root.Content[0]

	var errs []error
	tpl := &model.Template{
		Issuers:   []string{},
		Fields:    map[string]model.FieldSpec{},
		PostRules: []model.PostRule{},
		RedFlags:  []string{},
	}

	var fieldsNode *yaml.Node
	seen := map[string]bool{}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		seen[key.Value] = true

		switch key.Value {
		case "id":
			if err := val.Decode(&tpl.ID); err != nil || tpl.ID == "" {
				errs = append(errs, &CompileError{File: file, Msg: "'id' must be a non-empty string"})
			}
		case "version":
			if err := val.Decode(&tpl.Version); err != nil {
				errs = append(errs, &CompileError{File: file, Msg: err.Error()})
			}
		case "issuers":
			if err := val.Decode(&tpl.Issuers); err != nil {
				errs = append(errs, &CompileError{File: file, Msg: "'issuers' must be a list of strings"})
			}
		case "fields":
			fieldsNode = val
		case "post_rules":
			if err := val.Decode(&tpl.PostRules); err != nil {
				errs = append(errs, &CompileError{File: file, Msg: "'post_rules' must be a list of rule objects"})
			}
		case "red_flags":
			if err := val.Decode(&tpl.RedFlags); err != nil {
				errs = append(errs, &CompileError{File: file, Msg: "'red_flags' must be a list"})
			}
		}
	}

	for _, required := range []string{"id", "version", "fields"} {
		if !seen[required] {
			errs = append(errs, &CompileError{File: file, Msg: "missing '" + required + "' field"})
		}
	}

	if fieldsNode != nil {
		if fieldsNode.Kind != yaml.MappingNode {
			errs = append(errs, &CompileError{File: file, Msg: "'fields' must be a mapping"})
		} else {
			fieldErrs := compileFields(file, fieldsNode, tpl)
			errs = append(errs, fieldErrs...)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return tpl, nil
}

// compileFields walks the fields mapping in declaration order, validating
// every pattern as it goes.
func compileFields(file string, node *yaml.Node, tpl *model.Template) []error {
	var errs []error

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var spec struct {
			Patterns []string `yaml:"patterns"`
		}
		if err := node.Content[i+1].Decode(&spec); err != nil {
			errs = append(errs, &CompileError{File: file, Field: name, Msg: "malformed field definition"})
			continue
		}
		if spec.Patterns == nil {
			errs = append(errs, &CompileError{File: file, Field: name, Msg: "missing 'patterns'"})
			continue
		}
		if len(spec.Patterns) == 0 {
			errs = append(errs, &CompileError{File: file, Field: name, Msg: "'patterns' must not be empty"})
			continue
		}

		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				errs = append(errs, &CompileError{File: file, Field: name, Pattern: p, Msg: err.Error()})
				continue
			}
			if !hasValueGroup(re) {
				errs = append(errs, &CompileError{File: file, Field: name, Pattern: p,
					Msg: "no capture group: expected a (?P<" + model.GroupName + ">...) group or at least one capturing group"})
			}
		}

		tpl.Fields[name] = model.FieldSpec{
			Patterns:  spec.Patterns,
			GroupName: model.GroupName,
		}
		tpl.FieldOrder = append(tpl.FieldOrder, name)
	}

	return errs
}

// hasValueGroup checks for the named value group, accepting a plain first
// capturing group as the documented fallback convention.
func hasValueGroup(re *regexp.Regexp) bool {
	for _, n := range re.SubexpNames() {
		if n == model.GroupName {
			return true
		}
	}
	return re.NumSubexp() > 0
}

func writeManifest(outDir string, tpl *model.Template) error {
	data, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, tpl.ID+".json"), data, 0o644)
}

func writeIndex(outDir string, index model.Index) error {
	if index.DocTypes == nil {
		index.DocTypes = []model.IndexEntry{}
	}
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, IndexFile), data, 0o644)
}

// LoadIndex reads the compiled index, returning an empty index if it is
// missing or unreadable. The /templates route relies on this fallback.
func LoadIndex(compiledDir string) model.Index {
	index := model.Index{DocTypes: []model.IndexEntry{}}
	data, err := os.ReadFile(filepath.Join(compiledDir, IndexFile))
	if err != nil {
		return index
	}
	if err := json.Unmarshal(data, &index); err != nil {
		return model.Index{DocTypes: []model.IndexEntry{}}
	}
	if index.DocTypes == nil {
		index.DocTypes = []model.IndexEntry{}
	}
	return index
}
