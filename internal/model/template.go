package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GroupName is the capture group every field pattern reads its value from.
const GroupName = "value"

// Template describes how one document type is recognized and mined for
// fields. Templates are authored as YAML, compiled to JSON manifests and
// loaded once at startup; they are never mutated after compilation.
type Template struct {
	ID      string   `json:"id" yaml:"id"`
	Version Version  `json:"version" yaml:"version"`
	Issuers []string `json:"issuers" yaml:"issuers"`

	Fields map[string]FieldSpec `json:"fields" yaml:"fields"`

	// FieldOrder preserves the declaration order of Fields across the
	// JSON manifest round trip, so extraction and citations stay in the
	// order the template author wrote.
	FieldOrder []string `json:"field_order,omitempty" yaml:"-"`

	PostRules []PostRule `json:"post_rules" yaml:"post_rules"`
	RedFlags  []string   `json:"red_flags" yaml:"red_flags"`
}

// FieldSpec holds the ordered patterns for a single field. Patterns are
// tried in order and the first match wins.
type FieldSpec struct {
	Patterns  []string `json:"patterns" yaml:"patterns"`
	GroupName string   `json:"group_name" yaml:"group_name"`
}

// PostRule is a post-processing directive keyed by rule kind. The only
// kind currently defined is "ensure_amount_numeric", whose payload lists
// field names to re-normalize as numbers.
type PostRule map[string][]string

// Version is a template version tag. Template authors may write it as an
// integer or a string; it is normalized to a string either way.
type Version string

// UnmarshalYAML accepts both `version: 3` and `version: "3"`.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		*v = Version(s)
		return nil
	}
	var n int
	if err := node.Decode(&n); err == nil {
		*v = Version(strconv.Itoa(n))
		return nil
	}
	return fmt.Errorf("version must be a string or integer")
}

// UnmarshalJSON accepts both quoted and bare-number versions so that
// hand-written manifests load too.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = Version(n.String())
		return nil
	}
	return fmt.Errorf("version must be a string or number")
}

// IndexEntry is one advertised document type in the compiled index.
type IndexEntry struct {
	ID      string   `json:"id"`
	Version Version  `json:"version"`
	Issuers []string `json:"issuers"`
}

// Index is the aggregate of all successfully compiled templates. It is
// what GET /templates serves.
type Index struct {
	DocTypes []IndexEntry `json:"docTypes"`
}
