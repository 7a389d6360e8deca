package model

// GenericType is returned by the classifier when no known document type
// scores above zero. It usually has no template, which is fine: the
// extractor degrades to an empty result.
const GenericType = "generic"

// Citation points a field at the place in the input it was read from.
// Source is "line:<n>" with a 1-based line number.
type Citation struct {
	Field  string `json:"field"`
	Source string `json:"source"`
}

// ExtractionResult is the per-request output of the extractor. Values in
// Extractions are either float64 (normalized amounts) or trimmed strings.
type ExtractionResult struct {
	Extractions map[string]any `json:"extractions"`
	Citations   []Citation     `json:"citations"`
	Confidence  float64        `json:"confidence"`
}

// Action is a suggested follow-up step (reminder, share, ...). Order in a
// result is significant and fixed by rule declaration order.
type Action struct {
	Label   string         `json:"label"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Explanation is the complete response for one document.
type Explanation struct {
	Summary     string         `json:"summary"`
	Extractions map[string]any `json:"extractions"`
	Actions     []Action       `json:"actions"`
	Confidence  float64        `json:"confidence"`
	DocType     string         `json:"docType"`
	Citations   []Citation     `json:"citations"`
}
