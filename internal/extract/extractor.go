// Package extract applies a document type's template to raw text,
// producing normalized field values, line-level citations and a
// confidence score.
package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/simpledoc/simpledoc/internal/model"
	"github.com/simpledoc/simpledoc/internal/template"
)

// keyFields are the monetary fields whose presence boosts confidence:
// a primary amount signals a materially more useful extraction than an
// equal count of minor fields.
var keyFields = []string{"totalDue", "amount", "billAmount", "premiumAmount"}

// amountChars strips currency symbol, commas and whitespace before
// numeric parsing.
var amountChars = regexp.MustCompile(`[₹,\s]`)

// Extractor runs template-driven field extraction against a store of
// compiled templates.
type Extractor struct {
	store *template.Store
}

// NewExtractor creates an extractor over the given store.
func NewExtractor(store *template.Store) *Extractor {
	return &Extractor{store: store}
}

// Extract applies the docType's template to text. A type with no template
// yields an empty result with zero confidence. Extraction never fails:
// patterns that do not match simply leave their field out.
func (e *Extractor) Extract(text, docType string) model.ExtractionResult {
	result := model.ExtractionResult{
		Extractions: map[string]any{},
		Citations:   []model.Citation{},
	}

	tpl, ok := e.store.Get(docType)
	if !ok {
		return result
	}

	for _, field := range tpl.Template.FieldOrder {
		for _, re := range tpl.FieldPatterns(field) {
			value, start, matched := matchValue(re, text)
			if !matched {
				continue
			}
			result.Extractions[field] = normalizeValue(field, value)
			result.Citations = append(result.Citations, model.Citation{
				Field:  field,
				Source: fmt.Sprintf("line:%d", lineOf(text, start)),
			})
			break // first match wins, later patterns are never tried
		}
	}

	applyPostRules(result.Extractions, tpl.Template.PostRules)
	result.Confidence = confidence(result.Extractions, len(tpl.Template.Fields))
	return result
}

// matchValue runs one pattern and pulls out the value capture group,
// falling back to the first capturing group when the pattern has no
// group named "value".
func matchValue(re *regexp.Regexp, text string) (value string, start int, ok bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", 0, false
	}

	group := re.SubexpIndex(model.GroupName)
	if group < 0 {
		group = 1
	}
	if 2*group+1 >= len(loc) {
		return "", 0, false
	}

	lo, hi := loc[2*group], loc[2*group+1]
	if lo < 0 || lo == hi {
		// The group did not participate or captured nothing; treat as a
		// non-match so the next pattern gets a chance.
		return "", 0, false
	}
	return text[lo:hi], loc[0], true
}

// lineOf returns the 1-based line number of a byte offset.
func lineOf(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}

// normalizeValue converts amount-like fields to float64. Fields whose
// name mentions amount, due or balance get the currency symbol, commas
// and whitespace stripped and are parsed as numbers; anything that fails
// to parse stays a trimmed string. All other fields, dates included, are
// returned as trimmed strings.
func normalizeValue(field, raw string) any {
	lower := strings.ToLower(field)
	if strings.Contains(lower, "amount") || strings.Contains(lower, "due") || strings.Contains(lower, "balance") {
		if f, ok := parseAmount(raw); ok {
			return f
		}
	}
	return strings.TrimSpace(raw)
}

func parseAmount(raw string) (float64, bool) {
	cleaned := amountChars.ReplaceAllString(raw, "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// applyPostRules runs the template's post-processing directives in
// declaration order. ensure_amount_numeric re-normalizes the listed
// fields when they are still strings; unparsable values are left alone.
func applyPostRules(extractions map[string]any, rules []model.PostRule) {
	for _, rule := range rules {
		for _, field := range rule["ensure_amount_numeric"] {
			s, ok := extractions[field].(string)
			if !ok {
				continue
			}
			if f, parsed := parseAmount(s); parsed {
				extractions[field] = f
			}
		}
	}
}

// confidence is extracted/total rounded to 2 decimals, boosted by 0.10
// (capped at 1.0) when any key monetary field was extracted.
func confidence(extractions map[string]any, totalFields int) float64 {
	if totalFields == 0 {
		return 0
	}
	score := math.Round(float64(len(extractions))/float64(totalFields)*100) / 100

	for _, field := range keyFields {
		if _, ok := extractions[field]; ok {
			score = math.Min(1.0, score+0.10)
			break
		}
	}
	// The boost can leave float noise (0.6+0.1 != 0.7 exactly).
	return math.Round(score*100) / 100
}
