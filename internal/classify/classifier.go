// Package classify assigns a document type to raw text using a fixed
// keyword taxonomy. The taxonomy is deliberately independent of the
// extraction templates: a classified type with no template yields an
// empty extraction downstream, which is acceptable degradation.
package classify

import (
	"regexp"

	"github.com/simpledoc/simpledoc/internal/model"
)

// entry associates a document type with its keyword patterns. The table
// order is significant: ties between types are resolved by whichever
// type reaches the maximum score first, so entries must stay in this
// declaration order.
type entry struct {
	docType  string
	patterns []*regexp.Regexp
}

// Classifier scores document text against the keyword table.
type Classifier struct {
	table []entry
}

// NewClassifier creates a classifier with the built-in taxonomy.
func NewClassifier() *Classifier {
	return &Classifier{table: buildTable()}
}

func buildTable() []entry {
	raw := []struct {
		docType  string
		keywords []string
	}{
		{"credit-card-statement", []string{
			`credit\s*card`, `total\s*due`, `minimum\s*payment`, `hdfc`, `icici`, `sbi`,
		}},
		{"bank-statement", []string{
			`bank\s*statement`, `account\s*number`, `closing\s*balance`, `transaction`,
		}},
		{"rent-agreement", []string{
			`rent\s*agreement`, `landlord`, `tenant`, `monthly\s*rent`, `security\s*deposit`,
		}},
		{"insurance-policy", []string{
			`insurance\s*policy`, `premium`, `sum\s*assured`, `lic`, `hdfc\s*life`,
		}},
		{"insurance-claim", []string{
			`insurance\s*claim`, `claim\s*number`, `claim\s*amount`, `pending`,
		}},
		{"hospital-bill", []string{
			`hospital`, `patient`, `medical`, `bill`, `discharge`,
		}},
		{"school-circular", []string{
			`school`, `circular`, `student`, `parent`,
		}},
		{"electricity-bill", []string{
			`electricity`, `consumer\s*number`, `units`, `kwh`, `bses`, `bescom`,
		}},
		{"phone-bill", []string{
			`mobile`, `phone\s*bill`, `airtel`, `jio`, `vi`, `data\s*used`,
		}},
		{"salary-slip", []string{
			`salary`, `employee`, `gross`, `net\s*salary`, `deductions`,
		}},
		{"tax-document", []string{
			`income\s*tax`, `pan`, `assessment\s*year`, `total\s*income`,
		}},
	}

	table := make([]entry, 0, len(raw))
	for _, r := range raw {
		e := entry{docType: r.docType}
		for _, kw := range r.keywords {
			e.patterns = append(e.patterns, regexp.MustCompile(`(?i)`+kw))
		}
		table = append(table, e)
	}
	return table
}

// Classify returns the document type for text. A non-empty typeHint wins
// verbatim, with no validation against the known type set. Otherwise each
// type is scored by how many of its keyword patterns occur anywhere in
// the text (presence, not frequency) and the first type with the highest
// score wins. Text matching nothing classifies as "generic".
func (c *Classifier) Classify(text, typeHint string) string {
	if typeHint != "" {
		return typeHint
	}

	best := model.GenericType
	bestScore := 0
	for _, e := range c.table {
		score := 0
		for _, p := range e.patterns {
			if p.MatchString(text) {
				score++
			}
		}
		if score > bestScore {
			best = e.docType
			bestScore = score
		}
	}
	return best
}

// Types returns the taxonomy in table order.
func (c *Classifier) Types() []string {
	types := make([]string, 0, len(c.table))
	for _, e := range c.table {
		types = append(types, e.docType)
	}
	return types
}
