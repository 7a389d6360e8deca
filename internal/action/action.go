// Package action turns extracted fields into an ordered checklist of
// suggested follow-ups (payment reminders, sharing). Rules are checked in
// declaration order and never deduplicated: a document matching two
// reminder rules legitimately gets two reminders.
package action

import (
	"fmt"

	"github.com/simpledoc/simpledoc/internal/model"
)

// recurringBillTypes get a payment reminder whenever a due date was
// extracted.
var recurringBillTypes = map[string]bool{
	"credit-card-statement": true,
	"electricity-bill":      true,
	"phone-bill":            true,
}

// Generator produces follow-up actions.
type Generator struct{}

// NewGenerator creates an action generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the action list for a document. A generic share action
// is always appended last, whatever the type or extractions.
func (g *Generator) Generate(extractions map[string]any, docType string) []model.Action {
	var actions []model.Action

	if docType == "credit-card-statement" {
		if hasAll(extractions, "dueDate", "totalDue") {
			actions = append(actions, model.Action{
				Label: "Set payment reminder",
				Type:  "reminder",
				Payload: map[string]any{
					"dueDate": stringify(extractions["dueDate"]),
					"amount":  extractions["totalDue"],
				},
			})
		}
	}

	if recurringBillTypes[docType] {
		if _, ok := extractions["dueDate"]; ok {
			actions = append(actions, model.Action{
				Label: "Set payment reminder",
				Type:  "reminder",
				Payload: map[string]any{
					"dueDate": stringify(extractions["dueDate"]),
				},
			})
		}
	}

	if docType == "insurance-policy" {
		if _, ok := extractions["premiumDueDate"]; ok {
			actions = append(actions, model.Action{
				Label: "Set premium payment reminder",
				Type:  "reminder",
				Payload: map[string]any{
					"dueDate": stringify(extractions["premiumDueDate"]),
				},
			})
		}
	}

	actions = append(actions, model.Action{
		Label:   "Share to WhatsApp",
		Type:    "share",
		Payload: map[string]any{"channel": "whatsapp"},
	})

	return actions
}

func hasAll(extractions map[string]any, fields ...string) bool {
	for _, f := range fields {
		if _, ok := extractions[f]; !ok {
			return false
		}
	}
	return true
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
