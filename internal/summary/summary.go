// Package summary renders a short plain-language synopsis from extracted
// fields. It is pure formatting: no field is ever invented, absent fields
// are simply omitted.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NoExtractionsMessage is returned whenever there is nothing to summarize,
// regardless of document type.
const NoExtractionsMessage = "Unable to extract key information from this document."

// formatter builds a type-specific summary sentence.
type formatter func(extractions map[string]any, p *message.Printer) string

// formatters maps document types to their summary rule. Types without an
// entry fall back to the generic formatter.
var formatters = map[string]formatter{
	"credit-card-statement": creditCardSummary,
	"bank-statement":        bankStatementSummary,
	"rent-agreement":        rentSummary,
	"electricity-bill":      electricitySummary,
	"insurance-policy":      insurancePolicySummary,
}

// Generator produces summaries with locale-appropriate number formatting.
type Generator struct {
	fallback language.Tag
}

// NewGenerator creates a summary generator.
func NewGenerator() *Generator {
	return &Generator{fallback: language.MustParse("en-IN")}
}

// Generate builds the summary for a document type. Monetary fields are
// rendered with a rupee prefix and the locale's thousands grouping
// (en-IN groups by lakh/crore); other values are rendered as-is.
func (g *Generator) Generate(extractions map[string]any, docType, locale string) string {
	if len(extractions) == 0 {
		return NoExtractionsMessage
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = g.fallback
	}
	p := message.NewPrinter(tag)

	if f, ok := formatters[docType]; ok {
		return f(extractions, p)
	}
	return genericSummary(extractions)
}

func creditCardSummary(extractions map[string]any, p *message.Printer) string {
	var parts []string
	if v, ok := extractions["totalDue"]; ok {
		if amount, isNum := v.(float64); isNum {
			parts = append(parts, "Total amount due: "+money(p, amount, 0))
		} else {
			parts = append(parts, fmt.Sprintf("Total due: %v", v))
		}
	}
	if v, ok := extractions["dueDate"]; ok {
		parts = append(parts, fmt.Sprintf("Due date: %v", v))
	}
	if v, ok := extractions["fees"]; ok && truthy(v) {
		parts = append(parts, "Late fees or charges may apply")
	}
	return join(parts, "Credit card statement processed.")
}

func bankStatementSummary(extractions map[string]any, p *message.Printer) string {
	var parts []string
	if v, ok := extractions["closingBalance"]; ok {
		if balance, isNum := v.(float64); isNum {
			parts = append(parts, "Closing balance: "+money(p, balance, 2))
		} else {
			parts = append(parts, fmt.Sprintf("Balance: %v", v))
		}
	}
	if v, ok := extractions["period"]; ok {
		parts = append(parts, fmt.Sprintf("Statement period: %v", v))
	}
	return join(parts, "Bank statement processed.")
}

func rentSummary(extractions map[string]any, p *message.Printer) string {
	var parts []string
	if v, ok := extractions["monthlyRent"]; ok {
		if rent, isNum := v.(float64); isNum {
			parts = append(parts, "Monthly rent: "+money(p, rent, 0))
		} else {
			parts = append(parts, fmt.Sprintf("Rent: %v", v))
		}
	}
	if v, ok := extractions["securityDeposit"]; ok {
		if deposit, isNum := v.(float64); isNum {
			parts = append(parts, "Security deposit: "+money(p, deposit, 0))
		} else {
			parts = append(parts, fmt.Sprintf("Deposit: %v", v))
		}
	}
	if v, ok := extractions["duration"]; ok {
		parts = append(parts, fmt.Sprintf("Agreement duration: %v", v))
	}
	return join(parts, "Rent agreement processed.")
}

func electricitySummary(extractions map[string]any, p *message.Printer) string {
	var parts []string
	if v, ok := extractions["billAmount"]; ok {
		if amount, isNum := v.(float64); isNum {
			parts = append(parts, "Bill amount: "+money(p, amount, 2))
		} else {
			parts = append(parts, fmt.Sprintf("Amount: %v", v))
		}
	}
	if v, ok := extractions["dueDate"]; ok {
		parts = append(parts, fmt.Sprintf("Due date: %v", v))
	}
	if v, ok := extractions["unitsConsumed"]; ok {
		parts = append(parts, fmt.Sprintf("Units consumed: %v kWh", v))
	}
	return join(parts, "Electricity bill processed.")
}

func insurancePolicySummary(extractions map[string]any, p *message.Printer) string {
	var parts []string
	if v, ok := extractions["premiumAmount"]; ok {
		if premium, isNum := v.(float64); isNum {
			parts = append(parts, "Premium: "+money(p, premium, 0))
		} else {
			parts = append(parts, fmt.Sprintf("Premium: %v", v))
		}
	}
	if v, ok := extractions["dueDate"]; ok {
		parts = append(parts, fmt.Sprintf("Due date: %v", v))
	}
	if v, ok := extractions["sumAssured"]; ok {
		if sum, isNum := v.(float64); isNum {
			parts = append(parts, "Sum assured: "+money(p, sum, 0))
		} else {
			parts = append(parts, fmt.Sprintf("Coverage: %v", v))
		}
	}
	return join(parts, "Insurance policy processed.")
}

// genericSummary lists up to the first 3 extracted field names, sorted so
// the output is deterministic.
func genericSummary(extractions map[string]any) string {
	names := make([]string, 0, len(extractions))
	for name := range extractions {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 3 {
		names = names[:3]
	}
	if len(names) == 0 {
		return "Document processed successfully."
	}
	return "Document processed. Extracted: " + strings.Join(names, ", ") + "."
}

// money renders an amount as ₹ plus the locale's digit grouping.
func money(p *message.Printer, amount float64, decimals int) string {
	return p.Sprintf("₹%v", number.Decimal(amount,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals)))
}

func truthy(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case nil:
		return false
	default:
		return true
	}
}

func join(parts []string, fallback string) string {
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ". ")
}
