package summary

import (
	"strings"
	"testing"
)

func TestGenerate_EmptyExtractions(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{}, "credit-card-statement", "en-IN")
	if got != NoExtractionsMessage {
		t.Errorf("Expected no-extractions message, got %q", got)
	}
}

func TestGenerate_CreditCard(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{
		"totalDue": 4250.0,
		"dueDate":  "15 Nov 2025",
	}, "credit-card-statement", "en-IN")

	if !strings.Contains(got, "Total amount due: ₹4,250") {
		t.Errorf("Expected total due in summary, got %q", got)
	}
	if !strings.Contains(got, "Due date: 15 Nov 2025") {
		t.Errorf("Expected due date in summary, got %q", got)
	}
}

func TestGenerate_CreditCardStringAmount(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{"totalDue": "pending"}, "credit-card-statement", "en-IN")
	if got != "Total due: pending" {
		t.Errorf("Expected raw string rendering, got %q", got)
	}
}

func TestGenerate_CreditCardFallbackSentence(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{"statementDate": "01 Nov 2025"}, "credit-card-statement", "en-IN")
	if got != "Credit card statement processed." {
		t.Errorf("Expected fallback sentence when no summarized field present, got %q", got)
	}
}

func TestGenerate_LakhGrouping(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{"totalDue": 123456.0}, "credit-card-statement", "en-IN")
	if !strings.Contains(got, "₹1,23,456") {
		t.Errorf("Expected en-IN lakh grouping, got %q", got)
	}
}

func TestGenerate_LocaleGrouping(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{"totalDue": 123456.0}, "credit-card-statement", "en-US")
	if !strings.Contains(got, "₹123,456") {
		t.Errorf("Expected en-US thousands grouping, got %q", got)
	}
}

func TestGenerate_InvalidLocaleFallsBack(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{"totalDue": 4250.0}, "credit-card-statement", "not a locale")
	if !strings.Contains(got, "₹4,250") {
		t.Errorf("Expected fallback locale rendering, got %q", got)
	}
}

func TestGenerate_ElectricityBill(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{
		"billAmount":    1520.50,
		"dueDate":       "20 Nov 2025",
		"unitsConsumed": "230",
	}, "electricity-bill", "en-IN")

	if !strings.Contains(got, "Bill amount: ₹1,520.50") {
		t.Errorf("Expected 2-decimal bill amount, got %q", got)
	}
	if !strings.Contains(got, "Units consumed: 230 kWh") {
		t.Errorf("Expected units with kWh, got %q", got)
	}
}

func TestGenerate_RentAgreement(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{
		"monthlyRent":     18000.0,
		"securityDeposit": 54000.0,
		"duration":        "11 months",
	}, "rent-agreement", "en-IN")

	for _, want := range []string{"Monthly rent: ₹18,000", "Security deposit: ₹54,000", "Agreement duration: 11 months"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in summary, got %q", want, got)
		}
	}
}

func TestGenerate_InsurancePolicy(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{
		"premiumAmount": 12000.0,
		"sumAssured":    500000.0,
	}, "insurance-policy", "en-IN")

	if !strings.Contains(got, "Premium: ₹12,000") {
		t.Errorf("Expected premium, got %q", got)
	}
	if !strings.Contains(got, "Sum assured: ₹5,00,000") {
		t.Errorf("Expected sum assured with lakh grouping, got %q", got)
	}
}

func TestGenerate_GenericListsSortedFields(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{
		"zulu":  "z",
		"alpha": "a",
		"mike":  "m",
		"echo":  "e",
	}, "generic", "en-IN")

	if got != "Document processed. Extracted: alpha, echo, mike." {
		t.Errorf("Expected first 3 sorted field names, got %q", got)
	}
}

func TestGenerate_UnknownTypeUsesGeneric(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{"claimNumber": "CLM-42"}, "insurance-claim", "en-IN")
	if got != "Document processed. Extracted: claimNumber." {
		t.Errorf("Expected generic summary for type without a formatter, got %q", got)
	}
}

func TestGenerate_FeesFlag(t *testing.T) {
	g := NewGenerator()
	got := g.Generate(map[string]any{
		"totalDue": 4250.0,
		"fees":     "₹500 late fee",
	}, "credit-card-statement", "en-IN")

	if !strings.Contains(got, "Late fees or charges may apply") {
		t.Errorf("Expected fees warning, got %q", got)
	}
}
