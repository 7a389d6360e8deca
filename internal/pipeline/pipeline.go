// Package pipeline wires the classifier, extractor and generators into
// the complete explain flow.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/simpledoc/simpledoc/internal/action"
	"github.com/simpledoc/simpledoc/internal/classify"
	"github.com/simpledoc/simpledoc/internal/extract"
	"github.com/simpledoc/simpledoc/internal/llm"
	"github.com/simpledoc/simpledoc/internal/model"
	"github.com/simpledoc/simpledoc/internal/redact"
	"github.com/simpledoc/simpledoc/internal/summary"
	"github.com/simpledoc/simpledoc/internal/template"
)

// Pipeline runs the full explain flow over an immutable template store.
// It is stateless per request and safe for concurrent use.
type Pipeline struct {
	store      *template.Store
	classifier *classify.Classifier
	extractor  *extract.Extractor
	summaries  *summary.Generator
	actions    *action.Generator
	summarizer *llm.Summarizer // Optional LLM polish (nil-safe, off by default)
	config     *model.Config
}

// New builds a pipeline from configuration, loading compiled templates
// from cfg.Templates.CompiledDir.
func New(cfg *model.Config) (*Pipeline, error) {
	store, err := template.Load(cfg.Templates.CompiledDir)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if cfg.Output.Verbose && store.Skipped() > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d malformed template manifest(s)\n", store.Skipped())
	}
	return NewWithStore(store, cfg)
}

// NewWithStore builds a pipeline over an already-loaded store.
func NewWithStore(store *template.Store, cfg *model.Config) (*Pipeline, error) {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		store:      store,
		classifier: classify.NewClassifier(),
		extractor:  extract.NewExtractor(store),
		summaries:  summary.NewGenerator(),
		actions:    action.NewGenerator(),
		summarizer: summarizer,
		config:     cfg,
	}, nil
}

// Request is one document to explain.
type Request struct {
	DocText  string
	TypeHint string
	Locale   string
}

// Explain classifies the document, extracts fields and generates the
// summary and actions. It never returns an error: an unknown type or a
// document matching nothing degrades to an empty, zero-confidence result.
func (p *Pipeline) Explain(ctx context.Context, req Request) *model.Explanation {
	locale := req.Locale
	if locale == "" {
		locale = p.config.Locale
	}

	// 1. Resolve the document type (hint wins).
	docType := p.classifier.Classify(req.DocText, req.TypeHint)

	// 2. Extract fields with citations and confidence.
	extraction := p.extractor.Extract(req.DocText, docType)

	// 3. Summary and actions run independently off the extraction.
	summaryText := p.summaries.Generate(extraction.Extractions, docType, locale)
	actions := p.actions.Generate(extraction.Extractions, docType)

	// 4. Optional LLM polish (AFTER scoring, never affects confidence).
	// Everything sent to the provider is redacted first.
	if p.summarizer.IsEnabled() && len(extraction.Extractions) > 0 {
		polished, err := p.summarizer.Polish(ctx, llm.RephraseRequest{
			Summary:     redact.Text(summaryText),
			DocType:     docType,
			Extractions: redactValues(extraction.Extractions),
			Locale:      locale,
		})
		if err != nil {
			// Keep the rule-based summary, just warn.
			fmt.Fprintf(os.Stderr, "Warning: LLM summary polish failed: %v\n", err)
		} else {
			summaryText = polished
		}
	}

	return &model.Explanation{
		Summary:     summaryText,
		Extractions: extraction.Extractions,
		Actions:     actions,
		Confidence:  extraction.Confidence,
		DocType:     docType,
		Citations:   extraction.Citations,
	}
}

// Store exposes the loaded template store.
func (p *Pipeline) Store() *template.Store {
	return p.store
}

// redactValues masks PII in string values before they leave the process.
func redactValues(extractions map[string]any) map[string]any {
	out := make(map[string]any, len(extractions))
	for k, v := range extractions {
		if s, ok := v.(string); ok {
			out[k] = redact.Text(s)
		} else {
			out[k] = v
		}
	}
	return out
}
