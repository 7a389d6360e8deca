// Package llm optionally rephrases the rule-based summary into smoother
// prose. It is presentation-only: classification, extraction and
// confidence are computed before this step and never depend on it, and
// the whole package is disabled unless a provider is configured.
package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/simpledoc/simpledoc/internal/model"
)

// Provider is a chat-completion backend able to rephrase a summary.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Rephrase rewrites the summary using only the supplied fields.
	Rephrase(ctx context.Context, req RephraseRequest) (*RephraseResponse, error)

	// IsAvailable checks the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// RephraseRequest carries the rule-based summary and the extracted fields
// the rewrite is allowed to mention. Extractions are the STRICT allowlist
// of facts: the provider must not introduce values beyond them.
type RephraseRequest struct {
	Summary     string
	DocType     string
	Extractions map[string]any
	Locale      string

	// Model overrides the configured model (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// RephraseResponse is the rewrite output.
type RephraseResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai" or "" (disabled).
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for the provider.
	APIKey string

	// BaseURL for custom endpoints.
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// ConfigFromModel converts the application LLM config.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// BuildPrompt constructs the default rephrase prompt. The field list is
// the only factual material the model is given.
func BuildPrompt(req RephraseRequest) string {
	names := make([]string, 0, len(req.Extractions))
	for name := range req.Extractions {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields strings.Builder
	for _, name := range names {
		fmt.Fprintf(&fields, "- %s: %v\n", name, req.Extractions[name])
	}

	return fmt.Sprintf(`Rewrite the following document summary as one or two friendly sentences.

CRITICAL RULES:
1. Use ONLY the extracted fields below. Do not invent, estimate or infer any value.
2. Keep every amount and date exactly as written.
3. Do not add advice, warnings or disclaimers.

Document type: %s
Current summary: %s

Extracted fields:
%s`, req.DocType, req.Summary, fields.String())
}
