package llm

import (
	"context"
	"strings"
)

// Summarizer wraps an optional provider behind a safe, nil-friendly API
// so callers never need to branch on whether LLM polish is configured.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. With no provider configured the
// returned summarizer is valid but disabled.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// Polish rewrites a rule-based summary. On failure or an empty rewrite
// the original summary is returned (with the error, when there is one)
// so callers can warn and carry on.
func (s *Summarizer) Polish(ctx context.Context, req RephraseRequest) (string, error) {
	if !s.IsEnabled() {
		return req.Summary, nil
	}

	resp, err := s.provider.Rephrase(ctx, req)
	if err != nil {
		return req.Summary, err
	}

	polished := strings.TrimSpace(resp.Summary)
	if polished == "" {
		return req.Summary, nil
	}
	return polished, nil
}
