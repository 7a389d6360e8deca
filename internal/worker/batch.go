package worker

import (
	"context"
	"os"

	"github.com/simpledoc/simpledoc/internal/model"
	"github.com/simpledoc/simpledoc/internal/pipeline"
)

// Explainer explains a single document.
type Explainer interface {
	Explain(ctx context.Context, req pipeline.Request) *model.Explanation
}

// ExplainJob reads one text file and runs it through the pipeline.
type ExplainJob struct {
	Path      string
	Locale    string
	TypeHint  string
	Explainer Explainer
}

// Execute reads the file and explains it.
func (j *ExplainJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &ExplainResult{Path: j.Path, Error: err}
	}

	explanation := j.Explainer.Explain(ctx, pipeline.Request{
		DocText:  string(data),
		TypeHint: j.TypeHint,
		Locale:   j.Locale,
	})
	return &ExplainResult{Path: j.Path, Explanation: explanation}
}

// ExplainResult is the outcome of one file.
type ExplainResult struct {
	Path        string
	Explanation *model.Explanation
	Error       error
}

// GetError returns the job error, if any.
func (r *ExplainResult) GetError() error {
	return r.Error
}
