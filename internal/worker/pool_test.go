package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/simpledoc/simpledoc/internal/model"
	"github.com/simpledoc/simpledoc/internal/pipeline"
)

type countingJob struct {
	counter *atomic.Int64
	err     error
}

type countingResult struct {
	err error
}

func (r *countingResult) GetError() error { return r.err }

func (j *countingJob) Execute(ctx context.Context) Result {
	j.counter.Add(1)
	return &countingResult{err: j.err}
}

func TestPool_RunsAllJobs(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(4)
	pool.Start()

	const jobs = 50
	for i := 0; i < jobs; i++ {
		pool.Submit(&countingJob{counter: &counter})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Errorf("Expected %d results, got %d", jobs, len(results))
	}
	if counter.Load() != jobs {
		t.Errorf("Expected %d executions, got %d", jobs, counter.Load())
	}
}

func TestPool_PropagatesJobErrors(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(2)
	pool.Start()

	wantErr := errors.New("boom")
	pool.Submit(&countingJob{counter: &counter, err: wantErr})
	pool.Submit(&countingJob{counter: &counter})

	results := pool.Wait()
	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected 1 failed result, got %d", failed)
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(0)
	pool.Start()
	pool.Submit(&countingJob{counter: &counter})

	results := pool.Wait()
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestPool_SubmitAfterShutdownDropped(t *testing.T) {
	var counter atomic.Int64
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	pool.Submit(&countingJob{counter: &counter})
	if counter.Load() != 0 {
		t.Errorf("Expected no executions after shutdown, got %d", counter.Load())
	}
}

type stubExplainer struct {
	lastReq pipeline.Request
}

func (s *stubExplainer) Explain(ctx context.Context, req pipeline.Request) *model.Explanation {
	s.lastReq = req
	return &model.Explanation{Summary: "ok", DocType: "generic"}
}

func TestExplainJob_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("Total Due: ₹4,250"), 0o644); err != nil {
		t.Fatal(err)
	}

	stub := &stubExplainer{}
	job := &ExplainJob{Path: path, Locale: "en-IN", TypeHint: "credit-card-statement", Explainer: stub}

	result := job.Execute(context.Background())
	er, ok := result.(*ExplainResult)
	if !ok {
		t.Fatalf("Expected *ExplainResult, got %T", result)
	}
	if er.GetError() != nil {
		t.Fatalf("Unexpected error: %v", er.GetError())
	}
	if er.Explanation == nil || er.Explanation.Summary != "ok" {
		t.Errorf("Expected stub explanation, got %+v", er.Explanation)
	}
	if stub.lastReq.DocText != "Total Due: ₹4,250" || stub.lastReq.TypeHint != "credit-card-statement" {
		t.Errorf("Unexpected request passed through: %+v", stub.lastReq)
	}
}

func TestExplainJob_MissingFile(t *testing.T) {
	job := &ExplainJob{Path: filepath.Join(t.TempDir(), "absent.txt"), Explainer: &stubExplainer{}}

	result := job.Execute(context.Background())
	if result.GetError() == nil {
		t.Error("Expected error for missing file")
	}
}
