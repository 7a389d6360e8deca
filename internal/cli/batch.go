package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/simpledoc/simpledoc/internal/pipeline"
	"github.com/simpledoc/simpledoc/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchLocale      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Explain every text document in a directory in parallel",
	Long: `Batch runs the explain pipeline over every .txt file in a directory
using a worker pool, writing one JSON result per document.

Example:
  simpledoc batch ./documents
  simpledoc batch ./documents --concurrency 8 --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default: config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./simpledoc-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchLocale, "locale", "", "locale for number formatting (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	cfg.Output.Verbose = verbose
	workers := batchConcurrency
	if workers <= 0 {
		workers = cfg.Concurrency.Workers
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no .txt documents found in %s", dir)
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processing %d document(s) with %d worker(s)\n", len(files), workers)

	pool := worker.NewPool(workers)
	pool.Start()
	for _, file := range files {
		pool.Submit(&worker.ExplainJob{
			Path:      file,
			Locale:    batchLocale,
			Explainer: p,
		})
	}

	failed := 0
	for _, result := range pool.Wait() {
		res := result.(*worker.ExplainResult)
		if res.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", res.Path, res.Error)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(res.Path), ".txt") + ".json"
		out := filepath.Join(batchOutputDir, name)
		data, err := json.MarshalIndent(res.Explanation, "", "  ")
		if err == nil {
			err = os.WriteFile(out, data, 0o644)
		}
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", res.Path, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  ✓ %s (%s, confidence %.2f)\n",
				res.Path, res.Explanation.DocType, res.Explanation.Confidence)
		}
	}

	if ctx.Err() != nil {
		return fmt.Errorf("batch timed out: %w", ctx.Err())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed", failed, len(files))
	}
	fmt.Fprintf(os.Stderr, "Done: %d result(s) in %s\n", len(files), batchOutputDir)
	return nil
}
