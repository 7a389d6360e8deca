package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/simpledoc/simpledoc/internal/cache"
	"github.com/simpledoc/simpledoc/internal/model"
	"github.com/simpledoc/simpledoc/internal/pipeline"
)

var (
	explainType    string
	explainLocale  string
	explainOut     string
	explainNoCache bool
	llmEnabled     bool
	llmProvider    string
	llmModel       string
)

// explainCmd represents the explain command
var explainCmd = &cobra.Command{
	Use:   "explain <file>",
	Short: "Explain a single document from a text file",
	Long: `Explain classifies the document, extracts fields using the compiled
template for its type, and prints the summary, extractions, citations,
confidence and suggested actions as JSON.

Example:
  simpledoc explain statement.txt
  simpledoc explain bill.txt --type electricity-bill --locale en-IN
  simpledoc explain statement.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)

	explainCmd.Flags().StringVar(&explainType, "type", "", "document type hint (skips classification)")
	explainCmd.Flags().StringVar(&explainLocale, "locale", "", "locale for number formatting (default from config)")
	explainCmd.Flags().StringVar(&explainOut, "json", "", "write the result to this path instead of stdout")
	explainCmd.Flags().BoolVar(&explainNoCache, "no-cache", false, "disable result cache")

	// LLM flags
	explainCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary polish")
	explainCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider")
	explainCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runExplain(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := buildConfig()
	cfg.Output.Verbose = verbose
	if explainNoCache {
		cfg.Cache.Enabled = false
	}
	if err := configureLLM(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d template(s)\n", p.Store().Len())
	}

	explanation, err := explainCached(cfg, p, string(data))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(explanation, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if explainOut != "" {
		if err := os.WriteFile(explainOut, out, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", explainOut)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

// explainCached memoizes explanations by content hash when the cache is
// enabled; a hint or locale change does not share entries with the
// default path, so caching is skipped for hinted runs.
func explainCached(cfg *model.Config, p *pipeline.Pipeline, docText string) (*model.Explanation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	useCache := cfg.Cache.Enabled && explainType == "" && explainLocale == ""
	var store cache.Cache
	if useCache {
		store = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		if data, found := store.Get(cache.Key(docText)); found {
			var cached model.Explanation
			if err := json.Unmarshal(data, &cached); err == nil {
				if verbose {
					fmt.Fprintln(os.Stderr, "Cache hit")
				}
				return &cached, nil
			}
		}
	}

	explanation := p.Explain(ctx, pipeline.Request{
		DocText:  docText,
		TypeHint: explainType,
		Locale:   explainLocale,
	})

	if store != nil {
		if data, err := json.Marshal(explanation); err == nil {
			_ = store.Set(cache.Key(docText), data, cfg.Cache.DiskTTL)
		}
	}
	return explanation, nil
}

// configureLLM applies the LLM flags, pulling the API key from the
// environment.
func configureLLM(cfg *model.Config) error {
	if !llmEnabled {
		return nil
	}
	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	return nil
}
