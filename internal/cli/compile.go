package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simpledoc/simpledoc/internal/template"
)

var (
	compileSourceDir string
	compileOutDir    string
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile YAML template sources into runtime manifests",
	Long: `Compile validates every YAML template source and emits one JSON
manifest per document type plus an index of all supported types.

Validation failures in one template never block the others: every file
is attempted so authors see all errors in a single run, but the command
exits non-zero if anything failed.

Example:
  simpledoc compile
  simpledoc compile --templates ./templates --out ./templates/compiled`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&compileSourceDir, "templates", "", "template source directory (default from config)")
	compileCmd.Flags().StringVar(&compileOutDir, "out", "", "compiled output directory (default from config)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	sourceDir := compileSourceDir
	if sourceDir == "" {
		sourceDir = cfg.Templates.SourceDir
	}
	outDir := compileOutDir
	if outDir == "" {
		outDir = cfg.Templates.CompiledDir
	}

	result, err := template.CompileDir(sourceDir, outDir)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	if result.Failed() {
		fmt.Fprintln(os.Stderr, "Errors during compilation:")
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", e)
		}
	}
	fmt.Fprintf(os.Stderr, "Compiled %d template(s) to %s\n", len(result.Index.DocTypes), outDir)

	if result.Failed() {
		return fmt.Errorf("compilation failed with %d error(s)", len(result.Errors))
	}
	return nil
}
