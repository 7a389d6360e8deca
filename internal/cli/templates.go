package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simpledoc/simpledoc/internal/template"
)

// templatesCmd represents the templates command
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the compiled document types",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()

		index := template.LoadIndex(cfg.Templates.CompiledDir)
		if len(index.DocTypes) == 0 {
			fmt.Println("No compiled templates found. Run 'simpledoc compile' first.")
			return nil
		}

		for _, entry := range index.DocTypes {
			line := fmt.Sprintf("%s (v%s)", entry.ID, entry.Version)
			if len(entry.Issuers) > 0 {
				line += fmt.Sprintf("  issuers: %v", entry.Issuers)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
