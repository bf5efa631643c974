package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docmark/docmark/pkg/docmark"
)

var (
	renderOutputPath  string
	renderOptionsPath string
	renderStrict      bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutputPath, "output", "o", "", "write markdown to a file instead of stdout")
	renderCmd.Flags().StringVar(&renderOptionsPath, "options", "", "YAML file overriding the style heuristics")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "exit non-zero when rendering produced diagnostics")
}

var renderCmd = &cobra.Command{
	Use:   "render <document.docx>",
	Short: "Render a document to markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyLogLevel()
		docmark.UpdateLoggerFromConfig()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		opts := docmark.DefaultOptions()
		if renderOptionsPath != "" {
			opts, err = docmark.LoadOptionsFile(renderOptionsPath)
			if err != nil {
				return err
			}
		}

		result, err := docmark.RenderDocument(data, opts)
		if err != nil {
			return err
		}

		for _, diag := range result.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", diag)
		}
		strict := renderStrict || docmark.GetGlobalConfig().StrictMode
		if strict && len(result.Diagnostics) > 0 {
			return fmt.Errorf("rendering produced %d diagnostics", len(result.Diagnostics))
		}

		if renderOutputPath == "" {
			fmt.Fprint(cmd.OutOrStdout(), result.Markdown)
			return nil
		}
		if err := os.WriteFile(renderOutputPath, []byte(result.Markdown), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOutputPath, err)
		}
		return nil
	},
}
