package main

import (
	"os"

	"github.com/spf13/cobra"
)

// set via -ldflags at release time
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "docmark",
	Short: "Render DOCX packages as flat markdown",
	Long:  `docmark opens a WordprocessingML package, validates its parts against the declared element schemas and renders the main document as normalized flat markdown.`,
}

var logLevel string

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG|INFO|WARN|ERROR)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyLogLevel routes the flag through the environment-driven config so
// flag and DOCMARK_LOG_LEVEL behave identically.
func applyLogLevel() {
	if logLevel == "" {
		return
	}
	os.Setenv("DOCMARK_LOG_LEVEL", logLevel)
}
