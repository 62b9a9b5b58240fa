package main

import (
	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/api"
	"github.com/lecternhq/lectern/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Teaching content generation server backed by curriculum resources",
	Long: `Lectern is a content-generation server for teachers. Upload curriculum
resources (PDFs, documents), browse them by class, subject, book, and chapter,
and generate lesson plans, question sets, presentations, and class notes with
an LLM.

The generation pipeline:
  - Resolves the class/subject/book/chapter filter against uploaded resources
  - Builds deterministic prompts from the request and matched resources
  - Calls the configured LLM provider (OpenAI, with Gemini fallback)
  - Repairs the model reply so a usable artifact is always produced
  - Persists the artifact (with its prompts, for audit) to the document store`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.lectern/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "lectern home directory (default: ~/.lectern)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
