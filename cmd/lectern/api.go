package main

import (
	"github.com/spf13/cobra"

	"github.com/lecternhq/lectern/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Lectern server via HTTP.

These commands require a running server (lectern serve).
Use --server to specify a custom server URL.

Examples:
  lectern api health                                # Check server health
  lectern api resources list                        # List uploaded resources
  lectern api generate lesson-plan --subject ...    # Generate a lesson plan
  lectern api artifacts list lesson-plan            # List generated lesson plans`,
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Curriculum resource commands",
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Content generation commands",
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Generated artifact commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Resources as subcommand group
	for _, ep := range endpoints.ResourceCommands() {
		resourcesCmd.AddCommand(ep.Command(getServerURL))
	}

	// One generate subcommand per content type
	for _, ep := range endpoints.GenerateCommands() {
		generateCmd.AddCommand(ep.Command(getServerURL))
	}

	// Artifacts as subcommand group
	for _, ep := range endpoints.ArtifactCommands() {
		artifactsCmd.AddCommand(ep.Command(getServerURL))
	}

	// Filters, stats, and swagger at top level
	apiCmd.AddCommand((&endpoints.FiltersEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(resourcesCmd)
	apiCmd.AddCommand(generateCmd)
	apiCmd.AddCommand(artifactsCmd)

	rootCmd.AddCommand(apiCmd)
}
