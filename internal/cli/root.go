// Package cli implements the agentlens command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/config"
)

var (
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "agentlens",
	Short: "Semantic code search for local projects",
	Long: `agentlens builds a local semantic index of a codebase and answers
natural-language queries against it. Embeddings come from a local Ollama
instance; the index lives under the project in .agentlens/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.SetupLogging(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("endpoint", "", "embedding provider endpoint")
	rootCmd.PersistentFlags().String("model", "", "embedding model name")
	rootCmd.PersistentFlags().Int("workers", 0, "number of concurrent indexing workers")
}

// loadSettings resolves configuration with the root command's persistent
// flags as the highest-priority source.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		config.Log(settings)
	}
	return settings, nil
}

// ExecuteContext runs the CLI with the given build version; ctx cancels
// long-running commands on shutdown signals.
func ExecuteContext(ctx context.Context, version string) error {
	rootCmd.Version = version
	return rootCmd.ExecuteContext(ctx)
}
