package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show index statistics for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	a, err := app.New(root, settings)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.Store.Load(cmd.Context()); err != nil {
		return err
	}

	stats, err := a.Store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Println(renderStats(a.Root, stats))
	return nil
}
