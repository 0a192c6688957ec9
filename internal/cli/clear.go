package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/app"
)

var clearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Delete the search index for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
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

	if err := a.Store.Clear(cmd.Context()); err != nil {
		return err
	}

	cmd.Println("Index cleared.")
	return nil
}
