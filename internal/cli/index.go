package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/app"
)

var (
	indexForce bool
	indexPrune bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Build or update the search index for a project",
	Long: `Walks the project tree, chunks source files along symbol boundaries,
embeds the chunks, and writes the index under .agentlens/. Unchanged
files are skipped by content hash.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "re-index all files ignoring content hashes")
	indexCmd.Flags().BoolVar(&indexPrune, "prune", true, "remove index entries for deleted files")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
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

	if err := a.Embedder.HealthCheck(cmd.Context()); err != nil {
		return err
	}

	sc, err := a.Scanner()
	if err != nil {
		return err
	}

	result, err := a.Indexer.IndexAll(cmd.Context(), sc, indexForce)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	pruned := 0
	if indexPrune {
		pruned, err = a.Indexer.PruneDeleted(cmd.Context(), sc)
		if err != nil {
			return fmt.Errorf("pruning failed: %w", err)
		}
	}

	cmd.Println(renderIndexReport(result, pruned))
	return nil
}
