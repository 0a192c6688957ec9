package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/app"
)

var (
	searchPath   string
	searchLimit  int
	searchHybrid bool
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the indexed project",
	Long: `Runs a query against the project's index. By default vector and
lexical rankings are fused; --hybrid=false falls back to pure vector
similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchPath, "path", "p", ".", "project root to search")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchHybrid, "hybrid", true, "fuse vector and lexical rankings")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("hybrid") {
		settings.Search.Hybrid = searchHybrid
	}
	limit := searchLimit
	if limit <= 0 {
		limit = settings.Search.Limit
	}

	a, err := app.New(searchPath, settings)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if _, err := os.Stat(settings.IndexPath(a.Root)); errors.Is(err, os.ErrNotExist) && settings.Store.Backend == "file" {
		return fmt.Errorf("no search index found at %s; run `agentlens index` first", a.Root)
	}

	results, err := a.Searcher.SmartSearch(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(renderSearchResults(query, results))
	return nil
}
