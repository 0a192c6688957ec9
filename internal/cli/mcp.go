package cli

import (
	"github.com/spf13/cobra"

	"github.com/agentlens/agentlens/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as a Model Context Protocol server on stdio",
	Long: `Starts an MCP server exposing index_codebase, search_code, and
index_status tools. Intended to be launched by an MCP client; all logs
go to stderr so stdout stays clean for the protocol.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	server := mcp.NewServer(settings)
	return server.Serve(cmd.Context())
}
