package cmd

import (
	"github.com/psymap/psymap/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Psymap MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents compute participant
reports, final assessments, rankings and competency summaries through standard tools.

The server reads the same configuration as the CLI: data source, tolerance,
category weights and cache backend.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
