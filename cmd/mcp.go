package cmd

import (
	"github.com/huangsam/benchgrid/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [source]",
	Short: "Start the benchgrid MCP server",
	Long:  `Launch an MCP server that allows AI agents to build sections and resolve scales via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Notices go to stderr, so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
