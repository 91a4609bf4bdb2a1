package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/internal/cli"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes one Neovim SUL as MCP tools (query, classify, alphabet, reset).

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP on --addr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		return withEnv(cmd, func(ctx *cli.SignalContext, env *cli.Env) error {
			return cli.RunMCP(ctx, env, transport)
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", cli.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "localhost:8080", "Address to listen on (only for SSE)")
}
