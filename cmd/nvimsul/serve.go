package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve membership queries over HTTP",
	Long: `Exposes one Neovim SUL as a JSON API for remote learners:

  GET  /alphabet   input symbols
  GET  /modes      classification table
  GET  /status     adapter status
  POST /query      {"word": [...]} -> trace
  POST /reset      fresh instance
  GET  /metrics    Prometheus metrics

Queries are serialized: one editor process answers them one at a time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx *cli.SignalContext, env *cli.Env) error {
			return cli.RunServe(ctx, env)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "localhost:8080", "Address to listen on")
}
