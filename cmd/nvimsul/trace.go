package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/internal/cli"
)

var traceCmd = &cobra.Command{
	Use:   "trace [symbols...]",
	Short: "Send keys to a fresh Neovim and print the observed modes",
	Long: `Without arguments, trace starts an interactive session: every line is a list
of space separated symbols, each answered with the mode it leads to. 'reset'
starts over on a fresh instance, 'exit' quits.

With arguments (or --keys), the symbols are run as one membership query.`,
	Example: `  nvimsul trace : "<Esc>" v
  nvimsul trace --keys ": <Esc> v" --mermaid`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, _ := cmd.Flags().GetString("keys")
		headless, _ := cmd.Flags().GetBool("headless")
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		if keys != "" {
			args = append(args, keys)
		}
		if !cmd.Flags().Changed("headless") && len(args) == 0 {
			headless = !cli.IsTerminal(os.Stdin)
		}

		return withEnv(cmd, func(ctx *cli.SignalContext, env *cli.Env) error {
			return cli.RunTrace(ctx, env, os.Stdin, cli.TraceOptions{
				Keys:     args,
				Headless: headless,
				Mermaid:  mermaid,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().String("keys", "", "Symbols to run as one query, space separated")
	traceCmd.Flags().Bool("headless", false, "No banner or prompts (default when stdin is not a terminal)")
	traceCmd.Flags().Bool("mermaid", false, "Print the observed path as a Mermaid diagram")
}
