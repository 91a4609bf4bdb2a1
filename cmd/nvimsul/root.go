package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/internal/cli"
	"github.com/aretw0/nvimsul/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nvimsul",
	Short: "nvimsul drives headless Neovim as a system under learning",
	Long: `nvimsul exposes Neovim's modes to active automata learning.
Every membership query runs on a freshly spawned, deterministically configured
headless instance; the mode reported after every key is the observed output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withEnv runs fn with a signal aware context and a configured environment.
func withEnv(cmd *cobra.Command, fn func(ctx *cli.SignalContext, env *cli.Env) error) error {
	env, err := cli.Setup(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()
	return fn(ctx, env)
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./nvimsul.yaml if present)")
	pf.String("nvim-command", "nvim", "Neovim executable")
	pf.Duration("rpc-timeout", 5*time.Second, "Timeout of every RPC call")
	pf.String("profile", "", "Profile patch file (YAML or JSON) extending the default profile")
	pf.StringSlice("alphabet", nil, "Input symbols, comma separated (default: the shipped alphabet)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Also write JSON logs at debug level to this file")
}
