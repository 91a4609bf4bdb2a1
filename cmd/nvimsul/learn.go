package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/internal/cli"
	"github.com/aretw0/nvimsul/pkg/domain"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Run a learning driver and write the learned mode graph",
	Long: `Runs the configured learning algorithm against fresh Neovim instances and
writes the hypothesis as nvim_<algorithm>_<walks>_<len>.dot in the output
directory.

The built-in driver "explore" is the default. KV and L_star are provided by external
learners that register themselves; selecting them here without such a learner
is an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		maxRounds, _ := cmd.Flags().GetInt("max-rounds")
		render, _ := cmd.Flags().GetBool("render")
		if !cmd.Flags().Changed("render") {
			render = cli.IsTerminal(os.Stdout)
		}

		return withEnv(cmd, func(ctx *cli.SignalContext, env *cli.Env) error {
			_, err := cli.RunLearn(ctx, env, cli.LearnOptions{
				Mermaid:   mermaid,
				Render:    render,
				MaxRounds: maxRounds,
			})
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(learnCmd)

	p := domain.DefaultLearnParams()
	f := learnCmd.Flags()
	f.String("algorithm", domain.AlgorithmExplore, "Learning algorithm (explore, KV, L_star)")
	f.Int("walks-per-state", p.WalksPerState, "Random walks per discovered state")
	f.Int("walk-len", p.WalkLen, "Length of every random walk")
	f.String("cex-processing", p.CexProcessing, "Counterexample processing passed to the driver (rs, longest_prefix)")
	f.String("closing-strategy", p.ClosingStrategy, "Closing strategy passed to L* drivers")
	f.Bool("cache", p.CacheAndNonDetCheck, "Cache answers and report non-deterministic ones")
	f.Uint64("seed", p.Seed, "Seed of the random walks")
	f.String("store", "memory", "Observation store backing the cache: none, memory, redis")
	f.String("redis-addr", "localhost:6379", "Redis address")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database")
	f.String("redis-prefix", "nvimsul:obs:", "Key prefix of stored observations")
	f.String("output-dir", ".", "Directory receiving the learned graph")
	f.Bool("mermaid", false, "Also write a Mermaid (.mmd) graph")
	f.Bool("render", false, "Render the run report for the terminal (default when stdout is a terminal)")
	f.Int("max-rounds", 0, "Stop exploring after this many rounds (0: until nothing new is found)")
}
