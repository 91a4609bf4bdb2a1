package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/internal/cli"
	"github.com/aretw0/nvimsul/pkg/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check [words...]",
	Short: "Run the same words on two fresh instances and compare the answers",
	Long: `check verifies that the configured profile makes Neovim deterministic: every
word is answered by two independent instances and the traces must agree.
Each argument is one word of space separated symbols; --random adds seeded
random words.`,
	Example: `  nvimsul check ": <Esc> v" "g v"
  nvimsul check --random 50 --len 10 --seed 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		random, _ := cmd.Flags().GetInt("random")
		length, _ := cmd.Flags().GetInt("len")

		words := make([]domain.Word, 0, len(args))
		for _, a := range args {
			words = append(words, cli.ParseWord([]string{a}))
		}

		return withEnv(cmd, func(ctx *cli.SignalContext, env *cli.Env) error {
			_, err := cli.RunCheck(ctx, env, cli.CheckOptions{Words: words, Random: random, Len: length})
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Int("random", 0, "Number of random words to add")
	checkCmd.Flags().Int("len", 10, "Length of every random word")
	checkCmd.Flags().Uint64("seed", domain.DefaultLearnParams().Seed, "Seed of the random words")
}
