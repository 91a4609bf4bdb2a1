package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/pkg/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the effective configuration profile",
	Long: `Prints, as YAML, every keymap and option override applied to a freshly
spawned Neovim: the default profile followed by the entries of --profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prof, err := profile.Load(cfg.Profile)
		if err != nil {
			return err
		}
		data, err := prof.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
