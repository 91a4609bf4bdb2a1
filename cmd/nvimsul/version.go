package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nvimsul",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nvimsul version %s\n", strings.TrimSpace(nvimsul.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
