package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/nvimsul/pkg/classifier"
	"github.com/aretw0/nvimsul/pkg/domain"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "Print the mode classification table",
	Long: `Prints every mode code reported by nvim_get_mode and the canonical state it
is classified as. A blocking variant appends "` + domain.BlockingSuffix + `" to its label.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(classifier.Table())
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tSTATE")
		for _, code := range classifier.Codes() {
			label, _ := classifier.Label(code)
			fmt.Fprintf(w, "%q\t%s\n", code, label)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
	modesCmd.Flags().Bool("json", false, "Print the table as JSON")
}
