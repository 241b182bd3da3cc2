package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search cached marketplace catalogs",
	Long: `Fuzzy-search plugin names and descriptions across every cached
marketplace catalog. Searches local snapshots only; run
'plm marketplace refresh' first for current listings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		results, err := d.engine.Registry().Search(args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stdout, "No matching plugins.")
			return nil
		}

		for _, r := range results {
			line := fmt.Sprintf("%s@%s", r.Plugin.Name, r.Registry)
			if r.Plugin.Description != "" {
				line += " - " + r.Plugin.Description
			}
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
