package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync <from-target> <to-target>",
	Short: "Mirror deployed plugins onto another target",
	Long: `Deploy every plugin currently enabled on one target onto another,
re-deriving formats from the cached plugin content. Components the
destination does not support are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		kinds, err := resolveKinds(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")

		results, err := d.engine.Sync(args[0], args[1], kinds, dir)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(os.Stdout, "Nothing to sync: no plugins enabled on %s.\n", args[0])
			return nil
		}

		for _, res := range results {
			fmt.Fprintf(os.Stdout, "Synced: %s -> %s\n", pluginLabel(&res.Plugin), args[1])
			printOutcomes(os.Stdout, res)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().String("kinds", "", "Comma-separated component kinds to sync (default: all)")
	syncCmd.Flags().StringP("dir", "d", "", "Project directory for project-scoped deployments")
	rootCmd.AddCommand(syncCmd)
}
