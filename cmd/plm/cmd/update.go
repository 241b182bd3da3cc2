package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DIO0550/plugin-manager/internal/core"
)

var updateCmd = &cobra.Command{
	Use:   "update [plugin]",
	Short: "Update installed plugins",
	Long: `Update one plugin, or all installed plugins when no name is given.

A plugin whose remote commit matches the installed commit is left
untouched. Updated plugins are re-deployed to the targets they were
already deployed to.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("dir")
		opts := core.InstallOptions{ProjectDir: dir}

		if len(args) == 1 {
			res, err := d.engine.Update(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			printUpdateResult(res)
			return nil
		}

		results, errs := d.engine.UpdateAll(cmd.Context(), opts)
		for _, res := range results {
			printUpdateResult(res)
		}
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d plugin(s) failed to update", len(errs))
		}
		return nil
	},
}

func printUpdateResult(res *core.OperationResult) {
	label := pluginLabel(&res.Plugin)
	if res.NoOp {
		fmt.Fprintf(os.Stdout, "Up to date: %s\n", label)
		return
	}
	fmt.Fprintf(os.Stdout, "Updated: %s (commit: %s)\n", label, res.Plugin.InstalledCommit)
	printOutcomes(os.Stdout, res)
}

func init() {
	updateCmd.Flags().StringP("dir", "d", "", "Project directory for project-scoped deployments (defaults to the working directory)")
	rootCmd.AddCommand(updateCmd)
}
