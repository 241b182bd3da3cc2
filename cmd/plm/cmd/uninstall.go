package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <plugin>",
	Short: "Remove a plugin completely",
	Long: `Remove a plugin's deployed files, its cached content, and its record.

With --targets only the named deployments are removed; the plugin stays
installed for the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if err := d.engine.Uninstall(args[0], splitCommaFlag(cmd, "targets")); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Uninstalled: %s\n", args[0])
		return nil
	},
}

func init() {
	addTargetsFlag(uninstallCmd)
	rootCmd.AddCommand(uninstallCmd)
}
