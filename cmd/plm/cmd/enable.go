package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <plugin>",
	Short: "Re-deploy a disabled plugin",
	Long: `Re-place a plugin's components from the local cache.

Enable never touches the network: the cached content from the last
install or update is deployed as-is. Restrict to specific targets with
--targets; the default is every target the plugin is recorded for.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString("dir")
		res, err := d.engine.Enable(args[0], splitCommaFlag(cmd, "targets"), dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Enabled: %s\n", pluginLabel(&res.Plugin))
		printOutcomes(os.Stdout, res)
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <plugin>",
	Short: "Remove a plugin's deployed files",
	Long: `Remove the files a plugin placed into its targets, keeping the
cached content and the plugin record. Re-enable later with 'plm enable'
without re-downloading anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		res, err := d.engine.Disable(args[0], splitCommaFlag(cmd, "targets"))
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Disabled: %s\n", pluginLabel(&res.Plugin))
		return nil
	},
}

func init() {
	addTargetsFlag(enableCmd)
	enableCmd.Flags().StringP("dir", "d", "", "Project directory for project-scoped deployments")
	addTargetsFlag(disableCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
