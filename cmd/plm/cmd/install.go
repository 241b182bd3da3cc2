package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DIO0550/plugin-manager/internal/core"
)

var installCmd = &cobra.Command{
	Use:   "install <plugin>",
	Short: "Install a plugin from a repository or marketplace",
	Long: `Install a plugin and deploy its components to the enabled targets.

Plugins can be named as:
  owner/repo              GitHub shorthand
  owner/repo@ref          Pinned to a branch, tag, or commit
  https://github.com/...  Full URL
  git@host:owner/repo.git SSH clone URL
  name                    A plugin listed by a registered marketplace
  name@marketplace        Disambiguated marketplace plugin

When a bare name appears in more than one marketplace the install fails
and lists the candidates; qualify the name to pick one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		scope, projectDir, err := resolveScope(cmd)
		if err != nil {
			return err
		}
		kinds, err := resolveKinds(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		res, err := d.engine.Install(cmd.Context(), args[0], core.InstallOptions{
			Targets:    splitCommaFlag(cmd, "targets"),
			Scope:      scope,
			Kinds:      kinds,
			Force:      force,
			ProjectDir: projectDir,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Installed: %s\n", pluginLabel(&res.Plugin))
		if res.Plugin.Version != "" {
			fmt.Fprintf(os.Stdout, "  Version: %s\n", res.Plugin.Version)
		}
		fmt.Fprintf(os.Stdout, "  Commit: %s\n", res.Plugin.InstalledCommit)
		printOutcomes(os.Stdout, res)
		return nil
	},
}

func init() {
	addTargetsFlag(installCmd)
	addScopeFlags(installCmd)
	installCmd.Flags().String("kinds", "", "Comma-separated component kinds to deploy (default: all)")
	installCmd.Flags().Bool("force", false, "Overwrite files not owned by another plugin")
	rootCmd.AddCommand(installCmd)
}
