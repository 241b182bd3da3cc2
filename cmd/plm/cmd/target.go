package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DIO0550/plugin-manager/internal/core/target"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage deployment targets",
	Long:  `Enable, disable, and list the targets plugins deploy to by default.`,
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		enabled, err := d.engine.Selection().Enabled()
		if err != nil {
			return err
		}
		enabledNames := map[string]bool{}
		for _, tg := range enabled {
			enabledNames[tg.Name()] = true
		}

		for _, tg := range target.All() {
			marker := " "
			if enabledNames[tg.Name()] {
				marker = "*"
			}
			detected := ""
			if tg.IsInstalled() {
				detected = " (detected)"
			}
			kinds := make([]string, 0, 4)
			for _, k := range tg.SupportedKinds() {
				kinds = append(kinds, string(k))
			}
			fmt.Fprintf(os.Stdout, "%s %s - %s%s\n    supports: %s\n",
				marker, tg.Name(), tg.DisplayName(), detected, joinStrings(kinds))
		}
		return nil
	},
}

var targetAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Enable a target",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if err := d.engine.Selection().Add(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Enabled target: %s\n", args[0])
		return nil
	},
}

var targetRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Disable a target",
	Long: `Remove a target from the default deployment set. Files already
deployed to it are untouched; use 'plm disable --targets' for that.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if err := d.engine.Selection().Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Disabled target: %s\n", args[0])
		return nil
	},
}

func init() {
	targetCmd.AddCommand(targetListCmd)
	targetCmd.AddCommand(targetAddCmd)
	targetCmd.AddCommand(targetRemoveCmd)
	rootCmd.AddCommand(targetCmd)
}
