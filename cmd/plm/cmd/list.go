package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/DIO0550/plugin-manager/internal/core"
	"github.com/DIO0550/plugin-manager/internal/core/component"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	Long: `List installed plugins with their status and deployments.

Filter by target with --target or by component kind with --kind.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		targetFilter, _ := cmd.Flags().GetString("target")
		var kindFilter component.Kind
		if flag, _ := cmd.Flags().GetString("kind"); flag != "" {
			kind, ok := component.ParseKind(flag)
			if !ok {
				return fmt.Errorf("unknown component kind %q (valid: %s)",
					flag, joinStrings(kindNameList()))
			}
			kindFilter = kind
		}

		plugins, err := d.engine.List(targetFilter, kindFilter)
		if err != nil {
			return err
		}
		if len(plugins) == 0 {
			fmt.Fprintln(os.Stdout, "No plugins installed.")
			return nil
		}

		for _, p := range plugins {
			fmt.Fprintf(os.Stdout, "%s (%s)\n", pluginLabel(&p), p.Status)
			if p.Version != "" {
				fmt.Fprintf(os.Stdout, "  Version: %s\n", p.Version)
			}
			fmt.Fprintf(os.Stdout, "  Source: %s\n", p.Source)
			if targets := deploymentSummary(&p); targets != "" {
				fmt.Fprintf(os.Stdout, "  Targets: %s\n", targets)
			}
		}
		return nil
	},
}

func deploymentSummary(p *core.CachedPlugin) string {
	names := make([]string, 0, len(p.Deployments))
	for name, dep := range p.Deployments {
		label := name
		if !dep.Enabled {
			label += " (disabled)"
		}
		names = append(names, label)
	}
	sort.Strings(names)
	return joinStrings(names)
}

func init() {
	listCmd.Flags().String("target", "", "Only plugins deployed to this target")
	listCmd.Flags().String("kind", "", "Only plugins providing this component kind")
	rootCmd.AddCommand(listCmd)
}
