package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/DIO0550/plugin-manager/internal/core/component"
)

var infoCmd = &cobra.Command{
	Use:   "info <plugin>",
	Short: "Show details for an installed plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		p, err := d.engine.Info(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%s (%s)\n", pluginLabel(p), p.Status)
		fmt.Fprintf(os.Stdout, "  Source: %s\n", p.Source)
		fmt.Fprintf(os.Stdout, "  Commit: %s\n", p.InstalledCommit)
		if p.Version != "" {
			fmt.Fprintf(os.Stdout, "  Version: %s\n", p.Version)
		}
		if p.Author != "" {
			fmt.Fprintf(os.Stdout, "  Author: %s\n", p.Author)
		}

		for _, row := range []struct {
			kind  component.Kind
			names []string
		}{
			{component.KindSkill, p.Components.Skills},
			{component.KindAgent, p.Components.Agents},
			{component.KindCommand, p.Components.Commands},
			{component.KindInstruction, p.Components.Instructions},
			{component.KindHook, p.Components.Hooks},
		} {
			if len(row.names) > 0 {
				fmt.Fprintf(os.Stdout, "  %s: %s\n", row.kind.DisplayName(), joinStrings(row.names))
			}
		}

		if len(p.Deployments) > 0 {
			fmt.Fprintln(os.Stdout, "  Deployments:")
			names := make([]string, 0, len(p.Deployments))
			for name := range p.Deployments {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				dep := p.Deployments[name]
				state := "enabled"
				if !dep.Enabled {
					state = "disabled"
				}
				fmt.Fprintf(os.Stdout, "    %s: %s scope, %s, %d file(s)\n",
					name, dep.Scope, state, len(dep.PlacedPaths))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
