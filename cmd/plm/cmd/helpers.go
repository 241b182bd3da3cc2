package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DIO0550/plugin-manager/internal/core"
	"github.com/DIO0550/plugin-manager/internal/core/component"
	"github.com/DIO0550/plugin-manager/internal/core/target"
)

// joinStrings concatenates string slices with ", " separator.
func joinStrings(ss []string) string {
	return strings.Join(ss, ", ")
}

// splitCommaFlag parses a comma-separated flag value into trimmed names.
// Empty flag means nil ("use defaults").
func splitCommaFlag(cmd *cobra.Command, name string) []string {
	flag, _ := cmd.Flags().GetString(name)
	if flag == "" {
		return nil
	}
	names := strings.Split(flag, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

// addTargetsFlag adds the --targets flag shared by deployment commands.
func addTargetsFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("targets", "t", "", "Comma-separated target names (e.g. codex,copilot)")
}

// resolveScope parses the --scope flag and resolves the project directory
// from --dir or the working directory when project scope is requested.
func resolveScope(cmd *cobra.Command) (target.Scope, string, error) {
	flag, _ := cmd.Flags().GetString("scope")
	scope := target.ScopePersonal
	if flag != "" {
		parsed, err := target.ParseScope(flag)
		if err != nil {
			return "", "", err
		}
		scope = parsed
	}

	if scope != target.ScopeProject {
		return scope, "", nil
	}

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = cwd
	}
	return scope, dir, nil
}

// addScopeFlags adds --scope and --dir to a command.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("scope", "", "Deployment scope: personal (default) or project")
	cmd.Flags().StringP("dir", "d", "", "Project directory for project scope (default: current directory)")
}

// resolveKinds parses the --kinds flag into component kinds.
func resolveKinds(cmd *cobra.Command) ([]component.Kind, error) {
	names := splitCommaFlag(cmd, "kinds")
	var kinds []component.Kind
	for _, n := range names {
		kind, ok := component.ParseKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown component kind %q (valid: %s)",
				n, joinStrings(kindNameList()))
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func kindNameList() []string {
	kinds := component.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// printOutcomes renders the placement summary of one operation, grouped
// per target.
func printOutcomes(w io.Writer, res *core.OperationResult) {
	type counts struct{ placed, skipped, conflicts, failed int }
	perTarget := map[string]*counts{}
	var order []string
	for _, o := range res.Outcomes {
		c, ok := perTarget[o.Target]
		if !ok {
			c = &counts{}
			perTarget[o.Target] = c
			order = append(order, o.Target)
		}
		switch o.Status {
		case core.PlacementPlaced:
			c.placed++
		case core.PlacementSkipped:
			c.skipped++
		case core.PlacementConflict:
			c.conflicts++
		case core.PlacementFailed:
			c.failed++
		}
	}

	for _, name := range order {
		c := perTarget[name]
		line := fmt.Sprintf("  %s: %d placed", name, c.placed)
		if c.skipped > 0 {
			line += fmt.Sprintf(", %d skipped", c.skipped)
		}
		if c.conflicts > 0 {
			line += fmt.Sprintf(", %d conflicts", c.conflicts)
		}
		if c.failed > 0 {
			line += fmt.Sprintf(", %d failed", c.failed)
		}
		fmt.Fprintln(w, line)
	}

	for _, o := range res.Outcomes {
		switch o.Status {
		case core.PlacementConflict:
			fmt.Fprintf(w, "  conflict: %s %q on %s: %v (use --force to overwrite)\n",
				o.Kind, o.Component, o.Target, o.Err)
		case core.PlacementFailed:
			fmt.Fprintf(w, "  failed: %s %q on %s: %v\n", o.Kind, o.Component, o.Target, o.Err)
		}
	}
}

// pluginLabel renders a record's user-facing identity.
func pluginLabel(p *core.CachedPlugin) string {
	if p.Marketplace != "" {
		return p.Name + "@" + p.Marketplace
	}
	return p.Name
}
