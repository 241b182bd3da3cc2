package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var marketplaceCmd = &cobra.Command{
	Use:     "marketplace",
	Aliases: []string{"mkt"},
	Short:   "Manage plugin marketplaces",
	Long:    `Add, list, refresh, and remove plugin marketplaces.`,
}

var marketplaceAddCmd = &cobra.Command{
	Use:   "add <name> <source>",
	Short: "Register a marketplace",
	Long: `Register a marketplace by name and repository source. The repository
must publish a plugin index at .claude-plugin/marketplace.json; use
--path when the index lives in a subdirectory.

The catalog is fetched immediately so plugins are installable right away.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		sourcePath, _ := cmd.Flags().GetString("path")
		entry, err := d.engine.Registry().Register(args[0], args[1], sourcePath)
		if err != nil {
			return err
		}

		cache, err := d.engine.Registry().Refresh(cmd.Context(), entry.Name)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Added marketplace: %s\n", entry.Name)
			fmt.Fprintf(os.Stderr, "Warning: could not fetch catalog: %v\n", err)
			return nil
		}

		fmt.Fprintf(os.Stdout, "Added marketplace: %s (%d plugins)\n", entry.Name, len(cache.Plugins))
		return nil
	},
}

var marketplaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered marketplaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		entries, err := d.engine.Registry().List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(os.Stdout, "No marketplaces registered.")
			return nil
		}

		for _, entry := range entries {
			line := fmt.Sprintf("%s (%s)", entry.Name, entry.Source)
			if cache, err := d.engine.Registry().Catalog(entry.Name); err == nil {
				line += fmt.Sprintf(" - %d plugins, fetched %s",
					len(cache.Plugins), cache.FetchedAt.Format("2006-01-02 15:04"))
			} else {
				line += " - never fetched"
			}
			fmt.Fprintln(os.Stdout, line)
		}
		return nil
	},
}

var marketplaceRefreshCmd = &cobra.Command{
	Use:   "refresh [name]",
	Short: "Re-fetch marketplace catalogs",
	Long: `Re-fetch the plugin index of one marketplace, or of all registered
marketplaces when no name is given. One marketplace failing never
blocks the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			cache, err := d.engine.Registry().Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Refreshed %s: %d plugins\n", cache.Name, len(cache.Plugins))
			return nil
		}

		outcomes, err := d.engine.Registry().RefreshAll(cmd.Context())
		if err != nil {
			return err
		}
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", o.Name, o.Err)
				continue
			}
			fmt.Fprintf(os.Stdout, "Refreshed %s: %d plugins\n", o.Name, o.Plugins)
		}
		if failed > 0 {
			return fmt.Errorf("%d marketplace(s) failed to refresh", failed)
		}
		return nil
	},
}

var marketplaceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Unregister a marketplace",
	Long: `Remove a marketplace registration and its cached catalog. Plugins
installed from it stay installed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if err := d.engine.Registry().Unregister(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed marketplace: %s\n", args[0])
		return nil
	},
}

func init() {
	marketplaceAddCmd.Flags().String("path", "", "Subdirectory of the repository holding the catalog")
	marketplaceCmd.AddCommand(marketplaceAddCmd)
	marketplaceCmd.AddCommand(marketplaceListCmd)
	marketplaceCmd.AddCommand(marketplaceRefreshCmd)
	marketplaceCmd.AddCommand(marketplaceRemoveCmd)
	rootCmd.AddCommand(marketplaceCmd)
}
