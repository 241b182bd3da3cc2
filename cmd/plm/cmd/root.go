package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "plm",
	Short: "Deploy AI assistant plugins across coding environments",
	Long: `plm installs plugins from GitHub repositories and marketplaces and
deploys their skills, agents, commands, and instructions into the
configuration layout of each coding assistant you use.

Register marketplaces, install plugins once, and keep Codex, Copilot,
Gemini, and Antigravity in sync from a single tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plm %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
