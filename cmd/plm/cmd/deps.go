package cmd

import (
	"fmt"

	"github.com/DIO0550/plugin-manager/internal/core"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	engine *core.Engine
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	paths, err := core.NewPaths()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}

	return &deps{
		engine: core.NewEngine(paths, core.NewGitHubFetcher()),
	}, nil
}
