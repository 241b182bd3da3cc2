package core

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName          = ".plm"
	stateFileName        = "plugins.json"
	marketplacesFileName = "marketplaces.json"
	targetsFileName      = "targets.json"
)

// Paths resolves every file and directory plm owns under its data root
// (~/.plm by default). All stores take a Paths so tests can point them at
// a temporary directory.
type Paths struct {
	root string
}

// NewPaths creates Paths rooted at the default location (~/.plm).
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &Paths{root: filepath.Join(home, dataDirName)}, nil
}

// NewPathsWithRoot creates Paths rooted at a custom directory.
// Useful for testing.
func NewPathsWithRoot(root string) *Paths {
	return &Paths{root: root}
}

// Root returns the data root directory.
func (p *Paths) Root() string { return p.root }

// StateFile returns the path to the persisted plugin state file.
func (p *Paths) StateFile() string { return filepath.Join(p.root, stateFileName) }

// StateLockFile returns the path to the lock guarding state mutations.
func (p *Paths) StateLockFile() string { return filepath.Join(p.root, stateFileName+".lock") }

// MarketplacesFile returns the path to the marketplace registration file.
func (p *Paths) MarketplacesFile() string { return filepath.Join(p.root, marketplacesFileName) }

// TargetsFile returns the path to the enabled-targets file.
func (p *Paths) TargetsFile() string { return filepath.Join(p.root, targetsFileName) }

// PluginCacheDir returns the root of the plugin cache tree.
func (p *Paths) PluginCacheDir() string {
	return filepath.Join(p.root, "cache", "plugins")
}

// MarketplaceCacheDir returns the directory holding per-catalog snapshots.
func (p *Paths) MarketplaceCacheDir() string {
	return filepath.Join(p.root, "cache", "marketplaces")
}

// MarketplaceCacheFile returns the snapshot path for one catalog.
func (p *Paths) MarketplaceCacheFile(name string) string {
	return filepath.Join(p.MarketplaceCacheDir(), name+".json")
}

// TempDir returns the staging directory used for extraction before the
// atomic move into the cache tree.
func (p *Paths) TempDir() string {
	return filepath.Join(p.root, "cache", ".temp")
}
