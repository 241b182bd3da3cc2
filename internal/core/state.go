package core

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/gofrs/flock"

	"github.com/DIO0550/plugin-manager/internal/core/target"
)

// PluginStatus is the lifecycle state of an installed plugin.
type PluginStatus string

const (
	StatusEnabled  PluginStatus = "enabled"
	StatusDisabled PluginStatus = "disabled"
)

// Deployment records what one target holds for a plugin.
type Deployment struct {
	Scope       target.Scope `json:"scope"`
	Enabled     bool         `json:"enabled"`
	PlacedPaths []string     `json:"placedPaths"`
}

// ComponentLists groups detected component names per kind. Detection is
// independent of deployment: a kind no target supports still appears here.
type ComponentLists struct {
	Skills       []string `json:"skills,omitempty"`
	Agents       []string `json:"agents,omitempty"`
	Commands     []string `json:"commands,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Hooks        []string `json:"hooks,omitempty"`
}

// CachedPlugin is the persisted unit of truth for one installed plugin.
// Identity is the (Marketplace-or-direct, Name) pair; two plugins of the
// same name from different marketplaces are distinct records with
// non-colliding cache and deployment subtrees. InstalledCommit and
// Deployments are overwritten, never appended, on each install/update;
// the record is deleted only on uninstall.
type CachedPlugin struct {
	Name            string                `json:"name"`
	Source          string                `json:"source"` // raw input, reconstructable
	Marketplace     string                `json:"marketplace,omitempty"`
	Version         string                `json:"version,omitempty"`
	Status          PluginStatus          `json:"status"`
	InstalledCommit string                `json:"installedCommit"`
	Author          string                `json:"author,omitempty"`
	Components      ComponentLists        `json:"components"`
	Deployments     map[string]Deployment `json:"deployments"`
}

// Catalog returns the cache catalog segment for this plugin: its
// marketplace name, or ReservedCatalog for direct installs.
func (p *CachedPlugin) Catalog() string {
	if p.Marketplace != "" {
		return p.Marketplace
	}
	return ReservedCatalog
}

// Origin returns the placement origin for this plugin's deployments.
func (p *CachedPlugin) Origin() target.Origin {
	return target.Origin{Catalog: p.Catalog(), Plugin: p.Name}
}

// OwnsPath reports whether a path is recorded in any of this plugin's
// deployments.
func (p *CachedPlugin) OwnsPath(path string) bool {
	for _, d := range p.Deployments {
		for _, placed := range d.PlacedPaths {
			if placed == path {
				return true
			}
		}
	}
	return false
}

// StateStore persists the CachedPlugin records as one JSON array. Every
// mutation is a read-modify-write under an exclusive file lock followed
// by an atomic replace, so concurrent invocations never interleave
// partial writes or lose an update.
type StateStore struct {
	paths *Paths
}

// NewStateStore creates a state store over the given paths.
func NewStateStore(paths *Paths) *StateStore {
	return &StateStore{paths: paths}
}

// Load reads all records. A missing file is an empty store; an unparsable
// file is StateCorruptedError, surfaced loudly and never silently reset.
func (s *StateStore) Load() ([]CachedPlugin, error) {
	data, err := os.ReadFile(s.paths.StateFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plugin state: %w", err)
	}

	var plugins []CachedPlugin
	if err := json.Unmarshal(data, &plugins); err != nil {
		return nil, &StateCorruptedError{Path: s.paths.StateFile(), Err: err}
	}
	return plugins, nil
}

// Find returns records matching a plugin name, optionally restricted to
// one marketplace ("" matches any provenance).
func (s *StateStore) Find(name, marketplace string) ([]CachedPlugin, error) {
	plugins, err := s.Load()
	if err != nil {
		return nil, err
	}
	name = NormalizeName(name)
	var result []CachedPlugin
	for _, p := range plugins {
		if NormalizeName(p.Name) != name {
			continue
		}
		if marketplace != "" && p.Marketplace != NormalizeName(marketplace) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Upsert inserts or replaces the record with the same identity pair.
func (s *StateStore) Upsert(plugin CachedPlugin) error {
	return s.mutate(func(plugins []CachedPlugin) ([]CachedPlugin, error) {
		for i, p := range plugins {
			if p.Name == plugin.Name && p.Marketplace == plugin.Marketplace {
				plugins[i] = plugin
				return plugins, nil
			}
		}
		return append(plugins, plugin), nil
	})
}

// Remove deletes the record with the given identity pair. No-op when the
// record is absent.
func (s *StateStore) Remove(name, marketplace string) error {
	return s.mutate(func(plugins []CachedPlugin) ([]CachedPlugin, error) {
		kept := plugins[:0]
		for _, p := range plugins {
			if p.Name == name && p.Marketplace == marketplace {
				continue
			}
			kept = append(kept, p)
		}
		return kept, nil
	})
}

// mutate runs a read-modify-write cycle under the exclusive state lock.
func (s *StateStore) mutate(fn func([]CachedPlugin) ([]CachedPlugin, error)) error {
	if err := os.MkdirAll(s.paths.Root(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	lock := flock.New(s.paths.StateLockFile())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking plugin state: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	plugins, err := s.Load()
	if err != nil {
		return err
	}

	plugins, err = fn(plugins)
	if err != nil {
		return err
	}

	sort.Slice(plugins, func(i, j int) bool {
		if plugins[i].Marketplace != plugins[j].Marketplace {
			return plugins[i].Marketplace < plugins[j].Marketplace
		}
		return plugins[i].Name < plugins[j].Name
	})

	if plugins == nil {
		plugins = []CachedPlugin{}
	}
	return writeJSONFile(s.paths.StateFile(), plugins)
}
