package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/tailscale/hujson"
)

// marketplaceIndexPath is where a marketplace repository publishes its
// plugin index, relative to the catalog root.
const marketplaceIndexPath = ".claude-plugin/marketplace.json"

// MarketplaceEntry is one registered marketplace.
type MarketplaceEntry struct {
	Name       string `json:"name"`
	Source     string `json:"source"`
	SourcePath string `json:"sourcePath,omitempty"` // catalog subdir within the repo
}

// marketplacesFile is the on-disk registration list.
type marketplacesFile struct {
	Marketplaces []MarketplaceEntry `json:"marketplaces"`
}

// PluginSource describes where a catalog plugin's content lives: either a
// path inside the marketplace repository or a separate repository.
type PluginSource struct {
	Path string `json:"-"`
	Repo string `json:"-"`
}

// UnmarshalJSON accepts both index shapes: a bare string (relative path)
// or {"source": "github", "repo": "owner/repo"}.
func (p *PluginSource) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Path = s
		return nil
	}
	var obj struct {
		Source string `json:"source"`
		Repo   string `json:"repo"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("plugin source must be a path string or a source object: %w", err)
	}
	if obj.Repo == "" {
		return fmt.Errorf("plugin source object missing repo")
	}
	p.Repo = obj.Repo
	return nil
}

// MarshalJSON round-trips the original shape into the catalog snapshot.
func (p PluginSource) MarshalJSON() ([]byte, error) {
	if p.Repo != "" {
		return json.Marshal(map[string]string{"source": "github", "repo": p.Repo})
	}
	return json.Marshal(p.Path)
}

// CatalogPlugin is one listing inside a marketplace index.
type CatalogPlugin struct {
	Name        string       `json:"name"`
	Source      PluginSource `json:"source"`
	Description string       `json:"description,omitempty"`
	Version     string       `json:"version,omitempty"`
}

// marketplaceIndex is the file shape fetched from the repository.
type marketplaceIndex struct {
	Name  string `json:"name"`
	Owner struct {
		Name string `json:"name"`
	} `json:"owner"`
	Plugins []CatalogPlugin `json:"plugins"`
}

// CatalogCache is the persisted point-in-time snapshot of one catalog.
// Staleness is acceptable and surfaced via FetchedAt, never masked.
type CatalogCache struct {
	Name      string          `json:"name"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Source    string          `json:"source"`
	Owner     string          `json:"owner,omitempty"`
	Plugins   []CatalogPlugin `json:"plugins"`
}

// Match is one catalog entry found for a bare plugin name.
type Match struct {
	Registry string
	Entry    MarketplaceEntry
	Plugin   CatalogPlugin
}

// RefreshOutcome reports one catalog's refresh result. A failed catalog
// never blocks the others.
type RefreshOutcome struct {
	Name    string
	Plugins int
	Err     error
}

// MarketplaceRegistry maintains the registered marketplaces and their
// cached catalog snapshots.
type MarketplaceRegistry struct {
	paths   *Paths
	fetcher Fetcher
	mu      sync.Mutex
}

// NewMarketplaceRegistry creates a registry over the given paths and
// fetcher.
func NewMarketplaceRegistry(paths *Paths, fetcher Fetcher) *MarketplaceRegistry {
	return &MarketplaceRegistry{paths: paths, fetcher: fetcher}
}

// Register adds a marketplace. The name is case-normalized and validated;
// ReservedCatalog and already-taken names are rejected.
func (r *MarketplaceRegistry) Register(name, source, sourcePath string) (*MarketplaceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = NormalizeName(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if name == ReservedCatalog {
		return nil, fmt.Errorf("%w: %q is reserved for direct installs", ErrInvalidName, name)
	}
	if _, err := ParseSource(source); err != nil {
		return nil, err
	}

	file, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, m := range file.Marketplaces {
		if m.Name == name {
			return nil, fmt.Errorf("%w: marketplace %q", ErrDuplicateName, name)
		}
	}

	entry := MarketplaceEntry{Name: name, Source: source, SourcePath: sourcePath}
	file.Marketplaces = append(file.Marketplaces, entry)
	sort.Slice(file.Marketplaces, func(i, j int) bool {
		return file.Marketplaces[i].Name < file.Marketplaces[j].Name
	})
	if err := r.save(file); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Unregister removes a marketplace registration and its catalog snapshot.
// Installed plugins from that marketplace are untouched; they keep their
// recorded provenance but lose live catalog lookup.
func (r *MarketplaceRegistry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = NormalizeName(name)
	file, err := r.load()
	if err != nil {
		return err
	}

	kept := file.Marketplaces[:0]
	found := false
	for _, m := range file.Marketplaces {
		if m.Name == name {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("marketplace %q: %w", name, ErrNotFound)
	}
	file.Marketplaces = kept

	if err := r.save(file); err != nil {
		return err
	}
	_ = os.Remove(r.paths.MarketplaceCacheFile(name))
	return nil
}

// List returns all registered marketplaces sorted by name.
func (r *MarketplaceRegistry) List() ([]MarketplaceEntry, error) {
	file, err := r.load()
	if err != nil {
		return nil, err
	}
	return file.Marketplaces, nil
}

// Get returns one registration by name.
func (r *MarketplaceRegistry) Get(name string) (*MarketplaceEntry, error) {
	file, err := r.load()
	if err != nil {
		return nil, err
	}
	name = NormalizeName(name)
	for _, m := range file.Marketplaces {
		if m.Name == name {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("marketplace %q: %w", name, ErrNotFound)
}

// Refresh re-fetches one catalog's index and replaces its snapshot.
func (r *MarketplaceRegistry) Refresh(ctx context.Context, name string) (*CatalogCache, error) {
	entry, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return r.refreshEntry(ctx, entry)
}

// RefreshAll re-fetches every registered catalog concurrently. One
// catalog's failure never cancels the others; per-catalog outcomes are
// collected and returned sorted by name.
func (r *MarketplaceRegistry) RefreshAll(ctx context.Context) ([]RefreshOutcome, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	outcomes := make([]RefreshOutcome, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry MarketplaceEntry) {
			defer wg.Done()
			cache, err := r.refreshEntry(ctx, &entry)
			outcomes[i] = RefreshOutcome{Name: entry.Name, Err: err}
			if cache != nil {
				outcomes[i].Plugins = len(cache.Plugins)
			}
		}(i, entry)
	}
	wg.Wait()
	return outcomes, nil
}

func (r *MarketplaceRegistry) refreshEntry(ctx context.Context, entry *MarketplaceEntry) (*CatalogCache, error) {
	src, err := ParseSource(entry.Source)
	if err != nil {
		return nil, err
	}

	indexPath := marketplaceIndexPath
	if entry.SourcePath != "" {
		indexPath = path.Join(entry.SourcePath, marketplaceIndexPath)
	}

	raw, err := r.fetcher.FetchFile(ctx, src, indexPath, src.RefOrDefault())
	if err != nil {
		return nil, fmt.Errorf("refreshing %s: %w", entry.Name, err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("refreshing %s: invalid index: %w", entry.Name, err)
	}
	var index marketplaceIndex
	if err := json.Unmarshal(std, &index); err != nil {
		return nil, fmt.Errorf("refreshing %s: invalid index: %w", entry.Name, err)
	}

	cache := &CatalogCache{
		Name:      entry.Name,
		FetchedAt: time.Now().UTC(),
		Source:    entry.Source,
		Owner:     index.Owner.Name,
		Plugins:   index.Plugins,
	}
	if err := r.saveCatalog(cache); err != nil {
		return nil, err
	}
	return cache, nil
}

// Catalog loads the cached snapshot for one marketplace. Returns
// ErrNotFound when it has never been refreshed.
func (r *MarketplaceRegistry) Catalog(name string) (*CatalogCache, error) {
	data, err := os.ReadFile(r.paths.MarketplaceCacheFile(NormalizeName(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog %q has no cached index (run refresh): %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("reading catalog cache: %w", err)
	}
	var cache CatalogCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing catalog cache for %q: %w", name, err)
	}
	return &cache, nil
}

// Resolve returns every registered catalog whose cached index contains a
// plugin with the given name. Zero matches and multiple matches are the
// caller's concern; Resolve never picks one.
func (r *MarketplaceRegistry) Resolve(pluginName string) ([]Match, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	pluginName = NormalizeName(pluginName)
	var matches []Match
	for _, entry := range entries {
		cache, err := r.Catalog(entry.Name)
		if err != nil {
			continue // never refreshed or unreadable; skip, don't fail resolution
		}
		for _, p := range cache.Plugins {
			if NormalizeName(p.Name) == pluginName {
				matches = append(matches, Match{Registry: entry.Name, Entry: entry, Plugin: p})
				break
			}
		}
	}
	return matches, nil
}

// SearchResult is one fuzzy search hit across cached catalogs.
type SearchResult struct {
	Registry string
	Plugin   CatalogPlugin
	Score    int
}

// Search fuzzy-matches a query against plugin names and descriptions in
// every cached catalog, best matches first.
func (r *MarketplaceRegistry) Search(query string) ([]SearchResult, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	type candidate struct {
		registry string
		plugin   CatalogPlugin
	}
	var candidates []candidate
	var haystack []string
	for _, entry := range entries {
		cache, err := r.Catalog(entry.Name)
		if err != nil {
			continue
		}
		for _, p := range cache.Plugins {
			candidates = append(candidates, candidate{entry.Name, p})
			haystack = append(haystack, p.Name+" "+p.Description)
		}
	}

	matches := fuzzy.Find(query, haystack)
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		c := candidates[m.Index]
		results = append(results, SearchResult{
			Registry: c.registry,
			Plugin:   c.plugin,
			Score:    m.Score,
		})
	}
	return results, nil
}

// --- persistence ---

func (r *MarketplaceRegistry) load() (*marketplacesFile, error) {
	data, err := os.ReadFile(r.paths.MarketplacesFile())
	if err != nil {
		if os.IsNotExist(err) {
			return &marketplacesFile{}, nil
		}
		return nil, fmt.Errorf("reading marketplaces file: %w", err)
	}
	var file marketplacesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing marketplaces file: %w", err)
	}
	return &file, nil
}

func (r *MarketplaceRegistry) save(file *marketplacesFile) error {
	return writeJSONFile(r.paths.MarketplacesFile(), file)
}

func (r *MarketplaceRegistry) saveCatalog(cache *CatalogCache) error {
	return writeJSONFile(r.paths.MarketplaceCacheFile(cache.Name), cache)
}

// writeJSONFile marshals v and writes it atomically, creating parent
// directories.
func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
