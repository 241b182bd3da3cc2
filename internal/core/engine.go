package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/DIO0550/plugin-manager/internal/core/component"
	"github.com/DIO0550/plugin-manager/internal/core/target"
)

// Engine orchestrates the install/update/enable/disable/uninstall
// lifecycle. All stores are loaded at the start of an operation and passed
// through explicitly; the engine holds no ambient mutable state beyond
// them.
type Engine struct {
	paths     *Paths
	fetcher   Fetcher
	cache     *CacheStore
	state     *StateStore
	registry  *MarketplaceRegistry
	selection *TargetSelection
}

// NewEngine wires an engine over the given paths and fetcher.
func NewEngine(paths *Paths, fetcher Fetcher) *Engine {
	return &Engine{
		paths:     paths,
		fetcher:   fetcher,
		cache:     NewCacheStore(paths),
		state:     NewStateStore(paths),
		registry:  NewMarketplaceRegistry(paths, fetcher),
		selection: NewTargetSelection(paths),
	}
}

// Registry exposes the marketplace registry for the CLI layer.
func (e *Engine) Registry() *MarketplaceRegistry { return e.registry }

// Selection exposes the enabled-targets store for the CLI layer.
func (e *Engine) Selection() *TargetSelection { return e.selection }

// InstallOptions controls an install or update.
type InstallOptions struct {
	Targets    []string // empty means the enabled-targets selection
	Scope      target.Scope
	Kinds      []component.Kind // empty means all kinds
	Force      bool             // overwrite files not owned by another plugin
	ProjectDir string           // required at project scope
}

// PlacementStatus classifies one placement attempt.
type PlacementStatus string

const (
	// PlacementPlaced means the file was written.
	PlacementPlaced PlacementStatus = "placed"
	// PlacementSkipped means the target does not support the component's kind
	// or no conversion exists; a soft outcome, not an error.
	PlacementSkipped PlacementStatus = "skipped"
	// PlacementConflict means another plugin or an unmanaged file already
	// occupies the path; the one placement is skipped, the install proceeds.
	PlacementConflict PlacementStatus = "conflict"
	// PlacementFailed means the write itself failed.
	PlacementFailed PlacementStatus = "failed"
)

// PlacementOutcome reports one component x target placement attempt. Every
// outcome names the specific target, scope, and component affected.
type PlacementOutcome struct {
	Target    string
	Scope     target.Scope
	Kind      component.Kind
	Component string
	Path      string
	Status    PlacementStatus
	Err       error
}

// OperationResult summarizes one engine operation: the resulting record
// plus per-placement outcomes. NoOp marks an update that found nothing new.
type OperationResult struct {
	Plugin   CachedPlugin
	Outcomes []PlacementOutcome
	NoOp     bool
}

// Placed counts successful placements.
func (r *OperationResult) Placed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == PlacementPlaced {
			n++
		}
	}
	return n
}

// resolvedPlugin carries everything install needs after name resolution.
type resolvedPlugin struct {
	src         *SourceRef
	catalog     string // cache catalog segment
	name        string // plugin record name
	marketplace string // "" for direct installs
	subdir      string // archive subdir holding the plugin content
	listing     *CatalogPlugin
}

// Install resolves a source string or marketplace plugin name, fetches and
// caches the plugin, and places its components for the requested targets.
// input is either "owner/repo[@ref]" (or a repo URL) for a direct install,
// or a bare plugin name, optionally qualified as "name@marketplace".
func (e *Engine) Install(ctx context.Context, input string, opts InstallOptions) (*OperationResult, error) {
	res, err := e.resolveInput(input)
	if err != nil {
		return nil, err
	}
	return e.installResolved(ctx, res, opts)
}

func (e *Engine) installResolved(ctx context.Context, res *resolvedPlugin, opts InstallOptions) (*OperationResult, error) {
	commit, err := e.fetcher.ResolveCommit(ctx, res.src, res.src.RefOrDefault())
	if err != nil {
		return nil, err
	}

	archive, err := e.fetcher.DownloadArchive(ctx, res.src, res.src.RefOrDefault())
	if err != nil {
		return nil, err
	}

	cacheDir, err := e.cache.Store(res.catalog, res.name, archive, res.subdir)
	if err != nil {
		return nil, err
	}

	manifest, err := LoadManifest(cacheDir)
	if err != nil && !errors.Is(err, ErrManifestMissing) {
		var mi *ManifestInvalidError
		if !errors.As(err, &mi) {
			return nil, err
		}
		// Invalid manifest degrades to the default layout.
		manifest = nil
	}

	comps := ExtractComponents(cacheDir, manifest)

	record := CachedPlugin{
		Name:        res.name,
		Source:      res.src.Raw,
		Marketplace: res.marketplace,
		Status:      StatusEnabled,
		Components:  toComponentLists(ComponentNames(comps)),
	}
	record.InstalledCommit = commit
	applyMetadata(&record, manifest, res.listing)

	targets, err := e.resolveTargets(opts.Targets)
	if err != nil {
		return nil, err
	}

	deployments, outcomes, err := e.place(comps, targets, opts, record.Origin(), &record)
	if err != nil {
		return nil, err
	}
	record.Deployments = deployments

	e.removeStalePlacements(&record)

	if err := e.state.Upsert(record); err != nil {
		return nil, err
	}
	return &OperationResult{Plugin: record, Outcomes: outcomes}, nil
}

// removeStalePlacements deletes files a previous install of the same
// plugin placed that the new placement no longer produced, so components
// dropped upstream do not leave orphans once the record is overwritten.
func (e *Engine) removeStalePlacements(record *CachedPlugin) {
	prior, err := e.state.Load()
	if err != nil {
		return
	}

	current := make(map[string]bool)
	for _, dep := range record.Deployments {
		for _, p := range dep.PlacedPaths {
			current[p] = true
		}
	}

	for _, old := range prior {
		if old.Name != record.Name || old.Marketplace != record.Marketplace {
			continue
		}
		var stale []string
		for _, dep := range old.Deployments {
			for _, p := range dep.PlacedPaths {
				if !current[p] {
					stale = append(stale, p)
				}
			}
		}
		removePlacedPaths(stale)
	}
}

// Update checks the remote commit for an installed plugin and, when it
// moved, re-runs the fetch and placement phases against the existing
// record. An unchanged commit is a no-op.
func (e *Engine) Update(ctx context.Context, name string, opts InstallOptions) (*OperationResult, error) {
	record, err := e.findOne(name)
	if err != nil {
		return nil, err
	}

	src, err := ParseSource(record.Source)
	if err != nil {
		return nil, err
	}

	commit, err := e.fetcher.ResolveCommit(ctx, src, src.RefOrDefault())
	if err != nil {
		return nil, err
	}
	if commit == record.InstalledCommit {
		return &OperationResult{Plugin: *record, NoOp: true}, nil
	}

	res, err := e.reResolve(record)
	if err != nil {
		return nil, err
	}

	// Re-place into the targets the record is already deployed to, at the
	// recorded scope.
	if len(opts.Targets) == 0 {
		for id := range record.Deployments {
			opts.Targets = append(opts.Targets, id)
		}
	}
	if opts.Scope == "" {
		for _, d := range record.Deployments {
			opts.Scope = d.Scope
			break
		}
	}
	if opts.Scope == target.ScopeProject && opts.ProjectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving project directory: %w", err)
		}
		opts.ProjectDir = wd
	}
	return e.installResolved(ctx, res, opts)
}

// UpdateAll runs Update for every installed plugin, collecting per-plugin
// results. One plugin's failure does not block the rest.
func (e *Engine) UpdateAll(ctx context.Context, opts InstallOptions) ([]*OperationResult, []error) {
	plugins, err := e.state.Load()
	if err != nil {
		return nil, []error{err}
	}

	var results []*OperationResult
	var errs []error
	for _, p := range plugins {
		res, err := e.Update(ctx, qualifiedName(&p), opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("updating %s: %w", p.Name, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// Enable re-places a plugin's components from the cached extraction for
// the selected targets (all recorded targets by default) and marks the
// record enabled. No network access.
func (e *Engine) Enable(name string, targetNames []string, projectDir string) (*OperationResult, error) {
	record, err := e.findOne(name)
	if err != nil {
		return nil, err
	}

	cacheDir := e.cache.PluginDir(record.Catalog(), record.Name)
	if !e.cache.IsCached(record.Catalog(), record.Name) {
		return nil, fmt.Errorf("cache for %s is missing; run update to re-fetch", record.Name)
	}

	manifest, err := LoadManifest(cacheDir)
	if err != nil && !errors.Is(err, ErrManifestMissing) {
		manifest = nil
	}
	comps := ExtractComponents(cacheDir, manifest)

	selected, err := e.selectDeployments(record, targetNames)
	if err != nil {
		return nil, err
	}

	var outcomes []PlacementOutcome
	for _, id := range selected {
		dep := record.Deployments[id]
		tg, ok := target.ByName(id)
		if !ok {
			outcomes = append(outcomes, PlacementOutcome{
				Target: id,
				Scope:  dep.Scope,
				Status: PlacementFailed,
				Err:    fmt.Errorf("target %q is not registered", id),
			})
			continue
		}
		opts := InstallOptions{Scope: dep.Scope, ProjectDir: projectDir}
		deployments, out, err := e.place(comps, []target.Target{tg}, opts, record.Origin(), record)
		if err != nil {
			return nil, err
		}
		record.Deployments[id] = deployments[id]
		outcomes = append(outcomes, out...)
	}

	record.Status = StatusEnabled
	if err := e.state.Upsert(*record); err != nil {
		return nil, err
	}
	return &OperationResult{Plugin: *record, Outcomes: outcomes}, nil
}

// Disable removes the files at the recorded placed paths for the selected
// targets (all by default), keeping the cache subtree and the record. The
// record status becomes Disabled once no target remains enabled.
func (e *Engine) Disable(name string, targetNames []string) (*OperationResult, error) {
	record, err := e.findOne(name)
	if err != nil {
		return nil, err
	}

	selected, err := e.selectDeployments(record, targetNames)
	if err != nil {
		return nil, err
	}

	for _, id := range selected {
		dep := record.Deployments[id]
		removePlacedPaths(dep.PlacedPaths)
		dep.Enabled = false
		dep.PlacedPaths = nil
		record.Deployments[id] = dep
	}

	allDisabled := true
	for _, dep := range record.Deployments {
		if dep.Enabled {
			allDisabled = false
			break
		}
	}
	if allDisabled {
		record.Status = StatusDisabled
	}

	if err := e.state.Upsert(*record); err != nil {
		return nil, err
	}
	return &OperationResult{Plugin: *record}, nil
}

// Uninstall removes placed files for the selected targets. When every
// target is selected (the default) the cache subtree and the record are
// deleted as well; a partial uninstall only drops the selected
// deployments from the record.
func (e *Engine) Uninstall(name string, targetNames []string) error {
	record, err := e.findOne(name)
	if err != nil {
		return err
	}

	selected, err := e.selectDeployments(record, targetNames)
	if err != nil {
		return err
	}

	for _, id := range selected {
		removePlacedPaths(record.Deployments[id].PlacedPaths)
		delete(record.Deployments, id)
	}

	if len(record.Deployments) == 0 {
		if err := e.cache.Remove(record.Catalog(), record.Name); err != nil {
			return err
		}
		return e.state.Remove(record.Name, record.Marketplace)
	}
	return e.state.Upsert(*record)
}

// List returns summaries of installed plugins, optionally filtered by a
// deployed target and a component kind. Pure read, never touches the
// network.
func (e *Engine) List(targetFilter string, kindFilter component.Kind) ([]CachedPlugin, error) {
	plugins, err := e.state.Load()
	if err != nil {
		return nil, err
	}

	var result []CachedPlugin
	for _, p := range plugins {
		if targetFilter != "" {
			if _, ok := p.Deployments[targetFilter]; !ok {
				continue
			}
		}
		if kindFilter != "" && len(kindNames(&p.Components, kindFilter)) == 0 {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Info returns the full record for one plugin. Pure read.
func (e *Engine) Info(name string) (*CachedPlugin, error) {
	return e.findOne(name)
}

// Sync re-places components already deployed to one target onto another,
// re-deriving conversion and placement from the cache. Plugins not
// deployed to the source target are skipped.
func (e *Engine) Sync(fromTarget, toTarget string, kinds []component.Kind, projectDir string) ([]*OperationResult, error) {
	if _, ok := target.ByName(fromTarget); !ok {
		return nil, fmt.Errorf("unknown target %q", fromTarget)
	}
	to, ok := target.ByName(toTarget)
	if !ok {
		return nil, fmt.Errorf("unknown target %q", toTarget)
	}

	plugins, err := e.state.Load()
	if err != nil {
		return nil, err
	}

	var results []*OperationResult
	for _, p := range plugins {
		dep, ok := p.Deployments[fromTarget]
		if !ok || !dep.Enabled {
			continue
		}

		cacheDir := e.cache.PluginDir(p.Catalog(), p.Name)
		manifest, err := LoadManifest(cacheDir)
		if err != nil && !errors.Is(err, ErrManifestMissing) {
			manifest = nil
		}
		comps := ExtractComponents(cacheDir, manifest)

		record := p
		opts := InstallOptions{Scope: dep.Scope, Kinds: kinds, ProjectDir: projectDir}
		deployments, outcomes, err := e.place(comps, []target.Target{to}, opts, record.Origin(), &record)
		if err != nil {
			return nil, err
		}
		if record.Deployments == nil {
			record.Deployments = map[string]Deployment{}
		}
		record.Deployments[toTarget] = deployments[toTarget]
		if err := e.state.Upsert(record); err != nil {
			return nil, err
		}
		results = append(results, &OperationResult{Plugin: record, Outcomes: outcomes})
	}
	return results, nil
}

// --- resolution helpers ---

// resolveInput turns the install argument into a resolved plugin: a repo
// reference is a direct install under the reserved catalog; a bare name is
// resolved through the registered marketplaces, failing Ambiguous when
// more than one catalog lists it.
func (e *Engine) resolveInput(input string) (*resolvedPlugin, error) {
	if strings.Contains(input, "/") {
		src, err := ParseSource(input)
		if err != nil {
			return nil, err
		}
		name := NormalizeName(src.DirName())
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		return &resolvedPlugin{
			src:     src,
			catalog: ReservedCatalog,
			name:    name,
		}, nil
	}

	name := input
	var registry string
	if idx := strings.LastIndex(input, "@"); idx >= 0 {
		name, registry = input[:idx], input[idx+1:]
		if name == "" || registry == "" {
			return nil, &InvalidSourceError{Input: input, Reason: "expected name@marketplace"}
		}
	}

	var match *Match
	if registry != "" {
		entry, err := e.registry.Get(registry)
		if err != nil {
			return nil, err
		}
		cache, err := e.registry.Catalog(registry)
		if err != nil {
			return nil, err
		}
		for _, p := range cache.Plugins {
			if NormalizeName(p.Name) == NormalizeName(name) {
				match = &Match{Registry: entry.Name, Entry: *entry, Plugin: p}
				break
			}
		}
		if match == nil {
			return nil, fmt.Errorf("plugin %q in marketplace %q: %w", name, registry, ErrNotFound)
		}
	} else {
		matches, err := e.registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		switch len(matches) {
		case 0:
			return nil, fmt.Errorf("plugin %q: %w", name, ErrNotFound)
		case 1:
			match = &matches[0]
		default:
			regs := make([]string, len(matches))
			for i, m := range matches {
				regs[i] = m.Registry
			}
			return nil, &AmbiguousError{Name: name, Registries: regs}
		}
	}

	return resolveListing(match)
}

// resolveListing maps a catalog listing onto a fetchable source: either a
// subdirectory of the marketplace repository or a separate repository.
// Listed names and source paths come from remote catalogs, so both are
// validated before they can form cache paths.
func resolveListing(match *Match) (*resolvedPlugin, error) {
	res := &resolvedPlugin{
		catalog:     match.Registry,
		name:        NormalizeName(match.Plugin.Name),
		marketplace: match.Registry,
		listing:     &match.Plugin,
	}
	if err := ValidateName(res.name); err != nil {
		return nil, fmt.Errorf("plugin listed in marketplace %q: %w", match.Registry, err)
	}

	if repo := match.Plugin.Source.Repo; repo != "" {
		src, err := ParseSource(repo)
		if err != nil {
			return nil, err
		}
		res.src = src
		return res, nil
	}

	src, err := ParseSource(match.Entry.Source)
	if err != nil {
		return nil, err
	}
	res.src = src

	sub := strings.TrimPrefix(path.Clean(match.Plugin.Source.Path), "./")
	if match.Entry.SourcePath != "" {
		sub = path.Join(match.Entry.SourcePath, sub)
	}
	if sub == "." || sub == "" {
		return nil, fmt.Errorf("plugin %q has no source path in catalog %q", match.Plugin.Name, match.Registry)
	}
	if path.IsAbs(sub) || sub == ".." || strings.HasPrefix(sub, "../") {
		return nil, fmt.Errorf("plugin %q source path %q escapes the marketplace repository", match.Plugin.Name, sub)
	}
	res.subdir = sub
	return res, nil
}

// reResolve rebuilds the resolution for an installed record, consulting
// the catalog again for marketplace plugins so subdir listings update
// correctly.
func (e *Engine) reResolve(record *CachedPlugin) (*resolvedPlugin, error) {
	if record.Marketplace == "" {
		src, err := ParseSource(record.Source)
		if err != nil {
			return nil, err
		}
		return &resolvedPlugin{
			src:     src,
			catalog: ReservedCatalog,
			name:    record.Name,
		}, nil
	}

	entry, err := e.registry.Get(record.Marketplace)
	if err != nil {
		return nil, err
	}
	cache, err := e.registry.Catalog(record.Marketplace)
	if err != nil {
		return nil, err
	}
	for _, p := range cache.Plugins {
		if NormalizeName(p.Name) == record.Name {
			return resolveListing(&Match{Registry: entry.Name, Entry: *entry, Plugin: p})
		}
	}
	return nil, fmt.Errorf("plugin %q no longer listed in marketplace %q: %w",
		record.Name, record.Marketplace, ErrNotFound)
}

// findOne locates exactly one record by name, with optional @marketplace
// qualification. Multiple records of the same name across marketplaces are
// Ambiguous.
func (e *Engine) findOne(input string) (*CachedPlugin, error) {
	name := input
	var marketplace string
	if idx := strings.LastIndex(input, "@"); idx >= 0 {
		name, marketplace = input[:idx], input[idx+1:]
	}

	records, err := e.state.Find(name, marketplace)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, fmt.Errorf("plugin %q is not installed: %w", input, ErrNotFound)
	case 1:
		return &records[0], nil
	default:
		regs := make([]string, len(records))
		for i, r := range records {
			regs[i] = r.Marketplace
		}
		return nil, &AmbiguousError{Name: name, Registries: regs}
	}
}

func (e *Engine) resolveTargets(names []string) ([]target.Target, error) {
	if len(names) == 0 {
		return e.selection.Enabled()
	}
	return target.ByNames(names)
}

// selectDeployments returns the deployment target IDs an operation applies
// to: the named ones (which must exist on the record) or all recorded.
func (e *Engine) selectDeployments(record *CachedPlugin, names []string) ([]string, error) {
	if len(names) == 0 {
		ids := make([]string, 0, len(record.Deployments))
		for id := range record.Deployments {
			ids = append(ids, id)
		}
		return ids, nil
	}
	for _, n := range names {
		if _, ok := record.Deployments[n]; !ok {
			return nil, fmt.Errorf("plugin %q has no deployment for target %q", record.Name, n)
		}
	}
	return names, nil
}

// --- placement ---

// place runs the conversion and write phase for a component set against a
// target list. Per-target write failures are collected as outcomes, never
// aborting the other targets; only state-level failures return an error.
func (e *Engine) place(comps []component.Component, targets []target.Target, opts InstallOptions, origin target.Origin, self *CachedPlugin) (map[string]Deployment, []PlacementOutcome, error) {
	scope := opts.Scope
	if scope == "" {
		scope = target.ScopePersonal
	}
	if scope == target.ScopeProject && opts.ProjectDir == "" {
		return nil, nil, fmt.Errorf("project scope requires a project directory")
	}

	others, err := e.state.Load()
	if err != nil {
		return nil, nil, err
	}

	deployments := make(map[string]Deployment, len(targets))
	var outcomes []PlacementOutcome

	for _, tg := range targets {
		dep := Deployment{Scope: scope, Enabled: true}
		for _, comp := range comps {
			if !kindSelected(comp.Kind, opts.Kinds) {
				continue
			}

			out := e.placeComponent(tg, scope, origin, comp, opts, others, self)
			outcomes = append(outcomes, out)
			if out.Status == PlacementPlaced {
				dep.PlacedPaths = append(dep.PlacedPaths, out.Path)
			}
		}
		deployments[tg.Name()] = dep
	}
	return deployments, outcomes, nil
}

// placeComponent converts and writes a single component for one target.
func (e *Engine) placeComponent(tg target.Target, scope target.Scope, origin target.Origin, comp component.Component, opts InstallOptions, others []CachedPlugin, self *CachedPlugin) PlacementOutcome {
	out := PlacementOutcome{
		Target:    tg.Name(),
		Scope:     scope,
		Kind:      comp.Kind,
		Component: comp.Name,
	}

	dest, ok := tg.Placement(comp.Kind, scope, origin, comp.Name, opts.ProjectDir)
	if !ok {
		out.Status = PlacementSkipped
		return out
	}
	out.Path = dest

	if conflict := e.conflictOwner(dest, others, self); conflict != "" && !opts.Force {
		out.Status = PlacementConflict
		out.Err = fmt.Errorf("path already occupied by %s", conflict)
		return out
	}

	var err error
	switch comp.Kind {
	case component.KindSkill:
		err = stageDirectory(comp.SourcePath, dest)
	case component.KindCommand, component.KindAgent:
		err = e.writeConverted(comp, tg.Format(), dest)
		if errors.Is(err, component.ErrUnsupported) {
			out.Status = PlacementSkipped
			out.Err = err
			return out
		}
	default:
		err = stageFileCopy(comp.SourcePath, dest)
	}

	if err != nil {
		out.Status = PlacementFailed
		out.Err = err
		return out
	}
	out.Status = PlacementPlaced
	return out
}

// conflictOwner reports who occupies a destination path: another plugin's
// recorded placement, or "existing file" for an unmanaged file already on
// disk. Empty when the path is free or owned by this plugin.
func (e *Engine) conflictOwner(dest string, others []CachedPlugin, self *CachedPlugin) string {
	for i := range others {
		p := &others[i]
		if !p.OwnsPath(dest) {
			continue
		}
		if self != nil && p.Name == self.Name && p.Marketplace == self.Marketplace {
			return ""
		}
		return fmt.Sprintf("plugin %q", p.Name)
	}
	if _, err := os.Lstat(dest); err == nil {
		if self != nil && self.OwnsPath(dest) {
			return ""
		}
		return "existing file"
	}
	return ""
}

// writeConverted converts a command or agent for the destination format
// and writes it atomically.
func (e *Engine) writeConverted(comp component.Component, format component.Format, dest string) error {
	raw, err := os.ReadFile(comp.SourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", comp.SourcePath, err)
	}
	converted, err := component.Convert(comp.Kind, raw, comp.Name, comp.SourcePath, format)
	if err != nil {
		return err
	}
	return stageFileWrite(dest, converted)
}

func kindSelected(kind component.Kind, filter []component.Kind) bool {
	if len(filter) == 0 {
		return true
	}
	for _, k := range filter {
		if k == kind {
			return true
		}
	}
	return false
}

// --- filesystem staging ---

// stageFileWrite writes content via a temp file and atomic rename.
func stageFileWrite(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("placing %s: %w", dest, err)
	}
	return nil
}

func stageFileCopy(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	return stageFileWrite(dest, data)
}

// stageDirectory copies a directory tree next to the destination and
// renames it into place, replacing any previous copy.
func stageDirectory(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	tmp := dest + ".tmp"
	_ = os.RemoveAll(tmp)
	if err := copyTree(src, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}
	if err := os.RemoveAll(dest); err != nil {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("replacing %s: %w", dest, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("placing %s: %w", dest, err)
	}
	return nil
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		targetPath := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(targetPath, 0o755)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.WriteFile(targetPath, data, info.Mode().Perm())
	})
}

// removePlacedPaths deletes the recorded placements and prunes emptied
// parent directories up to (but excluding) well-known roots.
func removePlacedPaths(paths []string) {
	for _, p := range paths {
		_ = os.RemoveAll(p)
		pruneEmptyParents(filepath.Dir(p))
	}
}

// pruneEmptyParents removes empty directories walking upward, stopping at
// the first non-empty one.
func pruneEmptyParents(dir string) {
	for i := 0; i < 4; i++ {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// --- record helpers ---

func toComponentLists(names map[component.Kind][]string) ComponentLists {
	return ComponentLists{
		Skills:       names[component.KindSkill],
		Agents:       names[component.KindAgent],
		Commands:     names[component.KindCommand],
		Instructions: names[component.KindInstruction],
		Hooks:        names[component.KindHook],
	}
}

func kindNames(c *ComponentLists, kind component.Kind) []string {
	switch kind {
	case component.KindSkill:
		return c.Skills
	case component.KindAgent:
		return c.Agents
	case component.KindCommand:
		return c.Commands
	case component.KindInstruction:
		return c.Instructions
	case component.KindHook:
		return c.Hooks
	default:
		return nil
	}
}

// applyMetadata fills record metadata from the manifest, falling back to
// the catalog listing. Missing fields stay empty, never fabricated.
func applyMetadata(record *CachedPlugin, manifest *PluginManifest, listing *CatalogPlugin) {
	if manifest != nil {
		record.Version = manifest.Version
		record.Author = manifest.Author.Name
	}
	if listing != nil {
		if record.Version == "" {
			record.Version = listing.Version
		}
	}
}

// qualifiedName renders a record's user-facing identity: name@marketplace
// for marketplace installs, bare name otherwise.
func qualifiedName(p *CachedPlugin) string {
	if p.Marketplace != "" {
		return p.Name + "@" + p.Marketplace
	}
	return p.Name
}
