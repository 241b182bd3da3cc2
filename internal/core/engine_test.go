package core

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DIO0550/plugin-manager/internal/core/component"
	"github.com/DIO0550/plugin-manager/internal/core/target"
)

// fakeFetcher serves archives and files from memory and counts calls, so
// tests can assert which operations touch the network.
type fakeFetcher struct {
	commit   string
	archives map[string][]byte // keyed by "owner/name"
	files    map[string][]byte // keyed by "owner/name:path"

	commitCalls  int
	archiveCalls int
	fileCalls    int
}

func (f *fakeFetcher) ResolveDefaultBranch(ctx context.Context, src *SourceRef) (string, error) {
	return "main", nil
}

func (f *fakeFetcher) ResolveCommit(ctx context.Context, src *SourceRef, ref string) (string, error) {
	f.commitCalls++
	return f.commit, nil
}

func (f *fakeFetcher) DownloadArchive(ctx context.Context, src *SourceRef, ref string) ([]byte, error) {
	f.archiveCalls++
	key := src.Owner + "/" + src.Name
	archive, ok := f.archives[key]
	if !ok {
		return nil, fmt.Errorf("no archive for %s", key)
	}
	return archive, nil
}

func (f *fakeFetcher) FetchFile(ctx context.Context, src *SourceRef, path, ref string) ([]byte, error) {
	f.fileCalls++
	key := src.Owner + "/" + src.Name + ":" + path
	content, ok := f.files[key]
	if !ok {
		return nil, &FetchError{Kind: FetchErrNotFound, URL: key}
	}
	return content, nil
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create("repo-HEAD/" + name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// toolsRepoFiles is a plugin repository with one component of each
// convertible kind.
func toolsRepoFiles() map[string]string {
	return map[string]string{
		".claude-plugin/plugin.json": `{"name": "tools", "version": "1.2.0"}`,
		"skills/pdf/SKILL.md":        "---\nname: pdf\ndescription: Work with PDFs\n---\n\nRead PDFs.\n",
		"agents/reviewer.md":         "---\nname: reviewer\ndescription: Reviews code\nmodel: sonnet\ntools: Read, Grep\n---\n\nReview carefully.\n",
		"commands/fix.md":            "---\ndescription: Fix an issue\n---\n\nFix $ARGUMENTS now.\n",
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeFetcher, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	fetcher := &fakeFetcher{
		commit: "abc123def456",
		archives: map[string][]byte{
			"acme/tools": buildArchive(t, toolsRepoFiles()),
		},
		files: map[string][]byte{},
	}
	paths := NewPathsWithRoot(filepath.Join(home, ".plm"))
	return NewEngine(paths, fetcher), fetcher, home
}

func mustInstall(t *testing.T, e *Engine, input string, opts InstallOptions) *OperationResult {
	t.Helper()
	res, err := e.Install(context.Background(), input, opts)
	if err != nil {
		t.Fatalf("Install(%q) failed: %v", input, err)
	}
	return res
}

func TestInstallDirect(t *testing.T) {
	e, fetcher, home := newTestEngine(t)

	res := mustInstall(t, e, "acme/tools@v1", InstallOptions{Targets: []string{"codex", "copilot"}})

	if res.Plugin.Name != "acme--tools" {
		t.Errorf("Name = %q, want %q", res.Plugin.Name, "acme--tools")
	}
	if res.Plugin.Marketplace != "" {
		t.Errorf("Marketplace = %q, want empty", res.Plugin.Marketplace)
	}
	if res.Plugin.InstalledCommit != fetcher.commit {
		t.Errorf("InstalledCommit = %q, want %q", res.Plugin.InstalledCommit, fetcher.commit)
	}
	if res.Plugin.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", res.Plugin.Version, "1.2.0")
	}
	if res.Plugin.Status != StatusEnabled {
		t.Errorf("Status = %q, want %q", res.Plugin.Status, StatusEnabled)
	}

	wantFiles := []string{
		filepath.Join(home, ".codex/skills/github/acme--tools/pdf/SKILL.md"),
		filepath.Join(home, ".codex/agents/github/acme--tools/reviewer.agent.md"),
		filepath.Join(home, ".copilot/skills/github/acme--tools/pdf/SKILL.md"),
		filepath.Join(home, ".copilot/agents/github/acme--tools/reviewer.agent.md"),
		filepath.Join(home, ".copilot/prompts/github/acme--tools/fix.prompt.md"),
	}
	for _, p := range wantFiles {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected placed file %s: %v", p, err)
		}
	}

	// The agent model maps to the destination vocabulary.
	agent, err := os.ReadFile(filepath.Join(home, ".codex/agents/github/acme--tools/reviewer.agent.md"))
	if err != nil {
		t.Fatalf("reading converted agent: %v", err)
	}
	if !strings.Contains(string(agent), "model: gpt-4.1") {
		t.Errorf("codex agent missing converted model:\n%s", agent)
	}

	prompt, err := os.ReadFile(filepath.Join(home, ".copilot/prompts/github/acme--tools/fix.prompt.md"))
	if err != nil {
		t.Fatalf("reading converted command: %v", err)
	}
	if !strings.Contains(string(prompt), "${arguments}") {
		t.Errorf("copilot prompt missing converted variables:\n%s", prompt)
	}

	// Commands are unsupported on codex; the placement is soft-skipped.
	skipped := false
	for _, o := range res.Outcomes {
		if o.Target == "codex" && o.Kind == component.KindCommand {
			if o.Status != PlacementSkipped {
				t.Errorf("codex command outcome = %q, want %q", o.Status, PlacementSkipped)
			}
			skipped = true
		}
	}
	if !skipped {
		t.Error("no outcome recorded for command on codex")
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	e, _, _ := newTestEngine(t)
	opts := InstallOptions{Targets: []string{"codex"}}

	first := mustInstall(t, e, "acme/tools", opts)
	second := mustInstall(t, e, "acme/tools", opts)

	if first.Placed() != second.Placed() {
		t.Errorf("second install placed %d, first placed %d", second.Placed(), first.Placed())
	}

	plugins, err := e.List("", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("got %d plugins after reinstall, want 1", len(plugins))
	}
}

func TestDisableEnableOffline(t *testing.T) {
	e, fetcher, home := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	skill := filepath.Join(home, ".codex/skills/github/acme--tools/pdf/SKILL.md")

	res, err := e.Disable("acme--tools", nil)
	if err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	if res.Plugin.Status != StatusDisabled {
		t.Errorf("Status after disable = %q, want %q", res.Plugin.Status, StatusDisabled)
	}
	if _, err := os.Stat(skill); !os.IsNotExist(err) {
		t.Errorf("placed skill still present after disable: %v", err)
	}

	fetcher.commitCalls = 0
	fetcher.archiveCalls = 0

	res, err = e.Enable("acme--tools", nil, "")
	if err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if res.Plugin.Status != StatusEnabled {
		t.Errorf("Status after enable = %q, want %q", res.Plugin.Status, StatusEnabled)
	}
	if _, err := os.Stat(skill); err != nil {
		t.Errorf("skill not re-placed after enable: %v", err)
	}
	if fetcher.commitCalls != 0 || fetcher.archiveCalls != 0 {
		t.Errorf("enable used the network: %d commit calls, %d archive calls",
			fetcher.commitCalls, fetcher.archiveCalls)
	}
}

func TestUninstallRemovesEverything(t *testing.T) {
	e, _, home := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	if err := e.Uninstall("acme--tools", nil); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".codex/skills/github/acme--tools")); !os.IsNotExist(err) {
		t.Error("placed files still present after uninstall")
	}
	if _, err := os.Stat(filepath.Join(home, ".plm/cache/plugins/github/acme--tools")); !os.IsNotExist(err) {
		t.Error("cache still present after uninstall")
	}

	plugins, err := e.List("", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(plugins) != 0 {
		t.Errorf("got %d plugins after uninstall, want 0", len(plugins))
	}

	if err := e.Uninstall("acme--tools", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("second uninstall error = %v, want ErrNotFound", err)
	}
}

func TestUpdateNoOpWhenCommitUnchanged(t *testing.T) {
	e, fetcher, _ := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	fetcher.archiveCalls = 0
	res, err := e.Update(context.Background(), "acme--tools", InstallOptions{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !res.NoOp {
		t.Error("update with unchanged commit was not a no-op")
	}
	if fetcher.archiveCalls != 0 {
		t.Errorf("no-op update downloaded %d archives", fetcher.archiveCalls)
	}
}

func TestUpdateRefetchesOnNewCommit(t *testing.T) {
	e, fetcher, _ := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	fetcher.commit = "fedcba987654"
	res, err := e.Update(context.Background(), "acme--tools", InstallOptions{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if res.NoOp {
		t.Error("update with new commit reported no-op")
	}
	if res.Plugin.InstalledCommit != "fedcba987654" {
		t.Errorf("InstalledCommit = %q, want %q", res.Plugin.InstalledCommit, "fedcba987654")
	}
}

func TestInstructionConflictBetweenPlugins(t *testing.T) {
	e, fetcher, home := newTestEngine(t)
	fetcher.archives["acme/alpha"] = buildArchive(t, map[string]string{
		"instructions.md": "Alpha rules.\n",
	})
	fetcher.archives["acme/beta"] = buildArchive(t, map[string]string{
		"instructions.md": "Beta rules.\n",
	})

	mustInstall(t, e, "acme/alpha", InstallOptions{Targets: []string{"copilot"}})
	res := mustInstall(t, e, "acme/beta", InstallOptions{Targets: []string{"copilot"}})

	var conflict *PlacementOutcome
	for i, o := range res.Outcomes {
		if o.Status == PlacementConflict {
			conflict = &res.Outcomes[i]
		}
	}
	if conflict == nil {
		t.Fatal("no conflict outcome for second plugin's instruction")
	}
	if conflict.Kind != component.KindInstruction {
		t.Errorf("conflict kind = %q, want %q", conflict.Kind, component.KindInstruction)
	}

	// First plugin's file stays intact.
	content, err := os.ReadFile(filepath.Join(home, ".copilot/copilot-instructions.md"))
	if err != nil {
		t.Fatalf("reading instruction file: %v", err)
	}
	if !strings.Contains(string(content), "Alpha rules") {
		t.Errorf("instruction file was overwritten:\n%s", content)
	}

	// Force overrides the conflict.
	res = mustInstall(t, e, "acme/beta", InstallOptions{Targets: []string{"copilot"}, Force: true})
	for _, o := range res.Outcomes {
		if o.Status == PlacementConflict {
			t.Errorf("conflict outcome remained under force: %+v", o)
		}
	}
}

func marketplaceIndexJSON(name string, plugins string) []byte {
	return []byte(fmt.Sprintf(`{"name": %q, "owner": {"name": "Acme"}, "plugins": [%s]}`, name, plugins))
}

func TestAmbiguousPluginName(t *testing.T) {
	e, fetcher, _ := newTestEngine(t)
	listing := `{"name": "formatter", "source": {"source": "github", "repo": "acme/formatter"}}`
	fetcher.files["acme/mkt-one:.claude-plugin/marketplace.json"] = marketplaceIndexJSON("mkt-one", listing)
	fetcher.files["acme/mkt-two:.claude-plugin/marketplace.json"] = marketplaceIndexJSON("mkt-two", listing)

	ctx := context.Background()
	for _, name := range []string{"mkt-one", "mkt-two"} {
		if _, err := e.Registry().Register(name, "acme/"+name, ""); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
		if _, err := e.Registry().Refresh(ctx, name); err != nil {
			t.Fatalf("Refresh(%q) failed: %v", name, err)
		}
	}

	_, err := e.Install(ctx, "formatter", InstallOptions{Targets: []string{"codex"}})
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Install error = %v, want AmbiguousError", err)
	}
	if len(ambiguous.Registries) != 2 {
		t.Errorf("ambiguous registries = %v, want both marketplaces", ambiguous.Registries)
	}

	// Qualification resolves it.
	fetcher.archives["acme/formatter"] = buildArchive(t, map[string]string{
		"skills/fmt/SKILL.md": "---\nname: fmt\n---\n\nFormat.\n",
	})
	res := mustInstall(t, e, "formatter@mkt-one", InstallOptions{Targets: []string{"codex"}})
	if res.Plugin.Marketplace != "mkt-one" {
		t.Errorf("Marketplace = %q, want %q", res.Plugin.Marketplace, "mkt-one")
	}
}

func TestInstallFromMarketplaceSubdir(t *testing.T) {
	e, fetcher, home := newTestEngine(t)
	listing := `{"name": "linter", "source": "./plugins/linter", "description": "Lints"}`
	fetcher.files["acme/catalog:.claude-plugin/marketplace.json"] = marketplaceIndexJSON("catalog", listing)
	fetcher.archives["acme/catalog"] = buildArchive(t, map[string]string{
		".claude-plugin/marketplace.json":     "{}",
		"plugins/linter/skills/lint/SKILL.md": "---\nname: lint\n---\n\nLint.\n",
	})

	ctx := context.Background()
	if _, err := e.Registry().Register("tools-mkt", "acme/catalog", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := e.Registry().Refresh(ctx, "tools-mkt"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	res := mustInstall(t, e, "linter", InstallOptions{Targets: []string{"codex"}})
	if res.Plugin.Marketplace != "tools-mkt" {
		t.Errorf("Marketplace = %q, want %q", res.Plugin.Marketplace, "tools-mkt")
	}
	if res.Plugin.Catalog() != "tools-mkt" {
		t.Errorf("Catalog = %q, want %q", res.Plugin.Catalog(), "tools-mkt")
	}

	// Only the listed subdirectory becomes the cached plugin content.
	if _, err := os.Stat(filepath.Join(home, ".plm/cache/plugins/tools-mkt/linter/skills/lint/SKILL.md")); err != nil {
		t.Errorf("cached subdir content missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".codex/skills/tools-mkt/linter/lint/SKILL.md")); err != nil {
		t.Errorf("placed skill missing: %v", err)
	}
}

func TestListFilters(t *testing.T) {
	e, fetcher, _ := newTestEngine(t)
	fetcher.archives["acme/agentsonly"] = buildArchive(t, map[string]string{
		"agents/helper.md": "---\nname: helper\n---\n\nHelp.\n",
	})

	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})
	mustInstall(t, e, "acme/agentsonly", InstallOptions{Targets: []string{"copilot"}})

	byTarget, err := e.List("codex", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byTarget) != 1 || byTarget[0].Name != "acme--tools" {
		t.Errorf("List by target = %+v, want only acme--tools", byTarget)
	}

	byKind, err := e.List("", component.KindSkill)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byKind) != 1 || byKind[0].Name != "acme--tools" {
		t.Errorf("List by kind = %+v, want only acme--tools", byKind)
	}
}

func TestSyncCopiesAcrossTargets(t *testing.T) {
	e, _, home := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	results, err := e.Sync("codex", "copilot", nil, "")
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d sync results, want 1", len(results))
	}

	if _, err := os.Stat(filepath.Join(home, ".copilot/skills/github/acme--tools/pdf/SKILL.md")); err != nil {
		t.Errorf("skill not synced to copilot: %v", err)
	}
	// Commands exist on copilot even though codex never placed them.
	if _, err := os.Stat(filepath.Join(home, ".copilot/prompts/github/acme--tools/fix.prompt.md")); err != nil {
		t.Errorf("command not synced to copilot: %v", err)
	}

	info, err := e.Info("acme--tools")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if _, ok := info.Deployments["copilot"]; !ok {
		t.Error("sync did not record the copilot deployment")
	}
}

func TestInstallRejectsUnsafeCatalogListings(t *testing.T) {
	e, fetcher, home := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	listings := `{"name": "..", "source": {"source": "github", "repo": "acme/evil"}},
		{"name": "escaper", "source": "../../outside"}`
	fetcher.files["acme/bad-mkt:.claude-plugin/marketplace.json"] = marketplaceIndexJSON("bad-mkt", listings)

	ctx := context.Background()
	if _, err := e.Registry().Register("bad-mkt", "acme/bad-mkt", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := e.Registry().Refresh(ctx, "bad-mkt"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if _, err := e.Install(ctx, "..", InstallOptions{Targets: []string{"codex"}}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("installing listing named %q: error = %v, want ErrInvalidName", "..", err)
	}
	if _, err := e.Install(ctx, "escaper", InstallOptions{Targets: []string{"codex"}}); err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Errorf("installing listing with traversal source path: error = %v, want escape rejection", err)
	}

	// The unrelated cache subtree is untouched.
	if _, err := os.Stat(filepath.Join(home, ".plm/cache/plugins/github/acme--tools/skills/pdf/SKILL.md")); err != nil {
		t.Errorf("existing cache content damaged: %v", err)
	}
}

func TestUpdateProjectScopeUsesWorkingDirectory(t *testing.T) {
	e, fetcher, _ := newTestEngine(t)
	project := t.TempDir()

	mustInstall(t, e, "acme/tools", InstallOptions{
		Targets:    []string{"codex"},
		Scope:      target.ScopeProject,
		ProjectDir: project,
	})

	fetcher.commit = "fedcba987654"
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	res, err := e.Update(context.Background(), "acme--tools", InstallOptions{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if res.NoOp {
		t.Fatal("update with new commit reported no-op")
	}
	if res.Plugin.Deployments["codex"].Scope != target.ScopeProject {
		t.Errorf("recorded scope = %q, want project", res.Plugin.Deployments["codex"].Scope)
	}
	if _, err := os.Stat(filepath.Join(project, ".codex/skills/github/acme--tools/pdf/SKILL.md")); err != nil {
		t.Errorf("skill not re-placed under project directory: %v", err)
	}
}

func TestUpdateRemovesDroppedComponents(t *testing.T) {
	e, fetcher, home := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	skill := filepath.Join(home, ".codex/skills/github/acme--tools/pdf")
	if _, err := os.Stat(skill); err != nil {
		t.Fatalf("skill not placed by install: %v", err)
	}

	// Upstream drops the skill, keeping the agent.
	fetcher.commit = "fedcba987654"
	fetcher.archives["acme/tools"] = buildArchive(t, map[string]string{
		".claude-plugin/plugin.json": `{"name": "tools", "version": "1.3.0"}`,
		"agents/reviewer.md":         "---\nname: reviewer\ndescription: Reviews code\n---\n\nReview.\n",
	})

	if _, err := e.Update(context.Background(), "acme--tools", InstallOptions{}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := os.Stat(skill); !os.IsNotExist(err) {
		t.Errorf("dropped skill still placed after update: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".codex/agents/github/acme--tools/reviewer.agent.md")); err != nil {
		t.Errorf("surviving agent missing after update: %v", err)
	}

	if err := e.Uninstall("acme--tools", nil); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".codex/skills/github/acme--tools")); !os.IsNotExist(err) {
		t.Error("placed files remained after uninstall")
	}
}

func TestEnableReportsUnknownTarget(t *testing.T) {
	e, _, _ := newTestEngine(t)
	mustInstall(t, e, "acme/tools", InstallOptions{Targets: []string{"codex"}})

	record, err := e.Info("acme--tools")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	record.Deployments["ghost"] = Deployment{Scope: target.ScopePersonal, Enabled: true}
	if err := e.state.Upsert(*record); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	res, err := e.Enable("acme--tools", nil, "")
	if err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	var reported *PlacementOutcome
	for i, o := range res.Outcomes {
		if o.Target == "ghost" {
			reported = &res.Outcomes[i]
		}
	}
	if reported == nil {
		t.Fatal("no outcome recorded for unregistered deployment target")
	}
	if reported.Status != PlacementFailed {
		t.Errorf("outcome status = %q, want %q", reported.Status, PlacementFailed)
	}
	if reported.Err == nil || !strings.Contains(reported.Err.Error(), "not registered") {
		t.Errorf("outcome error = %v, want unregistered target error", reported.Err)
	}
}

func TestProjectScopePlacement(t *testing.T) {
	e, fetcher, _ := newTestEngine(t)
	project := t.TempDir()

	fetcher.archives["acme/proj"] = buildArchive(t, map[string]string{
		"instructions.md":     "Project rules.\n",
		"skills/pdf/SKILL.md": "---\nname: pdf\n---\n\nRead.\n",
	})

	res := mustInstall(t, e, "acme/proj", InstallOptions{
		Targets:    []string{"codex"},
		Scope:      target.ScopeProject,
		ProjectDir: project,
	})
	if res.Plugin.Deployments["codex"].Scope != target.ScopeProject {
		t.Errorf("recorded scope = %q, want project", res.Plugin.Deployments["codex"].Scope)
	}

	// Codex reads its project instructions from the repository root.
	if _, err := os.Stat(filepath.Join(project, "AGENTS.md")); err != nil {
		t.Errorf("AGENTS.md not placed at project root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(project, ".codex/skills/github/acme--proj/pdf/SKILL.md")); err != nil {
		t.Errorf("skill not placed under project .codex: %v", err)
	}
}
