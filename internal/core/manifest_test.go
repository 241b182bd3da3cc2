package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, ".claude-plugin/plugin.json", `{
		"name": "tools",
		"version": "1.2.0",
		"author": {"name": "Acme"},
		"commands": "./custom-commands",
	}`)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "tools" {
		t.Errorf("Name = %q, want %q", m.Name, "tools")
	}
	if m.Version != "1.2.0" {
		t.Errorf("Version = %q, want %q", m.Version, "1.2.0")
	}
	if m.Author.Name != "Acme" {
		t.Errorf("Author.Name = %q, want %q", m.Author.Name, "Acme")
	}
	if m.Commands != "./custom-commands" {
		t.Errorf("Commands = %q, want %q", m.Commands, "./custom-commands")
	}
}

func TestLoadManifestWithComments(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, ".claude-plugin/plugin.json", `{
		// hand-edited by the author
		"name": "tools",
	}`)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "tools" {
		t.Errorf("Name = %q, want %q", m.Name, "tools")
	}
}

func TestLoadManifestRootFallback(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "plugin.json", `{"name": "fallback"}`)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "fallback" {
		t.Errorf("Name = %q, want %q", m.Name, "fallback")
	}
}

func TestLoadManifestPrefersConventionalLocation(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, ".claude-plugin/plugin.json", `{"name": "primary"}`)
	writeManifest(t, dir, "plugin.json", `{"name": "secondary"}`)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Name != "primary" {
		t.Errorf("Name = %q, want %q", m.Name, "primary")
	}
}

func TestLoadManifestMissing(t *testing.T) {
	if _, err := LoadManifest(t.TempDir()); !errors.Is(err, ErrManifestMissing) {
		t.Errorf("error = %v, want ErrManifestMissing", err)
	}
}

func TestLoadManifestInvalid(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "plugin.json", `{not json at all`)

	_, err := LoadManifest(dir)
	var invalid *ManifestInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want ManifestInvalidError", err)
	}
	if invalid.Path == "" {
		t.Error("ManifestInvalidError has no path")
	}
}
