package core

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// manifestLocations are the candidate manifest paths inside a cached
// plugin, checked in order.
var manifestLocations = []string{
	filepath.Join(".claude-plugin", "plugin.json"),
	"plugin.json",
}

// ManifestAuthor identifies a plugin's author.
type ManifestAuthor struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// PluginManifest is the declarative metadata shipped inside a plugin.
// Read-only input: the engine never rewrites this file in place.
//
// The component path fields override the default directory layout; an
// absent field means the conventional location is used.
type PluginManifest struct {
	Name        string         `json:"name"`
	Version     string         `json:"version,omitempty"`
	Description string         `json:"description,omitempty"`
	Author      ManifestAuthor `json:"author,omitempty"`
	License     string         `json:"license,omitempty"`
	Homepage    string         `json:"homepage,omitempty"`
	Repository  string         `json:"repository,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`

	Commands     string `json:"commands,omitempty"`
	Agents       string `json:"agents,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Hooks        string `json:"hooks,omitempty"`
}

// LoadManifest reads the plugin manifest from a cached plugin directory.
// Returns ErrManifestMissing when no manifest file exists and
// *ManifestInvalidError when one exists but cannot be parsed. Both are
// non-fatal to the caller: component extraction falls back to the default
// directory layout.
//
// Manifests are parsed as JWCC (JSON with comments and trailing commas)
// since plugin authors commonly hand-edit them.
func LoadManifest(pluginDir string) (*PluginManifest, error) {
	var data []byte
	var path string
	found := false
	for _, loc := range manifestLocations {
		candidate := filepath.Join(pluginDir, loc)
		raw, err := os.ReadFile(candidate)
		if err == nil {
			data, path, found = raw, candidate, true
			break
		}
		if !os.IsNotExist(err) {
			return nil, &ManifestInvalidError{Path: candidate, Err: err}
		}
	}
	if !found {
		return nil, ErrManifestMissing
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ManifestInvalidError{Path: path, Err: err}
	}

	var m PluginManifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, &ManifestInvalidError{Path: path, Err: err}
	}
	return &m, nil
}
