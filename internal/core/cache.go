package core

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CacheStore manages the on-disk plugin cache tree:
// <root>/cache/plugins/<catalog>/<plugin>/…
//
// Catalog and plugin segments keep provenances disjoint; the ReservedCatalog
// segment holds direct installs under owner--repo names. Extraction stages
// into a temp directory and moves into place atomically, so a killed
// process never leaves a half-extracted subtree visible.
type CacheStore struct {
	paths *Paths
}

// NewCacheStore creates a cache store over the given paths.
func NewCacheStore(paths *Paths) *CacheStore {
	return &CacheStore{paths: paths}
}

// PluginDir returns the cache directory for one (catalog, plugin) pair.
func (c *CacheStore) PluginDir(catalog, plugin string) string {
	return filepath.Join(c.paths.PluginCacheDir(), catalog, plugin)
}

// IsCached reports whether a plugin's cache subtree exists.
func (c *CacheStore) IsCached(catalog, plugin string) bool {
	info, err := os.Stat(c.PluginDir(catalog, plugin))
	return err == nil && info.IsDir()
}

// Store extracts a downloaded archive into the cache, replacing any
// pre-existing subtree for the same (catalog, plugin) pair. Remote
// archives wrap their content in a single top-level directory, which is
// stripped. When subdir is non-empty only that subdirectory of the
// archive becomes the plugin content (marketplace plugins that live
// inside the marketplace repository).
func (c *CacheStore) Store(catalog, plugin string, archive []byte, subdir string) (string, error) {
	dest := c.PluginDir(catalog, plugin)
	root := filepath.Clean(c.paths.PluginCacheDir()) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(dest), root) || filepath.Dir(filepath.Dir(dest)) != filepath.Clean(c.paths.PluginCacheDir()) {
		return "", fmt.Errorf("%w: cache path for %s/%s escapes the cache tree", ErrInvalidName, catalog, plugin)
	}

	stage, err := os.MkdirTemp(c.ensureTempDir(), catalog+"--"+plugin+"-*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stage) }()

	if err := extractArchive(archive, stage); err != nil {
		return "", fmt.Errorf("extracting archive for %s/%s: %w", catalog, plugin, err)
	}

	content := stage
	if subdir != "" {
		content = filepath.Join(stage, filepath.FromSlash(subdir))
		if !strings.HasPrefix(content, filepath.Clean(stage)+string(os.PathSeparator)) {
			return "", fmt.Errorf("subdirectory %q escapes the extracted archive", subdir)
		}
		info, err := os.Stat(content)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("archive has no directory %q", subdir)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("removing stale cache for %s/%s: %w", catalog, plugin, err)
	}
	if err := os.Rename(content, dest); err != nil {
		return "", fmt.Errorf("moving %s/%s into cache: %w", catalog, plugin, err)
	}
	return dest, nil
}

// Remove deletes a plugin's cache subtree, cleaning up the catalog
// directory if it becomes empty.
func (c *CacheStore) Remove(catalog, plugin string) error {
	dir := c.PluginDir(catalog, plugin)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing cache for %s/%s: %w", catalog, plugin, err)
	}
	catalogDir := filepath.Dir(dir)
	if entries, err := os.ReadDir(catalogDir); err == nil && len(entries) == 0 {
		_ = os.Remove(catalogDir)
	}
	return nil
}

// List returns all cached (catalog, plugin) pairs sorted by catalog then
// plugin.
func (c *CacheStore) List() ([][2]string, error) {
	root := c.paths.PluginCacheDir()
	catalogs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var result [][2]string
	for _, cat := range catalogs {
		if !cat.IsDir() {
			continue
		}
		plugins, err := os.ReadDir(filepath.Join(root, cat.Name()))
		if err != nil {
			continue
		}
		for _, p := range plugins {
			if p.IsDir() {
				result = append(result, [2]string{cat.Name(), p.Name()})
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i][0] != result[j][0] {
			return result[i][0] < result[j][0]
		}
		return result[i][1] < result[j][1]
	})
	return result, nil
}

func (c *CacheStore) ensureTempDir() string {
	dir := c.paths.TempDir()
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// extractArchive unpacks a zip archive into dest, stripping the single
// top-level wrapper directory. Entries that would escape dest are
// rejected.
func extractArchive(archive []byte, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	if len(zr.File) == 0 {
		return fmt.Errorf("archive is empty")
	}

	prefix := wrapperPrefix(zr.File)

	for _, f := range zr.File {
		name := strings.TrimPrefix(f.Name, prefix)
		if name == "" {
			continue
		}

		rel := filepath.FromSlash(name)
		target := filepath.Join(dest, rel)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes extraction directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := writeZipEntry(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

// wrapperPrefix returns the shared top-level directory prefix, or "" when
// the archive entries are not uniformly wrapped.
func wrapperPrefix(files []*zip.File) string {
	var prefix string
	for _, f := range files {
		idx := strings.Index(f.Name, "/")
		if idx < 0 {
			return ""
		}
		top := f.Name[:idx+1]
		if prefix == "" {
			prefix = top
		} else if top != prefix {
			return ""
		}
	}
	return prefix
}

func writeZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	mode := f.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
