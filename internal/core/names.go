package core

import (
	"fmt"
	"strings"
)

// maxNameLength bounds marketplace and plugin names.
const maxNameLength = 64

// ReservedCatalog is the catalog name used in the cache tree for plugins
// installed directly from a repository rather than through a marketplace.
// It may not be registered as a marketplace name.
const ReservedCatalog = "github"

// NormalizeName lowercases a marketplace or plugin name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateName checks the character and length constraints for a
// marketplace or plugin name. Names appear as path segments in the cache
// tree, so the character set is restricted to [a-z0-9._-] with no leading
// or trailing separator characters.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidName, name, maxNameLength)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '.' || c == '_' || c == '-' {
			continue
		}
		return fmt.Errorf("%w: %q contains %q (allowed: a-z, 0-9, '.', '_', '-')", ErrInvalidName, name, string(c))
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") ||
		strings.HasSuffix(name, ".") || strings.HasSuffix(name, "-") {
		return fmt.Errorf("%w: %q may not start or end with '.' or '-'", ErrInvalidName, name)
	}
	return nil
}
