// Package target defines the Target abstraction for plm.
//
// A Target represents a host AI-assistant environment (Codex, Copilot,
// Gemini, Antigravity). Each target knows which component kinds it
// recognizes, which file format converted commands and agents use, and how
// to compute the destination path for a component under a given scope.
// Targets are self-contained Go structs; adding an environment means
// registering one new target, never touching existing ones.
package target

import (
	"fmt"
	"strings"

	"github.com/DIO0550/plugin-manager/internal/core/component"
)

// Scope selects between user-wide and repository-local placement.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeProject  Scope = "project"
)

// ParseScope maps a user-supplied scope name to a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "personal", "user", "global":
		return ScopePersonal, nil
	case "project", "local":
		return ScopeProject, nil
	}
	return "", fmt.Errorf("unknown scope %q (valid: personal, project)", s)
}

// Origin identifies where a plugin came from: the catalog it was installed
// from and its plugin directory name. Both segments appear in every placed
// path so deployments from distinct provenances never collide.
type Origin struct {
	Catalog string
	Plugin  string
}

// Target defines how a host environment integrates with plm.
type Target interface {
	// Identity
	Name() string        // machine name: "codex", "copilot"
	DisplayName() string // human name: "Codex CLI", "GitHub Copilot"

	// Detection
	IsInstalled() bool

	// Component support
	Supports(kind component.Kind) bool
	SupportedKinds() []component.Kind

	// Format returns the file format converted commands and agents use.
	Format() component.Format

	// Placement computes the destination path for one component. projectDir
	// is only consulted at project scope. The second return is false when
	// the kind/scope combination is unsupported for this target.
	Placement(kind component.Kind, scope Scope, origin Origin, componentName, projectDir string) (string, bool)
}

// --- Registry ---

var targets []Target

// Register adds a target to the global registry.
func Register(t Target) { targets = append(targets, t) }

// All returns all registered targets.
func All() []Target { return targets }

// ByName returns the target with the given machine name, if registered.
func ByName(name string) (Target, bool) {
	for _, t := range targets {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// ByNames resolves a list of target names to Target values.
// Returns an error if any name is unknown.
func ByNames(names []string) ([]Target, error) {
	result := make([]Target, 0, len(names))
	for _, name := range names {
		t, ok := ByName(name)
		if !ok {
			var valid []string
			for _, tg := range targets {
				valid = append(valid, tg.Name())
			}
			return nil, fmt.Errorf("unknown target %q; available: %s",
				name, strings.Join(valid, ", "))
		}
		result = append(result, t)
	}
	return result, nil
}

// Detect returns all targets whose host environment is installed on this
// machine.
func Detect() []Target {
	var detected []Target
	for _, t := range targets {
		if t.IsInstalled() {
			detected = append(detected, t)
		}
	}
	return detected
}

// Supporting returns all targets that recognize the given component kind.
func Supporting(kind component.Kind) []Target {
	var result []Target
	for _, t := range targets {
		if t.Supports(kind) {
			result = append(result, t)
		}
	}
	return result
}

// Names returns the machine names of the given targets.
func Names(ts []Target) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name()
	}
	return names
}
