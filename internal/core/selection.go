package core

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/DIO0550/plugin-manager/internal/core/target"
)

// defaultTargets are enabled when no targets file exists yet.
var defaultTargets = []string{"codex", "copilot"}

// targetsFile is the on-disk enabled-targets list.
type targetsFile struct {
	Targets []string `json:"targets"`
}

// TargetSelection persists which targets operations apply to when the
// caller does not name targets explicitly.
type TargetSelection struct {
	paths *Paths
}

// NewTargetSelection creates a selection store over the given paths.
func NewTargetSelection(paths *Paths) *TargetSelection {
	return &TargetSelection{paths: paths}
}

// Enabled returns the enabled targets, resolved against the registry.
func (t *TargetSelection) Enabled() ([]target.Target, error) {
	names, err := t.names()
	if err != nil {
		return nil, err
	}
	return target.ByNames(names)
}

// Add enables a target by name.
func (t *TargetSelection) Add(name string) error {
	if _, err := target.ByNames([]string{name}); err != nil {
		return err
	}

	names, err := t.names()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return fmt.Errorf("target %q is already enabled", name)
		}
	}
	names = append(names, name)
	sort.Strings(names)
	return writeJSONFile(t.paths.TargetsFile(), &targetsFile{Targets: names})
}

// Remove disables a target by name.
func (t *TargetSelection) Remove(name string) error {
	names, err := t.names()
	if err != nil {
		return err
	}
	kept := names[:0]
	found := false
	for _, n := range names {
		if n == name {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return fmt.Errorf("target %q is not enabled", name)
	}
	return writeJSONFile(t.paths.TargetsFile(), &targetsFile{Targets: kept})
}

func (t *TargetSelection) names() ([]string, error) {
	data, err := os.ReadFile(t.paths.TargetsFile())
	if err != nil {
		if os.IsNotExist(err) {
			return append([]string(nil), defaultTargets...), nil
		}
		return nil, fmt.Errorf("reading targets file: %w", err)
	}
	var file targetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing targets file: %w", err)
	}
	return file.Targets, nil
}
