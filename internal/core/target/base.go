package target

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/DIO0550/plugin-manager/internal/core/component"
)

// BaseTarget provides the shared placement layout for host environments.
// Individual targets embed this and set the layout fields; an empty
// directory field marks the corresponding kind as unsupported.
type BaseTarget struct {
	name        string
	displayName string
	format      component.Format

	personalBase string // user-wide base dir (with ~)
	projectBase  string // project-relative base dir

	skillsDir   string // subdir for skill directories
	agentsDir   string // subdir for agent files
	agentExt    string // agent filename suffix
	commandsDir string // subdir for command files
	commandExt  string // command filename suffix

	instructionFile   string // instruction filename under the base dir
	instructionAtRoot bool   // project scope places the instruction at the project root

	detectPaths []string // files/dirs indicating the host tool is installed
}

func (b *BaseTarget) Name() string             { return b.name }
func (b *BaseTarget) DisplayName() string      { return b.displayName }
func (b *BaseTarget) Format() component.Format { return b.format }

func (b *BaseTarget) Supports(kind component.Kind) bool {
	switch kind {
	case component.KindSkill:
		return b.skillsDir != ""
	case component.KindAgent:
		return b.agentsDir != ""
	case component.KindCommand:
		return b.commandsDir != ""
	case component.KindInstruction:
		return b.instructionFile != ""
	default:
		return false
	}
}

func (b *BaseTarget) SupportedKinds() []component.Kind {
	var kinds []component.Kind
	for _, k := range component.Kinds() {
		if b.Supports(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (b *BaseTarget) IsInstalled() bool {
	for _, p := range b.detectPaths {
		if _, err := os.Stat(expandPath(p)); err == nil {
			return true
		}
	}
	return false
}

// Placement computes the destination path for one component instance.
// Every path except the instruction file is prefixed with the origin's
// catalog and plugin segments so provenances stay disjoint.
func (b *BaseTarget) Placement(kind component.Kind, scope Scope, origin Origin, componentName, projectDir string) (string, bool) {
	if !b.Supports(kind) {
		return "", false
	}

	base := b.baseDir(scope, projectDir)

	switch kind {
	case component.KindSkill:
		return filepath.Join(base, b.skillsDir, origin.Catalog, origin.Plugin, componentName), true
	case component.KindAgent:
		return filepath.Join(base, b.agentsDir, origin.Catalog, origin.Plugin, componentName+b.agentExt), true
	case component.KindCommand:
		return filepath.Join(base, b.commandsDir, origin.Catalog, origin.Plugin, componentName+b.commandExt), true
	case component.KindInstruction:
		if scope == ScopeProject && b.instructionAtRoot {
			return filepath.Join(projectDir, b.instructionFile), true
		}
		return filepath.Join(base, b.instructionFile), true
	default:
		return "", false
	}
}

func (b *BaseTarget) baseDir(scope Scope, projectDir string) string {
	if scope == ScopeProject {
		return filepath.Join(projectDir, b.projectBase)
	}
	return expandPath(b.personalBase)
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	if p == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	return p
}
