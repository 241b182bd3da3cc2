package core

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DIO0550/plugin-manager/internal/core/component"
)

// Default component locations inside a plugin, used when the manifest does
// not override them.
const (
	defaultSkillsDir       = "skills"
	defaultAgentsDir       = "agents"
	defaultCommandsDir     = "commands"
	defaultHooksDir        = "hooks"
	defaultInstructionFile = "instructions.md"
	defaultInstructionsDir = "instructions"
	skillMarkerFile        = "SKILL.md"
	rootInstructionFile    = "AGENTS.md"
)

// ExtractComponents walks a cached plugin directory and classifies its
// deployable units. Entries not matching a kind's filename pattern are
// filtered out, never an error. Duplicate names within one kind are
// permitted; the last one in traversal order wins (directory entries are
// read in sorted order, so this is deterministic).
//
// A nil manifest means the default directory layout.
func ExtractComponents(pluginDir string, manifest *PluginManifest) []component.Component {
	if manifest == nil {
		manifest = &PluginManifest{}
	}

	var result []component.Component
	result = append(result, scanSkills(pluginDir, pick(manifest.Skills, defaultSkillsDir))...)
	result = append(result, scanAgents(pluginDir, pick(manifest.Agents, defaultAgentsDir))...)
	result = append(result, scanCommands(pluginDir, pick(manifest.Commands, defaultCommandsDir))...)
	result = append(result, scanInstructions(pluginDir, manifest.Instructions)...)
	result = append(result, scanHooks(pluginDir, pick(manifest.Hooks, defaultHooksDir))...)
	return dedupeLastWins(result)
}

// ComponentNames groups component names per kind, each list sorted.
func ComponentNames(comps []component.Component) map[component.Kind][]string {
	names := make(map[component.Kind][]string)
	for _, c := range comps {
		names[c.Kind] = append(names[c.Kind], c.Name)
	}
	for k := range names {
		sort.Strings(names[k])
	}
	return names
}

func pick(override, def string) string {
	if override != "" {
		return filepath.FromSlash(override)
	}
	return def
}

// scanSkills finds subdirectories containing a SKILL.md marker file.
func scanSkills(pluginDir, dir string) []component.Component {
	base := filepath.Join(pluginDir, dir)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var result []component.Component
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		skillDir := filepath.Join(base, e.Name())
		if _, err := os.Stat(filepath.Join(skillDir, skillMarkerFile)); err != nil {
			continue
		}
		result = append(result, component.Component{
			Kind:       component.KindSkill,
			Name:       e.Name(),
			SourcePath: skillDir,
		})
	}
	return result
}

// scanAgents finds *.agent.md and *.md files one level deep.
func scanAgents(pluginDir, dir string) []component.Component {
	return scanMarkdownFiles(pluginDir, dir, component.KindAgent, ".agent.md")
}

// scanCommands finds *.prompt.md and *.md files one level deep.
func scanCommands(pluginDir, dir string) []component.Component {
	return scanMarkdownFiles(pluginDir, dir, component.KindCommand, ".prompt.md")
}

// scanMarkdownFiles collects Markdown files from a flat directory. The
// longer kind-specific suffix is stripped first so "x.agent.md" names "x",
// not "x.agent".
func scanMarkdownFiles(pluginDir, dir string, kind component.Kind, kindSuffix string) []component.Component {
	base := filepath.Join(pluginDir, dir)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var result []component.Component
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), kindSuffix)
		name = strings.TrimSuffix(name, ".md")
		if name == "" {
			continue
		}
		result = append(result, component.Component{
			Kind:       kind,
			Name:       name,
			SourcePath: filepath.Join(base, e.Name()),
		})
	}
	return result
}

// scanInstructions looks for instruction content at the manifest-declared
// file, the conventional instructions.md, the instructions/ directory, and
// finally a root AGENTS.md.
func scanInstructions(pluginDir, override string) []component.Component {
	if override != "" {
		p := filepath.Join(pluginDir, filepath.FromSlash(override))
		if isFile(p) {
			return []component.Component{{
				Kind:       component.KindInstruction,
				Name:       stem(filepath.Base(p)),
				SourcePath: p,
			}}
		}
		return nil
	}

	if p := filepath.Join(pluginDir, defaultInstructionFile); isFile(p) {
		return []component.Component{{
			Kind:       component.KindInstruction,
			Name:       "instructions",
			SourcePath: p,
		}}
	}

	base := filepath.Join(pluginDir, defaultInstructionsDir)
	if entries, err := os.ReadDir(base); err == nil {
		var result []component.Component
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			result = append(result, component.Component{
				Kind:       component.KindInstruction,
				Name:       stem(e.Name()),
				SourcePath: filepath.Join(base, e.Name()),
			})
		}
		if len(result) > 0 {
			return result
		}
	}

	if p := filepath.Join(pluginDir, rootInstructionFile); isFile(p) {
		return []component.Component{{
			Kind:       component.KindInstruction,
			Name:       "instructions",
			SourcePath: p,
		}}
	}
	return nil
}

// scanHooks collects every regular file in the hooks directory; the name
// is the filename without its extension.
func scanHooks(pluginDir, dir string) []component.Component {
	base := filepath.Join(pluginDir, dir)
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var result []component.Component
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := stem(e.Name())
		if name == "" {
			continue
		}
		result = append(result, component.Component{
			Kind:       component.KindHook,
			Name:       name,
			SourcePath: filepath.Join(base, e.Name()),
		})
	}
	return result
}

// dedupeLastWins keeps the last component for each (kind, name) pair,
// preserving first-seen positions.
func dedupeLastWins(comps []component.Component) []component.Component {
	type key struct {
		kind component.Kind
		name string
	}
	index := make(map[key]int)
	var result []component.Component
	for _, c := range comps {
		k := key{c.Kind, c.Name}
		if i, ok := index[k]; ok {
			result[i] = c
			continue
		}
		index[k] = len(result)
		result = append(result, c)
	}
	return result
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
