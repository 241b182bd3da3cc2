package target

import "github.com/DIO0550/plugin-manager/internal/core/component"

// Codex implements the Target interface for the Codex CLI.
type Codex struct {
	BaseTarget
}

// NewCodex creates a configured Codex target.
func NewCodex() *Codex {
	return &Codex{BaseTarget{
		name:         "codex",
		displayName:  "Codex CLI",
		format:       component.FormatCodex,
		personalBase: "~/.codex",
		projectBase:  ".codex",
		skillsDir:    "skills",
		agentsDir:    "agents",
		agentExt:     ".agent.md",
		// Codex reads project instructions from AGENTS.md at the repo root.
		instructionFile:   "AGENTS.md",
		instructionAtRoot: true,
		detectPaths:       []string{"~/.codex"},
	}}
}

func init() { Register(NewCodex()) }
