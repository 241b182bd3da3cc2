package target

import "github.com/DIO0550/plugin-manager/internal/core/component"

// Copilot implements the Target interface for GitHub Copilot.
type Copilot struct {
	BaseTarget
}

// NewCopilot creates a configured Copilot target. At project scope Copilot
// reads everything from the repository's .github directory.
func NewCopilot() *Copilot {
	return &Copilot{BaseTarget{
		name:            "copilot",
		displayName:     "GitHub Copilot",
		format:          component.FormatCopilot,
		personalBase:    "~/.copilot",
		projectBase:     ".github",
		skillsDir:       "skills",
		agentsDir:       "agents",
		agentExt:        ".agent.md",
		commandsDir:     "prompts",
		commandExt:      ".prompt.md",
		instructionFile: "copilot-instructions.md",
		detectPaths:     []string{"~/.copilot", "~/.config/github-copilot"},
	}}
}

func init() { Register(NewCopilot()) }
