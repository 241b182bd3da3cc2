package target

import "github.com/DIO0550/plugin-manager/internal/core/component"

// GeminiCLI implements the Target interface for the Gemini CLI.
type GeminiCLI struct {
	BaseTarget
}

// NewGeminiCLI creates a configured Gemini CLI target. Gemini has no
// command or agent concept; it deploys skills plus a GEMINI.md context
// file, written at the repo root for project scope.
func NewGeminiCLI() *GeminiCLI {
	return &GeminiCLI{BaseTarget{
		name:              "gemini",
		displayName:       "Gemini CLI",
		format:            component.FormatClaude,
		personalBase:      "~/.gemini",
		projectBase:       ".gemini",
		skillsDir:         "skills",
		instructionFile:   "GEMINI.md",
		instructionAtRoot: true,
		detectPaths:       []string{"~/.gemini"},
	}}
}

func init() { Register(NewGeminiCLI()) }
