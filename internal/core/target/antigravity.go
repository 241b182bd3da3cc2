package target

import "github.com/DIO0550/plugin-manager/internal/core/component"

// Antigravity implements the Target interface for Antigravity.
type Antigravity struct {
	BaseTarget
}

// NewAntigravity creates a configured Antigravity target. Antigravity is
// skills-only.
func NewAntigravity() *Antigravity {
	return &Antigravity{BaseTarget{
		name:         "antigravity",
		displayName:  "Antigravity",
		format:       component.FormatClaude,
		personalBase: "~/.gemini/antigravity",
		projectBase:  ".agent",
		skillsDir:    "skills",
		detectPaths:  []string{"~/.gemini/antigravity"},
	}}
}

func init() { Register(NewAntigravity()) }
