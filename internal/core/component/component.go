// Package component defines the component kind abstraction for plm.
//
// A Component is one deployable unit inside a plugin (skill, agent, command,
// instruction, hook). The package also owns the Markdown+frontmatter document
// model and the per-target format conversion tables. Components do NOT know
// about targets; the convert functions are keyed by destination format.
package component

// Kind identifies a component type.
type Kind string

const (
	KindSkill       Kind = "skill"
	KindAgent       Kind = "agent"
	KindCommand     Kind = "command"
	KindInstruction Kind = "instruction"
	KindHook        Kind = "hook"
)

// Kinds lists all component kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindSkill, KindAgent, KindCommand, KindInstruction, KindHook}
}

// DisplayName returns the human-readable label for a kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindSkill:
		return "Skill"
	case KindAgent:
		return "Agent"
	case KindCommand:
		return "Command"
	case KindInstruction:
		return "Instruction"
	case KindHook:
		return "Hook"
	default:
		return string(k)
	}
}

// ParseKind maps a user-supplied kind name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "skill", "skills":
		return KindSkill, true
	case "agent", "agents":
		return KindAgent, true
	case "command", "commands":
		return KindCommand, true
	case "instruction", "instructions":
		return KindInstruction, true
	case "hook", "hooks":
		return KindHook, true
	}
	return "", false
}

// Component is one discovered deployable unit within a cached plugin.
// SourcePath is absolute; for skills it points at the skill directory,
// for every other kind at a single file.
type Component struct {
	Kind       Kind
	Name       string
	SourcePath string
}
