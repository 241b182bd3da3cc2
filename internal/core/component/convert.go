package component

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Format identifies the on-disk file format expected by a destination
// environment for commands and agents. Skills, instructions, and hooks are
// always copied verbatim, so they have no format of their own.
type Format string

const (
	// FormatClaude is the source format plugins are authored in.
	FormatClaude Format = "claude"
	// FormatCopilot is the GitHub Copilot prompt/agent file format.
	FormatCopilot Format = "copilot"
	// FormatCodex is the Codex CLI prompt/agent file format.
	FormatCodex Format = "codex"
)

// ErrUnsupported is returned when no conversion exists for a
// (kind, destination format) pair. Callers treat this as a skip.
var ErrUnsupported = errors.New("unsupported conversion")

// copilotToolTable maps source tool-capability identifiers to Copilot
// tool names. Bash invocations scoped to git map to githubRepo and are
// handled separately in mapTools.
var copilotToolTable = map[string]string{
	"Read":      "codebase",
	"Write":     "codebase",
	"Edit":      "codebase",
	"MultiEdit": "codebase",
	"Grep":      "search",
	"Glob":      "search",
	"Bash":      "terminal",
	"WebFetch":  "fetch",
	"WebSearch": "websearch",
	"Task":      "codebase",
	"TodoWrite": "codebase",
}

// copilotModelTable maps source model aliases to Copilot model names.
var copilotModelTable = map[string]string{
	"haiku":  "GPT-4o-mini",
	"sonnet": "GPT-4o",
	"opus":   "o1",
}

// codexModelTable maps source model aliases to Codex model names.
var codexModelTable = map[string]string{
	"haiku":  "gpt-4.1-mini",
	"sonnet": "gpt-4.1",
	"opus":   "o3",
}

// Convert rewrites a command or agent document authored in the source
// format for the destination format. name is the component name, used when
// the destination schema carries an explicit name field. The source format
// itself round-trips unchanged.
func Convert(kind Kind, raw []byte, name, source string, to Format) ([]byte, error) {
	if to == FormatClaude {
		return raw, nil
	}

	doc, err := ParseDocument(raw, source)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindCommand:
		switch to {
		case FormatCopilot:
			return renderCopilotPrompt(doc, name)
		default:
			return nil, fmt.Errorf("command for %s: %w", to, ErrUnsupported)
		}
	case KindAgent:
		switch to {
		case FormatCopilot:
			return renderCopilotAgent(doc, name)
		case FormatCodex:
			return renderCodexAgent(doc, name)
		default:
			return nil, fmt.Errorf("agent for %s: %w", to, ErrUnsupported)
		}
	default:
		// Skills, instructions, and hooks never pass through Convert.
		return nil, fmt.Errorf("%s for %s: %w", kind, to, ErrUnsupported)
	}
}

// renderCopilotPrompt maps a command document onto the Copilot
// *.prompt.md schema.
func renderCopilotPrompt(doc *Document, name string) ([]byte, error) {
	fm := map[string]any{"name": name}

	if desc := doc.StringField("description"); desc != "" {
		fm["description"] = desc
	}
	if tools := mapTools(doc.StringField("allowed-tools")); len(tools) > 0 {
		fm["tools"] = tools
	}
	if hint := doc.StringField("argument-hint"); hint != "" {
		fm["hint"] = hint
	}
	if model, ok := copilotModelTable[doc.StringField("model")]; ok {
		fm["model"] = model
	}

	out := &Document{Frontmatter: fm, Body: convertBodyVariables(doc.Body)}
	return out.Render()
}

// renderCopilotAgent maps an agent document onto the Copilot agent schema.
func renderCopilotAgent(doc *Document, name string) ([]byte, error) {
	fm := map[string]any{"name": name}

	if desc := doc.StringField("description"); desc != "" {
		fm["description"] = desc
	}
	if tools := mapTools(doc.StringField("tools")); len(tools) > 0 {
		fm["tools"] = tools
	}
	if model, ok := copilotModelTable[doc.StringField("model")]; ok {
		fm["model"] = model
	}

	out := &Document{Frontmatter: fm, Body: convertBodyVariables(doc.Body)}
	return out.Render()
}

// renderCodexAgent maps an agent document onto the Codex *.agent.md schema.
// Codex has no tool-capability concept, so the tools field is dropped.
func renderCodexAgent(doc *Document, name string) ([]byte, error) {
	fm := map[string]any{"name": name}

	if desc := doc.StringField("description"); desc != "" {
		fm["description"] = desc
	}
	if model, ok := codexModelTable[doc.StringField("model")]; ok {
		fm["model"] = model
	}

	out := &Document{Frontmatter: fm, Body: convertBodyVariables(doc.Body)}
	return out.Render()
}

// mapTools converts a comma-separated source tool list into a sorted,
// deduplicated destination tool list. Unknown tools are dropped.
func mapTools(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	seen := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		base := item
		var scope string
		if idx := strings.Index(item, "("); idx > 0 && strings.HasSuffix(item, ")") {
			base = item[:idx]
			scope = item[idx+1 : len(item)-1]
		}

		mapped, ok := copilotToolTable[base]
		if !ok {
			continue
		}
		if base == "Bash" && strings.HasPrefix(scope, "git") {
			mapped = "githubRepo"
		}
		seen[mapped] = true
	}

	result := make([]string, 0, len(seen))
	for t := range seen {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// convertBodyVariables rewrites template variable syntax in a body:
// $ARGUMENTS becomes ${arguments} and $1..$9 become ${arg1}..${arg9}.
// Positional variables are replaced from 9 down to 1 so $1 never clobbers
// the prefix of a higher number.
func convertBodyVariables(body string) string {
	body = strings.ReplaceAll(body, "$ARGUMENTS", "${arguments}")
	for i := 9; i >= 1; i-- {
		body = strings.ReplaceAll(body,
			fmt.Sprintf("$%d", i), fmt.Sprintf("${arg%d}", i))
	}
	return body
}
