package component

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed Markdown file: YAML frontmatter map + body text.
// The frontmatter is kept as a generic map so conversion can remap fields
// without committing to one environment's schema.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// ParseDocument splits raw Markdown content into frontmatter and body.
// Content without a frontmatter block parses to an empty map and the full
// text as body. A UTF-8 BOM before the opening delimiter is tolerated.
func ParseDocument(raw []byte, source string) (*Document, error) {
	content := strings.TrimPrefix(string(raw), "\ufeff")

	if !strings.HasPrefix(content, "---") {
		return &Document{Frontmatter: map[string]any{}, Body: content}, nil
	}

	rest := content[3:]
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	} else if len(rest) > 1 && rest[0] == '\r' && rest[1] == '\n' {
		rest = rest[2:]
	} else {
		// "---something" is a horizontal rule or heading, not frontmatter.
		return &Document{Frontmatter: map[string]any{}, Body: content}, nil
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, fmt.Errorf("no closing frontmatter delimiter in %s", source)
	}

	fmContent := rest[:end]
	body := rest[end+4:]
	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	} else if len(body) > 1 && body[0] == '\r' && body[1] == '\n' {
		body = body[2:]
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(fmContent), &fm); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", source, err)
	}
	if fm == nil {
		fm = make(map[string]any)
	}

	return &Document{Frontmatter: fm, Body: body}, nil
}

// Render produces the final file content: ---\n<yaml>\n---\n\n<body>.
// An empty frontmatter map renders as body only.
func (d *Document) Render() ([]byte, error) {
	if len(d.Frontmatter) == 0 {
		body := d.Body
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return []byte(body), nil
	}

	yamlBytes, err := marshalOrderedYAML(d.Frontmatter)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if d.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(d.Body)
		if !strings.HasSuffix(d.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// StringField returns a frontmatter field as a string, or "" when absent
// or not a string.
func (d *Document) StringField(key string) string {
	s, _ := d.Frontmatter[key].(string)
	return s
}

// marshalOrderedYAML serializes a map to YAML with a defined field order:
// name, description, model, tools first, then remaining keys alphabetically.
func marshalOrderedYAML(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}

	priority := []string{"name", "description", "model", "tools"}
	prioritySet := make(map[string]bool)
	for _, k := range priority {
		prioritySet[k] = true
	}

	var rest []string
	for k := range m {
		if !prioritySet[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	var ordered []string
	for _, k := range priority {
		if _, ok := m[k]; ok {
			ordered = append(ordered, k)
		}
	}
	ordered = append(ordered, rest...)

	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}
	for _, key := range ordered {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: key,
		}
		valNode, err := encodeValue(m[key])
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", key, err)
		}
		doc.Content = append(doc.Content, keyNode, valNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeValue converts a Go value to a yaml.Node for ordered output.
func encodeValue(v any) (*yaml.Node, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return doc.Content[0], nil
}
