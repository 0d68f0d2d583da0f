package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommentedConfig renders configuration values as YAML annotated with the
// titles and descriptions of a schema.
type CommentedConfig struct {
	// Title lines are placed at the top of the document.
	Title  string
	Schema *Property
}

// Template renders the schema's template values.
func (c *CommentedConfig) Template() (string, error) {
	values, _ := c.Schema.Defaults().(map[string]any)
	return c.Render(values)
}

// Render emits values in schema order. Keys unknown to the schema follow in
// sorted order without annotations.
func (c *CommentedConfig) Render(values map[string]any) (string, error) {
	body, err := c.mapping(c.Schema, values)
	if err != nil {
		return "", err
	}
	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: comment(c.Title),
		Content:     []*yaml.Node{body},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("schema: render: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("schema: render: %w", err)
	}
	return buf.String(), nil
}

func (c *CommentedConfig) mapping(p *Property, values map[string]any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	seen := make(map[string]bool, len(values))

	add := func(name string, child *Property) error {
		v, ok := values[name]
		if !ok {
			return nil
		}
		seen[name] = true
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		if child != nil {
			key.HeadComment = comment(annotation(child))
		}
		val, err := c.value(child, v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		node.Content = append(node.Content, key, val)
		return nil
	}

	if p != nil {
		for _, child := range p.Properties {
			if err := add(child.Name, child); err != nil {
				return nil, err
			}
		}
	}

	var rest []string
	for name := range values {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		if err := add(name, nil); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (c *CommentedConfig) value(p *Property, v any) (*yaml.Node, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}

	switch v := v.(type) {
	case map[string]any:
		return c.mapping(p, v)
	case nil:
		return scalar("!!null", "null"), nil
	case string:
		n := scalar("!!str", v)
		if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
			n.Style = yaml.DoubleQuotedStyle
		}
		return n, nil
	case bool:
		return scalar("!!bool", fmt.Sprint(v)), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return scalar("!!int", fmt.Sprint(v)), nil
	case *big.Int:
		return scalar("!!int", v.String()), nil
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return scalar("!!int", v.String()), nil
		}
		return scalar("!!float", v.String()), nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			n, err := c.value(nil, item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

// annotation builds the comment shown above a key.
func annotation(p *Property) string {
	var lines []string
	if p.Title != "" {
		lines = append(lines, p.Title)
	}
	if p.Description != "" && p.Description != p.Title {
		lines = append(lines, strings.Split(p.Description, "\n")...)
	}
	if len(p.Enum) > 0 && !strings.Contains(p.Description, "\n- ") {
		lines = append(lines, "Possible options: <"+strings.Join(p.Enum, ", ")+">")
	}
	return strings.Join(lines, "\n")
}

func comment(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = "#"
		} else {
			lines[i] = "# " + l
		}
	}
	return strings.Join(lines, "\n")
}
