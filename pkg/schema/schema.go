// Package schema describes the allowed content of configuration documents and
// renders annotated YAML from such descriptions.
//
// A schema is a tree of Property values. Trees are assembled by the
// constructor functions in this package and are never patched after the
// fact: every call to a generator builds a new tree, so callers may keep or
// modify the result without affecting anyone else.
package schema

import (
	"encoding/json"
	"math/big"
)

// Type is a JSON schema type name.
type Type string

const (
	TypeObject  Type = "object"
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Property describes one key of a configuration document.
type Property struct {
	Name        string
	Title       string
	Description string
	Types       []Type
	Format      string
	Enum        []string
	Minimum     *big.Int
	Maximum     *big.Int

	// Default is the value placed in generated templates.
	Default any

	// Properties are the ordered children of an object.
	Properties []*Property
	Required   []string

	// Closed rejects keys not listed in Properties.
	Closed bool
}

// Object creates an object property with ordered children.
func Object(name, title string, children ...*Property) *Property {
	return &Property{
		Name:       name,
		Title:      title,
		Types:      []Type{TypeObject},
		Properties: children,
	}
}

// String creates a free-form string property.
func String(name, title, description string) *Property {
	return &Property{Name: name, Title: title, Description: description, Types: []Type{TypeString}}
}

// Enum creates a string property restricted to values, with def as the
// template value.
func Enum(name, title, description string, values []string, def string) *Property {
	enum := make([]string, len(values))
	copy(enum, values)
	return &Property{
		Name:        name,
		Title:       title,
		Description: description,
		Types:       []Type{TypeString},
		Enum:        enum,
		Default:     def,
	}
}

// Child returns the direct child with the given name.
func (p *Property) Child(name string) *Property {
	if p == nil {
		return nil
	}
	for _, c := range p.Properties {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Lookup follows a path of child names.
func (p *Property) Lookup(path ...string) *Property {
	cur := p
	for _, name := range path {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Names lists the names of the direct children in order.
func (p *Property) Names() []string {
	names := make([]string, len(p.Properties))
	for i, c := range p.Properties {
		names[i] = c.Name
	}
	return names
}

// Defaults assembles the template value tree: objects become maps of their
// children's defaults, leaves return Default.
func (p *Property) Defaults() any {
	if len(p.Properties) == 0 {
		return p.Default
	}
	out := make(map[string]any, len(p.Properties))
	for _, c := range p.Properties {
		if v := c.Defaults(); v != nil {
			out[c.Name] = v
		}
	}
	if len(out) == 0 {
		return p.Default
	}
	return out
}

// MarshalJSON renders the property as a JSON schema object. Defaults are
// emitted under the template_value keyword.
func (p *Property) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if p.Title != "" {
		out["title"] = p.Title
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	switch len(p.Types) {
	case 0:
	case 1:
		out["type"] = p.Types[0]
	default:
		out["type"] = p.Types
	}
	if p.Format != "" {
		out["format"] = p.Format
	}
	if len(p.Enum) > 0 {
		out["enum"] = p.Enum
	}
	if p.Minimum != nil {
		out["minimum"] = p.Minimum
	}
	if p.Maximum != nil {
		out["maximum"] = p.Maximum
	}
	if p.Default != nil && len(p.Properties) == 0 {
		out["template_value"] = p.Default
	}
	if len(p.Properties) > 0 {
		props := make(map[string]*Property, len(p.Properties))
		for _, c := range p.Properties {
			props[c.Name] = c
		}
		out["properties"] = props
		if p.Closed {
			out["additionalProperties"] = false
		}
	}
	if len(p.Required) > 0 {
		out["required"] = p.Required
	}
	return json.Marshal(out)
}
