// SPDX-License-Identifier: Apache-2.0
package config

import (
	"encoding/json"
	"strings"
)

const jsonSchemaDraft = "https://json-schema.org/draft/2020-12/schema"

// schemaNode is one object or leaf in a JSON Schema document. The root and
// the dotted-key sections are objects that reject unknown properties.
type schemaNode struct {
	Schema               string                 `json:"$schema,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type"`
	Default              interface{}            `json:"default,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	Minimum              *int                   `json:"minimum,omitempty"`
	Maximum              *int                   `json:"maximum,omitempty"`
	WriteOnly            bool                   `json:"writeOnly,omitempty"`
	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

func objectNode() *schemaNode {
	closed := false
	return &schemaNode{Type: "object", Properties: map[string]*schemaNode{}, AdditionalProperties: &closed}
}

// child returns the object stored under name, creating it when missing.
func (n *schemaNode) child(name string) *schemaNode {
	if c, ok := n.Properties[name]; ok {
		return c
	}
	c := objectNode()
	n.Properties[name] = c
	return c
}

func leafNode(def ConfigKeyDefinition) *schemaNode {
	leaf := &schemaNode{Description: def.Description, Default: def.Default, WriteOnly: def.Sensitive}
	switch def.Type {
	case "bool":
		leaf.Type = "boolean"
	case "int":
		leaf.Type = "integer"
		if def.Max > 0 {
			lo, hi := def.Min, def.Max
			leaf.Minimum, leaf.Maximum = &lo, &hi
		}
	case "enum":
		leaf.Type = "string"
		leaf.Enum = def.EnumValues
	default:
		leaf.Type = "string"
		leaf.Pattern = def.Pattern
	}
	return leaf
}

// GenerateJSONSchemaForScope describes the keys allowed in scope, or all
// keys when scope is nil. Keys forbidden in the scope are left out.
func GenerateJSONSchemaForScope(scope *ConfigScope) ([]byte, error) {
	root := objectNode()
	root.Schema = jsonSchemaDraft
	root.Title = "Loadstar Configuration"
	root.Description = "Configuration schema for the loadstar setup wizard"
	if scope != nil {
		root.Title = "Loadstar " + strings.ToUpper(getScopeName(*scope)[:1]) + getScopeName(*scope)[1:] + " Configuration"
		root.Description = "Keys allowed in " + displayConfigPath(*scope)
	}

	for _, key := range Keys() {
		def := ConfigRegistry[key]
		if scope != nil {
			if c := def.constraints(*scope); c != nil && c.Forbidden {
				continue
			}
		}
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			node = node.child(part)
		}
		node.Properties[parts[len(parts)-1]] = leafNode(def)
	}

	return json.MarshalIndent(root, "", "  ")
}
