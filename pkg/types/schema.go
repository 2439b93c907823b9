// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Schema represents an OpenAPI schema object.
// Only the keywords that shape the emitted TypeScript types are kept.
type Schema struct {
	// Ref is a reference to another schema ($ref)
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Type is the data type (string, number, integer, boolean, array, object)
	Type string `json:"type,omitempty" yaml:"-"`

	// Format is the data format (date-time, binary, uuid, etc.)
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Enum is a list of allowed values
	Enum []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Nullable is set by the 3.0 keyword or by "null" in a 3.1 type list
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	// Items is the schema for array items
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Properties maps property names to their schemas
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Required is a list of required property names
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`

	// AdditionalProperties is the schema for additional properties
	AdditionalProperties *Schema `json:"additionalProperties,omitempty" yaml:"-"`

	// AdditionalPropertiesAllowed is set when additionalProperties is the literal true
	AdditionalPropertiesAllowed bool `json:"-" yaml:"-"`

	AllOf []*Schema `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

// schemaAlias drops the methods of Schema so the default decoder can be reused.
type schemaAlias Schema

// UnmarshalYAML accepts both the 3.0 scalar "type" and the 3.1 type list,
// and additionalProperties given as a boolean or a schema.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		schemaAlias `yaml:",inline"`
		RawType     yaml.Node `yaml:"type"`
		RawAddProps yaml.Node `yaml:"additionalProperties"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*s = Schema(raw.schemaAlias)

	switch raw.RawType.Kind {
	case 0:
	case yaml.ScalarNode:
		s.Type = raw.RawType.Value
	case yaml.SequenceNode:
		for _, item := range raw.RawType.Content {
			if item.Value == "null" {
				s.Nullable = true
				continue
			}
			if s.Type == "" {
				s.Type = item.Value
			}
		}
	default:
		return fmt.Errorf("line %d: schema type must be a string or a list", raw.RawType.Line)
	}

	switch raw.RawAddProps.Kind {
	case 0:
	case yaml.ScalarNode:
		var allowed bool
		if err := raw.RawAddProps.Decode(&allowed); err != nil {
			return fmt.Errorf("line %d: additionalProperties: %w", raw.RawAddProps.Line, err)
		}
		s.AdditionalPropertiesAllowed = allowed
	case yaml.MappingNode:
		var add Schema
		if err := raw.RawAddProps.Decode(&add); err != nil {
			return err
		}
		s.AdditionalProperties = &add
	}
	return nil
}

// IsRequired reports whether the named property is listed as required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
