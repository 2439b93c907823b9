// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/api2spec/swaggen/internal/util"
	"github.com/api2spec/swaggen/pkg/types"
)

// identifierRe matches a bare TypeScript identifier.
var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// namedTypeRe matches "Pet", "Pet[]" and "(Pet)[]".
var namedTypeRe = regexp.MustCompile(`^(?:[A-Za-z_$][A-Za-z0-9_$]*|\([A-Za-z_$][A-Za-z0-9_$]*\))(?:\[\])?$`)

// identifierScanRe finds identifier tokens inside a type expression.
var identifierScanRe = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

// ContractKind is the TypeScript declaration form of a data contract.
type ContractKind string

// Contract kinds.
const (
	ContractInterface ContractKind = "interface"
	ContractEnum      ContractKind = "enum"
	ContractType      ContractKind = "type"
)

// Contract is one exported declaration in data-contracts.ts.
type Contract struct {
	Name        string
	Description string
	Kind        ContractKind

	// Fields are the interface members, sorted by name
	Fields []Field

	// Members are the enum members
	Members []EnumMember

	// Expr is the right-hand side of a type alias
	Expr string

	// Extends lists the interfaces an interface extends
	Extends []string
}

// Field is an interface member.
type Field struct {
	Name        string
	Optional    bool
	Type        string
	Description string
}

// EnumMember is one member of an exported enum.
type EnumMember struct {
	Key   string
	Value string
}

// TypeName converts a component schema name into its TypeScript type name.
func TypeName(name string) string {
	return util.ToPascalCase(name)
}

// propertyKey quotes a property name that is not a valid identifier.
func propertyKey(name string) string {
	if identifierRe.MatchString(name) {
		return name
	}
	quoted, _ := json.Marshal(name)
	return string(quoted)
}

// literal renders an enum value as a TypeScript literal.
func literal(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		quoted, _ := json.Marshal(val)
		return string(quoted)
	default:
		return fmt.Sprint(val)
	}
}

func needsParens(expr string) bool {
	return strings.Contains(expr, " | ") || strings.Contains(expr, " & ")
}

// TSType renders a schema as an inline TypeScript type expression.
func TSType(s *types.Schema) string {
	if s == nil {
		return "any"
	}
	expr := baseType(s)
	if s.Nullable && expr != "null" && expr != "any" {
		expr += " | null"
	}
	return expr
}

func baseType(s *types.Schema) string {
	if s.Ref != "" {
		return TypeName(types.RefName(s.Ref))
	}
	if len(s.AllOf) > 0 {
		return joinTypes(s.AllOf, " & ")
	}
	if len(s.OneOf) > 0 {
		return joinTypes(s.OneOf, " | ")
	}
	if len(s.AnyOf) > 0 {
		return joinTypes(s.AnyOf, " | ")
	}
	if len(s.Enum) > 0 {
		parts := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			parts = append(parts, literal(v))
		}
		return strings.Join(parts, " | ")
	}

	switch s.Type {
	case "string":
		if s.Format == "binary" {
			return "File"
		}
		return "string"
	case "integer", "number":
		return "number"
	case "boolean":
		return "boolean"
	case "null":
		return "null"
	case "array":
		elem := TSType(s.Items)
		if needsParens(elem) {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case "object", "":
		if len(s.Properties) > 0 {
			return inlineObject(s)
		}
		if s.AdditionalProperties != nil {
			return "Record<string, " + TSType(s.AdditionalProperties) + ">"
		}
		if s.Type == "object" || s.AdditionalPropertiesAllowed {
			return "Record<string, any>"
		}
	}
	return "any"
}

func joinTypes(schemas []*types.Schema, sep string) string {
	parts := make([]string, 0, len(schemas))
	for _, sub := range schemas {
		t := TSType(sub)
		if needsParens(t) {
			t = "(" + t + ")"
		}
		parts = append(parts, t)
	}
	return strings.Join(parts, sep)
}

func inlineObject(s *types.Schema) string {
	fields := objectFields(s)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		parts = append(parts, f.Name+opt+": "+f.Type)
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func objectFields(s *types.Schema) []Field {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		prop := s.Properties[name]
		f := Field{
			Name:     propertyKey(name),
			Optional: !s.IsRequired(name),
			Type:     TSType(prop),
		}
		if prop != nil {
			f.Description = prop.Description
		}
		fields = append(fields, f)
	}
	return fields
}

// isObjectSchema reports whether a schema is best declared as an interface.
func isObjectSchema(s *types.Schema) bool {
	return s != nil && s.Ref == "" && len(s.OneOf) == 0 && len(s.AnyOf) == 0 && len(s.Enum) == 0 &&
		(s.Type == "object" || s.Type == "") && len(s.Properties) > 0 && !s.Nullable
}

// enumKey derives an enum member name from its value.
func enumKey(v interface{}) string {
	key := util.ToPascalCase(fmt.Sprint(v))
	if key == "" {
		return "Empty"
	}
	if key[0] >= '0' && key[0] <= '9' {
		key = "Value" + key
	}
	if !identifierRe.MatchString(key) {
		return propertyKey(key)
	}
	return key
}

// BuildContract declares a named schema.
func BuildContract(name string, s *types.Schema, extractEnums bool) Contract {
	c := Contract{Name: name}
	if s == nil {
		c.Kind = ContractType
		c.Expr = "any"
		return c
	}
	c.Description = s.Description

	switch {
	case extractEnums && len(s.Enum) > 0 && !s.Nullable && s.Ref == "":
		c.Kind = ContractEnum
		for _, v := range s.Enum {
			if v == nil {
				continue
			}
			c.Members = append(c.Members, EnumMember{Key: enumKey(v), Value: literal(v)})
		}
	case isObjectSchema(s):
		c.Kind = ContractInterface
		c.Fields = objectFields(s)
	case len(s.AllOf) > 0 && allOfExtendsRefs(s):
		c.Kind = ContractInterface
		for _, sub := range s.AllOf {
			if sub.Ref != "" {
				c.Extends = append(c.Extends, TypeName(types.RefName(sub.Ref)))
				continue
			}
			c.Fields = append(c.Fields, objectFields(sub)...)
		}
	default:
		c.Kind = ContractType
		c.Expr = TSType(s)
	}
	return c
}

// allOfExtendsRefs reports whether an allOf is a list of refs plus inline objects,
// which reads naturally as an interface with extends.
func allOfExtendsRefs(s *types.Schema) bool {
	if s.Nullable {
		return false
	}
	for _, sub := range s.AllOf {
		if sub == nil {
			return false
		}
		if sub.Ref != "" {
			continue
		}
		if !isObjectSchema(sub) {
			return false
		}
	}
	return true
}

// referencedNames returns the known names that appear as identifiers in the given type expressions.
func referencedNames(exprs []string, known map[string]bool) []string {
	seen := make(map[string]bool)
	for _, expr := range exprs {
		for _, ident := range identifierScanRe.FindAllString(expr, -1) {
			if known[ident] {
				seen[ident] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
