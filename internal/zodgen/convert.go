// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package zodgen

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/swaggen/internal/parser"
	"github.com/api2spec/swaggen/internal/util"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

const indentUnit = "  "

// predefined maps TypeScript keyword types to zod.
var predefined = map[string]string{
	"string":  "z.string()",
	"number":  "z.number()",
	"boolean": "z.boolean()",
	"bigint":  "z.bigint()",
	"symbol":  "z.symbol()",
	"any":     "z.any()",
	"unknown": "z.unknown()",
	"void":    "z.void()",
	"never":   "z.never()",
	"object":  "z.record(z.any())",
}

// builtins maps global type names that are not declared in the source.
var builtins = map[string]string{
	"Date": "z.date()",
	"File": "z.instanceof(File)",
	"Blob": "z.instanceof(Blob)",
}

// converter renders type nodes of one parsed file as zod expressions.
type converter struct {
	pf  *parser.ParsedTSFile
	reg *Registry

	// emitted holds the declarations whose schema constant is already defined
	emitted map[string]bool

	// lazy is set when the declaration being rendered refers to a schema defined later
	lazy bool
}

// SchemaName is the exported constant holding the schema of a declaration.
func SchemaName(name string) string {
	return util.ToCamelCase(name) + "Schema"
}

func (c *converter) text(n *sitter.Node) string {
	return c.pf.Text(n)
}

func (c *converter) ref(name string) string {
	if !c.reg.Has(name) {
		if expr, ok := builtins[name]; ok {
			return expr
		}
		return "z.any()"
	}
	schema := SchemaName(name)
	if !c.emitted[name] {
		c.lazy = true
		return "z.lazy(() => " + schema + ")"
	}
	return schema
}

// expr renders a type node; indent is the indentation of the line the expression starts on.
func (c *converter) expr(n *sitter.Node, indent string) string {
	if n == nil {
		return "z.any()"
	}

	switch n.Type() {
	case "predefined_type":
		if expr, ok := predefined[c.text(n)]; ok {
			return expr
		}
	case "type_identifier":
		return c.ref(c.text(n))
	case "parenthesized_type", "readonly_type":
		if n.NamedChildCount() > 0 {
			return c.expr(n.NamedChild(0), indent)
		}
	case "array_type":
		return "z.array(" + c.expr(n.NamedChild(0), indent) + ")"
	case "generic_type":
		return c.generic(n, indent)
	case "union_type":
		return c.union(n, indent)
	case "intersection_type":
		members := flatten(n, "intersection_type")
		out := c.expr(members[0], indent)
		for _, m := range members[1:] {
			out += ".and(" + c.expr(m, indent) + ")"
		}
		return out
	case "object_type":
		props, index := parser.ObjectProperties(n, c.pf.Content)
		return c.object(props, index, indent)
	case "literal_type", "undefined", "null":
		return c.literal(n)
	case "tuple_type":
		items := make([]string, 0, n.NamedChildCount())
		for i := 0; i < int(n.NamedChildCount()); i++ {
			items = append(items, c.expr(n.NamedChild(i), indent))
		}
		return "z.tuple([" + strings.Join(items, ", ") + "])"
	case "optional_type":
		return c.expr(n.NamedChild(0), indent) + ".optional()"
	case "template_literal_type":
		return "z.string()"
	}
	return "z.any()"
}

func (c *converter) literal(n *sitter.Node) string {
	switch text := c.text(n); text {
	case "null":
		return "z.null()"
	case "undefined":
		return "z.undefined()"
	default:
		return "z.literal(" + text + ")"
	}
}

func (c *converter) generic(n *sitter.Node, indent string) string {
	name := c.text(n.ChildByFieldName("name"))
	var args []*sitter.Node
	if list := n.ChildByFieldName("type_arguments"); list != nil {
		for i := 0; i < int(list.NamedChildCount()); i++ {
			args = append(args, list.NamedChild(i))
		}
	}

	switch {
	case (name == "Array" || name == "ReadonlyArray") && len(args) == 1:
		return "z.array(" + c.expr(args[0], indent) + ")"
	case name == "Record" && len(args) == 2:
		return "z.record(" + c.expr(args[1], indent) + ")"
	case name == "Promise" && len(args) == 1:
		return "z.promise(" + c.expr(args[0], indent) + ")"
	}
	return "z.any()"
}

// union folds null and undefined members into nullable and optional modifiers.
func (c *converter) union(n *sitter.Node, indent string) string {
	var parts []string
	nullable, optional := false, false
	for _, m := range flatten(n, "union_type") {
		switch c.text(m) {
		case "null":
			nullable = true
		case "undefined":
			optional = true
		default:
			parts = append(parts, c.expr(m, indent))
		}
	}

	var out string
	switch len(parts) {
	case 0:
		if nullable {
			out, nullable = "z.null()", false
		} else {
			out, optional = "z.undefined()", false
		}
	case 1:
		out = parts[0]
	default:
		out = "z.union([" + strings.Join(parts, ", ") + "])"
	}
	if nullable {
		out += ".nullable()"
	}
	if optional {
		out += ".optional()"
	}
	return out
}

// flatten collects the operands of a left-nested binary type node.
func flatten(n *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == kind {
			out = append(out, flatten(child, kind)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

func propertyKey(name string) string {
	if identifierRe.MatchString(name) {
		return name
	}
	quoted, _ := json.Marshal(name)
	return string(quoted)
}

// shape renders the object literal passed to z.object or .extend.
func (c *converter) shape(props []parser.TSProperty, indent string) string {
	if len(props) == 0 {
		return "{}"
	}
	inner := indent + indentUnit
	var b strings.Builder
	b.WriteString("{\n")
	for _, p := range props {
		value := c.expr(p.Type, inner)
		if p.IsOptional && !strings.HasSuffix(value, ".optional()") {
			value += ".optional()"
		}
		b.WriteString(inner + propertyKey(p.Name) + ": " + value + ",\n")
	}
	b.WriteString(indent + "}")
	return b.String()
}

func (c *converter) object(props []parser.TSProperty, index *sitter.Node, indent string) string {
	if len(props) == 0 && index != nil {
		return "z.record(" + c.expr(index, indent) + ")"
	}
	out := "z.object(" + c.shape(props, indent) + ")"
	if index != nil {
		out += ".catchall(" + c.expr(index, indent) + ")"
	}
	return out
}

// declaration renders the schema of one declaration.
func (c *converter) declaration(decl parser.Declaration) string {
	switch decl.Kind {
	case parser.KindEnum:
		return c.enum(decl)
	case parser.KindTypeAlias:
		return c.expr(decl.Type, "")
	}

	if len(decl.Extends) == 0 {
		return c.object(decl.Properties, decl.IndexType, "")
	}

	ready := true
	for _, base := range decl.Extends {
		if c.reg.Has(base) && !c.emitted[base] {
			ready = false
		}
	}

	out := c.ref(decl.Extends[0])
	if !ready || !c.reg.Has(decl.Extends[0]) {
		for _, base := range decl.Extends[1:] {
			out += ".and(" + c.ref(base) + ")"
		}
		if len(decl.Properties) > 0 {
			out += ".and(z.object(" + c.shape(decl.Properties, "") + "))"
		}
		return out
	}
	for _, base := range decl.Extends[1:] {
		if c.reg.Has(base) {
			out += ".merge(" + c.ref(base) + ")"
		}
	}
	if len(decl.Properties) > 0 {
		out += ".extend(" + c.shape(decl.Properties, "") + ")"
	}
	if decl.IndexType != nil {
		out += ".catchall(" + c.expr(decl.IndexType, "") + ")"
	}
	return out
}

// enum uses z.nativeEnum for exported enums and a literal union otherwise.
func (c *converter) enum(decl parser.Declaration) string {
	if decl.IsExported {
		return "z.nativeEnum(" + decl.Name + ")"
	}
	var literals []string
	for i, m := range decl.Members {
		value := m.Value
		if value == "" {
			value = strconv.Itoa(i)
		}
		literals = append(literals, "z.literal("+value+")")
	}
	switch len(literals) {
	case 0:
		return "z.never()"
	case 1:
		return literals[0]
	}
	return "z.union([" + strings.Join(literals, ", ") + "])"
}
