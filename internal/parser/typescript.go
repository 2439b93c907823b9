// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser extracts type declarations from generated TypeScript sources.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser parses TypeScript sources using tree-sitter.
// A parser is not safe for concurrent use.
type TypeScriptParser struct {
	parser *sitter.Parser
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *TypeScriptParser {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return &TypeScriptParser{parser: parser}
}

// DeclarationKind is the form of a top-level type declaration.
type DeclarationKind string

// Declaration kinds.
const (
	KindInterface DeclarationKind = "interface"
	KindTypeAlias DeclarationKind = "type"
	KindEnum      DeclarationKind = "enum"
)

// ParsedTSFile represents a parsed TypeScript source file.
type ParsedTSFile struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// RootNode is the root node of the AST
	RootNode *sitter.Node

	// Declarations are the interfaces, type aliases and enums in source order
	Declarations []Declaration

	// ZodSchemas contains extracted Zod schema definitions
	ZodSchemas []ZodSchema
}

// Declaration is a top-level interface, type alias or enum.
type Declaration struct {
	Name        string
	Kind        DeclarationKind
	Description string
	IsExported  bool

	// Line is the 1-based source line
	Line int

	// Extends lists the interfaces an interface extends
	Extends []string

	// Properties are the interface members
	Properties []TSProperty

	// IndexType is the value type of an interface index signature, if any
	IndexType *sitter.Node

	// Type is the right-hand side of a type alias
	Type *sitter.Node

	// Members are the enum members
	Members []TSEnumMember
}

// TSProperty represents a property in a TypeScript interface or object type.
type TSProperty struct {
	// Name is the property key with quotes removed
	Name string

	// Type is the property type node; nil when the property is untyped
	Type *sitter.Node

	// IsOptional indicates if the property is optional (has ?)
	IsOptional bool

	// IsReadonly indicates if the property is readonly
	IsReadonly bool

	// Description is from JSDoc comment
	Description string
}

// TSEnumMember is one enum member. Value is the initializer source text, or empty.
type TSEnumMember struct {
	Name  string
	Value string
}

// ZodSchema represents a Zod schema variable declaration.
type ZodSchema struct {
	// Name is the schema variable name
	Name string

	// Node is the tree-sitter node for the z.object() call or similar
	Node *sitter.Node

	// IsExported indicates if the schema is exported
	IsExported bool

	// Line is the source line number
	Line int
}

// Parse parses TypeScript source code from bytes.
func (p *TypeScriptParser) Parse(ctx context.Context, filename string, content []byte) (*ParsedTSFile, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		tree.Close()
		return nil, fmt.Errorf("failed to parse %s: no root node", filename)
	}

	pf := &ParsedTSFile{
		Path:     filename,
		Content:  content,
		Tree:     tree,
		RootNode: rootNode,
	}
	pf.Declarations = p.ExtractDeclarations(rootNode, content)
	pf.ZodSchemas = p.ExtractZodSchemas(rootNode, content)
	return pf, nil
}

// ParseSource parses TypeScript source code from a string.
func (p *TypeScriptParser) ParseSource(filename string, source string) (*ParsedTSFile, error) {
	return p.Parse(context.Background(), filename, []byte(source))
}

// ParseFile parses a TypeScript source file from disk.
func (p *TypeScriptParser) ParseFile(ctx context.Context, path string) (*ParsedTSFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(ctx, path, content)
}

// HasSyntaxErrors reports whether tree-sitter had to recover from invalid syntax.
func (pf *ParsedTSFile) HasSyntaxErrors() bool {
	return pf.RootNode.HasError()
}

// Declaration returns the declaration with the given name.
func (pf *ParsedTSFile) Declaration(name string) (Declaration, bool) {
	for _, d := range pf.Declarations {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// ExportedConsts returns the names of every top-level exported variable
// declarator, whatever its initializer.
func (pf *ParsedTSFile) ExportedConsts() []string {
	var names []string
	for i := 0; i < int(pf.RootNode.NamedChildCount()); i++ {
		node := pf.RootNode.NamedChild(i)
		if node.Type() != "export_statement" {
			continue
		}
		decl := node.ChildByFieldName("declaration")
		if decl == nil || (decl.Type() != "lexical_declaration" && decl.Type() != "variable_declaration") {
			continue
		}
		for j := 0; j < int(decl.NamedChildCount()); j++ {
			d := decl.NamedChild(j)
			if d.Type() != "variable_declarator" {
				continue
			}
			if name := d.ChildByFieldName("name"); name != nil {
				names = append(names, name.Content(pf.Content))
			}
		}
	}
	return names
}

// Text returns the source text of a node.
func (pf *ParsedTSFile) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(pf.Content)
}

// ExtractDeclarations collects the top-level declarations of a program.
func (p *TypeScriptParser) ExtractDeclarations(rootNode *sitter.Node, content []byte) []Declaration {
	var decls []Declaration
	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		node := rootNode.NamedChild(i)
		exported := false
		docNode := node
		if node.Type() == "export_statement" {
			inner := node.ChildByFieldName("declaration")
			if inner == nil {
				continue
			}
			node = inner
			exported = true
		}

		var decl *Declaration
		switch node.Type() {
		case "interface_declaration":
			decl = p.parseInterfaceDecl(node, content)
		case "type_alias_declaration":
			decl = p.parseTypeAliasDecl(node, content)
		case "enum_declaration":
			decl = p.parseEnumDecl(node, content)
		}
		if decl == nil || decl.Name == "" {
			continue
		}
		decl.IsExported = exported
		decl.Line = int(node.StartPoint().Row) + 1
		decl.Description = leadingDoc(docNode, content)
		decls = append(decls, *decl)
	}
	return decls
}

// parseInterfaceDecl parses an interface_declaration node.
func (p *TypeScriptParser) parseInterfaceDecl(node *sitter.Node, content []byte) *Declaration {
	decl := &Declaration{Kind: KindInterface}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier":
			if decl.Name == "" {
				decl.Name = child.Content(content)
			}
		case "extends_type_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				base := child.NamedChild(j)
				if base.Type() == "generic_type" {
					base = base.ChildByFieldName("name")
				}
				if base != nil {
					decl.Extends = append(decl.Extends, base.Content(content))
				}
			}
		case "object_type", "interface_body":
			decl.Properties, decl.IndexType = ObjectProperties(child, content)
		}
	}
	return decl
}

// ObjectProperties returns the property signatures of an object_type node
// and the value type of its index signature, if any.
func ObjectProperties(node *sitter.Node, content []byte) ([]TSProperty, *sitter.Node) {
	var properties []TSProperty
	var indexType *sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "property_signature":
			prop := parsePropertySignature(child, content)
			prop.Description = leadingDoc(child, content)
			properties = append(properties, prop)
		case "index_signature":
			indexType = annotatedType(child.ChildByFieldName("type"))
		}
	}
	return properties, indexType
}

// parsePropertySignature parses a property_signature node.
func parsePropertySignature(node *sitter.Node, content []byte) TSProperty {
	var prop TSProperty
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "property_identifier", "number":
			prop.Name = child.Content(content)
		case "string":
			prop.Name = unquote(child.Content(content))
		case "?":
			prop.IsOptional = true
		case "readonly":
			prop.IsReadonly = true
		case "type_annotation":
			prop.Type = annotatedType(child)
		}
	}
	return prop
}

// annotatedType skips the ':' of a type_annotation.
func annotatedType(node *sitter.Node) *sitter.Node {
	if node == nil || node.Type() != "type_annotation" || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(0)
}

// parseTypeAliasDecl parses a type_alias_declaration node.
func (p *TypeScriptParser) parseTypeAliasDecl(node *sitter.Node, content []byte) *Declaration {
	decl := &Declaration{Kind: KindTypeAlias}
	if name := node.ChildByFieldName("name"); name != nil {
		decl.Name = name.Content(content)
	}
	decl.Type = node.ChildByFieldName("value")
	return decl
}

// parseEnumDecl parses an enum_declaration node.
func (p *TypeScriptParser) parseEnumDecl(node *sitter.Node, content []byte) *Declaration {
	decl := &Declaration{Kind: KindEnum}
	if name := node.ChildByFieldName("name"); name != nil {
		decl.Name = name.Content(content)
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "enum_assignment":
			member := TSEnumMember{}
			if name := child.ChildByFieldName("name"); name != nil {
				member.Name = unquote(name.Content(content))
			}
			if value := child.ChildByFieldName("value"); value != nil {
				member.Value = value.Content(content)
			}
			decl.Members = append(decl.Members, member)
		case "property_identifier", "string", "number":
			decl.Members = append(decl.Members, TSEnumMember{Name: unquote(child.Content(content))})
		}
	}
	return decl
}

// leadingDoc returns the text of a /** */ comment directly before node.
func leadingDoc(node *sitter.Node, content []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := prev.Content(content)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// ExtractZodSchemas extracts Zod schema definitions from the AST.
func (p *TypeScriptParser) ExtractZodSchemas(rootNode *sitter.Node, content []byte) []ZodSchema {
	var schemas []ZodSchema
	seen := make(map[int]bool)

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		if node.Type() == "export_statement" {
			for i := 0; i < int(node.ChildCount()); i++ {
				child := node.Child(i)
				if child.Type() == "lexical_declaration" || child.Type() == "variable_declaration" {
					for _, zs := range p.extractZodFromDeclaration(child, content) {
						zs.IsExported = true
						if !seen[zs.Line] {
							seen[zs.Line] = true
							schemas = append(schemas, zs)
						}
					}
					return false
				}
			}
		}
		if node.Type() == "lexical_declaration" || node.Type() == "variable_declaration" {
			for _, zs := range p.extractZodFromDeclaration(node, content) {
				if !seen[zs.Line] {
					seen[zs.Line] = true
					schemas = append(schemas, zs)
				}
			}
		}
		return true
	})

	return schemas
}

// extractZodFromDeclaration extracts Zod schemas from a variable declaration.
func (p *TypeScriptParser) extractZodFromDeclaration(node *sitter.Node, content []byte) []ZodSchema {
	var schemas []ZodSchema
	for i := 0; i < int(node.NamedChildCount()); i++ {
		n := node.NamedChild(i)
		if n.Type() != "variable_declarator" {
			continue
		}
		name := n.ChildByFieldName("name")
		value := n.ChildByFieldName("value")
		if name == nil || value == nil || !p.isZodCall(value, content) {
			continue
		}
		schemas = append(schemas, ZodSchema{
			Name: name.Content(content),
			Node: value,
			Line: int(n.StartPoint().Row) + 1,
		})
	}
	return schemas
}

// isZodCall checks if a call_expression is a Zod method call, including chains such as z.string().email().
func (p *TypeScriptParser) isZodCall(node *sitter.Node, content []byte) bool {
	if node.Type() != "call_expression" {
		return false
	}

	callee := node.ChildByFieldName("function")
	if callee == nil {
		return false
	}
	if strings.HasPrefix(callee.Content(content), "z.") {
		return true
	}

	if callee.Type() == "member_expression" {
		if object := callee.ChildByFieldName("object"); object != nil {
			return p.isZodCall(object, content)
		}
	}
	return false
}

// walkNodes walks all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func (p *TypeScriptParser) walkNodes(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walkNodes(node.Child(i), fn)
	}
}

// Close cleans up parser resources.
func (p *TypeScriptParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Close cleans up the parsed file resources.
func (pf *ParsedTSFile) Close() {
	if pf.Tree != nil {
		pf.Tree.Close()
	}
}
