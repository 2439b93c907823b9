// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package zodgen writes zod schemas for the declarations of a TypeScript file.
package zodgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/api2spec/swaggen/internal/parser"
)

// DefaultContractsImport is the module the schemas import declared types from.
const DefaultContractsImport = "./data-contracts"

// ErrInvalidOutput is returned when the generated source does not re-parse cleanly.
var ErrInvalidOutput = errors.New("generated schema failed validation")

// Options configures a Generator.
type Options struct {
	// ContractsImport is the module specifier of the source file, as seen from the output
	ContractsImport string

	// SkipValidation disables re-parsing the generated source
	SkipValidation bool

	Logger *slog.Logger
}

// Generator translates TypeScript declarations into zod schemas.
type Generator struct {
	parser *parser.TypeScriptParser
	opts   Options
	log    *slog.Logger
}

// New creates a Generator. Call Close when done.
func New(opts Options) *Generator {
	if opts.ContractsImport == "" {
		opts.ContractsImport = DefaultContractsImport
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{parser: parser.NewTypeScriptParser(), opts: opts, log: log}
}

// Close releases the parser.
func (g *Generator) Close() {
	g.parser.Close()
}

// Generate returns the schema module for the TypeScript source src.
func (g *Generator) Generate(ctx context.Context, filename string, src []byte) ([]byte, error) {
	pf, err := g.parser.Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	if pf.HasSyntaxErrors() {
		g.log.Warn("source has syntax errors", "file", filename)
	}

	reg := NewRegistry(pf.Content)
	for _, decl := range pf.Declarations {
		if !reg.Add(decl) {
			g.log.Warn("duplicate declaration skipped", "name", decl.Name, "line", decl.Line)
		}
	}

	c := &converter{pf: pf, reg: reg, emitted: make(map[string]bool)}
	imports := make(map[string]bool)
	var body strings.Builder
	var expected []string

	for _, name := range reg.Order() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decl, _ := reg.Get(name)

		c.lazy = false
		expr := c.declaration(decl)
		schema := SchemaName(name)

		annotation := ""
		switch {
		case decl.Kind == parser.KindEnum && decl.IsExported:
			imports[name] = true
		case c.lazy && decl.IsExported:
			imports[name] = true
			annotation = ": z.ZodSchema<" + name + ">"
		case c.lazy:
			annotation = ": z.ZodSchema<any>"
		}

		if decl.Description != "" {
			body.WriteString("/** " + strings.ReplaceAll(decl.Description, "\n", " ") + " */\n")
		}
		fmt.Fprintf(&body, "export const %s%s = %s;\n\n", schema, annotation, expr)
		c.emitted[name] = true
		expected = append(expected, schema)
		g.log.Debug("schema generated", "type", name, "schema", schema, "lazy", c.lazy)
	}

	out := []byte(header(imports, g.opts.ContractsImport) + strings.TrimRight(body.String(), "\n") + "\n")
	if !g.opts.SkipValidation {
		if err := g.validate(ctx, out, expected); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func header(imports map[string]bool, contracts string) string {
	var b strings.Builder
	b.WriteString("import { z } from 'zod';\n")
	if len(imports) > 0 {
		names := make([]string, 0, len(imports))
		for name := range imports {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "import { %s } from '%s';\n", strings.Join(names, ", "), contracts)
	}
	b.WriteString("\n")
	return b.String()
}

// validate re-parses the generated module and checks every schema was emitted.
func (g *Generator) validate(ctx context.Context, out []byte, expected []string) error {
	pf, err := g.parser.Parse(ctx, "schema.ts", out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	defer pf.Close()

	if pf.HasSyntaxErrors() {
		return fmt.Errorf("%w: syntax errors in output", ErrInvalidOutput)
	}
	found := make(map[string]bool)
	for _, name := range pf.ExportedConsts() {
		found[name] = true
	}
	var missing []string
	for _, name := range expected {
		if !found[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidOutput, strings.Join(missing, ", "))
	}
	return nil
}

// GenerateFile reads input and writes the schema module to output.
// The contracts import is derived from the relative location of the two files
// unless set in opts.
func GenerateFile(ctx context.Context, input, output string, opts Options) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	if opts.ContractsImport == "" {
		opts.ContractsImport = ImportPath(filepath.Dir(output), input)
	}

	g := New(opts)
	defer g.Close()

	out, err := g.Generate(ctx, input, src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

// ImportPath returns the relative module specifier of target as imported from fromDir.
func ImportPath(fromDir, target string) string {
	target = strings.TrimSuffix(target, filepath.Ext(target))
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return DefaultContractsImport
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
