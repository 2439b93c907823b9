// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package zodgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/swaggen/internal/parser"
)

const contracts = `/* eslint-disable */
export enum PetStatus {
  Available = "available",
  Sold = "sold",
}

/** A pet */
export interface Pet {
  id: number;
  name: string;
  tag?: string | null;
  status?: PetStatus;
  owner?: Owner;
}

export interface Owner {
  name: string;
  pets: Pet[];
}

export type PetList = Pet[];

export interface Inventory {
  [key: string]: number;
}

export interface Cat extends Pet {
  lives: number;
}

export type Shape = { kind: 'circle'; radius: number } | { kind: 'square'; size: number };

export type Tags = Record<string, string[]>;
`

func generate(t *testing.T, src string) string {
	t.Helper()
	g := New(Options{})
	defer g.Close()
	out, err := g.Generate(context.Background(), "data-contracts.ts", []byte(src))
	require.NoError(t, err)
	return string(out)
}

func TestGenerate_Header(t *testing.T) {
	out := generate(t, contracts)
	assert.True(t, strings.HasPrefix(out, "import { z } from 'zod';\nimport { Owner, PetStatus } from './data-contracts';\n\n"))
}

func TestGenerate_Schemas(t *testing.T) {
	out := generate(t, contracts)

	assert.Contains(t, out, "export const petStatusSchema = z.nativeEnum(PetStatus);")
	assert.Contains(t, out, "/** A pet */\nexport const petSchema = z.object({\n"+
		"  id: z.number(),\n"+
		"  name: z.string(),\n"+
		"  tag: z.string().nullable().optional(),\n"+
		"  status: petStatusSchema.optional(),\n"+
		"  owner: ownerSchema.optional(),\n"+
		"});")
	assert.Contains(t, out, "export const petListSchema = z.array(petSchema);")
	assert.Contains(t, out, "export const inventorySchema = z.record(z.number());")
	assert.Contains(t, out, "export const catSchema = petSchema.extend({\n  lives: z.number(),\n});")
	assert.Contains(t, out, "export const shapeSchema = z.union([z.object({\n  kind: z.literal('circle'),\n  radius: z.number(),\n}), z.object({\n  kind: z.literal('square'),\n  size: z.number(),\n})]);")
	assert.Contains(t, out, "export const tagsSchema = z.record(z.array(z.string()));")
	assert.True(t, strings.HasSuffix(out, ";\n"))
}

func TestGenerate_CyclesUseLazy(t *testing.T) {
	out := generate(t, contracts)

	assert.Contains(t, out, "export const ownerSchema: z.ZodSchema<Owner> = z.object({\n"+
		"  name: z.string(),\n"+
		"  pets: z.array(z.lazy(() => petSchema)),\n"+
		"});")
	assert.Less(t, strings.Index(out, "ownerSchema:"), strings.Index(out, "petSchema ="))
}

func TestGenerate_DependencyOrder(t *testing.T) {
	out := generate(t, `export type A = B[];
export type B = C | null;
export type C = string;
`)
	c := strings.Index(out, "export const cSchema")
	b := strings.Index(out, "export const bSchema")
	a := strings.Index(out, "export const aSchema")
	assert.True(t, c < b && b < a, out)
	assert.Contains(t, out, "export const bSchema = cSchema.nullable();")
	assert.NotContains(t, out, "z.lazy")
	assert.True(t, strings.HasPrefix(out, "import { z } from 'zod';\n\n"))
}

func TestGenerate_AliasToDeclaration(t *testing.T) {
	out := generate(t, `export interface B {
  id: number;
}
export type A = B;
`)
	assert.Contains(t, out, "export const bSchema = z.object({\n  id: z.number(),\n});")
	assert.Contains(t, out, "export const aSchema = bSchema;")
}

func TestGenerate_NullableAlias(t *testing.T) {
	out := generate(t, `export interface B {
  id: number;
}
export type A = B | null;
`)
	assert.Contains(t, out, "export const aSchema = bSchema.nullable();")
	assert.Less(t, strings.Index(out, "bSchema ="), strings.Index(out, "aSchema ="))
}

func TestGenerate_SelfReference(t *testing.T) {
	out := generate(t, `export interface Node {
  children?: Node[];
}
`)
	assert.Contains(t, out, "export const nodeSchema: z.ZodSchema<Node> = z.object({\n  children: z.array(z.lazy(() => nodeSchema)).optional(),\n});")
}

func TestGenerate_UnknownAndBuiltinTypes(t *testing.T) {
	out := generate(t, `export interface Upload {
  file: File;
  at: Date;
  meta: Unknown;
  "content-type"?: string;
}
`)
	assert.Contains(t, out, "  file: z.instanceof(File),\n")
	assert.Contains(t, out, "  at: z.date(),\n")
	assert.Contains(t, out, "  meta: z.any(),\n")
	assert.Contains(t, out, "  \"content-type\": z.string().optional(),\n")
}

func TestGenerate_LocalEnum(t *testing.T) {
	out := generate(t, `enum Level {
  Low = 1,
  High = 2,
}
`)
	assert.Contains(t, out, "export const levelSchema = z.union([z.literal(1), z.literal(2)]);")
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(Options{})
	defer g.Close()
	_, err := g.Generate(ctx, "data-contracts.ts", []byte(contracts))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	g := New(Options{})
	defer g.Close()
	ctx := context.Background()

	err := g.validate(ctx, []byte("import { z } from 'zod';\nexport const aSchema = z.string();\n"), []string{"aSchema"})
	assert.NoError(t, err)

	err = g.validate(ctx, []byte("import { z } from 'zod';\nexport const aSchema = z.string();\n"), []string{"aSchema", "bSchema"})
	require.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "bSchema")

	err = g.validate(ctx, []byte("import { z } from 'zod';\nexport const bSchema = z.string();\nexport const aSchema = bSchema.nullable();\nexport const cSchema = aSchema;\n"), []string{"bSchema", "aSchema", "cSchema"})
	assert.NoError(t, err)

	err = g.validate(ctx, []byte("export const aSchema = z.object({;\n"), []string{"aSchema"})
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestRegistry_Order(t *testing.T) {
	src := []byte(`export interface A { b: B; c: C }
export interface B { c: C }
export type C = string;
export interface D { d?: D }
`)
	p := parser.NewTypeScriptParser()
	defer p.Close()
	pf, err := p.Parse(context.Background(), "x.ts", src)
	require.NoError(t, err)
	defer pf.Close()

	reg := NewRegistry(pf.Content)
	for _, d := range pf.Declarations {
		require.True(t, reg.Add(d))
	}
	assert.False(t, reg.Add(pf.Declarations[0]))
	assert.Equal(t, 4, reg.Count())
	assert.Equal(t, []string{"A", "B", "C", "D"}, reg.Names())
	assert.Equal(t, []string{"B", "C"}, reg.Dependencies("A"))
	assert.Equal(t, []string{"D"}, reg.Dependencies("D"))
	assert.Nil(t, reg.Dependencies("Missing"))
	assert.Equal(t, []string{"C", "B", "A", "D"}, reg.Order())
}

func TestImportPath(t *testing.T) {
	tests := []struct {
		from, target, expected string
	}{
		{"src/api", "src/api/data-contracts.ts", "./data-contracts"},
		{"src/schemas", "src/api/data-contracts.ts", "../api/data-contracts"},
		{"src", "src/api/data-contracts.ts", "./api/data-contracts"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ImportPath(tt.from, tt.target))
	}
}

func TestGenerateFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "api", "data-contracts.ts")
	output := filepath.Join(dir, "schemas", "schema.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(input), 0755))
	require.NoError(t, os.WriteFile(input, []byte(contracts), 0644))

	require.NoError(t, GenerateFile(context.Background(), input, output, Options{}))

	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "from '../api/data-contracts';")
	assert.Contains(t, string(out), "export const petSchema")

	err = GenerateFile(context.Background(), filepath.Join(dir, "missing.ts"), output, Options{})
	assert.Error(t, err)
}
