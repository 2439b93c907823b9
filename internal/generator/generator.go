// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package generator

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/api2spec/swaggen/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// File names shared by every module.
const (
	DataContractsFile = "data-contracts.ts"
	HTTPClientFile    = "http-client.ts"
)

var (
	// ErrMissingHelpers is returned when the prepared config lacks a helper table.
	ErrMissingHelpers = errors.New("helper tables missing after OnPrepareConfig")

	// ErrNotPreprocessed is returned when a route leaves OnCreateRoute without annotations.
	ErrNotPreprocessed = errors.New("route has no preprocessed annotations after OnCreateRoute")

	// ErrNilDocument is returned when no document is given.
	ErrNilDocument = errors.New("openapi document is nil")
)

// Module is one generated API module.
type Module struct {
	Name   string
	Routes []types.Route
}

// Plan is the fully resolved generation input, before rendering.
type Plan struct {
	// Config is the configuration returned by OnPrepareConfig
	Config Config

	Routes    []types.Route
	Modules   []Module
	Contracts []Contract
}

// File is a rendered output file.
type File struct {
	Name    string
	Content []byte
}

// Result describes a completed generation.
type Result struct {
	Output string
	Files  []string
	Routes []types.Route
}

// NewPlan resolves routes and contracts and runs the hooks.
// OnPrepareConfig runs once; OnCreateRoute runs once per route, paths sorted
// and methods in get, put, post, delete, options, head, patch, trace order.
func NewPlan(ctx context.Context, doc *types.OpenAPI, cfg Config, hooks Hooks) (*Plan, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg = hooks.prepareConfig(cfg)
	if err := cfg.checkHelpers(); err != nil {
		return nil, err
	}
	log := cfg.logger()

	componentNames, components := componentContracts(doc, cfg.ExtractEnums)
	builder := newRouteBuilder(doc, cfg, componentNames)

	plan := &Plan{Config: cfg}
	for _, path := range sortedPaths(doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := doc.Paths[path]
		for _, mo := range item.Operations() {
			route := hooks.createRoute(builder.build(path, mo.Method, item, mo.Operation))
			if route.Preprocessed == nil {
				return nil, fmt.Errorf("%w: %s %s", ErrNotPreprocessed, mo.Method, path)
			}
			plan.Routes = append(plan.Routes, route)
			log.Debug("route created", "module", route.ModuleName, "route", route.RouteName, "method", mo.Method, "path", path)
		}
	}

	plan.Contracts = append(components, builder.extracted...)
	plan.Modules = groupModules(plan.Routes)
	warnSchemaCollisions(plan, log)
	return plan, nil
}

// componentContracts declares every component schema, sorted by name.
func componentContracts(doc *types.OpenAPI, extractEnums bool) ([]string, []Contract) {
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(doc.Components.Schemas))
	for k := range doc.Components.Schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(keys))
	contracts := make([]Contract, 0, len(keys))
	for _, k := range keys {
		name := TypeName(k)
		names = append(names, name)
		contracts = append(contracts, BuildContract(name, doc.Components.Schemas[k], extractEnums))
	}
	return names, contracts
}

func groupModules(routes []types.Route) []Module {
	index := make(map[string]int)
	var modules []Module
	for _, r := range routes {
		i, ok := index[r.ModuleName]
		if !ok {
			i = len(modules)
			index[r.ModuleName] = i
			modules = append(modules, Module{Name: r.ModuleName})
		}
		modules[i].Routes = append(modules[i].Routes, r)
	}
	sort.SliceStable(modules, func(a, b int) bool { return modules[a].Name < modules[b].Name })
	return modules
}

// warnSchemaCollisions logs contracts that map to a schema identifier already in use,
// such as components "user_dto" and "UserDto".
func warnSchemaCollisions(plan *Plan, log *slog.Logger) {
	seen := make(map[string]bool)
	for _, c := range plan.Contracts {
		schema := plan.Config.CommonHelpers.GetSchemaName(c.Name)
		if schema == "" {
			continue
		}
		if seen[schema] {
			log.Warn("schema name collision", "schema", schema, "type", c.Name)
			continue
		}
		seen[schema] = true
	}
}

// Render produces the output files of a plan, sorted by name.
func (p *Plan) Render() ([]File, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	contractNames := make(map[string]bool, len(p.Contracts))
	for _, c := range p.Contracts {
		contractNames[c.Name] = true
	}

	var files []File
	render := func(name, tmplName string, data any) error {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, tmplName, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		files = append(files, File{Name: name, Content: buf.Bytes()})
		return nil
	}

	if err := render(DataContractsFile, "data-contracts", contractsData{Config: p.Config, Contracts: p.Contracts}); err != nil {
		return nil, err
	}

	if p.Config.GenerateClient {
		clientTmpl := "http-client-" + p.Config.HTTPClientType
		if err := render(HTTPClientFile, clientTmpl, p.Config); err != nil {
			return nil, err
		}
		for _, m := range p.Modules {
			data := p.moduleData(m, contractNames)
			if err := render(m.Name+".ts", "module", data); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(files, func(a, b int) bool { return files[a].Name < files[b].Name })
	return files, nil
}

// Write renders the plan and writes every file into the output directory.
func (p *Plan) Write(ctx context.Context) (*Result, error) {
	files, err := p.Render()
	if err != nil {
		return nil, err
	}

	out := p.Config.Output
	if out == "" {
		out = "."
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{Output: out, Routes: p.Routes}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(out, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
		p.Config.logger().Debug("file written", "path", path, "bytes", len(f.Content))
	}
	return result, nil
}

// Generate plans, renders and writes a client for doc.
func Generate(ctx context.Context, doc *types.OpenAPI, cfg Config, hooks Hooks) (*Result, error) {
	plan, err := NewPlan(ctx, doc, cfg, hooks)
	if err != nil {
		return nil, err
	}
	return plan.Write(ctx)
}

type contractsData struct {
	Config    Config
	Contracts []Contract
}

type procedureData struct {
	Config Config
	Route  types.Route
}

type moduleData struct {
	Config          Config
	Module          Module
	ContractImports []string

	// SchemaTypes are the type names validated by the module
	SchemaTypes     []string
	UsesZodArray    bool
	UsesContentType bool
}

func (p *Plan) moduleData(m Module, contractNames map[string]bool) moduleData {
	data := moduleData{Config: p.Config, Module: m}

	var exprs []string
	schemaTypes := make(map[string]bool)
	for _, r := range m.Routes {
		exprs = append(exprs, r.Response.Type, r.Response.ErrorType)
		if r.Request.Payload != nil {
			exprs = append(exprs, r.Request.Payload.Type)
			if isNamedType(r.Request.Payload.Type) {
				schemaTypes[r.Request.Payload.Type] = true
			}
		}
		if r.Request.Query != nil {
			exprs = append(exprs, r.Request.Query.Type)
		}
		for _, a := range r.Request.Parameters {
			exprs = append(exprs, a.Type)
		}
		if !r.Preprocessed.IsPrimitiveResponseType && isNamedType(r.Response.Type) {
			schemaTypes[r.Response.Type] = true
		}

		vars := p.Config.ProcedureHelpers.BuildContentTypeVariables(r, p.Config)
		if vars.BodyContentKindTmpl != nil {
			data.UsesContentType = true
		}
	}
	data.ContractImports = referencedNames(exprs, contractNames)

	for t := range schemaTypes {
		data.SchemaTypes = append(data.SchemaTypes, t)
		if strings.HasSuffix(t, "[]") && p.Config.CommonHelpers.GetSchemaName(t) != "" {
			data.UsesZodArray = true
		}
	}
	sort.Strings(data.SchemaTypes)
	return data
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"join":    strings.Join,
		"upper":   strings.ToUpper,
		"compact": compact,
		"comment": comment,
		"named":   isNamedType,
		"procedure": func(cfg Config, route types.Route) procedureData {
			return procedureData{Config: cfg, Route: route}
		},
	}
	tmpl, err := template.New("swaggen").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// isNamedType reports whether a type expression is a plain name or an array of one,
// the only shapes that map to a schema identifier.
func isNamedType(t string) bool {
	return namedTypeRe.MatchString(t)
}

// compact drops empty and repeated entries, keeping the first occurrence.
func compact(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// comment makes text safe inside a /** */ block whose lines start with indent.
func comment(indent, s string) string {
	s = strings.ReplaceAll(s, "*/", "*\\/")
	return strings.Join(strings.Split(strings.TrimSpace(s), "\n"), "\n"+indent+" * ")
}
