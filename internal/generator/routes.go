// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package generator

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/api2spec/swaggen/internal/util"
	"github.com/api2spec/swaggen/pkg/types"
)

// pathParamRe matches an OpenAPI path placeholder such as {petId}.
var pathParamRe = regexp.MustCompile(`\{([^}]+)\}`)

// defaultModuleName holds routes that cannot be grouped by tag or path segment.
const defaultModuleName = "Api"

// routeBuilder collects routes and the contracts they extract.
type routeBuilder struct {
	doc   *types.OpenAPI
	cfg   Config
	taken map[string]bool

	// extracted are the contracts created while building routes, in creation order
	extracted []Contract

	// routeNames tracks route names per module to keep them unique
	routeNames map[string]map[string]int
}

func newRouteBuilder(doc *types.OpenAPI, cfg Config, componentNames []string) *routeBuilder {
	taken := make(map[string]bool, len(componentNames))
	for _, name := range componentNames {
		taken[name] = true
	}
	return &routeBuilder{
		doc:        doc,
		cfg:        cfg,
		taken:      taken,
		routeNames: make(map[string]map[string]int),
	}
}

// sortedPaths returns the document paths in lexical order.
func sortedPaths(doc *types.OpenAPI) []string {
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// templatePath rewrites /pets/{pet-id} as /pets/${petId}.
func templatePath(path string) string {
	return pathParamRe.ReplaceAllStringFunc(path, func(m string) string {
		return "${" + util.ToCamelCase(m[1:len(m)-1]) + "}"
	})
}

// uniqueTypeName picks the first base+suffix that is not taken and reserves it.
func (b *routeBuilder) uniqueTypeName(base string, suffixes []string) string {
	if len(suffixes) == 0 {
		suffixes = []string{""}
	}
	for _, suffix := range suffixes {
		name := base + suffix
		if !b.taken[name] {
			b.taken[name] = true
			return name
		}
	}
	for i := 2; ; i++ {
		name := base + suffixes[0] + strconv.Itoa(i)
		if !b.taken[name] {
			b.taken[name] = true
			return name
		}
	}
}

func (b *routeBuilder) extract(base string, suffixes []string, s *types.Schema) string {
	name := b.uniqueTypeName(base, suffixes)
	b.extracted = append(b.extracted, BuildContract(name, s, b.cfg.ExtractEnums))
	return name
}

// routeName derives the method name from the operation id, or from method and path.
func routeName(method, path, operationID string) string {
	if operationID != "" {
		return util.ToCamelCase(operationID)
	}
	raw := method + "-" + pathParamRe.ReplaceAllString(path, "$1")
	return util.ToCamelCase(raw)
}

func (b *routeBuilder) moduleName(path string, op *types.Operation) string {
	if !b.cfg.Modular {
		return defaultModuleName
	}
	if b.cfg.ModuleNameFirstTag && len(op.Tags) > 0 {
		if name := util.ModuleName(op.Tags[0]); name != "" {
			return name
		}
	}
	segments := strings.Split(path, "/")
	if b.cfg.ModuleNameIndex < len(segments) {
		segment := segments[b.cfg.ModuleNameIndex]
		if segment != "" && !pathParamRe.MatchString(segment) {
			if name := util.ModuleName(segment); name != "" {
				return name
			}
		}
	}
	return defaultModuleName
}

// uniqueRouteName suffixes a route name already used in the same module.
func (b *routeBuilder) uniqueRouteName(module, name string) string {
	names, ok := b.routeNames[module]
	if !ok {
		names = make(map[string]int)
		b.routeNames[module] = names
	}
	names[name]++
	if n := names[name]; n > 1 {
		return name + strconv.Itoa(n)
	}
	return name
}

// mergeParameters combines path-level and operation-level parameters;
// operation parameters override path parameters with the same name and location.
func (b *routeBuilder) mergeParameters(item types.PathItem, op *types.Operation) []types.Parameter {
	var merged []types.Parameter
	index := make(map[string]int)
	for _, list := range [][]types.Parameter{item.Parameters, op.Parameters} {
		for _, raw := range list {
			p := b.doc.ResolveParameter(raw)
			key := p.In + ":" + p.Name
			if i, ok := index[key]; ok {
				merged[i] = p
				continue
			}
			index[key] = len(merged)
			merged = append(merged, p)
		}
	}
	return merged
}

// pickMedia selects the JSON media type when present, else the first one by name.
func pickMedia(content map[string]types.MediaType) (string, *types.Schema, bool) {
	if len(content) == 0 {
		return "", nil, false
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if types.ContentKindOf(k) == types.ContentKindJSON {
			return k, content[k].Schema, true
		}
	}
	return keys[0], content[keys[0]].Schema, true
}

func isSuccessCode(code string) bool {
	return len(code) == 3 && code[0] == '2'
}

func sortedCodes(responses map[string]types.Response) []string {
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (b *routeBuilder) build(path, method string, item types.PathItem, op *types.Operation) types.Route {
	module := b.moduleName(path, op)
	name := b.uniqueRouteName(module, routeName(method, path, op.OperationID))
	base := util.ToPascalCase(name)

	route := types.Route{
		RouteName:   name,
		ModuleName:  module,
		OperationID: op.OperationID,
		Tags:        op.Tags,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
		Request: types.RouteRequest{
			Method: method,
			Path:   templatePath(path),
		},
	}

	var queryProps []types.Arg
	for _, p := range b.mergeParameters(item, op) {
		switch p.In {
		case "path":
			route.Request.Parameters = append(route.Request.Parameters, types.Arg{
				Name: util.ToCamelCase(p.Name),
				Type: TSType(p.Schema),
			})
		case "query":
			queryProps = append(queryProps, types.Arg{
				Name:     propertyKey(p.Name),
				Optional: !p.Required,
				Type:     TSType(p.Schema),
			})
		}
	}

	if len(queryProps) > 0 {
		optional := true
		for _, q := range queryProps {
			if !q.Optional {
				optional = false
			}
		}
		shape := &types.InlineType{Properties: queryProps}
		route.Request.Query = &types.Arg{Name: "query", Optional: optional, Type: shape.Inline()}

		if b.cfg.ExtractRequestParams {
			props := append([]types.Arg{}, route.Request.Parameters...)
			props = append(props, queryProps...)
			params := &types.InlineType{Properties: props}
			params.Name = b.uniqueTypeName(base, b.cfg.ExtractingOptions.RequestParamsSuffix)
			b.extracted = append(b.extracted, paramsContract(params))
			route.Request.RequestParams = params
		}
	}

	if body := b.doc.ResolveRequestBody(op.RequestBody); body != nil {
		if mediaType, schema, ok := pickMedia(body.Content); ok {
			route.Request.ContentKind = types.ContentKindOf(mediaType)
			typ := TSType(schema)
			if b.cfg.ExtractRequestBody && schema != nil && schema.Ref == "" {
				typ = b.extract(base, b.cfg.ExtractingOptions.RequestBodySuffix, schema)
			}
			route.Request.Payload = &types.Arg{Name: "data", Optional: !body.Required, Type: typ}
		}
	}

	route.Response = b.response(base, op)
	route.Request.Security = b.secured(op)
	return route
}

func paramsContract(params *types.InlineType) Contract {
	c := Contract{Name: params.Name, Kind: ContractInterface}
	for _, p := range params.Properties {
		c.Fields = append(c.Fields, Field{Name: p.Name, Optional: p.Optional, Type: p.Type})
	}
	return c
}

func (b *routeBuilder) response(base string, op *types.Operation) types.RouteResponse {
	resp := types.RouteResponse{Type: b.cfg.DefaultResponseType, ErrorType: "any"}
	if resp.Type == "" {
		resp.Type = "void"
	}

	codes := sortedCodes(op.Responses)
	successCode := ""
	for _, code := range codes {
		if isSuccessCode(code) {
			successCode = code
			break
		}
	}
	if successCode == "" && b.cfg.DefaultResponseAsSuccess {
		if _, ok := op.Responses["default"]; ok {
			successCode = "default"
		}
	}

	if successCode != "" {
		r := b.doc.ResolveResponse(op.Responses[successCode])
		if mediaType, schema, ok := pickMedia(r.Content); ok && schema != nil {
			resp.ContentKind = types.ContentKindOf(mediaType)
			resp.Type = TSType(schema)
			if b.cfg.ExtractResponseBody {
				resp.Type = b.extract(base, b.cfg.ExtractingOptions.ResponseBodySuffix, schema)
			}
		}
	}

	for _, code := range codes {
		if code == successCode || isSuccessCode(code) {
			continue
		}
		r := b.doc.ResolveResponse(op.Responses[code])
		_, schema, ok := pickMedia(r.Content)
		if !ok || schema == nil {
			continue
		}
		resp.ErrorType = TSType(schema)
		if b.cfg.ExtractResponseError {
			resp.ErrorType = b.extract(base, b.cfg.ExtractingOptions.ResponseErrorSuffix, schema)
		}
		break
	}
	return resp
}

func (b *routeBuilder) secured(op *types.Operation) bool {
	if op.Security != nil {
		return len(*op.Security) > 0
	}
	return len(b.doc.Security) > 0
}
