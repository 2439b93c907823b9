// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package hooks

import (
	"sort"
	"strings"

	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/pkg/types"
)

var requestContentKind = map[types.ContentKind]string{
	types.ContentKindJSON:       "ContentType.Json",
	types.ContentKindURLEncoded: "ContentType.UrlEncoded",
	types.ContentKindFormData:   "ContentType.FormData",
	types.ContentKindText:       "ContentType.Text",
}

// argToTmpl renders a parameter as "name?: type" or "name: type = default".
// A default value suppresses the optional marker.
func argToTmpl(a types.Arg) string {
	var b strings.Builder
	b.WriteString(a.Name)
	if a.DefaultValue == "" && a.Optional {
		b.WriteString("?")
	}
	b.WriteString(": ")
	b.WriteString(a.Type)
	if a.DefaultValue != "" {
		b.WriteString(" = ")
		b.WriteString(a.DefaultValue)
	}
	return b.String()
}

// renderArgs orders required arguments before optional ones, keeping
// the relative order within each group, and joins them.
func renderArgs(args []types.Arg) string {
	sort.SliceStable(args, func(i, j int) bool {
		return !args[i].Optional && args[j].Optional
	})
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, argToTmpl(a))
	}
	return strings.Join(parts, ", ")
}

// requestParamsArg builds the destructured request params argument,
// "{ a, b, ...query }" or just the query name without path params.
func requestParamsArg(req types.RouteRequest) types.Arg {
	name := queryName(req.Query)
	if len(req.Parameters) > 0 {
		names := make([]string, 0, len(req.Parameters))
		for _, p := range req.Parameters {
			names = append(names, p.Name)
		}
		name = "{ " + strings.Join(names, ", ") + ", ..." + name + " }"
	}
	return types.Arg{Name: name, Type: req.RequestParams.Inline()}
}

// BuildWrapperArgs renders the argument list of a route's wrapper function.
func BuildWrapperArgs(route types.Route, cfg generator.Config, requestConfigParam types.Arg) string {
	req := route.Request
	var args []types.Arg

	if cfg.ExtractRequestParams {
		if req.RequestParams != nil {
			args = append(args, requestParamsArg(req))
		} else {
			args = append(args, req.Parameters...)
		}
	} else {
		args = append(args, req.Parameters...)
		if req.Query != nil {
			args = append(args, *req.Query)
		}
	}
	if req.Payload != nil {
		args = append(args, *req.Payload)
	}
	args = append(args, requestConfigParam)
	return renderArgs(args)
}

// BuildQueryKeyProps renders the argument list of a route's query key function.
func BuildQueryKeyProps(route types.Route) string {
	req := route.Request
	var args []types.Arg
	if req.RequestParams != nil {
		args = append(args, requestParamsArg(req))
	} else {
		args = append(args, req.Parameters...)
	}
	return renderArgs(args)
}

// BuildContentTypeVariables returns the optional request options of a route.
func BuildContentTypeVariables(route types.Route, cfg generator.Config) generator.ContentTypeVariables {
	req := route.Request
	var vars generator.ContentTypeVariables

	if req.Payload != nil && req.Payload.Name != "" {
		vars.BodyTmpl = ptr(req.Payload.Name)
	}
	if req.Query != nil {
		vars.QueryTmpl = ptr(queryName(req.Query))
	}
	if kind, ok := requestContentKind[req.ContentKind]; ok {
		vars.BodyContentKindTmpl = ptr(kind)
	}

	switch route.Response.ContentKind {
	case types.ContentKindJSON:
		vars.ResponseFormatTmpl = ptr(`"json"`)
	case types.ContentKindImage:
		vars.ResponseFormatTmpl = ptr(`"blob"`)
	case types.ContentKindFormData:
		if cfg.IsFetch() {
			vars.ResponseFormatTmpl = ptr(`"formData"`)
		} else {
			vars.ResponseFormatTmpl = ptr(`"document"`)
		}
	}

	if req.Security {
		vars.SecurityTmpl = ptr("true")
	}
	return vars
}

// BuildReturnType returns the explicit return type annotation, or "" unless
// the output targets plain JavaScript with declarations.
func BuildReturnType(route types.Route, cfg generator.Config) string {
	if !cfg.ToJS {
		return ""
	}
	if cfg.HTTPClientType == generator.HTTPClientAxios {
		return "Promise<AxiosResponse<" + route.Response.Type + ">>"
	}
	return "Promise<HttpResponse<" + route.Response.Type + ", " + route.Response.ErrorType + ">>"
}

// BuildRequestConfigParam returns the trailing request config argument.
func BuildRequestConfigParam(route types.Route) types.Arg {
	name := route.RequestConfigArgName
	if name == "" {
		name = generator.DefaultRequestConfigArgName
	}
	return types.Arg{
		Name:         name,
		Optional:     true,
		Type:         "RequestParams",
		DefaultValue: "{}",
	}
}

func ptr(s string) *string {
	return &s
}
