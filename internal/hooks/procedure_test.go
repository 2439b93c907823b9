// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/pkg/types"
)

var requestConfig = types.Arg{Name: "params", Optional: true, Type: "RequestParams", DefaultValue: "{}"}

func TestArgToTmpl(t *testing.T) {
	tests := []struct {
		name     string
		arg      types.Arg
		expected string
	}{
		{"required", types.Arg{Name: "id", Type: "string"}, "id: string"},
		{"optional", types.Arg{Name: "data", Optional: true, Type: "Pet"}, "data?: Pet"},
		{"default suppresses marker", types.Arg{Name: "params", Optional: true, Type: "RequestParams", DefaultValue: "{}"}, "params: RequestParams = {}"},
		{"required with default", types.Arg{Name: "n", Type: "number", DefaultValue: "1"}, "n: number = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, argToTmpl(tt.arg))
		})
	}
}

func TestBuildWrapperArgs(t *testing.T) {
	extract := generator.DefaultConfig()
	extract.ExtractRequestParams = true
	plain := generator.DefaultConfig()

	pathParams := []types.Arg{{Name: "petId", Type: "string"}}
	query := &types.Arg{Name: "query", Optional: true, Type: "{ limit?: number }"}
	requestParams := &types.InlineType{
		Name:       "ListPetsParams",
		Properties: []types.Arg{{Name: "petId", Type: "string"}, {Name: "limit", Optional: true, Type: "number"}},
	}

	tests := []struct {
		name     string
		cfg      generator.Config
		request  types.RouteRequest
		expected string
	}{
		{
			name:     "no arguments",
			cfg:      extract,
			request:  types.RouteRequest{},
			expected: "params: RequestParams = {}",
		},
		{
			name:     "path params only",
			cfg:      extract,
			request:  types.RouteRequest{Parameters: pathParams},
			expected: "petId: string, params: RequestParams = {}",
		},
		{
			name:     "extracted request params with path params",
			cfg:      extract,
			request:  types.RouteRequest{Parameters: pathParams, Query: query, RequestParams: requestParams},
			expected: "{ petId, ...query }: { petId: string; limit?: number }, params: RequestParams = {}",
		},
		{
			name: "extracted request params without path params",
			cfg:  extract,
			request: types.RouteRequest{
				Query:         query,
				RequestParams: &types.InlineType{Name: "ListPetsParams", Properties: []types.Arg{{Name: "limit", Optional: true, Type: "number"}}},
			},
			expected: "query: { limit?: number }, params: RequestParams = {}",
		},
		{
			name:     "without extraction query is a separate argument",
			cfg:      plain,
			request:  types.RouteRequest{Parameters: pathParams, Query: query},
			expected: "petId: string, query?: { limit?: number }, params: RequestParams = {}",
		},
		{
			name:     "optional payload sorts after required",
			cfg:      plain,
			request:  types.RouteRequest{Query: query, Payload: &types.Arg{Name: "data", Type: "NewPet"}},
			expected: "data: NewPet, query?: { limit?: number }, params: RequestParams = {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := types.Route{Request: tt.request}
			assert.Equal(t, tt.expected, BuildWrapperArgs(route, tt.cfg, requestConfig))
		})
	}
}

func TestBuildWrapperArgs_DoesNotReorderRoute(t *testing.T) {
	params := []types.Arg{{Name: "a", Optional: true, Type: "string"}, {Name: "b", Type: "string"}}
	route := types.Route{Request: types.RouteRequest{Parameters: params}}

	assert.Equal(t, "b: string, a?: string, params: RequestParams = {}", BuildWrapperArgs(route, generator.DefaultConfig(), requestConfig))
	assert.Equal(t, "a", params[0].Name)
}

func TestBuildQueryKeyProps(t *testing.T) {
	route := types.Route{Request: types.RouteRequest{
		Parameters: []types.Arg{{Name: "userId", Type: "string"}, {Name: "postId", Type: "number"}},
	}}
	assert.Equal(t, "userId: string, postId: number", BuildQueryKeyProps(route))

	route.Request.Query = &types.Arg{Name: "query", Type: "{ page: number }"}
	route.Request.RequestParams = &types.InlineType{Properties: []types.Arg{{Name: "page", Type: "number"}}}
	assert.Equal(t, "{ userId, postId, ...query }: { page: number }", BuildQueryKeyProps(route))

	assert.Equal(t, "", BuildQueryKeyProps(types.Route{}))
}

func TestBuildContentTypeVariables(t *testing.T) {
	axios := generator.DefaultConfig()
	fetch := generator.DefaultConfig()
	fetch.HTTPClientType = generator.HTTPClientFetch

	route := types.Route{
		Request: types.RouteRequest{
			Payload:     &types.Arg{Name: "data", Type: "NewPet"},
			Query:       &types.Arg{Type: "{}"},
			ContentKind: types.ContentKindJSON,
			Security:    true,
		},
		Response: types.RouteResponse{Type: "Pet", ContentKind: types.ContentKindJSON},
	}

	vars := BuildContentTypeVariables(route, axios)
	require.NotNil(t, vars.BodyTmpl)
	assert.Equal(t, "data", *vars.BodyTmpl)
	require.NotNil(t, vars.QueryTmpl)
	assert.Equal(t, "query", *vars.QueryTmpl)
	require.NotNil(t, vars.BodyContentKindTmpl)
	assert.Equal(t, "ContentType.Json", *vars.BodyContentKindTmpl)
	require.NotNil(t, vars.ResponseFormatTmpl)
	assert.Equal(t, `"json"`, *vars.ResponseFormatTmpl)
	require.NotNil(t, vars.SecurityTmpl)
	assert.Equal(t, "true", *vars.SecurityTmpl)

	route.Response.ContentKind = types.ContentKindFormData
	assert.Equal(t, `"document"`, *BuildContentTypeVariables(route, axios).ResponseFormatTmpl)
	assert.Equal(t, `"formData"`, *BuildContentTypeVariables(route, fetch).ResponseFormatTmpl)

	route.Response.ContentKind = types.ContentKindImage
	assert.Equal(t, `"blob"`, *BuildContentTypeVariables(route, axios).ResponseFormatTmpl)
}

func TestBuildContentTypeVariables_Empty(t *testing.T) {
	route := types.Route{Request: types.RouteRequest{ContentKind: types.ContentKindOther}}
	vars := BuildContentTypeVariables(route, generator.DefaultConfig())

	assert.Nil(t, vars.BodyTmpl)
	assert.Nil(t, vars.QueryTmpl)
	assert.Nil(t, vars.BodyContentKindTmpl)
	assert.Nil(t, vars.ResponseFormatTmpl)
	assert.Nil(t, vars.SecurityTmpl)
}

func TestBuildContentTypeVariables_RequestKinds(t *testing.T) {
	tests := []struct {
		kind     types.ContentKind
		expected string
	}{
		{types.ContentKindJSON, "ContentType.Json"},
		{types.ContentKindURLEncoded, "ContentType.UrlEncoded"},
		{types.ContentKindFormData, "ContentType.FormData"},
		{types.ContentKindText, "ContentType.Text"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			route := types.Route{Request: types.RouteRequest{ContentKind: tt.kind}}
			vars := BuildContentTypeVariables(route, generator.DefaultConfig())
			require.NotNil(t, vars.BodyContentKindTmpl)
			assert.Equal(t, tt.expected, *vars.BodyContentKindTmpl)
		})
	}
}

func TestBuildReturnType(t *testing.T) {
	route := types.Route{Response: types.RouteResponse{Type: "Pet", ErrorType: "ErrorModel"}}

	cfg := generator.DefaultConfig()
	assert.Equal(t, "", BuildReturnType(route, cfg))

	cfg.ToJS = true
	assert.Equal(t, "Promise<AxiosResponse<Pet>>", BuildReturnType(route, cfg))

	cfg.HTTPClientType = generator.HTTPClientFetch
	assert.Equal(t, "Promise<HttpResponse<Pet, ErrorModel>>", BuildReturnType(route, cfg))
}

func TestBuildRequestConfigParam(t *testing.T) {
	assert.Equal(t, requestConfig, BuildRequestConfigParam(types.Route{}))

	named := BuildRequestConfigParam(types.Route{RequestConfigArgName: "requestParams"})
	assert.Equal(t, "requestParams", named.Name)
	assert.True(t, named.Optional)
	assert.Equal(t, "RequestParams", named.Type)
	assert.Equal(t, "{}", named.DefaultValue)
}
