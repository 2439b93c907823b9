// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package generator turns an OpenAPI document into a modular TypeScript API client.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/api2spec/swaggen/pkg/types"
)

// HTTP client flavors.
const (
	HTTPClientAxios = "axios"
	HTTPClientFetch = "fetch"
)

// DefaultRequestConfigArgName is the name of the trailing request config argument.
const DefaultRequestConfigArgName = "params"

// ExtractingOptions lists the suffixes tried, in order, when naming extracted types.
type ExtractingOptions struct {
	RequestBodySuffix   []string
	RequestParamsSuffix []string
	ResponseBodySuffix  []string
	ResponseErrorSuffix []string
}

// Config holds the generator options. Templates read it directly, including
// the helper tables attached by the OnPrepareConfig hook.
type Config struct {
	// Output is the directory the generated files are written to
	Output string

	// HTTPClientType selects the client flavor (axios or fetch)
	HTTPClientType string

	GenerateClient           bool
	GenerateResponses        bool
	DefaultResponseAsSuccess bool
	ExtractRequestParams     bool
	ExtractRequestBody       bool
	ExtractResponseBody      bool
	ExtractResponseError     bool
	ExtractEnums             bool
	Modular                  bool
	ModuleNameFirstTag       bool
	ModuleNameIndex          int
	SingleHTTPClient         bool
	ToJS                     bool

	// DefaultResponseType is used when a route declares no success body
	DefaultResponseType string

	ExtractingOptions ExtractingOptions

	// ApplyZodSchemaInAPI makes modules validate payloads and responses with zod schemas
	ApplyZodSchemaInAPI bool

	APIHelpers       *APIHelpers
	ProcedureHelpers *ProcedureHelpers
	CommonHelpers    *CommonHelpers

	// Logger receives progress and warnings; nil discards them
	Logger *slog.Logger
}

// DefaultConfig returns the options used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		HTTPClientType:      HTTPClientAxios,
		GenerateClient:      true,
		Modular:             true,
		ModuleNameFirstTag:  true,
		ModuleNameIndex:     1,
		DefaultResponseType: "void",
		ExtractingOptions: ExtractingOptions{
			RequestBodySuffix:   []string{"Payload", "Body", "Input"},
			RequestParamsSuffix: []string{"Params"},
			ResponseBodySuffix:  []string{"Data", "Result", "Output"},
			ResponseErrorSuffix: []string{"Error", "Fail", "Fails", "ErrorData", "HttpError", "BadResponse"},
		},
	}
}

// Validate checks the options the generator cannot run without.
func (c Config) Validate() error {
	switch c.HTTPClientType {
	case HTTPClientAxios, HTTPClientFetch:
	default:
		return fmt.Errorf("unsupported http client type %q (expected %s or %s)", c.HTTPClientType, HTTPClientAxios, HTTPClientFetch)
	}
	if c.ModuleNameIndex < 0 {
		return fmt.Errorf("module name index must not be negative, got %d", c.ModuleNameIndex)
	}
	return nil
}

// IsFetch reports whether the fetch flavor is selected.
func (c Config) IsFetch() bool {
	return c.HTTPClientType == HTTPClientFetch
}

// APIHelpers are the helpers available to the module template.
type APIHelpers struct {
	GetSchemaNames func(typeNames []string) []string
}

// ContentTypeVariables are the optional request options of a procedure call.
// A nil field means the option is omitted.
type ContentTypeVariables struct {
	BodyTmpl            *string
	QueryTmpl           *string
	BodyContentKindTmpl *string
	ResponseFormatTmpl  *string
	SecurityTmpl        *string
}

// ProcedureHelpers are the helpers available to the procedure template.
type ProcedureHelpers struct {
	BuildWrapperArgs          func(route types.Route, cfg Config, requestConfigParam types.Arg) string
	BuildQueryKeyProps        func(route types.Route) string
	BuildContentTypeVariables func(route types.Route, cfg Config) ContentTypeVariables
	BuildReturnType           func(route types.Route, cfg Config) string
	BuildRequestConfigParam   func(route types.Route) types.Arg
}

// CommonHelpers are naming helpers available to every template.
type CommonHelpers struct {
	ToCamelCase         func(string) string
	ToPascalCase        func(string) string
	BuildQueryKey       func(string) []string
	IsGetMethod         func(string) bool
	IsPrimitiveType     func(string) bool
	GetSchemaName       func(string) string
	GetSchemaValidation func(string) string
}

// Hooks customise a generation run. Nil hooks leave their input unchanged.
type Hooks struct {
	// OnPrepareConfig runs once before any route is built
	OnPrepareConfig func(Config) Config

	// OnCreateRoute runs once per route, in generation order
	OnCreateRoute func(types.Route) types.Route
}

func (h Hooks) prepareConfig(cfg Config) Config {
	if h.OnPrepareConfig == nil {
		return cfg
	}
	return h.OnPrepareConfig(cfg)
}

func (h Hooks) createRoute(route types.Route) types.Route {
	if h.OnCreateRoute == nil {
		return route
	}
	return h.OnCreateRoute(route)
}

func (c Config) checkHelpers() error {
	var missing []string
	if c.APIHelpers == nil {
		missing = append(missing, "APIHelpers")
	}
	if c.ProcedureHelpers == nil {
		missing = append(missing, "ProcedureHelpers")
	}
	if c.CommonHelpers == nil {
		missing = append(missing, "CommonHelpers")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingHelpers, missing)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
