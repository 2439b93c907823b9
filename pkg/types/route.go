// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "strings"

// ContentKind classifies a request or response media type.
type ContentKind string

// Content kinds recognised by the generator.
const (
	ContentKindJSON       ContentKind = "JSON"
	ContentKindURLEncoded ContentKind = "URL_ENCODED"
	ContentKindFormData   ContentKind = "FORM_DATA"
	ContentKindImage      ContentKind = "IMAGE"
	ContentKindText       ContentKind = "TEXT"
	ContentKindOther      ContentKind = "OTHER"
)

// ContentKindOf maps a media type such as "application/json" to its content kind.
func ContentKindOf(mediaType string) ContentKind {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mediaType, ";", 2)[0]))
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json") || mt == "*/*":
		return ContentKindJSON
	case mt == "application/x-www-form-urlencoded":
		return ContentKindURLEncoded
	case mt == "multipart/form-data":
		return ContentKindFormData
	case strings.HasPrefix(mt, "image/"):
		return ContentKindImage
	case strings.HasPrefix(mt, "text/"):
		return ContentKindText
	default:
		return ContentKindOther
	}
}

// Route describes one API operation as seen by the client templates.
type Route struct {
	// RouteName is the method name on the module class (camelCase)
	RouteName string `json:"routeName" yaml:"routeName"`

	// ModuleName is the module (file) the route is emitted into
	ModuleName string `json:"moduleName" yaml:"moduleName"`

	OperationID string   `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	Request  RouteRequest  `json:"request" yaml:"request"`
	Response RouteResponse `json:"response" yaml:"response"`

	// RequestConfigArgName overrides the name of the trailing request config argument
	RequestConfigArgName string `json:"requestConfigArgName,omitempty" yaml:"requestConfigArgName,omitempty"`

	// Preprocessed holds the annotations derived by the route hook
	Preprocessed *Preprocessed `json:"preprocessed,omitempty" yaml:"preprocessed,omitempty"`
}

// RouteRequest describes the request side of a route.
type RouteRequest struct {
	// Method is the lower-case HTTP method
	Method string `json:"method" yaml:"method"`

	// Path is a template literal path such as /pets/${petId}
	Path string `json:"path" yaml:"path"`

	// Parameters are the path parameters in declaration order
	Parameters []Arg `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// Query is the query object argument, nil when the route takes no query
	Query *Arg `json:"query,omitempty" yaml:"query,omitempty"`

	// Payload is the request body argument, nil when the route has no body
	Payload *Arg `json:"payload,omitempty" yaml:"payload,omitempty"`

	// RequestParams is the extracted object merging path and query parameters
	RequestParams *InlineType `json:"requestParams,omitempty" yaml:"requestParams,omitempty"`

	Security    bool        `json:"security,omitempty" yaml:"security,omitempty"`
	ContentKind ContentKind `json:"contentKind,omitempty" yaml:"contentKind,omitempty"`
}

// RouteResponse describes the response side of a route.
type RouteResponse struct {
	// Type is the success response type ("void" when the response has no body)
	Type string `json:"type" yaml:"type"`

	// ErrorType is the error response type ("any" when none is declared)
	ErrorType   string      `json:"errorType" yaml:"errorType"`
	ContentKind ContentKind `json:"contentKind,omitempty" yaml:"contentKind,omitempty"`
}

// Arg is a generated function parameter.
type Arg struct {
	Name         string `json:"name" yaml:"name"`
	Optional     bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Type         string `json:"type" yaml:"type"`
	DefaultValue string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// InlineType is a named object type whose shape can also be written inline.
type InlineType struct {
	Name       string `json:"name" yaml:"name"`
	Properties []Arg  `json:"properties" yaml:"properties"`
}

// Inline renders the type as a TypeScript object literal type.
func (t *InlineType) Inline() string {
	if t == nil || len(t.Properties) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(t.Properties))
	for _, p := range t.Properties {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		parts = append(parts, p.Name+opt+": "+p.Type)
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Preprocessed holds the annotations the route hook derives for the templates.
// It is built once per route and read-only afterwards.
type Preprocessed struct {
	IsGetMethod             bool      `json:"isGetMethod" yaml:"isGetMethod"`
	QueryKey                []string  `json:"queryKey" yaml:"queryKey"`
	PayloadSchemaName       *string   `json:"payloadSchemaName" yaml:"payloadSchemaName"`
	ResponseSchemaName      *string   `json:"responseSchemaName" yaml:"responseSchemaName"`
	IsPrimitiveResponseType bool      `json:"isPrimitiveResponseType" yaml:"isPrimitiveResponseType"`
	Procedure               Procedure `json:"procedure" yaml:"procedure"`

	// API is reserved for API-level annotations
	API struct{} `json:"api" yaml:"api"`
}

// Procedure holds the annotations used to build the wrapper function signature.
type Procedure struct {
	QueryName      string  `json:"queryName" yaml:"queryName"`
	PathParams     []Arg   `json:"pathParams" yaml:"pathParams"`
	PayloadName    *string `json:"payloadName" yaml:"payloadName"`
	QueryExists    bool    `json:"queryExists" yaml:"queryExists"`
	SecurityExists bool    `json:"securityExists" yaml:"securityExists"`
}
