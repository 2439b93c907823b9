// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import "strings"

// OpenAPI is the subset of an OpenAPI 3.0/3.1 document the client generator reads.
type OpenAPI struct {
	// OpenAPI is the OpenAPI specification version (e.g., "3.0.3", "3.1.0")
	OpenAPI string `json:"openapi" yaml:"openapi"`

	// Info provides metadata about the API
	Info Info `json:"info" yaml:"info"`

	// Servers is a list of server objects
	Servers []Server `json:"servers,omitempty" yaml:"servers,omitempty"`

	// Paths holds the available paths and operations
	Paths map[string]PathItem `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Components holds reusable objects
	Components *Components `json:"components,omitempty" yaml:"components,omitempty"`

	// Security is a list of document-wide security requirements
	Security []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`

	// Tags is a list of tags used by the specification
	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

// Server represents an API server.
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tag represents a tag object.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem represents an API path.
type PathItem struct {
	Summary     string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Get         *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put         *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post        *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete      *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options     *Operation `json:"options,omitempty" yaml:"options,omitempty"`
	Head        *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch       *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
	Trace       *Operation `json:"trace,omitempty" yaml:"trace,omitempty"`

	// Parameters are shared by every operation on this path
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// MethodOperation pairs a lower-case HTTP method with its operation.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Operations returns the operations defined on the path in a fixed method order.
func (p PathItem) Operations() []MethodOperation {
	all := []MethodOperation{
		{"get", p.Get},
		{"put", p.Put},
		{"post", p.Post},
		{"delete", p.Delete},
		{"options", p.Options},
		{"head", p.Head},
		{"patch", p.Patch},
		{"trace", p.Trace},
	}
	ops := make([]MethodOperation, 0, len(all))
	for _, op := range all {
		if op.Operation != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// Operation represents an API operation.
type Operation struct {
	Tags        []string               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string                 `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                 `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter            `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody           `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response    `json:"responses,omitempty" yaml:"responses,omitempty"`
	Deprecated  bool                   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Security    *[]map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
}

// Components holds reusable objects.
type Components struct {
	Schemas         map[string]*Schema        `json:"schemas,omitempty" yaml:"schemas,omitempty"`
	Responses       map[string]Response       `json:"responses,omitempty" yaml:"responses,omitempty"`
	Parameters      map[string]Parameter      `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBodies   map[string]RequestBody    `json:"requestBodies,omitempty" yaml:"requestBodies,omitempty"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes,omitempty" yaml:"securitySchemes,omitempty"`
}

// SecurityScheme represents a security scheme.
type SecurityScheme struct {
	Type   string `json:"type" yaml:"type"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	In     string `json:"in,omitempty" yaml:"in,omitempty"`
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
}

// Parameter represents an OpenAPI parameter.
type Parameter struct {
	// Ref is a reference to a component parameter
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Name is the parameter name
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// In is the location of the parameter (path, query, header, cookie)
	In string `json:"in,omitempty" yaml:"in,omitempty"`

	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated  bool    `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody represents an OpenAPI request body.
type RequestBody struct {
	Ref         string               `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                 `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Response represents an OpenAPI response.
type Response struct {
	Ref         string               `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType represents an OpenAPI media type.
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RefName returns the last segment of a local reference such as "#/components/schemas/Pet".
func RefName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// ResolveParameter follows a component reference, returning the parameter unchanged otherwise.
func (d *OpenAPI) ResolveParameter(p Parameter) Parameter {
	if p.Ref == "" || d.Components == nil {
		return p
	}
	if resolved, ok := d.Components.Parameters[RefName(p.Ref)]; ok {
		return resolved
	}
	return p
}

// ResolveRequestBody follows a component reference.
func (d *OpenAPI) ResolveRequestBody(b *RequestBody) *RequestBody {
	if b == nil || b.Ref == "" || d.Components == nil {
		return b
	}
	if resolved, ok := d.Components.RequestBodies[RefName(b.Ref)]; ok {
		return &resolved
	}
	return b
}

// ResolveResponse follows a component reference.
func (d *OpenAPI) ResolveResponse(r Response) Response {
	if r.Ref == "" || d.Components == nil {
		return r
	}
	if resolved, ok := d.Components.Responses[RefName(r.Ref)]; ok {
		return resolved
	}
	return r
}
