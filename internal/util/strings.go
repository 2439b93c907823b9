// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides the naming helpers shared by the generator, its hooks and templates.
package util

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// templateLiteralRe matches a template literal placeholder such as ${userId}.
	templateLiteralRe = regexp.MustCompile(`\$\{([^}]+)\}`)

	// delimiterRe matches a run of non-alphanumeric characters plus the character after it.
	delimiterRe = regexp.MustCompile(`[^a-zA-Z0-9]+(.)`)

	// wrappedArrayRe matches "(T)[]".
	wrappedArrayRe = regexp.MustCompile(`^\(([^)]+)\)\[\]$`)
)

// primitiveTypes lists the TypeScript type names that never get a schema.
var primitiveTypes = []string{"boolean", "number", "string", "symbol", "void", "undefined", "null"}

// RemoveTemplateLiteral replaces every ${x} placeholder with x.
// For example: "${userId}" returns "userId".
func RemoveTemplateLiteral(s string) string {
	return templateLiteralRe.ReplaceAllString(s, "$1")
}

// HasTemplateLiteral reports whether s contains a ${x} placeholder.
func HasTemplateLiteral(s string) bool {
	return templateLiteralRe.MatchString(s)
}

// capitalizeAfterDelimiter drops every delimiter run and upper-cases the character after it.
// The first character is left alone: "user-name" returns "userName".
func capitalizeAfterDelimiter(s string) string {
	return delimiterRe.ReplaceAllStringFunc(s, func(match string) string {
		_, size := utf8.DecodeLastRuneInString(match)
		return strings.ToUpper(match[len(match)-size:])
	})
}

func lowercaseFirst(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}
	return string(s[0]+('a'-'A')) + s[1:]
}

func uppercaseFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}

// ToCamelCase strips template literals and converts s to camelCase.
// For example: "user-name" returns "userName", "${userId}-detail" returns "userIdDetail".
func ToCamelCase(s string) string {
	return lowercaseFirst(capitalizeAfterDelimiter(RemoveTemplateLiteral(s)))
}

// ToPascalCase strips template literals and converts s to PascalCase.
// For example: "api_key" returns "ApiKey".
func ToPascalCase(s string) string {
	return uppercaseFirst(ToCamelCase(s))
}

// BuildQueryKey splits a path template into cache-key tokens.
// Literal segments are single-quoted, template literal segments become bare identifiers:
// "/api/posts/${postId}" returns ['api', 'posts', postId].
func BuildQueryKey(path string) []string {
	segments := strings.Split(path, "/")
	key := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if HasTemplateLiteral(segment) {
			key = append(key, RemoveTemplateLiteral(segment))
		} else {
			key = append(key, "'"+segment+"'")
		}
	}
	return key
}

// CleanArrayType removes a trailing array marker from a type name.
// "(Pet)[]" and "Pet[]" both return "Pet".
func CleanArrayType(typeName string) string {
	typeName = wrappedArrayRe.ReplaceAllString(typeName, "$1")
	return strings.TrimSuffix(typeName, "[]")
}

// IsArrayType reports whether a type name ends with an array marker.
func IsArrayType(typeName string) bool {
	return strings.HasSuffix(typeName, "[]")
}

// GetSchemaName returns the validation schema identifier for a type name,
// or "" when the type is primitive and has no schema.
// For example: "UserDto" returns "userDtoSchema", "Pet[]" returns "petSchema".
func GetSchemaName(typeName string) string {
	clean := CleanArrayType(typeName)
	if IsPrimitiveType(clean) {
		return ""
	}
	return ToCamelCase(clean) + "Schema"
}

// GetSchemaValidation returns the expression that validates a value of the given type.
// Array types are wrapped: "Pet[]" returns "z.array(petSchema)".
func GetSchemaValidation(typeName string) string {
	name := GetSchemaName(typeName)
	if name == "" {
		return ""
	}
	if IsArrayType(typeName) {
		return "z.array(" + name + ")"
	}
	return name
}

// GetSchemaNames maps GetSchemaName over a list of type names.
func GetSchemaNames(typeNames []string) []string {
	names := make([]string, 0, len(typeNames))
	for _, t := range typeNames {
		names = append(names, GetSchemaName(t))
	}
	return names
}

// IsGetMethod reports whether method is exactly "get".
func IsGetMethod(method string) bool {
	return method == "get"
}

// IsPrimitiveType reports whether t names a TypeScript primitive.
func IsPrimitiveType(t string) bool {
	for _, p := range primitiveTypes {
		if p == t {
			return true
		}
	}
	return false
}

// ModuleName converts an OpenAPI tag or path segment into a module name.
// For example: "pets" returns "Pets", "store-orders" returns "StoreOrders".
func ModuleName(tag string) string {
	// Casers are stateful, so one is built per call.
	return ToPascalCase(cases.Title(language.Und, cases.NoLower).String(tag))
}
