// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package runner drives the two generation steps: the API client and the zod schemas.
package runner

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/api2spec/swaggen/internal/format"
	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/hooks"
	"github.com/api2spec/swaggen/internal/openapi"
	"github.com/api2spec/swaggen/internal/scanner"
)

// ErrNoOutput is returned when no output directory is given.
var ErrNoOutput = errors.New("output directory is required")

// SwaggerOptions configures RunSwagger.
type SwaggerOptions struct {
	// ID and Password enable HTTP basic auth when both are set
	ID       string
	Password string

	// Output is the directory the client is written to, relative to the working directory
	Output string

	URL   string
	Input string

	// ApplyZodSchemaInAPI defaults to true when nil
	ApplyZodSchemaInAPI *bool

	ExtractEnums bool

	// Formatter rewrites the generated files; nil selects prettier when installed, else Basic
	Formatter format.Formatter

	// HTTPClient fetches URL sources; nil uses a client with openapi.DefaultTimeout
	HTTPClient *http.Client

	Logger *slog.Logger
}

// BasicAuth returns the Authorization header value for id and password,
// or "" unless both are set.
func BasicAuth(id, password string) string {
	if id == "" || password == "" {
		return ""
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(id+":"+password))
}

// SwaggerConfig returns the fixed generator options of a RunSwagger call.
func SwaggerConfig(output string, applyZod, extractEnums bool) generator.Config {
	return generator.Config{
		Output:                   output,
		HTTPClientType:           generator.HTTPClientAxios,
		GenerateClient:           true,
		GenerateResponses:        true,
		DefaultResponseAsSuccess: true,
		ExtractRequestParams:     true,
		ExtractRequestBody:       true,
		ExtractResponseBody:      true,
		ExtractEnums:             extractEnums,
		Modular:                  true,
		ModuleNameFirstTag:       true,
		ModuleNameIndex:          1,
		DefaultResponseType:      "void",
		SingleHTTPClient:         true,
		ExtractingOptions: generator.ExtractingOptions{
			RequestBodySuffix:   []string{"Payload", "Body", "Input"},
			RequestParamsSuffix: []string{"Params"},
			ResponseBodySuffix:  []string{"Data", "Result", "Output"},
			ResponseErrorSuffix: []string{"Error", "Fail", "Fails", "ErrorData", "HttpError", "BadResponse"},
		},
		ApplyZodSchemaInAPI: applyZod,
	}
}

// PlanSwagger loads the OpenAPI document and resolves the routes and contracts
// RunSwagger would write, without touching the output directory.
func PlanSwagger(ctx context.Context, opts SwaggerOptions) (*generator.Plan, error) {
	log := logger(opts.Logger)
	if opts.Output == "" {
		return nil, ErrNoOutput
	}
	output, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output: %w", err)
	}

	src := openapi.Source{
		URL:                opts.URL,
		Input:              opts.Input,
		AuthorizationToken: BasicAuth(opts.ID, opts.Password),
	}
	log.Info("loading document", "source", src.String(), "auth", src.AuthorizationToken != "")
	doc, err := openapi.NewLoader(opts.HTTPClient).Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	applyZod := true
	if opts.ApplyZodSchemaInAPI != nil {
		applyZod = *opts.ApplyZodSchemaInAPI
	}
	cfg := SwaggerConfig(output, applyZod, opts.ExtractEnums)
	cfg.Logger = log

	plan, err := generator.NewPlan(ctx, doc, cfg, hooks.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to generate client: %w", err)
	}
	return plan, nil
}

// RunSwagger loads the OpenAPI document, writes the client into Output and
// formats every generated .ts file in place.
func RunSwagger(ctx context.Context, opts SwaggerOptions) (*generator.Result, error) {
	log := logger(opts.Logger)
	plan, err := PlanSwagger(ctx, opts)
	if err != nil {
		return nil, err
	}
	result, err := plan.Write(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate client: %w", err)
	}
	log.Info("client generated", "output", result.Output, "files", len(result.Files), "routes", len(result.Routes))

	formatter := opts.Formatter
	if formatter == nil {
		formatter = DefaultFormatter(log)
	}
	if err := FormatDir(ctx, result.Output, formatter, log); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultFormatter returns prettier when it is installed, else the basic formatter.
func DefaultFormatter(log *slog.Logger) format.Formatter {
	if format.Available(format.NamePrettier) {
		return format.NewPrettier()
	}
	logger(log).Warn("prettier not found, using basic formatter")
	return format.Basic{}
}

// FormatDir rewrites every .ts file directly in dir through formatter, one at a time.
// Files already in canonical form are left untouched.
func FormatDir(ctx context.Context, dir string, formatter format.Formatter, log *slog.Logger) error {
	log = logger(log)
	files, err := scanner.New(scanner.Config{BasePath: dir}).Scan()
	if err != nil {
		return fmt.Errorf("failed to list generated files: %w", err)
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		formatted, err := formatter.Format(ctx, f.RelPath, f.Content)
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", f.RelPath, err)
		}
		if bytes.Equal(formatted, f.Content) {
			continue
		}
		if err := os.WriteFile(f.Path, formatted, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		log.Debug("file formatted", "path", f.Path, "kind", f.Kind)
	}
	return nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
