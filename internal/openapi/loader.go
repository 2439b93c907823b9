// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi loads and validates the OpenAPI documents a client is generated from.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/swaggen/pkg/types"
)

var (
	// ErrSourceConflict is returned when both a URL and an input file are given.
	ErrSourceConflict = errors.New("url and input are mutually exclusive")

	// ErrNoSource is returned when neither a URL nor an input file is given.
	ErrNoSource = errors.New("either url or input is required")
)

// DefaultTimeout bounds a document download when the context has no deadline.
const DefaultTimeout = 30 * time.Second

// Source locates an OpenAPI document.
type Source struct {
	// URL is fetched over HTTP(S)
	URL string

	// Input is a local file path
	Input string

	// AuthorizationToken is sent as the Authorization header when fetching URL
	AuthorizationToken string
}

// Validate checks that exactly one location is set.
func (s Source) Validate() error {
	switch {
	case s.URL != "" && s.Input != "":
		return ErrSourceConflict
	case s.URL == "" && s.Input == "":
		return ErrNoSource
	}
	return nil
}

// String returns the location for log messages.
func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Input
}

// Loader reads OpenAPI documents.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader. A nil client uses one with DefaultTimeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Loader{client: client}
}

// Load reads, validates and decodes the document at src.
func Load(ctx context.Context, src Source) (*types.OpenAPI, error) {
	return NewLoader(nil).Load(ctx, src)
}

// Load reads, validates and decodes the document at src.
func (l *Loader) Load(ctx context.Context, src Source) (*types.OpenAPI, error) {
	data, err := l.Read(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := validate(data, src); err != nil {
		return nil, err
	}
	return decode(data)
}

// Read returns the raw document bytes at src.
func (l *Loader) Read(ctx context.Context, src Source) ([]byte, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Input != "" {
		data, err := os.ReadFile(src.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
	return l.fetch(ctx, src)
}

func (l *Loader) fetch(ctx context.Context, src Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", src.URL, err)
	}
	if src.AuthorizationToken != "" {
		req.Header.Set("Authorization", src.AuthorizationToken)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", src.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", src.URL, err)
	}
	return data, nil
}

// Parse validates a JSON or YAML document and decodes it.
func Parse(data []byte) (*types.OpenAPI, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*types.OpenAPI, error) {
	var doc types.OpenAPI
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}

// Validate checks that data is a structurally valid OpenAPI 3.x document.
func Validate(data []byte) error {
	return validate(data, Source{})
}

// newDocument resolves relative references against the document location.
func newDocument(data []byte, src Source) (libopenapi.Document, error) {
	cfg := datamodel.NewDocumentConfiguration()
	switch {
	case src.Input != "":
		cfg.BasePath = filepath.Dir(src.Input)
		cfg.SpecFilePath = filepath.Base(src.Input)
		cfg.AllowFileReferences = true
	case src.URL != "":
		u, err := url.Parse(src.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return libopenapi.NewDocument(data)
		}
		cfg.BaseURL = u
		cfg.AllowRemoteReferences = true
	default:
		return libopenapi.NewDocument(data)
	}
	return libopenapi.NewDocumentWithConfiguration(data, cfg)
}

func validate(data []byte, src Source) error {
	document, err := newDocument(data, src)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if v := document.GetVersion(); len(v) == 0 || v[0] != '3' {
		return fmt.Errorf("unsupported OpenAPI version %q (expected 3.x)", v)
	}
	if _, err := document.BuildV3Model(); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return nil
}
