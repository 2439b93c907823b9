// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package runner

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/swaggen/internal/format"
	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/openapi"
)

func petstorePath(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", "petstore.yaml"))
	require.NoError(t, err)
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		password string
		expected string
	}{
		{"both set", "user", "pass", "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass"))},
		{"id only", "user", "", ""},
		{"password only", "", "pass", ""},
		{"neither", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BasicAuth(tt.id, tt.password))
		})
	}
	assert.Equal(t, "Basic dXNlcjpwYXNz", BasicAuth("user", "pass"))
}

func TestSwaggerConfig(t *testing.T) {
	cfg := SwaggerConfig("/out", true, false)

	assert.Equal(t, "/out", cfg.Output)
	assert.Equal(t, generator.HTTPClientAxios, cfg.HTTPClientType)
	assert.True(t, cfg.GenerateClient)
	assert.True(t, cfg.GenerateResponses)
	assert.True(t, cfg.DefaultResponseAsSuccess)
	assert.True(t, cfg.ExtractRequestParams)
	assert.True(t, cfg.ExtractRequestBody)
	assert.True(t, cfg.ExtractResponseBody)
	assert.False(t, cfg.ExtractEnums)
	assert.True(t, cfg.Modular)
	assert.True(t, cfg.ModuleNameFirstTag)
	assert.Equal(t, 1, cfg.ModuleNameIndex)
	assert.Equal(t, "void", cfg.DefaultResponseType)
	assert.True(t, cfg.SingleHTTPClient)
	assert.True(t, cfg.ApplyZodSchemaInAPI)
	assert.Equal(t, []string{"Payload", "Body", "Input"}, cfg.ExtractingOptions.RequestBodySuffix)
	assert.Equal(t, []string{"Params"}, cfg.ExtractingOptions.RequestParamsSuffix)
	assert.Equal(t, []string{"Data", "Result", "Output"}, cfg.ExtractingOptions.ResponseBodySuffix)
	assert.Equal(t, []string{"Error", "Fail", "Fails", "ErrorData", "HttpError", "BadResponse"}, cfg.ExtractingOptions.ResponseErrorSuffix)
	assert.NoError(t, cfg.Validate())
}

func TestRunSwagger_Input(t *testing.T) {
	out := filepath.Join(t.TempDir(), "api")

	result, err := RunSwagger(context.Background(), SwaggerOptions{
		Input:     petstorePath(t),
		Output:    out,
		Formatter: format.Basic{},
	})
	require.NoError(t, err)
	assert.Equal(t, out, result.Output)
	assert.Len(t, result.Routes, 4)

	for _, name := range []string{"Pets.ts", "Store.ts", "data-contracts.ts", "http-client.ts"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasSuffix(string(data), "\n"), name)
		assert.False(t, strings.HasSuffix(string(data), "\n\n"), name)
	}

	pets, err := os.ReadFile(filepath.Join(out, "Pets.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(pets), ".parse(")
	assert.Contains(t, string(pets), "from './schema'")
}

func TestRunSwagger_ZodDisabled(t *testing.T) {
	out := t.TempDir()

	_, err := RunSwagger(context.Background(), SwaggerOptions{
		Input:               petstorePath(t),
		Output:              out,
		ApplyZodSchemaInAPI: boolPtr(false),
		Formatter:           format.None{},
	})
	require.NoError(t, err)

	pets, err := os.ReadFile(filepath.Join(out, "Pets.ts"))
	require.NoError(t, err)
	assert.NotContains(t, string(pets), ".parse(")
	assert.NotContains(t, string(pets), "./schema")
}

func TestPlanSwagger(t *testing.T) {
	out := filepath.Join(t.TempDir(), "api")

	plan, err := PlanSwagger(context.Background(), SwaggerOptions{Input: petstorePath(t), Output: out})
	require.NoError(t, err)
	assert.Equal(t, out, plan.Config.Output)
	require.Len(t, plan.Routes, 4)
	for _, r := range plan.Routes {
		assert.NotNil(t, r.Preprocessed, r.RouteName)
	}

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "planning must not write the output directory")
}

func TestRunSwagger_URLWithBasicAuth(t *testing.T) {
	spec, err := os.ReadFile(petstorePath(t))
	require.NoError(t, err)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write(spec)
	}))
	defer srv.Close()

	_, err = RunSwagger(context.Background(), SwaggerOptions{
		URL:        srv.URL + "/openapi.yaml",
		ID:         "user",
		Password:   "pass",
		Output:     t.TempDir(),
		Formatter:  format.None{},
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Basic dXNlcjpwYXNz", gotAuth)
}

func TestRunSwagger_URLWithoutPassword(t *testing.T) {
	spec, err := os.ReadFile(petstorePath(t))
	require.NoError(t, err)

	gotAuth := "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write(spec)
	}))
	defer srv.Close()

	_, err = RunSwagger(context.Background(), SwaggerOptions{
		URL:       srv.URL,
		ID:        "user",
		Output:    t.TempDir(),
		Formatter: format.None{},
	})
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth)
}

func TestRunSwagger_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := RunSwagger(ctx, SwaggerOptions{Input: petstorePath(t)})
	assert.ErrorIs(t, err, ErrNoOutput)

	_, err = RunSwagger(ctx, SwaggerOptions{Input: petstorePath(t), URL: "http://localhost", Output: t.TempDir()})
	assert.ErrorIs(t, err, openapi.ErrSourceConflict)

	_, err = RunSwagger(ctx, SwaggerOptions{Output: t.TempDir()})
	assert.ErrorIs(t, err, openapi.ErrNoSource)

	_, err = RunSwagger(ctx, SwaggerOptions{Input: filepath.Join(t.TempDir(), "missing.yaml"), Output: t.TempDir()})
	assert.Error(t, err)
}

type failingFormatter struct{}

var errFormat = errors.New("format failed")

func (failingFormatter) Format(context.Context, string, []byte) ([]byte, error) {
	return nil, errFormat
}

func TestRunSwagger_FormatterError(t *testing.T) {
	_, err := RunSwagger(context.Background(), SwaggerOptions{
		Input:     petstorePath(t),
		Output:    t.TempDir(),
		Formatter: failingFormatter{},
	})
	assert.ErrorIs(t, err, errFormat)
}

type upperFormatter struct{ seen []string }

func (f *upperFormatter) Format(_ context.Context, name string, src []byte) ([]byte, error) {
	f.seen = append(f.seen, name)
	return []byte(strings.ToUpper(string(src))), nil
}

func TestFormatDir_TopLevelTypeScriptOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ts"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.ts"), []byte("c"), 0644))

	f := &upperFormatter{}
	require.NoError(t, FormatDir(context.Background(), dir, f, nil))
	assert.Equal(t, []string{"a.ts"}, f.seen)

	data, err := os.ReadFile(filepath.Join(dir, "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))

	data, err = os.ReadFile(filepath.Join(dir, "nested", "c.ts"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))
}

func TestDefaultFormatter_FallsBackWithWarning(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	assert.Equal(t, format.Basic{}, DefaultFormatter(log))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "prettier not found")
}

func TestRunSwagger_WarnsWithoutPrettier(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	var buf bytes.Buffer

	_, err := RunSwagger(context.Background(), SwaggerOptions{
		Input:  petstorePath(t),
		Output: t.TempDir(),
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "prettier not found")
}
