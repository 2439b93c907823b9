// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for swaggen.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/viper"
	sigsyaml "sigs.k8s.io/yaml"
)

// EnvPrefix prefixes the environment variables that override the source.
const EnvPrefix = "SWAGGEN_"

//go:embed schema.json
var schemaJSON []byte

// Config represents the swaggen configuration.
type Config struct {
	// Source locates the OpenAPI document
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// Output is the directory the API client is written to
	Output string `mapstructure:"output" yaml:"output" json:"output"`

	// ApplyZodSchemaInAPI makes modules validate payloads and responses with zod
	ApplyZodSchemaInAPI bool `mapstructure:"applyZodSchemaInAPI" yaml:"applyZodSchemaInAPI" json:"applyZodSchemaInAPI"`

	// ExtractEnums emits enums instead of string literal unions
	ExtractEnums bool `mapstructure:"extractEnums" yaml:"extractEnums" json:"extractEnums"`

	// Formatter is the formatter applied to generated files (prettier, basic, none)
	Formatter string `mapstructure:"formatter" yaml:"formatter" json:"formatter"`

	// Zod contains schema generation configuration
	Zod ZodConfig `mapstructure:"zod" yaml:"zod" json:"zod"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// SourceConfig locates the OpenAPI document. URL and Input are mutually exclusive.
type SourceConfig struct {
	URL   string `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
	Input string `mapstructure:"input" yaml:"input,omitempty" json:"input,omitempty"`

	// ID and Password enable basic auth for URL when both are set
	ID       string `mapstructure:"id" yaml:"id,omitempty" json:"id,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty" json:"password,omitempty"`
}

// ZodConfig contains schema generation configuration.
type ZodConfig struct {
	// Input is the directory holding data-contracts.ts; defaults to Output
	Input string `mapstructure:"input" yaml:"input,omitempty" json:"input,omitempty"`

	// Output is the directory schema.ts is written to; defaults to Output
	Output string `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty"`

	// Engine is ts-to-zod or native
	Engine string `mapstructure:"engine" yaml:"engine" json:"engine"`

	// Command is the ts-to-zod executable
	Command string `mapstructure:"command" yaml:"command" json:"command"`

	SkipValidation bool `mapstructure:"skipValidation" yaml:"skipValidation" json:"skipValidation"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"swaggen.yaml",
	"swaggen.json",
	".swaggen.yaml",
	".swaggen.json",
}

var supportedFormatters = []string{"prettier", "basic", "none"}

var supportedEngines = []string{"ts-to-zod", "native"}

// ErrConfigNotFound is returned when an explicit config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Output:              "src/api",
		ApplyZodSchemaInAPI: true,
		Formatter:           "prettier",
		Zod: ZodConfig{
			Engine:  "ts-to-zod",
			Command: "ts-to-zod",
		},
		Watch: WatchConfig{Debounce: 500},
	}
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output", d.Output)
	v.SetDefault("applyZodSchemaInAPI", d.ApplyZodSchemaInAPI)
	v.SetDefault("extractEnums", d.ExtractEnums)
	v.SetDefault("formatter", d.Formatter)
	v.SetDefault("zod.engine", d.Zod.Engine)
	v.SetDefault("zod.command", d.Zod.Command)
	v.SetDefault("zod.skipValidation", false)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// Load loads the configuration from a file, then applies SWAGGEN_* environment overrides.
// It searches the working directory for the following files, in order:
// 1. swaggen.yaml
// 2. swaggen.json
// 3. .swaggen.yaml
// 4. .swaggen.json
//
// If configPath is provided, it will use that path instead.
// With no file, the defaults are used.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = ConfigFilePath()
	}

	cfg := Default()
	if configPath != "" {
		var err error
		if cfg, err = loadFile(configPath); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.resolve()
	return cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.resolve()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := ValidateDocument(raw); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// envSource holds the environment overrides.
type envSource struct {
	URL      string `env:"URL"`
	Input    string `env:"INPUT"`
	ID       string `env:"ID"`
	Password string `env:"PASSWORD"`
}

// applyEnv overlays SWAGGEN_* variables. Setting either SWAGGEN_URL or
// SWAGGEN_INPUT replaces the whole document location.
func applyEnv(cfg *Config) error {
	var e envSource
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if e.URL != "" || e.Input != "" {
		cfg.Source.URL = e.URL
		cfg.Source.Input = e.Input
	}
	if e.ID != "" {
		cfg.Source.ID = e.ID
	}
	if e.Password != "" {
		cfg.Source.Password = e.Password
	}
	return nil
}

// resolve fills the zod directories from Output.
func (c *Config) resolve() {
	if c.Zod.Input == "" {
		c.Zod.Input = c.Output
	}
	if c.Zod.Output == "" {
		c.Zod.Output = c.Output
	}
}

// ValidateDocument checks a raw YAML or JSON config file against the embedded JSON schema.
func ValidateDocument(raw []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	data, err := sigsyaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if doc == nil {
		return nil
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return fmt.Errorf("failed to validate config file: %w", err)
		}
		return schemaErrors(ve)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("swaggen.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}
	schema, err := compiler.Compile("swaggen.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema, nil
}

// schemaErrors flattens a schema validation failure into its leaf causes.
func schemaErrors(ve *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.ReplaceAll(strings.TrimPrefix(e.InstanceLocation, "/"), "/", ".")
			if field == "" {
				field = "(root)"
			}
			errs = append(errs, ValidationError{Field: field, Message: e.Message})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return errs
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Source.URL != "" && c.Source.Input != "" {
		errs = append(errs, ValidationError{
			Field:   "source",
			Message: "url and input are mutually exclusive",
		})
	}

	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, ValidationError{
			Field:   "output",
			Message: "output is required",
		})
	}

	if c.Formatter != "" && !contains(supportedFormatters, c.Formatter) {
		errs = append(errs, ValidationError{
			Field:   "formatter",
			Message: fmt.Sprintf("unsupported formatter %q, must be one of: %s", c.Formatter, strings.Join(supportedFormatters, ", ")),
		})
	}

	if c.Zod.Engine != "" && !contains(supportedEngines, c.Zod.Engine) {
		errs = append(errs, ValidationError{
			Field:   "zod.engine",
			Message: fmt.Sprintf("unsupported engine %q, must be one of: %s", c.Zod.Engine, strings.Join(supportedEngines, ", ")),
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ConfigFilePath returns the path of the config file found in the working directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
