// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/api2spec/swaggen/internal/config"
	"github.com/api2spec/swaggen/internal/format"
	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/runner"
)

var (
	swaggerURL       string
	swaggerInput     string
	swaggerOutput    string
	swaggerID        string
	swaggerPassword  string
	swaggerApplyZod  bool
	swaggerEnums     bool
	swaggerFormatter string
	swaggerWithZod   bool
)

var genSwaggerCmd = &cobra.Command{
	Use:     "gen-swagger",
	Aliases: []string{"generate"},
	Short:   "Generate the TypeScript API client from an OpenAPI document",
	Long: `Generate a typed TypeScript API client from an OpenAPI document.

The document is read from --input or downloaded from --url (with basic auth
when --id and --password are both set). The output directory receives one
module per API tag, data-contracts.ts and http-client.ts, and every generated
file is formatted in place.

Example:
  swaggen gen-swagger --input openapi.yaml                 # Generate from a file
  swaggen gen-swagger --url https://api.example.com/doc    # Generate from a URL
  swaggen gen-swagger --apply-zod=false                    # Skip zod validation
  swaggen gen-swagger --zod                                # Also generate schema.ts`,
	RunE: runGenSwagger,
}

var (
	zodInput          string
	zodOutput         string
	zodSkipValidation bool
	zodEngine         string
	zodCommand        string
)

var genZodCmd = &cobra.Command{
	Use:   "gen-zod",
	Short: "Generate zod schemas from data-contracts.ts",
	Long: `Generate schema.ts from the data-contracts.ts of a generated client.

The ts-to-zod engine runs the external ts-to-zod tool and forwards its output.
The native engine translates the contracts in-process.

Example:
  swaggen gen-zod                                  # Use the configured directories
  swaggen gen-zod --input src/api --output src/zod # Explicit directories
  swaggen gen-zod --engine native                  # Built-in translation`,
	RunE: runGenZod,
}

func init() {
	genSwaggerCmd.Flags().StringVar(&swaggerURL, "url", "", "URL of the OpenAPI document")
	genSwaggerCmd.Flags().StringVarP(&swaggerInput, "input", "i", "", "path of the OpenAPI document")
	genSwaggerCmd.Flags().StringVarP(&swaggerOutput, "output", "o", "", "output directory (default: src/api)")
	genSwaggerCmd.Flags().StringVar(&swaggerID, "id", "", "basic auth user for --url")
	genSwaggerCmd.Flags().StringVar(&swaggerPassword, "password", "", "basic auth password for --url")
	genSwaggerCmd.Flags().BoolVar(&swaggerApplyZod, "apply-zod", true, "validate payloads and responses with zod schemas")
	genSwaggerCmd.Flags().BoolVar(&swaggerEnums, "extract-enums", false, "emit enums instead of string literal unions")
	genSwaggerCmd.Flags().StringVar(&swaggerFormatter, "formatter", "", "formatter: prettier, basic, none")
	genSwaggerCmd.Flags().BoolVar(&swaggerWithZod, "zod", false, "run gen-zod after generating the client")

	genZodCmd.Flags().StringVarP(&zodInput, "input", "i", "", "directory holding data-contracts.ts")
	genZodCmd.Flags().StringVarP(&zodOutput, "output", "o", "", "directory schema.ts is written to")
	genZodCmd.Flags().BoolVar(&zodSkipValidation, "skip-validation", false, "skip validating the generated schemas")
	genZodCmd.Flags().StringVar(&zodEngine, "engine", "", "zod engine: ts-to-zod, native")
	genZodCmd.Flags().StringVar(&zodCommand, "command", "", "ts-to-zod executable")
}

// loadConfig loads the config file, applies the flags changed on cmd and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	switch cmd.Name() {
	case "gen-swagger":
		if flags.Changed("url") {
			cfg.Source.URL, cfg.Source.Input = swaggerURL, ""
		}
		if flags.Changed("id") {
			cfg.Source.ID = swaggerID
		}
		if flags.Changed("password") {
			cfg.Source.Password = swaggerPassword
		}
		if flags.Changed("input") {
			cfg.Source.Input, cfg.Source.URL = swaggerInput, ""
		}
		if flags.Changed("output") {
			cfg.Output = swaggerOutput
			cfg.Zod.Input, cfg.Zod.Output = swaggerOutput, swaggerOutput
		}
		if flags.Changed("apply-zod") {
			cfg.ApplyZodSchemaInAPI = swaggerApplyZod
		}
		if flags.Changed("extract-enums") {
			cfg.ExtractEnums = swaggerEnums
		}
		if flags.Changed("formatter") {
			cfg.Formatter = swaggerFormatter
		}
	case "gen-zod":
		if flags.Changed("input") {
			cfg.Zod.Input = zodInput
		}
		if flags.Changed("output") {
			cfg.Zod.Output = zodOutput
		}
		if flags.Changed("skip-validation") {
			cfg.Zod.SkipValidation = zodSkipValidation
		}
		if flags.Changed("engine") {
			cfg.Zod.Engine = zodEngine
		}
		if flags.Changed("command") {
			cfg.Zod.Command = zodCommand
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// formatterFor resolves the configured formatter, falling back to the basic
// one when prettier is not installed.
func formatterFor(name string) (format.Formatter, error) {
	if (name == "" || name == format.NamePrettier) && !format.Available(format.NamePrettier) {
		log.Warn("prettier not found, using basic formatter")
		return format.Basic{}, nil
	}
	return format.ByName(name)
}

// swaggerOptions maps the configuration onto the client generation step.
func swaggerOptions(cfg *config.Config) (runner.SwaggerOptions, error) {
	formatter, err := formatterFor(cfg.Formatter)
	if err != nil {
		return runner.SwaggerOptions{}, err
	}
	applyZod := cfg.ApplyZodSchemaInAPI
	return runner.SwaggerOptions{
		ID:                  cfg.Source.ID,
		Password:            cfg.Source.Password,
		Output:              cfg.Output,
		URL:                 cfg.Source.URL,
		Input:               cfg.Source.Input,
		ApplyZodSchemaInAPI: &applyZod,
		ExtractEnums:        cfg.ExtractEnums,
		Formatter:           formatter,
		Logger:              log,
	}, nil
}

// zodOptions maps the configuration onto the schema generation step.
func zodOptions(cfg *config.Config) runner.ZodOptions {
	return runner.ZodOptions{
		Input:          cfg.Zod.Input,
		Output:         cfg.Zod.Output,
		SkipValidation: cfg.Zod.SkipValidation,
		Engine:         cfg.Zod.Engine,
		Command:        cfg.Zod.Command,
		Stdout:         stdout,
		Stderr:         stderr,
		Logger:         log,
	}
}

// generateClient runs the client step and, when withZod is set, the schema step.
func generateClient(ctx context.Context, cfg *config.Config, withZod bool) (*generator.Result, error) {
	opts, err := swaggerOptions(cfg)
	if err != nil {
		return nil, err
	}
	result, err := runner.RunSwagger(ctx, opts)
	if err != nil {
		return nil, err
	}
	if withZod {
		if err := runner.RunZod(ctx, zodOptions(cfg)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func runGenSwagger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	printVerbose("Configuration:")
	printVerbose("  Source: %s%s", cfg.Source.URL, cfg.Source.Input)
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Apply zod: %t", cfg.ApplyZodSchemaInAPI)
	printVerbose("  Formatter: %s", cfg.Formatter)

	result, err := generateClient(cmd.Context(), cfg, swaggerWithZod)
	if err != nil {
		return err
	}

	printInfo("Generated %d routes in %d files to %s", len(result.Routes), len(result.Files), result.Output)
	for _, f := range result.Files {
		printVerbose("  %s", f)
	}
	return nil
}

func runGenZod(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	printVerbose("Zod configuration:")
	printVerbose("  Engine: %s", cfg.Zod.Engine)
	printVerbose("  Input: %s", cfg.Zod.Input)
	printVerbose("  Output: %s", cfg.Zod.Output)

	if err := runner.RunZod(cmd.Context(), zodOptions(cfg)); err != nil {
		return err
	}
	printInfo("Generated %s", runner.SchemaFile)
	return nil
}
