// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/api2spec/swaggen/internal/config"
	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/runner"
	"github.com/api2spec/swaggen/internal/scanner"
)

// Exit codes for check command
const (
	ExitCodeMatch      = 0 // Output matches the document
	ExitCodeDifference = 1 // Output differs from the document
	ExitCodeCheckError = 2 // Error during generation
)

// ErrOutOfDate is returned by check when the output directory is stale.
var ErrOutOfDate = errors.New("generated client is out of date")

var checkIgnore []string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the generated client matches the OpenAPI document",
	Long: `Check regenerates the client into a temporary directory and compares it
with the files in the output directory. It's useful for CI pipelines to ensure
the committed client is always in sync with the document.

schema.ts is compared only when the native zod engine writes it into the
output directory.

Exit codes:
  0  Output matches the document
  1  Output differs from the document
  2  Error during generation

Example:
  swaggen check                          # Compare the configured output
  swaggen check --ignore 'Legacy*.ts'    # Ignore matching files`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "glob patterns of files to ignore in comparison")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &ExitCodeError{Code: ExitCodeCheckError, Err: err}
	}

	printVerbose("Check configuration:")
	printVerbose("  Output: %s", cfg.Output)
	printVerbose("  Ignored patterns: %v", checkIgnore)

	result, err := checkOutput(cmd.Context(), cfg, checkIgnore)
	if err != nil {
		return &ExitCodeError{Code: ExitCodeCheckError, Err: err}
	}

	if result.IsEmpty() {
		printInfo("Generated client is in sync with the document")
		return nil
	}

	printInfo("Generated client differs from the document:")
	printDiff(result)
	if result.HasBreakingChanges {
		printError("Files would be removed by regeneration")
	}
	printInfo("")
	printInfo("Run 'swaggen gen-swagger' to update the client")

	return &ExitCodeError{Code: ExitCodeDifference, Err: ErrOutOfDate}
}

// checkOutput regenerates into a temporary directory and diffs it against cfg.Output.
func checkOutput(ctx context.Context, cfg *config.Config, ignore []string) (*generator.DiffResult, error) {
	tmp, err := os.MkdirTemp("", "swaggen-check-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	regen := *cfg
	regen.Output = tmp
	withZod := cfg.Zod.Engine == runner.EngineNative && samePath(cfg.Zod.Output, cfg.Output)
	if withZod {
		regen.Zod.Input, regen.Zod.Output = tmp, tmp
	} else {
		ignore = append(append([]string{}, ignore...), runner.SchemaFile)
	}

	if _, err := generateClient(ctx, &regen, withZod); err != nil {
		return nil, err
	}

	scanCfg := scanner.Config{ExcludePatterns: ignore}
	if err := scanCfg.Validate(); err != nil {
		return nil, err
	}

	scanCfg.BasePath = cfg.Output
	before, err := scanner.New(scanCfg).Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cfg.Output, err)
	}
	scanCfg.BasePath = tmp
	after, err := scanner.New(scanCfg).Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read regenerated client: %w", err)
	}

	log.Debug("comparing generated files", "existing", len(before), "regenerated", len(after))
	return generator.DiffFiles(before, after), nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
