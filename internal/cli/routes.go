// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/swaggen/internal/runner"
	"github.com/api2spec/swaggen/pkg/types"
)

var (
	routesFormat string
	routesModule string
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the preprocessed routes to stdout",
	Long: `Print every route of the OpenAPI document as the client templates see it,
including the annotations added by the route preprocessor.

Nothing is written to the output directory. This is useful for inspecting
query keys, schema names and wrapper arguments before generating.

Example:
  swaggen routes                        # Print as YAML
  swaggen routes --format json          # Print as JSON
  swaggen routes --module Pets          # Only the routes of one module
  swaggen routes -f json | jq '.[].routeName'`,
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().StringVarP(&routesFormat, "format", "f", "yaml", "output format: yaml, json")
	routesCmd.Flags().StringVarP(&routesModule, "module", "m", "", "only print routes of this module")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	if routesFormat != "yaml" && routesFormat != "json" {
		return fmt.Errorf("unsupported format %q, must be one of: yaml, json", routesFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := swaggerOptions(cfg)
	if err != nil {
		return err
	}

	plan, err := runner.PlanSwagger(cmd.Context(), opts)
	if err != nil {
		return err
	}

	routes := make([]types.Route, 0, len(plan.Routes))
	for _, r := range plan.Routes {
		if routesModule == "" || r.ModuleName == routesModule {
			routes = append(routes, r)
		}
	}
	printVerbose("Found %d routes in %d modules", len(routes), len(plan.Modules))

	return writeRoutes(stdout, routes, routesFormat)
}

// writeRoutes encodes routes as YAML or JSON.
func writeRoutes(w io.Writer, routes []types.Route, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(routes)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(routes); err != nil {
		return fmt.Errorf("failed to encode routes: %w", err)
	}
	return enc.Close()
}
