// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"github.com/api2spec/swaggen/internal/generator"
)

// printDiff reports the changes of a diff result through printInfo.
func printDiff(result *generator.DiffResult) {
	printInfo(result.Summary)

	if len(result.RouteChanges) > 0 {
		printInfo("")
		printInfo("Route changes:")
		for _, change := range result.RouteChanges {
			printInfo("  %s %s %s (%s)", changeSymbol(change.Type), change.Method, change.Path, change.RouteName)
		}
	}

	if len(result.FileChanges) > 0 {
		printInfo("")
		printInfo("File changes:")
		for _, change := range result.FileChanges {
			printInfo("  %s %s", changeSymbol(change.Type), change.Name)
		}
	}
}

// logDiff reports a diff result as one structured log line per change.
func logDiff(result *generator.DiffResult) {
	for _, change := range result.RouteChanges {
		log.Info("route changed", "change", change.Type, "method", change.Method, "path", change.Path, "route", change.RouteName)
	}
	for _, change := range result.FileChanges {
		log.Info("file changed", "change", change.Type, "file", change.Name)
	}
}

// changeSymbol returns a symbol for the change type.
func changeSymbol(t generator.DiffType) string {
	switch t {
	case generator.DiffTypeAdded:
		return "+"
	case generator.DiffTypeRemoved:
		return "-"
	case generator.DiffTypeModified:
		return "~"
	default:
		return " "
	}
}
