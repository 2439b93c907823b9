// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/api2spec/swaggen/internal/format"
	"github.com/api2spec/swaggen/internal/runner"
)

// Version information set via ldflags during build.
var (
	// Version is the semantic version of the application.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long: `Print the version, commit hash, build date, Go version, and the
external tools swaggen can drive.`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			cmd.Println(Version)
			return
		}
		cmd.Printf("swaggen %s\n", Version)
		cmd.Printf("  Commit:     %s\n", Commit)
		cmd.Printf("  Build Date: %s\n", BuildDate)
		cmd.Printf("  Go Version: %s\n", runtime.Version())
		cmd.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  prettier:   %s\n", toolStatus(format.NamePrettier))
		cmd.Printf("  ts-to-zod:  %s\n", toolStatus(runner.DefaultZodCommand))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
}

// toolStatus reports whether an external executable is on PATH.
func toolStatus(command string) string {
	if format.Available(command) {
		return "found"
	}
	return "not found"
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return fmt.Sprintf("swaggen %s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
