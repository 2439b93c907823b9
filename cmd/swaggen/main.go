// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package main is the entry point for the swaggen CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/api2spec/swaggen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		code := 1
		var exitErr *cli.ExitCodeError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
			if errors.Is(err, cli.ErrOutOfDate) {
				os.Exit(code)
			}
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(code)
	}
}
