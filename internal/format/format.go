// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package format rewrites generated TypeScript sources into their final layout.
package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Formatter names accepted by ByName.
const (
	NamePrettier = "prettier"
	NameBasic    = "basic"
	NameNone     = "none"
)

// Formatter rewrites one source file.
type Formatter interface {
	Format(ctx context.Context, filename string, src []byte) ([]byte, error)
}

// Options is the fixed layout applied to generated files.
type Options struct {
	ArrowParens    string
	BracketSpacing bool
	EndOfLine      string
	PrintWidth     int
	Semi           bool
	SingleQuote    bool
	JSXSingleQuote bool
	TabWidth       int
	TrailingComma  string
	UseTabs        bool
	Parser         string
}

// DefaultOptions returns the layout used for every generated client.
func DefaultOptions() Options {
	return Options{
		ArrowParens:    "avoid",
		BracketSpacing: false,
		EndOfLine:      "auto",
		PrintWidth:     120,
		Semi:           true,
		SingleQuote:    true,
		JSXSingleQuote: true,
		TabWidth:       2,
		TrailingComma:  "all",
		UseTabs:        false,
		Parser:         "typescript",
	}
}

// Args renders the options as prettier command line flags.
func (o Options) Args() []string {
	args := []string{
		"--arrow-parens", o.ArrowParens,
		"--end-of-line", o.EndOfLine,
		"--print-width", strconv.Itoa(o.PrintWidth),
		"--tab-width", strconv.Itoa(o.TabWidth),
		"--trailing-comma", o.TrailingComma,
		"--parser", o.Parser,
	}
	if !o.BracketSpacing {
		args = append(args, "--no-bracket-spacing")
	}
	if !o.Semi {
		args = append(args, "--no-semi")
	}
	if o.SingleQuote {
		args = append(args, "--single-quote")
	}
	if o.JSXSingleQuote {
		args = append(args, "--jsx-single-quote")
	}
	if o.UseTabs {
		args = append(args, "--use-tabs")
	}
	return args
}

// Prettier formats sources by piping them through the prettier CLI.
type Prettier struct {
	// Command is the executable, "prettier" when empty
	Command string

	Options Options
}

// NewPrettier returns a Prettier formatter with the default options.
func NewPrettier() *Prettier {
	return &Prettier{Command: NamePrettier, Options: DefaultOptions()}
}

// Format implements Formatter.
func (p *Prettier) Format(ctx context.Context, filename string, src []byte) ([]byte, error) {
	command := p.Command
	if command == "" {
		command = NamePrettier
	}
	args := append(p.Options.Args(), "--stdin-filepath", filename)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("prettier failed on %s: %w", filename, err)
		}
		return nil, fmt.Errorf("prettier failed on %s: %w: %s", filename, err, msg)
	}
	return stdout.Bytes(), nil
}

// Basic is an in-process tidy pass: trailing whitespace is trimmed,
// runs of blank lines collapse to one, and the file ends with one newline.
type Basic struct{}

// Format implements Formatter.
func (Basic) Format(_ context.Context, _ string, src []byte) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n")

	var b strings.Builder
	blank := 0
	wrote := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			continue
		}
		if wrote && blank > 0 {
			b.WriteString("\n")
		}
		blank = 0
		b.WriteString(line)
		b.WriteString("\n")
		wrote = true
	}
	return []byte(b.String()), nil
}

// None leaves sources unchanged.
type None struct{}

// Format implements Formatter.
func (None) Format(_ context.Context, _ string, src []byte) ([]byte, error) {
	return src, nil
}

// ByName returns the formatter registered under name.
func ByName(name string) (Formatter, error) {
	switch name {
	case "", NamePrettier:
		return NewPrettier(), nil
	case NameBasic:
		return Basic{}, nil
	case NameNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown formatter %q (expected %s, %s or %s)", name, NamePrettier, NameBasic, NameNone)
	}
}

// Available reports whether command is on PATH. An empty command means prettier.
func Available(command string) bool {
	if command == "" {
		command = NamePrettier
	}
	_, err := exec.LookPath(command)
	return err == nil
}
