// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/internal/zodgen"
)

// Zod engines.
const (
	EngineTsToZod = "ts-to-zod"
	EngineNative  = "native"
)

// DefaultZodCommand is the executable launched by the ts-to-zod engine.
const DefaultZodCommand = "ts-to-zod"

// SchemaFile is the name of the generated zod module.
const SchemaFile = "schema.ts"

// ErrContractsNotFound is returned when the input directory has no data-contracts.ts.
var ErrContractsNotFound = errors.New("data contracts not found")

// ExitError reports a ts-to-zod run that exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ts-to-zod exited with code %d", e.Code)
}

// ZodOptions configures RunZod.
type ZodOptions struct {
	// Input is the directory holding data-contracts.ts
	Input string

	// Output is the directory schema.ts is written to
	Output string

	SkipValidation bool

	// Engine is EngineTsToZod (default) or EngineNative
	Engine string

	// Command overrides the ts-to-zod executable; it may carry leading arguments, as in "npx ts-to-zod"
	Command string

	// Stdout and Stderr receive the child's output line by line; nil discards it
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// ZodArgs returns the ts-to-zod arguments for the given relative directories.
func ZodArgs(relInput, relOutput string, skipValidation bool) []string {
	args := []string{
		filepath.Join(relInput, generator.DataContractsFile),
		filepath.Join(relOutput, SchemaFile),
	}
	if skipValidation {
		args = append(args, "--skipValidation")
	}
	return args
}

// RunZod writes <Output>/schema.ts from <Input>/data-contracts.ts.
// The external engine is spawned once, with no retry and no timeout of its own.
func RunZod(ctx context.Context, opts ZodOptions) error {
	log := logger(opts.Logger)

	relInput, err := relative(opts.Input)
	if err != nil {
		return err
	}
	relOutput, err := relative(opts.Output)
	if err != nil {
		return err
	}

	contracts := filepath.Join(relInput, generator.DataContractsFile)
	if _, err := os.Stat(contracts); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrContractsNotFound, contracts, err)
	}

	switch opts.Engine {
	case "", EngineTsToZod:
		return runTsToZod(ctx, opts, ZodArgs(relInput, relOutput, opts.SkipValidation), log)
	case EngineNative:
		output := filepath.Join(relOutput, SchemaFile)
		log.Info("generating schemas", "engine", EngineNative, "input", contracts, "output", output)
		return zodgen.GenerateFile(ctx, contracts, output, zodgen.Options{
			SkipValidation: opts.SkipValidation,
			Logger:         log,
		})
	default:
		return fmt.Errorf("unknown zod engine %q (expected %s or %s)", opts.Engine, EngineTsToZod, EngineNative)
	}
}

// relative expresses path relative to the working directory.
func relative(path string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil {
		return abs, nil
	}
	return rel, nil
}

func runTsToZod(ctx context.Context, opts ZodOptions, args []string, log *slog.Logger) error {
	command := opts.Command
	if command == "" {
		command = DefaultZodCommand
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errors.New("empty ts-to-zod command")
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], args...)...)
	detach(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", fields[0], err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", fields[0], err)
	}

	log.Info("generating schemas", "engine", EngineTsToZod, "command", cmd.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", fields[0], err)
	}

	sink := &lineSink{log: log}
	var wg sync.WaitGroup
	wg.Add(2)
	go sink.forward(&wg, stdout, opts.Stdout)
	go sink.forward(&wg, stderr, opts.Stderr)
	wg.Wait()

	err = cmd.Wait()
	if err == nil {
		log.Debug("ts-to-zod finished", "pid", cmd.ProcessState.Pid())
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("ts-to-zod aborted: %w", ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("ts-to-zod failed: %w", err)
}

// maxLine bounds the lines lineSink writes whole; longer ones are forwarded in chunks.
const maxLine = 1024 * 1024

// lineSink serialises lines copied from several pipes.
type lineSink struct {
	mu  sync.Mutex
	log *slog.Logger
}

func (s *lineSink) forward(wg *sync.WaitGroup, r io.Reader, w io.Writer) {
	defer wg.Done()
	if w == nil {
		w = io.Discard
	}
	br := bufio.NewReaderSize(r, maxLine)
	warned := false
	for {
		line, err := br.ReadSlice('\n')
		if err == bufio.ErrBufferFull && !warned {
			s.log.Warn("ts-to-zod output line exceeds buffer, forwarding unsplit", "limit", maxLine)
			warned = true
		}
		if len(line) > 0 {
			s.mu.Lock()
			_, _ = w.Write(line)
			if err == io.EOF {
				_, _ = io.WriteString(w, "\n")
			}
			s.mu.Unlock()
		}
		switch {
		case err == nil, err == bufio.ErrBufferFull:
		case errors.Is(err, io.EOF), errors.Is(err, os.ErrClosed):
			return
		default:
			s.log.Debug("ts-to-zod output read failed", "error", err)
			return
		}
	}
}
