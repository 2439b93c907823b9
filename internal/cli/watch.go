// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/api2spec/swaggen/internal/generator"
	"github.com/api2spec/swaggen/pkg/types"
)

// errWatchNeedsInput is returned when the document is not a local file.
var errWatchNeedsInput = errors.New("watch requires a local input document")

var (
	watchDebounce int
	watchSkipZod  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the OpenAPI document and regenerate on change",
	Long: `Watch the input document and automatically regenerate the client and the
zod schemas whenever it changes.

Changes are debounced, and regenerations never overlap. The route changes of
each regeneration are logged.

Example:
  swaggen watch                    # Watch the configured input
  swaggen watch --debounce 1000    # Wait 1s before regenerating
  swaggen watch --skip-zod         # Only regenerate the client`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 0, "debounce duration in milliseconds (default from config)")
	watchCmd.Flags().BoolVar(&watchSkipZod, "skip-zod", false, "do not run gen-zod after each regeneration")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Source.Input == "" {
		return errWatchNeedsInput
	}
	if watchDebounce > 0 {
		cfg.Watch.Debounce = watchDebounce
	}
	debounce := time.Duration(cfg.Watch.Debounce) * time.Millisecond

	printVerbose("Watch configuration:")
	printVerbose("  Debounce: %s", debounce)
	printVerbose("  Zod: %t", !watchSkipZod)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var previous []types.Route
	regenerate := func(ctx context.Context) error {
		result, err := generateClient(ctx, cfg, !watchSkipZod)
		if err != nil {
			return err
		}
		diff := generator.DiffRoutes(previous, result.Routes)
		if previous != nil {
			logDiff(diff)
		}
		previous = result.Routes
		log.Info("regenerated", "routes", len(result.Routes), "changes", diff.Summary)
		return nil
	}

	if err := regenerate(ctx); err != nil {
		printError("%v", err)
	}

	printInfo("Watching %s for changes", cfg.Source.Input)
	printInfo("Press Ctrl+C to stop")

	err = watchFile(ctx, cfg.Source.Input, debounce, regenerate)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchFile calls fn after path changes, once per quiet period of debounce.
// Calls never overlap. A failing fn is logged and watching continues.
func watchFile(ctx context.Context, path string, debounce time.Duration, fn func(context.Context) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("input changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case <-timer.C:
			if err := fn(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Error("regeneration failed", "error", err)
				printError("%v", err)
			}
		}
	}
}
