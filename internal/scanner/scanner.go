// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns selects the TypeScript files directly in the output directory.
var DefaultIncludePatterns = []string{"*.ts"}

// Config holds scanner configuration.
type Config struct {
	// BasePath is the directory to scan (defaults to current directory)
	BasePath string

	// IncludePatterns are glob patterns relative to BasePath (e.g., "*.ts", "**/*.ts")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "schema.ts")
	ExcludePatterns []string
}

// Scanner discovers generated files in an output directory.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if config.BasePath == "" {
		config.BasePath = "."
	}
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = DefaultIncludePatterns
	}
	return &Scanner{config: config}
}

// Validate checks every pattern for syntax errors.
func (c Config) Validate() error {
	for _, p := range append(append([]string{}, c.IncludePatterns...), c.ExcludePatterns...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Scan returns the matching files sorted by relative path.
func (s *Scanner) Scan() ([]GeneratedFile, error) {
	basePath, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	info, err := os.Stat(basePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", basePath)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", basePath)
	}

	var files []GeneratedFile
	err = filepath.WalkDir(basePath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(basePath, filePath)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if s.shouldExcludeDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.shouldInclude(relPath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		files = append(files, GeneratedFile{
			Path:    filePath,
			RelPath: relPath,
			Kind:    DetectKind(relPath),
			Content: content,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Snapshot returns the content of every matching file keyed by relative path.
// A missing directory yields an empty snapshot.
func (s *Scanner) Snapshot() (map[string][]byte, error) {
	if _, err := os.Stat(s.config.BasePath); errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	files, err := s.Scan()
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string][]byte, len(files))
	for _, f := range files {
		snapshot[f.RelPath] = f.Content
	}
	return snapshot, nil
}

// shouldInclude checks a slash-separated relative path against the patterns.
func (s *Scanner) shouldInclude(relPath string) bool {
	if matchesPatterns(relPath, s.config.ExcludePatterns) {
		return false
	}
	return matchesPatterns(relPath, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be skipped entirely.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}
	if relPath == "node_modules" || strings.HasPrefix(filepath.Base(relPath), ".") {
		return true
	}
	for _, pattern := range s.config.ExcludePatterns {
		dirPattern := strings.TrimSuffix(strings.TrimSuffix(pattern, "/**"), "/*")
		if relPath == dirPattern {
			return true
		}
	}
	return false
}

func matchesPatterns(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
