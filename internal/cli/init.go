// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/api2spec/swaggen/internal/config"
)

const initConfigFile = "swaggen.yaml"

var (
	initForce       bool
	initInteractive bool
	initURL         string
	initInput       string
	initOutput      string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new swaggen configuration file",
	Long: `Initialize a new swaggen configuration file in the current directory.

This command creates a swaggen.yaml file with sensible defaults
that you can customize for your project.

Features:
  - Finds an OpenAPI document in common locations
  - Places the client under src/ when the project has one
  - Names the project from package.json

Example:
  swaggen init                              # Detect and create config
  swaggen init --input docs/openapi.yaml    # Use a specific document
  swaggen init --url https://api/doc.json   # Download the document
  swaggen init --force                      # Overwrite existing config
  swaggen init --interactive                # Interactive mode with prompts`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "interactive mode with prompts")
	initCmd.Flags().StringVar(&initURL, "url", "", "URL of the OpenAPI document")
	initCmd.Flags().StringVar(&initInput, "input", "", "path of the OpenAPI document")
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "", "output directory of the client")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check if config file already exists
	if _, err := os.Stat(initConfigFile); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", initConfigFile)
	}

	projectRoot, err := filepath.Abs(".")
	if err != nil {
		return fmt.Errorf("failed to determine project root: %w", err)
	}

	cfg := config.Default()
	cfg.Output = detectOutput(projectRoot)
	if initOutput != "" {
		cfg.Output = initOutput
	}

	switch {
	case initURL != "" && initInput != "":
		return fmt.Errorf("--url and --input are mutually exclusive")
	case initURL != "":
		cfg.Source.URL = initURL
	case initInput != "":
		cfg.Source.Input = initInput
	default:
		if doc := detectDocument(projectRoot); doc != "" {
			cfg.Source.Input = doc
			printInfo("Detected OpenAPI document: %s", doc)
		} else {
			printInfo("No OpenAPI document found. Set source.url or source.input in %s", initConfigFile)
		}
	}

	if initInteractive && isTerminal() {
		cfg = interactiveInit(cfg, os.Stdin, stdout)
	}

	info := detectProjectInfo(projectRoot)
	content, err := buildConfigYAML(cfg, info)
	if err != nil {
		return err
	}
	if err := config.ValidateDocument([]byte(content)); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if err := os.WriteFile(initConfigFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	printInfo("Created %s", initConfigFile)
	printVerbose("Output: %s", cfg.Output)
	return nil
}

// projectInfo holds information detected from the project.
type projectInfo struct {
	Name        string
	Description string
}

// detectProjectInfo reads the name and description from package.json.
func detectProjectInfo(projectRoot string) projectInfo {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return projectInfo{}
	}
	var pkg struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return projectInfo{}
	}
	return projectInfo{Name: pkg.Name, Description: pkg.Description}
}

// documentCandidates are the OpenAPI document locations tried by init, in order.
var documentCandidates = []string{
	"openapi.yaml",
	"openapi.yml",
	"openapi.json",
	"swagger.yaml",
	"swagger.yml",
	"swagger.json",
	"docs/openapi.yaml",
	"docs/openapi.json",
	"api/openapi.yaml",
	"api/openapi.json",
}

// detectDocument returns the first OpenAPI document found under projectRoot.
func detectDocument(projectRoot string) string {
	for _, candidate := range documentCandidates {
		if stat, err := os.Stat(filepath.Join(projectRoot, candidate)); err == nil && !stat.IsDir() {
			return candidate
		}
	}
	return ""
}

// detectOutput places the client under src/ when the project has one.
func detectOutput(projectRoot string) string {
	if stat, err := os.Stat(filepath.Join(projectRoot, "src")); err == nil && stat.IsDir() {
		return "src/api"
	}
	return "api"
}

// isTerminal checks if stdin is a terminal.
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// interactiveInit prompts for the main options. Empty answers keep the current value.
func interactiveInit(cfg *config.Config, in io.Reader, out io.Writer) *config.Config {
	reader := bufio.NewReader(in)
	ask := func(prompt, current string) string {
		fmt.Fprintf(out, "%s [%s]: ", prompt, current)
		answer, _ := reader.ReadString('\n')
		if answer = strings.TrimSpace(answer); answer != "" {
			return answer
		}
		return current
	}

	location := cfg.Source.Input
	if cfg.Source.URL != "" {
		location = cfg.Source.URL
	}
	if location = ask("OpenAPI document (path or URL)", location); strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		cfg.Source.URL, cfg.Source.Input = location, ""
	} else {
		cfg.Source.URL, cfg.Source.Input = "", location
	}

	cfg.Output = ask("Output directory", cfg.Output)
	cfg.Formatter = ask("Formatter (prettier/basic/none)", cfg.Formatter)
	cfg.Zod.Engine = ask("Zod engine (ts-to-zod/native)", cfg.Zod.Engine)
	return cfg
}

// buildConfigYAML builds a YAML config with a header comment.
func buildConfigYAML(cfg *config.Config, info projectInfo) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	var header strings.Builder
	header.WriteString("# swaggen configuration file\n")
	if info.Name != "" {
		fmt.Fprintf(&header, "# project: %s\n", info.Name)
	}
	if info.Description != "" {
		fmt.Fprintf(&header, "# %s\n", info.Description)
	}
	header.WriteString("#\n# Credentials can be supplied with SWAGGEN_ID and SWAGGEN_PASSWORD.\n\n")
	return header.String() + string(data), nil
}
