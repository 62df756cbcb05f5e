package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsverdict/internal/config"
)

//go:embed templates/newsverdict.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new newsverdict configuration file",
		Long: `Initialize creates a new .newsverdict configuration file in the current directory.

The generated file documents every setting with its default value: the news
source and query, the model backend and per-stage model settings, response
caching, and report output. API keys are never stored in this file; set them
in the environment or in a .env file instead.

Examples:
  # Create .newsverdict in current directory
  newsverdict init

  # Create config file at a specific path
  newsverdict init -o myconfig.yaml

  # Force overwrite existing file
  newsverdict init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/newsverdict.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nSet your API keys in the environment or a .env file:")
	fmt.Fprintf(out, "  - %s for NewsAPI\n", config.EnvNewsAPIKey)
	fmt.Fprintf(out, "  - %s or %s for the model backend\n", config.EnvGeminiAPIKey, config.EnvOpenAIAPIKey)

	return nil
}
