package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidescan/tidescan/internal/config"
)

//go:embed templates/config.ini
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tidescan credentials file",
		Long: `Initialize creates a new config.ini credentials file in the current
directory.

The generated file includes:
- Placeholders for the platform URL and API key
- Commented defaults for the API version and success status codes

Examples:
  # Create config.ini in current directory
  tidescan init

  # Create credentials file at a specific path
  tidescan init -o ~/.config/tidescan/config.ini

  # Force overwrite existing file
  tidescan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the credentials file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing credentials file")

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

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("credentials file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/config.ini")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Credentials files carry the API key, so owner-only permissions
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	fmt.Printf("Created credentials file: %s\n", outputPath)
	fmt.Println("\nEdit this file to set:")
	fmt.Println("  - url: the platform base URL")
	fmt.Println("  - api_key: your platform API key")

	return nil
}
