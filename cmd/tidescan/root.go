// Package main provides the entry point for the tidescan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tidescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tidescan",
		Short: "Threat classification taxonomy reporting tool",
		Long: `tidescan retrieves the threat classification taxonomy from a
threat-intelligence platform and renders it as a report.

A report lists the platform's threat classes, optionally expanded with
the threat properties associated with each class. Reports can be written
to the console, to a CSV file, or rendered as Markdown or JSON.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
