package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidescan/tidescan/internal/collector"
	"github.com/tidescan/tidescan/internal/config"
	"github.com/tidescan/tidescan/internal/database"
	"github.com/tidescan/tidescan/internal/log"
	"github.com/tidescan/tidescan/internal/model"
	"github.com/tidescan/tidescan/internal/output"
	"github.com/tidescan/tidescan/internal/progress"
	"github.com/tidescan/tidescan/internal/report"
	"github.com/tidescan/tidescan/internal/tide"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Retrieve the threat taxonomy and render a report",
		Long: `Report retrieves the threat classification taxonomy from the platform
and renders it as a report.

By default the report lists the platform's threat classes. With
--properties, each class is expanded with its associated threat
properties, retrieved one class at a time with a progress indicator.

The console report is human-readable text. With --output, a CSV copy is
written to the given file; an existing file at that path is preserved by
renaming it with a .bak suffix first. --markdown and --json switch both
destinations to the chosen format.

Credentials are read from an INI or YAML file (default: config.ini in
the current directory, then the XDG config directory). Use 'tidescan
init' to create a starter file.

Examples:
  # List threat classes
  tidescan report

  # Expand each class with its threat properties
  tidescan report --properties

  # Write a CSV copy next to the console report
  tidescan report --properties --output taxonomy.csv

  # Render Markdown instead of text
  tidescan report --properties --markdown

  # Keep a snapshot for later comparison
  tidescan report --properties --save`,
		RunE: runReportCmd,
	}

	// Credentials file
	cmd.Flags().StringP("config", "c", "",
		"Credentials file path (default: config.ini in current or XDG config directory)")

	// Retrieval flags
	cmd.Flags().BoolP("properties", "p", false,
		"Retrieve threat properties for each threat class")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each taxonomy request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for platform access (e.g., 127.0.0.1:1080)")

	// Report flags
	cmd.Flags().StringP("output", "o", "",
		"Write a file copy of the report to the specified path")
	cmd.Flags().BoolP("markdown", "m", false,
		"Render the report as Markdown (mutually exclusive with --json)")
	cmd.Flags().BoolP("json", "j", false,
		"Render the report as JSON (mutually exclusive with --markdown)")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Save the retrieved taxonomy as a snapshot for 'tidescan compare'")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewSecureLogger(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runReport(ctx, cfg, logger)
}

// getDebugFlag retrieves the debug flag from the command or its parent.
func getDebugFlag(cmd *cobra.Command) bool {
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		debug, err = cmd.Root().PersistentFlags().GetBool("debug")
		if err != nil {
			return false
		}
	}
	return debug
}

// buildConfig creates a Config from cobra command flags and the
// credentials file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load credentials from file.
	// If user explicitly specified a path, error if not found.
	// If no path specified, validation reports the missing credentials.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		creds, err := config.LoadCredentials(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials file %s: %w", configPath, err)
		}
		cfg.Credentials = *creds
	} else if explicitConfigPath {
		return nil, fmt.Errorf("credentials file not found: %s", cfg.ConfigFilePath)
	}

	cfg.WithProperties, err = cmd.Flags().GetBool("properties")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.Save, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.Debug = getDebugFlag(cmd)

	return cfg, nil
}

// runReport executes the retrieval and renders the report.
func runReport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	endpoint := cfg.TaxonomyEndpoint()

	clientOpts := []tide.Option{
		tide.WithOKCodes(cfg.Credentials.OKCodes),
		tide.WithTimeout(cfg.Timeout),
		tide.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		clientOpts = append(clientOpts, tide.WithSOCKSProxy(cfg.ProxyAddress))
	}

	client, err := tide.NewClient(endpoint, cfg.Credentials.APIKey, clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create platform client: %w", err)
	}

	// Open the file sink before any network activity. A sink that
	// cannot be opened degrades the run to console-only rather than
	// aborting it.
	var sink *output.File
	if cfg.OutputFile != "" {
		sink, err = output.OpenWithBackup(cfg.OutputFile)
		if err != nil {
			logger.Warn("failed to open output file, continuing with console only",
				"path", cfg.OutputFile, "error", err)
		} else {
			defer sink.Close()
		}
	}

	logger.Info("starting taxonomy retrieval", "endpoint", endpoint)

	bar := progress.New()
	c := collector.New(client,
		collector.WithLogger(logger),
		collector.WithProgress(bar.Update),
	)

	startTime := time.Now()
	classificationReport, err := c.Collect(ctx, cfg.WithProperties)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("taxonomy retrieval failed: %w", err)
	}

	logger.Info("taxonomy retrieved",
		"classes", classificationReport.ClassCount(),
		"properties", classificationReport.PropertyCount(),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err := renderReport(cfg, sink, classificationReport); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if cfg.Save {
		// --save is an explicit request; a run that could not persist
		// its snapshot should not report success.
		if err := saveSnapshot(ctx, cfg, classificationReport, logger); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	return nil
}

// renderReport writes the report to the console and, when a sink is
// open, to the file.
//
// The console always gets the human-readable rendition unless
// --markdown or --json switches the format. The file copy is CSV by
// default so it can feed spreadsheets and scripts, and follows the
// format flags otherwise.
func renderReport(cfg *config.Config, sink *output.File, r *model.ClassificationReport) error {
	writers := []report.Writer{consoleWriter(cfg, os.Stdout)}
	if sink != nil {
		writers = append(writers, fileWriter(cfg, sink))
	}

	_, err := report.NewMultiWriter(writers...).Write(r)
	return err
}

// consoleWriter selects the console report writer for the configured format.
func consoleWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewTextWriter(w)
	}
}

// fileWriter selects the file report writer for the configured format.
func fileWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewCSVWriter(w)
	}
}

// saveSnapshot stores the report in the snapshot database.
func saveSnapshot(ctx context.Context, cfg *config.Config, r *model.ClassificationReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer db.Close()

	id, saved, err := db.SaveSnapshot(ctx, r)
	if err != nil {
		return err
	}

	if saved {
		logger.Info("snapshot saved", "id", id)
		fmt.Printf("Snapshot saved (id %d)\n", id)
	} else {
		logger.Info("taxonomy unchanged, snapshot not duplicated", "id", id)
		fmt.Printf("Taxonomy unchanged since snapshot %d, nothing saved\n", id)
	}

	return nil
}
