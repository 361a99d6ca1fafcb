package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the HTTP timeout for each taxonomy request.
	// Taxonomy responses are small JSON bodies; 60 seconds covers slow
	// links without letting a dead connection stall the run.
	DefaultTimeout = 60 * time.Second

	// DefaultAPIVersion is the platform API version used to build the
	// taxonomy endpoint path when the credentials file does not name one.
	DefaultAPIVersion = "v1"

	// DefaultConfigFile is the default credentials file name. The
	// platform's conventional credential format is an INI file.
	DefaultConfigFile = "config.ini"

	// AppName is the application name used for XDG directory paths.
	AppName = "tidescan"
)

// DefaultOKCodes returns the default set of HTTP status codes treated
// as successful taxonomy responses.
//
// A function rather than a package variable so callers cannot mutate
// the shared default.
func DefaultOKCodes() []int {
	return []int{200}
}

// Credentials holds the platform access settings loaded from the
// credentials file.
type Credentials struct {
	// URL is the platform base URL (e.g., "https://intel.example.com").
	URL string `yaml:"url"`

	// APIVersion selects the API version path segment of the taxonomy
	// endpoint. Defaults to DefaultAPIVersion when empty.
	APIVersion string `yaml:"api_version"`

	// APIKey authenticates every taxonomy read.
	APIKey string `yaml:"api_key"`

	// OKCodes is the set of HTTP status codes treated as success.
	// Defaults to DefaultOKCodes() when empty.
	OKCodes []int `yaml:"ok_codes"`
}

// Config holds all options for a tidescan run.
// It is populated from CLI flags plus the credentials file and passed
// through the application via dependency injection.
type Config struct {
	// Credentials are the platform access settings.
	Credentials Credentials

	// ConfigFilePath is the credentials file path. Empty means search
	// the default locations (see FindConfigFile).
	ConfigFilePath string

	// WithProperties enables per-class property retrieval.
	WithProperties bool

	// OutputFile is the report file destination. Empty means console only.
	OutputFile string

	// MarkdownReport renders the report as Markdown instead of text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// JSONReport renders the report as JSON instead of text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// Debug raises diagnostic verbosity to slog.LevelDebug.
	Debug bool

	// Timeout is the HTTP timeout for each taxonomy request.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format
	// for restricted-egress environments. Empty means direct egress.
	ProxyAddress string

	// Save persists the retrieved taxonomy as a snapshot in the local
	// history database for later comparison. The default run keeps
	// everything in memory.
	Save bool

	// DBDir is the directory for the snapshot database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero
// values because several defaults are non-zero (timeout, ok-set,
// API version). The constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		Credentials: Credentials{
			APIVersion: DefaultAPIVersion,
			OKCodes:    DefaultOKCodes(),
		},
		Timeout: DefaultTimeout,
		DBDir:   XDGDataDir(),
	}
}

// TaxonomyEndpoint returns the full taxonomy endpoint URL built from
// the platform base URL and API version:
//
//	<url>/api/<version>/threat_classes
//
// The properties endpoint is derived from this by the client
// (<endpoint>/properties?threatclass=<id>).
func (c *Config) TaxonomyEndpoint() string {
	version := c.Credentials.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return fmt.Sprintf("%s/api/%s/threat_classes",
		strings.TrimRight(c.Credentials.URL, "/"), version)
}

// XDGDataDir returns the XDG data directory for tidescan.
// On Linux: ~/.local/share/tidescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tidescan.
// On Linux: ~/.config/tidescan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid, returning a specific
// sentinel error for the first problem found.
//
// Design decision: Validation happens once after CLI parsing and
// credentials loading, before any network activity, so configuration
// problems fail fast with a clear message.
func (c *Config) Validate() error {
	if c.Credentials.URL == "" {
		return ErrMissingURL
	}
	if c.Credentials.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if len(c.Credentials.OKCodes) == 0 {
		return ErrEmptyOKCodes
	}
	if c.MarkdownReport && c.JSONReport {
		return ErrConflictingReportFormats
	}
	return nil
}
