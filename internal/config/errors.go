package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and by the credentials
// loader, and provide specific information about what is wrong.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each call site. This allows callers
// to use errors.Is() for programmatic handling while still providing
// human-readable messages.
var (
	// ErrConfigNotFound is returned when the credentials file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnsupportedConfigFormat is returned for credentials files whose
	// extension is neither .ini nor .yaml/.yml.
	ErrUnsupportedConfigFormat = errors.New("unsupported configuration file format: expected .ini, .yaml, or .yml")

	// ErrMissingURL is returned when the platform URL is not configured.
	// Without it there is no taxonomy endpoint to query.
	ErrMissingURL = errors.New("platform URL is not configured: set url in the credentials file")

	// ErrMissingAPIKey is returned when no API key is configured.
	// Every taxonomy read is authenticated.
	ErrMissingAPIKey = errors.New("API key is not configured: set api_key in the credentials file")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrEmptyOKCodes is returned when the configured ok status code set
	// is empty. An empty set would classify every response as a failure.
	ErrEmptyOKCodes = errors.New("ok status code set must not be empty")

	// ErrConflictingReportFormats is returned when both --markdown and
	// --json are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --markdown and --json cannot be used together")
)
