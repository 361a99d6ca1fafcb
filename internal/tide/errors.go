package tide

import "errors"

// Client construction errors.
// These are returned by NewClient before any network activity, so the
// caller can fail fast on configuration problems.
var (
	// ErrEmptyEndpoint is returned when no taxonomy endpoint URL is given.
	ErrEmptyEndpoint = errors.New("taxonomy endpoint URL must not be empty")

	// ErrInvalidEndpoint is returned when the endpoint is not an
	// absolute http or https URL.
	ErrInvalidEndpoint = errors.New("taxonomy endpoint must be an absolute http(s) URL")

	// ErrEmptyAPIKey is returned when no API key is configured.
	// Every taxonomy read is authenticated; an empty key would only
	// produce authorization failures.
	ErrEmptyAPIKey = errors.New("API key must not be empty")

	// ErrEmptyOKCodes is returned when the configured ok-set is empty.
	// An empty set would classify every response as a failure.
	ErrEmptyOKCodes = errors.New("ok status code set must not be empty")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address
	// is not in "host:port" format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")
)
