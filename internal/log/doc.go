// Package log provides secure logging with automatic sanitization of
// credential material, built on top of the standard slog package.
//
// Every taxonomy read is authenticated with a platform API key, and the
// client logs raw request/response diagnostics at debug level. The
// SecureHandler masks attribute values that look like credentials
// (API keys, Authorization headers, tokens) so that debug logs can be
// shared with support or attached to issues without leaking access to
// the threat-intelligence platform.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, debug)
//	slog.SetDefault(logger)
//
//	logger.Debug("request sent",
//	    "authorization", "Token abc123",  // masked in output
//	    "url", endpoint,
//	)
package log
