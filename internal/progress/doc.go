// Package progress provides a terminal progress indicator for the
// per-class property retrieval walk.
//
// The indicator rewrites a single status line with carriage returns, so
// it only activates when the destination is an interactive terminal.
// When output is piped or redirected the indicator stays silent and
// the structured log remains the only progress record.
//
// Retrieval is strictly sequential, so the counter needs no
// synchronization; it is driven by the collector's progress callback.
package progress
