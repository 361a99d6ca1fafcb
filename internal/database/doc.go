// Package database provides SQLite-based storage for taxonomy snapshots.
//
// Snapshot persistence is opt-in (--save): the default run keeps the
// retrieved taxonomy in memory only. When enabled, each run stores the
// full classification report as JSON together with a content
// fingerprint; a run whose fingerprint matches the latest stored
// snapshot for the same endpoint is deduplicated rather than stored
// again. The compare command reads snapshots back to show how the
// platform's taxonomy changed between runs.
package database
