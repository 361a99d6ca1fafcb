// Package output manages the optional report file destination.
//
// The single operation, OpenWithBackup, preserves any pre-existing file
// at the destination by renaming it to "<path>.bak" before creating a
// fresh file. The operation either fully succeeds (old file preserved,
// new handle returned) or fully fails (no partial state, no new file),
// so a failed backup never clobbers previous output. Callers that
// cannot open the destination proceed with console output only.
package output
