// Package main provides the entry point for the tidescan CLI.
//
// tidescan retrieves the threat classification taxonomy (threat classes
// and their associated threat properties) from a threat-intelligence
// platform and renders it as a report.
//
// Usage:
//
//	tidescan report
//	tidescan report --properties --output report.csv
//
// See --help for all available options.
package main

// main is the entry point for tidescan.
func main() {
	Execute()
}
