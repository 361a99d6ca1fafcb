package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidescan/tidescan/internal/config"
	"github.com/tidescan/tidescan/internal/database"
	"github.com/tidescan/tidescan/internal/model"
)

// NewCompareCmd creates the compare command.
// This command compares taxonomy snapshots stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [endpoint]",
		Short: "Compare taxonomy snapshots",
		Long: `Compare displays how the platform's threat taxonomy changed between
stored snapshots.

Snapshots are recorded by 'tidescan report --save'. By default the two
most recent snapshots for the endpoint are compared, showing threat
classes that were added or removed and per-class property changes.

The endpoint argument is the taxonomy endpoint URL as stored with the
snapshots. It can be omitted when the database holds snapshots for
exactly one endpoint.

Examples:
  # Compare the two most recent snapshots
  tidescan compare

  # List snapshot history for an endpoint
  tidescan compare --list https://intel.example.com/api/v1/threat_classes

  # Compare the latest snapshot with a specific one by ID
  tidescan compare --with-snapshot-id 3

  # Output the comparison in JSON format
  tidescan compare --json

  # List all endpoints with stored snapshots
  tidescan compare --list-endpoints`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List snapshot history for the endpoint")
	cmd.Flags().BoolP("list-endpoints", "L", false,
		"List all endpoints with stored snapshots")

	// Comparison target flags
	cmd.Flags().Int64P("with-snapshot-id", "i", 0,
		"Compare the latest snapshot with a specific snapshot by ID (use --list to see IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listEndpoints, err := cmd.Flags().GetBool("list-endpoints")
	if err != nil {
		return err
	}

	// Use XDG data directory for the snapshot database
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no snapshot database found (use 'tidescan report --save' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listEndpoints {
		return listSnapshotEndpoints(ctx, db)
	}

	endpoint, err := resolveEndpoint(ctx, db, args)
	if err != nil {
		return err
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listSnapshotHistory(ctx, db, endpoint)
	}

	withSnapshotID, err := cmd.Flags().GetInt64("with-snapshot-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, endpoint, withSnapshotID, jsonOutput)
}

// resolveEndpoint determines which endpoint's snapshots to use.
// An explicit argument wins; otherwise the database must hold
// snapshots for exactly one endpoint.
func resolveEndpoint(ctx context.Context, db *database.SnapshotDB, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	endpoints, err := db.Endpoints(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list endpoints: %w", err)
	}

	switch len(endpoints) {
	case 0:
		return "", errors.New("no snapshots found (use 'tidescan report --save' first)")
	case 1:
		return endpoints[0], nil
	default:
		return "", errors.New("multiple endpoints have snapshots; specify one (use --list-endpoints to see them)")
	}
}

// listSnapshotEndpoints lists all endpoints with stored snapshots.
func listSnapshotEndpoints(ctx context.Context, db *database.SnapshotDB) error {
	endpoints, err := db.Endpoints(ctx)
	if err != nil {
		return fmt.Errorf("failed to list endpoints: %w", err)
	}

	if len(endpoints) == 0 {
		fmt.Println("No snapshots found in the database.")
		fmt.Println("\nUse 'tidescan report --save' to record a snapshot.")
		return nil
	}

	fmt.Printf("Endpoints with snapshots (%d):\n\n", len(endpoints))
	for _, endpoint := range endpoints {
		fmt.Printf("  • %s\n", endpoint)
	}
	fmt.Println("\nUse 'tidescan compare --list <endpoint>' to see snapshot history.")

	return nil
}

// listSnapshotHistory lists all snapshots for an endpoint.
func listSnapshotHistory(ctx context.Context, db *database.SnapshotDB, endpoint string) error {
	snapshots, err := db.RecentSnapshots(ctx, endpoint, 0)
	if err != nil {
		return fmt.Errorf("failed to get snapshot history: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Printf("No snapshots found for %s\n", endpoint)
		fmt.Println("\nUse 'tidescan report --save' to record a snapshot.")
		return nil
	}

	fmt.Printf("Snapshot history for %s (%d snapshots):\n\n", endpoint, len(snapshots))
	fmt.Printf("  %-6s  %-20s  %-8s  %s\n", "ID", "Date", "Classes", "Properties")
	fmt.Println("  " + strings.Repeat("-", 52))

	for _, snapshot := range snapshots {
		fmt.Printf("  %-6d  %-20s  %-8d  %d\n",
			snapshot.ID,
			snapshot.Timestamp.Local().Format("2006-01-02 15:04:05"),
			snapshot.ClassCount,
			snapshot.PropertyCount,
		)
	}

	fmt.Println("\nUse 'tidescan compare <endpoint>' to compare the latest two snapshots.")
	fmt.Println("Use 'tidescan compare --with-snapshot-id <id> <endpoint>' to compare with a specific snapshot.")

	return nil
}

// ComparisonResult holds the result of comparing two snapshots.
type ComparisonResult struct {
	// Endpoint is the taxonomy endpoint the snapshots belong to.
	Endpoint string `json:"endpoint"`

	// Previous identifies the older snapshot.
	Previous SnapshotMetadata `json:"previous"`

	// Current identifies the newer snapshot.
	Current SnapshotMetadata `json:"current"`

	// Diff describes the taxonomy changes from Previous to Current.
	Diff *model.TaxonomyDiff `json:"diff"`
}

// SnapshotMetadata identifies one side of a comparison.
type SnapshotMetadata struct {
	// ID is the snapshot's database identifier.
	ID int64 `json:"id"`

	// Timestamp is when the snapshot was recorded.
	Timestamp string `json:"timestamp"`

	// ClassCount is the number of threat classes in the snapshot.
	ClassCount int `json:"class_count"`

	// PropertyCount is the number of recorded threat properties.
	PropertyCount int `json:"property_count"`
}

// runComparison compares the latest snapshot against an older one.
func runComparison(ctx context.Context, db *database.SnapshotDB, endpoint string, withSnapshotID int64, jsonOutput bool) error {
	current, err := db.LatestSnapshot(ctx, endpoint)
	if err != nil {
		if errors.Is(err, database.ErrSnapshotNotFound) {
			return fmt.Errorf("no snapshots found for %s", endpoint)
		}
		return fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	var previous *database.Snapshot
	if withSnapshotID > 0 {
		previous, err = db.SnapshotByID(ctx, withSnapshotID)
		if err != nil {
			if errors.Is(err, database.ErrSnapshotNotFound) {
				return fmt.Errorf("snapshot with ID %d not found", withSnapshotID)
			}
			return fmt.Errorf("failed to get snapshot %d: %w", withSnapshotID, err)
		}
		if previous.Endpoint != endpoint {
			return fmt.Errorf("snapshot %d belongs to %s, not %s", withSnapshotID, previous.Endpoint, endpoint)
		}
	} else {
		snapshots, err := db.RecentSnapshots(ctx, endpoint, 2)
		if err != nil {
			return fmt.Errorf("failed to get snapshot history: %w", err)
		}
		if len(snapshots) < 2 {
			return fmt.Errorf("at least 2 snapshots are required for comparison (found %d)", len(snapshots))
		}
		previous = snapshots[1]
	}

	result := &ComparisonResult{
		Endpoint: endpoint,
		Previous: snapshotMetadata(previous),
		Current:  snapshotMetadata(current),
		Diff:     model.Diff(previous.Report, current.Report),
	}

	if jsonOutput {
		return outputComparisonJSON(result)
	}
	return outputComparisonText(result)
}

// snapshotMetadata extracts display metadata from a snapshot.
func snapshotMetadata(s *database.Snapshot) SnapshotMetadata {
	return SnapshotMetadata{
		ID:            s.ID,
		Timestamp:     s.Timestamp.Local().Format("2006-01-02 15:04:05"),
		ClassCount:    s.ClassCount,
		PropertyCount: s.PropertyCount,
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable
// text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Taxonomy Comparison: %s\n", result.Endpoint)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nPrevious snapshot: %d (%s, %d classes, %d properties)\n",
		result.Previous.ID, result.Previous.Timestamp,
		result.Previous.ClassCount, result.Previous.PropertyCount)
	fmt.Printf("Current snapshot:  %d (%s, %d classes, %d properties)\n",
		result.Current.ID, result.Current.Timestamp,
		result.Current.ClassCount, result.Current.PropertyCount)

	if result.Diff.Empty() {
		fmt.Println("\nNo taxonomy changes.")
		return nil
	}

	if len(result.Diff.AddedClasses) > 0 {
		fmt.Printf("\nAdded Threat Classes (%d):\n", len(result.Diff.AddedClasses))
		for _, class := range result.Diff.AddedClasses {
			fmt.Printf("  [+] %s\n", class)
		}
	}

	if len(result.Diff.RemovedClasses) > 0 {
		fmt.Printf("\nRemoved Threat Classes (%d):\n", len(result.Diff.RemovedClasses))
		for _, class := range result.Diff.RemovedClasses {
			fmt.Printf("  [-] %s\n", class)
		}
	}

	if len(result.Diff.PropertyChanges) > 0 {
		fmt.Printf("\nProperty Changes (%d classes):\n", len(result.Diff.PropertyChanges))
		for _, class := range sortedChangedClasses(result.Diff) {
			pd := result.Diff.PropertyChanges[class]
			fmt.Printf("  %s:\n", class)
			for _, prop := range pd.Added {
				fmt.Printf("    [+] %s\n", prop)
			}
			for _, prop := range pd.Removed {
				fmt.Printf("    [-] %s\n", prop)
			}
		}
	}

	return nil
}

// sortedChangedClasses returns the classes with property changes in
// stable alphabetical order for display.
func sortedChangedClasses(diff *model.TaxonomyDiff) []model.ThreatClass {
	classes := make([]model.ThreatClass, 0, len(diff.PropertyChanges))
	for class := range diff.PropertyChanges {
		classes = append(classes, class)
	}
	slices.Sort(classes)
	return classes
}
