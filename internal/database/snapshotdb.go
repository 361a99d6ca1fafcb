package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tidescan/tidescan/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "tidescan.db"

// ErrSnapshotNotFound is returned when the requested snapshot does not
// exist in the database.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotDB provides SQLite-based storage for taxonomy snapshots.
//
// Design decision: We store the full report as JSON next to a few
// queryable columns (endpoint, fingerprint, counts) rather than
// normalizing classes and properties into rows. Snapshots are read
// back whole for diffing, so relational decomposition would only add
// schema without adding queries.
type SnapshotDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SnapshotDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SnapshotDB in the specified directory.
func Open(dbDir string, opts Options) (*SnapshotDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY surprises for this small workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SnapshotDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SnapshotDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SnapshotDB) createTables() error {
	schema := `
	-- Snapshots store complete taxonomy retrieval results as JSON
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		class_count INTEGER NOT NULL,
		property_count INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_endpoint ON snapshots(endpoint);
	CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Snapshot is a stored taxonomy retrieval result.
type Snapshot struct {
	ID            int64
	Endpoint      string
	Timestamp     time.Time
	Fingerprint   string
	ClassCount    int
	PropertyCount int
	Report        *model.ClassificationReport
}

// SaveSnapshot stores the report as a new snapshot.
//
// When the latest stored snapshot for the same endpoint has the same
// content fingerprint, nothing is stored and saved is false; an
// unchanged taxonomy produces exactly one snapshot no matter how many
// times it is retrieved.
func (sdb *SnapshotDB) SaveSnapshot(ctx context.Context, report *model.ClassificationReport) (id int64, saved bool, err error) {
	fp := report.Fingerprint()
	fingerprint := hex.EncodeToString(fp[:])

	latest, err := sdb.LatestSnapshot(ctx, report.Endpoint)
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return 0, false, err
	}
	if latest != nil && latest.Fingerprint == fingerprint {
		return latest.ID, false, nil
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, false, fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO snapshots (endpoint, timestamp, fingerprint, class_count, property_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := sdb.db.ExecContext(ctx, query,
		report.Endpoint,
		report.Retrieved.UTC().Format(time.RFC3339),
		fingerprint,
		report.ClassCount(),
		report.PropertyCount(),
		string(reportJSON),
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get snapshot ID: %w", err)
	}

	return id, true, nil
}

// SnapshotByID retrieves one snapshot by its identifier.
// Returns ErrSnapshotNotFound if no such snapshot exists.
func (sdb *SnapshotDB) SnapshotByID(ctx context.Context, id int64) (*Snapshot, error) {
	query := `
	SELECT id, endpoint, timestamp, fingerprint, class_count, property_count, report_json
	FROM snapshots
	WHERE id = ?
	`

	return sdb.scanSnapshot(sdb.db.QueryRowContext(ctx, query, id))
}

// LatestSnapshot retrieves the most recent snapshot for an endpoint.
// Returns ErrSnapshotNotFound if the endpoint has no snapshots.
func (sdb *SnapshotDB) LatestSnapshot(ctx context.Context, endpoint string) (*Snapshot, error) {
	query := `
	SELECT id, endpoint, timestamp, fingerprint, class_count, property_count, report_json
	FROM snapshots
	WHERE endpoint = ?
	ORDER BY id DESC
	LIMIT 1
	`

	return sdb.scanSnapshot(sdb.db.QueryRowContext(ctx, query, endpoint))
}

// RecentSnapshots retrieves up to limit snapshots for an endpoint,
// newest first. A limit of 0 retrieves all snapshots.
func (sdb *SnapshotDB) RecentSnapshots(ctx context.Context, endpoint string, limit int) ([]*Snapshot, error) {
	query := `
	SELECT id, endpoint, timestamp, fingerprint, class_count, property_count, report_json
	FROM snapshots
	WHERE endpoint = ?
	ORDER BY id DESC
	`
	args := []any{endpoint}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot, err := sdb.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

// Endpoints lists all endpoints with stored snapshots.
func (sdb *SnapshotDB) Endpoints(ctx context.Context) ([]string, error) {
	rows, err := sdb.db.QueryContext(ctx,
		"SELECT DISTINCT endpoint FROM snapshots ORDER BY endpoint")
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []string
	for rows.Next() {
		var endpoint string
		if err := rows.Scan(&endpoint); err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}

	return endpoints, rows.Err()
}

// rowScanner abstracts over *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnapshot reads one snapshot row, deserializing the stored report.
func (sdb *SnapshotDB) scanSnapshot(row rowScanner) (*Snapshot, error) {
	var s Snapshot
	var timestamp, reportJSON string

	err := row.Scan(&s.ID, &s.Endpoint, &timestamp, &s.Fingerprint,
		&s.ClassCount, &s.PropertyCount, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	s.Timestamp, err = time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
	}

	var report model.ClassificationReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot report: %w", err)
	}
	s.Report = &report

	return &s, nil
}
