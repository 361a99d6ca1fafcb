package database

import (
	"context"
	"errors"
	"testing"

	"github.com/tidescan/tidescan/internal/model"
)

// openTestDB opens a SnapshotDB in a temp directory.
func openTestDB(t *testing.T) *SnapshotDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// testReport builds a report with the given classes.
func testReport(classes ...model.ThreatClass) *model.ClassificationReport {
	r := model.NewClassificationReport("https://example.test/taxonomy")
	r.Classes = classes
	return r
}

// TestSaveSnapshot tests snapshot persistence and deduplication.
func TestSaveSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves a snapshot", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		report := testReport("malware", "phishing")
		report.SetProperties("malware", []model.ThreatProperty{"trojan"})

		id, saved, err := db.SaveSnapshot(ctx, report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !saved {
			t.Fatal("expected snapshot to be saved")
		}

		got, err := db.SnapshotByID(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ClassCount != 2 || got.PropertyCount != 1 {
			t.Errorf("unexpected counts: classes=%d properties=%d", got.ClassCount, got.PropertyCount)
		}
		if len(got.Report.Classes) != 2 || got.Report.Classes[0] != "malware" {
			t.Errorf("unexpected report classes %v", got.Report.Classes)
		}
		props, ok := got.Report.Properties("malware")
		if !ok || len(props) != 1 || props[0] != "trojan" {
			t.Errorf("unexpected malware properties %v (present=%v)", props, ok)
		}
	})

	t.Run("identical content is deduplicated", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		first, saved, err := db.SaveSnapshot(ctx, testReport("malware"))
		if err != nil || !saved {
			t.Fatalf("expected first save to store (saved=%v err=%v)", saved, err)
		}

		second, saved, err := db.SaveSnapshot(ctx, testReport("malware"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved {
			t.Error("expected identical content to be deduplicated")
		}
		if second != first {
			t.Errorf("expected dedup to return existing ID %d, got %d", first, second)
		}
	})

	t.Run("changed content is stored again", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		if _, _, err := db.SaveSnapshot(ctx, testReport("malware")); err != nil {
			t.Fatal(err)
		}

		_, saved, err := db.SaveSnapshot(ctx, testReport("malware", "apt"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !saved {
			t.Error("expected changed content to be stored")
		}
	})
}

// TestSnapshotQueries tests retrieval paths.
func TestSnapshotQueries(t *testing.T) {
	t.Parallel()

	t.Run("missing snapshot returns ErrSnapshotNotFound", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)

		if _, err := db.SnapshotByID(context.Background(), 42); !errors.Is(err, ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("latest snapshot is the newest insert", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		if _, _, err := db.SaveSnapshot(ctx, testReport("malware")); err != nil {
			t.Fatal(err)
		}
		second, _, err := db.SaveSnapshot(ctx, testReport("malware", "apt"))
		if err != nil {
			t.Fatal(err)
		}

		latest, err := db.LatestSnapshot(ctx, "https://example.test/taxonomy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if latest.ID != second {
			t.Errorf("expected latest snapshot %d, got %d", second, latest.ID)
		}
	})

	t.Run("recent snapshots are newest first with limit", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		reports := []*model.ClassificationReport{
			testReport("a"),
			testReport("a", "b"),
			testReport("a", "b", "c"),
		}
		for _, r := range reports {
			if _, _, err := db.SaveSnapshot(ctx, r); err != nil {
				t.Fatal(err)
			}
		}

		snapshots, err := db.RecentSnapshots(ctx, "https://example.test/taxonomy", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(snapshots) != 2 {
			t.Fatalf("expected 2 snapshots, got %d", len(snapshots))
		}
		if snapshots[0].ClassCount != 3 || snapshots[1].ClassCount != 2 {
			t.Errorf("expected newest-first order, got counts %d, %d",
				snapshots[0].ClassCount, snapshots[1].ClassCount)
		}
	})

	t.Run("endpoints lists distinct endpoints", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		r1 := testReport("a")
		r2 := model.NewClassificationReport("https://other.test/taxonomy")
		r2.Classes = []model.ThreatClass{"b"}

		if _, _, err := db.SaveSnapshot(ctx, r1); err != nil {
			t.Fatal(err)
		}
		if _, _, err := db.SaveSnapshot(ctx, r2); err != nil {
			t.Fatal(err)
		}

		endpoints, err := db.Endpoints(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(endpoints) != 2 {
			t.Errorf("expected 2 endpoints, got %v", endpoints)
		}
	})
}
