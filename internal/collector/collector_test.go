package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/tidescan/tidescan/internal/model"
)

// fakeClient is a scripted TaxonomyClient for collector tests.
type fakeClient struct {
	classes      []model.ThreatClass
	classesErr   error
	properties   map[model.ThreatClass][]model.ThreatProperty
	propertyErr  map[model.ThreatClass]error
	classCalls   int
	fetchedOrder []model.ThreatClass
}

func (f *fakeClient) FetchClasses(_ context.Context) ([]model.ThreatClass, error) {
	f.classCalls++
	if f.classesErr != nil {
		return nil, f.classesErr
	}
	return f.classes, nil
}

func (f *fakeClient) FetchProperties(_ context.Context, class model.ThreatClass) ([]model.ThreatProperty, error) {
	f.fetchedOrder = append(f.fetchedOrder, class)
	if err, ok := f.propertyErr[class]; ok {
		return nil, err
	}
	return f.properties[class], nil
}

func (f *fakeClient) Endpoint() string {
	return "https://example.test/taxonomy"
}

// TestCollectClassesOnly verifies the flat retrieval path.
func TestCollectClassesOnly(t *testing.T) {
	t.Parallel()

	t.Run("fetches classes exactly once in order", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			classes: []model.ThreatClass{"malware", "phishing", "apt"},
		}

		report, err := New(client).Collect(context.Background(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if client.classCalls != 1 {
			t.Errorf("expected exactly one FetchClasses call, got %d", client.classCalls)
		}
		want := []model.ThreatClass{"malware", "phishing", "apt"}
		for i, class := range want {
			if report.Classes[i] != class {
				t.Errorf("expected class %d to be %s, got %s", i, class, report.Classes[i])
			}
		}
		if report.Grouped() {
			t.Error("expected no property mapping without property retrieval")
		}
	})

	t.Run("no property fetches happen", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{classes: []model.ThreatClass{"malware"}}

		if _, err := New(client).Collect(context.Background(), false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(client.fetchedOrder) != 0 {
			t.Errorf("expected no FetchProperties calls, got %v", client.fetchedOrder)
		}
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("connection refused")
		client := &fakeClient{classesErr: wantErr}

		if _, err := New(client).Collect(context.Background(), false); !errors.Is(err, wantErr) {
			t.Errorf("expected transport error to propagate, got %v", err)
		}
	})
}

// TestCollectWithProperties verifies the grouped retrieval path.
func TestCollectWithProperties(t *testing.T) {
	t.Parallel()

	t.Run("fetches properties in class order", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			classes: []model.ThreatClass{"malware", "phishing", "apt"},
			properties: map[model.ThreatClass][]model.ThreatProperty{
				"malware":  {"trojan", "worm"},
				"phishing": {"spearphish"},
				"apt":      {"apt28"},
			},
		}

		report, err := New(client).Collect(context.Background(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantOrder := []model.ThreatClass{"malware", "phishing", "apt"}
		if len(client.fetchedOrder) != len(wantOrder) {
			t.Fatalf("expected %d property fetches, got %d", len(wantOrder), len(client.fetchedOrder))
		}
		for i, class := range wantOrder {
			if client.fetchedOrder[i] != class {
				t.Errorf("expected fetch %d for %s, got %s", i, class, client.fetchedOrder[i])
			}
		}

		props, ok := report.Properties("malware")
		if !ok || len(props) != 2 || props[0] != "trojan" || props[1] != "worm" {
			t.Errorf("expected malware properties [trojan worm], got %v (present=%v)", props, ok)
		}
	})

	t.Run("class with no data is absent from mapping", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			classes: []model.ThreatClass{"malware", "phishing"},
			properties: map[model.ThreatClass][]model.ThreatProperty{
				"malware": {"trojan"},
				// phishing degrades to empty inside the client
			},
		}

		report, err := New(client).Collect(context.Background(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := report.Properties("phishing"); ok {
			t.Error("expected phishing to be absent from the mapping")
		}
		if _, ok := report.Properties("malware"); !ok {
			t.Error("expected malware to be present in the mapping")
		}
	})

	t.Run("empty result does not stop the walk", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			classes: []model.ThreatClass{"a", "b", "c"},
			properties: map[model.ThreatClass][]model.ThreatProperty{
				"c": {"prop"},
			},
		}

		report, err := New(client).Collect(context.Background(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(client.fetchedOrder) != 3 {
			t.Errorf("expected all 3 classes fetched, got %d", len(client.fetchedOrder))
		}
		if _, ok := report.Properties("c"); !ok {
			t.Error("expected c to be present in the mapping")
		}
	})

	t.Run("progress is monotonic and counts every class", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			classes: []model.ThreatClass{"a", "b", "c"},
			properties: map[model.ThreatClass][]model.ThreatProperty{
				"a": {"p"},
			},
		}

		var updates [][2]int
		c := New(client, WithProgress(func(done, total int) {
			updates = append(updates, [2]int{done, total})
		}))

		if _, err := c.Collect(context.Background(), true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(updates) != 3 {
			t.Fatalf("expected 3 progress updates, got %d", len(updates))
		}
		for i, update := range updates {
			if update[0] != i+1 {
				t.Errorf("expected update %d to report done=%d, got %d", i, i+1, update[0])
			}
			if update[1] != 3 {
				t.Errorf("expected total=3, got %d", update[1])
			}
		}
	})

	t.Run("transport failure mid-walk propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("connection reset")
		client := &fakeClient{
			classes: []model.ThreatClass{"a", "b"},
			propertyErr: map[model.ThreatClass]error{
				"b": wantErr,
			},
		}

		if _, err := New(client).Collect(context.Background(), true); !errors.Is(err, wantErr) {
			t.Errorf("expected transport error to propagate, got %v", err)
		}
	})

	t.Run("cancelled context aborts the walk", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{classes: []model.ThreatClass{"a", "b"}}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := New(client).Collect(ctx, true); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("mapping key count never exceeds class count", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			classes: []model.ThreatClass{"a", "b"},
			properties: map[model.ThreatClass][]model.ThreatProperty{
				"a": {"p1"},
				"b": {"p2"},
				// extra entry the walk never asks for
				"z": {"p3"},
			},
		}

		report, err := New(client).Collect(context.Background(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.PropertiesByClass) > len(report.Classes) {
			t.Errorf("mapping has %d keys for %d classes", len(report.PropertiesByClass), len(report.Classes))
		}
	})
}
