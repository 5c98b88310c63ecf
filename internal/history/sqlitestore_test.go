package history

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

func tempStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndEntries(t *testing.T) {
	s := tempStore(t)

	e := Entry{
		Source:   "/tmp/icon.png",
		Dest:     "/tmp/icon.ico",
		Sizes:    []int{16, 32, 48, 64, 128, 256},
		Duration: 42 * time.Millisecond,
		OK:       true,
	}
	if err := s.Record(e); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := s.Entries(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Source != e.Source || got.Dest != e.Dest {
		t.Errorf("unexpected entry: %+v", got)
	}
	if !reflect.DeepEqual(got.Sizes, e.Sizes) {
		t.Errorf("Sizes = %v, want %v", got.Sizes, e.Sizes)
	}
	if got.Duration != e.Duration {
		t.Errorf("Duration = %v, want %v", got.Duration, e.Duration)
	}
	if !got.OK || got.Error != "" {
		t.Errorf("expected successful entry, got %+v", got)
	}
}

func TestRecordFailure(t *testing.T) {
	s := tempStore(t)

	err := s.Record(Entry{Source: "a.png", Dest: "a.ico", OK: false, Error: "decode a.png: bad header"})
	if err != nil {
		t.Fatal(err)
	}

	entries, _ := s.Entries(0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].OK {
		t.Error("entry should be marked failed")
	}
	if entries[0].Error == "" {
		t.Error("error text should be stored")
	}
}

func TestEntriesNewestFirstWithLimit(t *testing.T) {
	s := tempStore(t)

	for i, src := range []string{"first.png", "second.png", "third.png"} {
		e := Entry{
			Time:   time.Now().Add(time.Duration(i) * time.Second),
			Source: src, Dest: "out.ico", OK: true,
		}
		if err := s.Record(e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.Entries(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Source != "third.png" || entries[1].Source != "second.png" {
		t.Errorf("wrong order: %q, %q", entries[0].Source, entries[1].Source)
	}
}

func TestClean(t *testing.T) {
	s := tempStore(t)

	old := Entry{Time: time.Now().AddDate(0, 0, -30), Source: "old.png", Dest: "o.ico", OK: true}
	recent := Entry{Source: "new.png", Dest: "n.ico", OK: true}
	if err := s.Record(old); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(recent); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Clean(7)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	entries, _ := s.Entries(0)
	if len(entries) != 1 || entries[0].Source != "new.png" {
		t.Errorf("unexpected entries after clean: %+v", entries)
	}
}

func TestClear(t *testing.T) {
	s := tempStore(t)

	if err := s.Record(Entry{Source: "a.png", Dest: "a.ico", OK: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Entries(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestSizesRoundTrip(t *testing.T) {
	tests := []struct {
		sizes []int
		csv   string
	}{
		{[]int{16, 32, 256}, "16,32,256"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := joinSizes(tt.sizes); got != tt.csv {
			t.Errorf("joinSizes(%v) = %q, want %q", tt.sizes, got, tt.csv)
		}
		if got := splitSizes(tt.csv); !reflect.DeepEqual(got, tt.sizes) {
			t.Errorf("splitSizes(%q) = %v, want %v", tt.csv, got, tt.sizes)
		}
	}
}
