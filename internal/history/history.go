// Package history records completed conversions to a local database.
// Recording is best-effort: a storage failure warns and never fails the
// conversion that triggered it.
package history

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jolsen/png2ico/internal/paths"
)

// Entry is one recorded conversion.
type Entry struct {
	ID       int64
	Time     time.Time
	Source   string
	Dest     string
	Sizes    []int
	Duration time.Duration
	OK       bool
	Error    string // empty when OK
}

// Store abstracts history storage.
type Store interface {
	Record(e Entry) error
	Entries(limit int) ([]Entry, error) // newest first, 0 = all
	Clean(days int) (int, error)        // remove entries older than days, return removed count
	Clear() error                       // delete all data
	Path() string
	Close() error
}

// Record appends an entry to the default database. Best-effort: failures
// are reported on stderr and otherwise ignored.
func Record(e Entry) {
	s, err := NewSQLiteStore(paths.HistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		return
	}
	defer s.Close()
	if err := s.Record(e); err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
	}
}

// joinSizes renders a size list as "16,32,48" for storage.
func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// splitSizes parses the stored form back; malformed values are skipped.
func splitSizes(s string) []int {
	if s == "" {
		return nil
	}
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(part); err == nil {
			sizes = append(sizes, n)
		}
	}
	return sizes
}
