package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jolsen/png2ico/internal/history"
	"github.com/jolsen/png2ico/internal/paths"
)

func historyCmd(args []string) {
	if len(args) > 0 {
		switch args[0] {
		case "clean":
			historyClean(args[1:])
			return
		case "clear":
			historyClear()
			return
		}
	}

	count := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: count must be a positive integer\n")
			os.Exit(1)
		}
		count = n
	}

	s := openHistory()
	defer s.Close()

	entries, err := s.Entries(count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return
	}
	for _, e := range entries {
		fmt.Println(formatEntry(e))
	}
}

func historyClean(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected number of days\n")
		fmt.Fprintf(os.Stderr, "Usage: png2ico history clean <days>\n")
		os.Exit(1)
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		fmt.Fprintf(os.Stderr, "Error: days must be a positive integer\n")
		os.Exit(1)
	}

	s := openHistory()
	defer s.Close()

	removed, err := s.Clean(days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d entries older than %d days.\n", removed, days)
}

func historyClear() {
	s := openHistory()
	defer s.Close()

	if err := s.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("History cleared.")
}

func openHistory() *history.SQLiteStore {
	s, err := history.NewSQLiteStore(paths.HistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

func formatEntry(e history.Entry) string {
	status := green("ok  ")
	if !e.OK {
		status = red("fail")
	}
	line := fmt.Sprintf("%s  %s  %6s  %s -> %s",
		e.Time.Format("2006-01-02 15:04:05"), status, formatDuration(e.Duration), e.Source, e.Dest)
	if e.OK && len(e.Sizes) > 0 {
		line += dim(fmt.Sprintf("  %v", e.Sizes))
	}
	if !e.OK && e.Error != "" {
		line += dim("  " + e.Error)
	}
	return line
}

// --- ANSI color helpers (disabled when NO_COLOR env var is set) ---

var noColor = os.Getenv("NO_COLOR") != ""

func ansi(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\033[0m"
}

func dim(s string) string   { return ansi("\033[2m", s) }
func green(s string) string { return ansi("\033[32m", s) }
func red(s string) string   { return ansi("\033[31m", s) }
