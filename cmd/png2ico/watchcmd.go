package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/jolsen/png2ico/internal/convert"
	"github.com/jolsen/png2ico/internal/history"
	"github.com/jolsen/png2ico/internal/watch"
)

const maxWatchLines = 10

func watchCmd(args []string, fl flags) {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Error: expected <input> <output.ico>\n")
		fmt.Fprintf(os.Stderr, "Usage: png2ico watch [options] <input> <output.ico>\n")
		os.Exit(1)
	}
	src, dst := args[0], args[1]

	opts, record, err := resolveOptions(fl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runOnce := func() string {
		start := time.Now()
		res, err := convert.File(src, dst, opts)
		elapsed := time.Since(start)
		if record {
			e := history.Entry{Source: src, Dest: dst, Duration: elapsed, OK: err == nil}
			if err != nil {
				e.Error = err.Error()
			} else {
				e.Sizes = res.Sizes
			}
			history.Record(e)
		}
		ts := time.Now().Format("15:04:05")
		if err != nil {
			return fmt.Sprintf("%s  %s  %v", ts, red("fail"), err)
		}
		return fmt.Sprintf("%s  %s    %d frames %v (%s)", ts, green("ok"), len(res.Sizes), res.Sizes, formatDuration(elapsed))
	}

	results := make(chan string, 16)
	results <- runOnce()

	w, err := watch.New(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer w.Close()

	go w.Run(
		func() { results <- runOnce() },
		func(err error) {
			results <- fmt.Sprintf("%s  %s  watcher: %v", time.Now().Format("15:04:05"), red("fail"), err)
		},
	)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Not a TTY (piped/CI): plain line output until killed.
		for line := range results {
			fmt.Println(line)
		}
		return
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot enter raw mode: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(fd, oldState)

	keys := make(chan byte, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()

	started := time.Now()
	var lines []string
	render := func() {
		var out strings.Builder
		out.WriteString("\033[2J\033[H")
		fmt.Fprintf(&out, "png2ico watch  —  %s -> %s  —  started %s  —  press x to exit\n\n",
			src, dst, started.Format("15:04:05"))
		for _, l := range lines {
			out.WriteString(l + "\n")
		}
		// In raw mode \n doesn't include \r, so convert.
		os.Stdout.WriteString(strings.ReplaceAll(out.String(), "\n", "\r\n"))
	}

	for {
		select {
		case line := <-results:
			lines = append(lines, line)
			if len(lines) > maxWatchLines {
				lines = lines[len(lines)-maxWatchLines:]
			}
			render()
		case key := <-keys:
			if key == 'x' || key == 'X' || key == 3 { // x, X, or Ctrl+C
				os.Stdout.WriteString("\033[2J\033[H")
				return
			}
		}
	}
}
