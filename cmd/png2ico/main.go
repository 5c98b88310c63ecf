package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/jolsen/png2ico/internal/config"
	"github.com/jolsen/png2ico/internal/convert"
	"github.com/jolsen/png2ico/internal/history"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

type flags struct {
	sizes     string
	config    string
	stretch   bool
	noHistory bool
}

func main() {
	args := os.Args[1:]
	var fl flags

	// Parse flags
	filtered := args[:0]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--sizes", "-s":
			if i+1 < len(args) {
				fl.sizes = args[i+1]
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --sizes requires a comma-separated list (e.g. 16,32,48)\n")
				os.Exit(1)
			}
		case "--config", "-c":
			if i+1 < len(args) {
				fl.config = args[i+1]
				i++
			} else {
				fmt.Fprintf(os.Stderr, "Error: --config requires a file path\n")
				os.Exit(1)
			}
		case "--stretch":
			fl.stretch = true
		case "--no-history":
			fl.noHistory = true
		default:
			filtered = append(filtered, args[i])
		}
	}

	if len(filtered) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch filtered[0] {
	case "help", "-h", "--help":
		printUsage()
	case "version", "-V", "--version":
		printVersion()
	case "inspect":
		inspectCmd(filtered[1:])
	case "watch":
		watchCmd(filtered[1:], fl)
	case "history":
		historyCmd(filtered[1:])
	default:
		convertCmd(filtered, fl)
	}
}

func convertCmd(args []string, fl flags) {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Error: expected <input> <output.ico>\n")
		fmt.Fprintf(os.Stderr, "Run 'png2ico help' for usage.\n")
		os.Exit(1)
	}
	src, dst := args[0], args[1]

	opts, record, err := resolveOptions(fl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

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

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s (%dx%d) -> %s  %d frames %v  (%s)\n",
		src, res.Source.X, res.Source.Y, dst, len(res.Sizes), res.Sizes, formatDuration(elapsed))
}

// resolveOptions merges CLI flags over the loaded configuration.
// Size priority: --sizes > PNG2ICO_SIZES > config file > default set.
func resolveOptions(fl flags) (convert.Options, bool, error) {
	cfg, err := config.Load(fl.config)
	if err != nil {
		return convert.Options{}, false, err
	}

	sizes, err := mergeSizes(fl.sizes, cfg.Sizes)
	if err != nil {
		return convert.Options{}, false, err
	}

	return convert.Options{Sizes: sizes, Stretch: fl.stretch}, cfg.History && !fl.noHistory, nil
}

// mergeSizes returns the parsed CLI size list if given, else the normalized
// configured list.
func mergeSizes(flagVal string, cfgSizes []int) ([]int, error) {
	if flagVal != "" {
		return convert.ParseSizes(flagVal)
	}
	sizes, err := convert.NormalizeSizes(cfgSizes)
	if err != nil {
		return nil, fmt.Errorf("configured sizes: %w", err)
	}
	return sizes, nil
}

// formatDuration returns a compact duration string (e.g. "12ms", "2m15s").
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	return d.String()
}

func printVersion() {
	fmt.Printf("png2ico %s (%s) %s/%s\n", version, buildDate, runtime.GOOS, runtime.GOARCH)
}

func printUsage() {
	fmt.Printf("png2ico %s - Convert a raster image into a multi-resolution ICO file\n", version)
	fmt.Println(`
Usage:
  png2ico [options] <input> <output.ico>
  png2ico inspect <file.ico>
  png2ico watch [options] <input> <output.ico>
  png2ico history [n | clean <days> | clear]

Options:
  --sizes, -s <n,n,...>  Frame sizes in pixels, 1-256 (default: 16,32,48,64,128,256)
  --config, -c <path>    Path to png2ico.json
  --stretch              Distort non-square input to a square instead of
                         fitting it on a transparent canvas
  --no-history           Do not record this conversion

Commands:
  inspect                List the frames of an existing ICO file
  watch                  Reconvert whenever the input file changes
  history [n]            Show the n most recent conversions (default 10)
  history clean <days>   Remove history older than <days> days
  history clear          Delete all history
  version, -V            Show version and build date
  help, -h, --help       Show this help message

Input formats: PNG, JPEG, GIF, BMP, TIFF, WebP.

Config resolution:
  1. --config <path>              (explicit)
  2. png2ico.json next to binary         (portable)
  3. ~/.config/png2ico/png2ico.json      (user default)
Environment: PNG2ICO_SIZES, PNG2ICO_HISTORY override the config file.

Examples:
  png2ico icon.png icon.ico              Standard six-size icon
  png2ico -s 16,32,48 icon.png app.ico   Small legacy set
  png2ico watch logo.png build/app.ico   Keep the icon in sync while editing
  png2ico inspect app.ico                Verify what a file contains`)
}
