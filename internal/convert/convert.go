// Package convert turns a single raster image into a multi-resolution ICO file.
package convert

import (
	"fmt"
	"image"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"

	"github.com/jolsen/png2ico/internal/ico"
	"github.com/jolsen/png2ico/internal/paths"
)

// MaxSize is the largest dimension an ICO directory entry can declare.
const MaxSize = 256

// Options controls a conversion.
type Options struct {
	// Sizes lists the square target dimensions. Normalized (deduplicated,
	// sorted ascending) before use; the smallest size becomes the first
	// directory entry.
	Sizes []int

	// Stretch resizes non-square sources to a square directly, distorting
	// the aspect ratio. Default is fit-and-center on a transparent canvas.
	Stretch bool
}

// Result reports what a successful conversion produced.
type Result struct {
	Sizes  []int // frame dimensions, ascending
	Source image.Point
}

// NormalizeSizes validates, deduplicates and ascending-sorts a size list.
func NormalizeSizes(sizes []int) ([]int, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	seen := make(map[int]bool, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, s := range sizes {
		if s < 1 || s > MaxSize {
			return nil, fmt.Errorf("size %d out of range 1..%d", s, MaxSize)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Ints(out)
	return out, nil
}

// ParseSizes parses a comma-separated size list like "16,32,48".
func ParseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", part)
		}
		sizes = append(sizes, n)
	}
	return NormalizeSizes(sizes)
}

// Image resizes src to every requested size and returns the frames in
// ascending size order. Alpha is carried through untouched.
func Image(src image.Image, opts Options) ([]image.Image, []int, error) {
	sizes, err := NormalizeSizes(opts.Sizes)
	if err != nil {
		return nil, nil, err
	}

	b := src.Bounds()
	square := b.Dx() == b.Dy()

	frames := make([]image.Image, len(sizes))
	for i, s := range sizes {
		if square || opts.Stretch {
			frames[i] = resize.Resize(uint(s), uint(s), src, resize.Lanczos3)
		} else {
			frames[i] = fitSquare(src, s)
		}
	}
	return frames, sizes, nil
}

// fitSquare scales src to fit inside a size×size square, preserving aspect
// ratio, and centers it on a transparent canvas.
func fitSquare(src image.Image, size int) *image.NRGBA {
	b := src.Bounds()
	scale := math.Min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	offX := (size - w) / 2
	offY := (size - h) / 2
	dr := image.Rect(offX, offY, offX+w, offY+h)
	xdraw.CatmullRom.Scale(dst, dr, src, b, xdraw.Over, nil)
	return dst
}

// File converts the image at srcPath into an ICO file at dstPath. The
// destination is replaced atomically; on any error it is left untouched.
func File(srcPath, dstPath string, opts Options) (Result, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", srcPath, err)
	}

	frames, sizes, err := Image(src, opts)
	if err != nil {
		return Result{}, err
	}

	data, err := ico.EncodeBytes(frames)
	if err != nil {
		return Result{}, err
	}
	if err := paths.AtomicWrite(dstPath, data); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", dstPath, err)
	}

	return Result{Sizes: sizes, Source: image.Pt(src.Bounds().Dx(), src.Bounds().Dy())}, nil
}
