package main

import (
	"bytes"
	"fmt"
	"os"

	goico "github.com/sergeymakinen/go-ico"

	"github.com/jolsen/png2ico/internal/ico"
)

func inspectCmd(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one .ico path\n")
		fmt.Fprintf(os.Stderr, "Usage: png2ico inspect <file.ico>\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries, err := ico.DecodeDir(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d frames\n", args[0], len(entries))
	for i, e := range entries {
		fmt.Printf("  %d: %3dx%-3d  %2d-bit  %-3s  %7d bytes @ %d\n",
			i+1, e.Width, e.Height, e.BitCount, e.Format, e.Size, e.Offset)
	}

	// Directory parsed fine; confirm the pixel data decodes too.
	if _, err := goico.Decode(bytes.NewReader(data)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: frame data does not decode: %v\n", err)
		os.Exit(1)
	}
}
