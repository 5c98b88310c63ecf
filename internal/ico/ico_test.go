package ico

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidSquare(size int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestEncodeDecodeDirRoundTrip(t *testing.T) {
	sizes := []int{16, 32, 48, 64, 128, 256}
	images := make([]image.Image, len(sizes))
	for i, s := range sizes {
		images[i] = solidSquare(s, color.NRGBA{R: 200, A: 255})
	}

	data, err := EncodeBytes(images)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	entries, err := DecodeDir(data)
	if err != nil {
		t.Fatalf("DecodeDir: %v", err)
	}
	if len(entries) != len(sizes) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(sizes))
	}
	for i, e := range entries {
		if e.Width != sizes[i] || e.Height != sizes[i] {
			t.Errorf("entry %d = %dx%d, want %dx%d", i, e.Width, e.Height, sizes[i], sizes[i])
		}
		if e.Format != "png" {
			t.Errorf("entry %d format = %q, want png", i, e.Format)
		}
		if e.BitCount != 32 {
			t.Errorf("entry %d bit count = %d, want 32", i, e.BitCount)
		}
	}
}

func TestEncodePayloadsDecodeAsPNG(t *testing.T) {
	images := []image.Image{
		solidSquare(16, color.NRGBA{G: 255, A: 255}),
		solidSquare(32, color.NRGBA{B: 255, A: 128}),
	}

	data, err := EncodeBytes(images)
	if err != nil {
		t.Fatal(err)
	}
	entries, err := DecodeDir(data)
	if err != nil {
		t.Fatal(err)
	}

	for i, e := range entries {
		payload := data[e.Offset : e.Offset+e.Size]
		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("frame %d does not decode as PNG: %v", i, err)
		}
		if img.Bounds().Dx() != e.Width || img.Bounds().Dy() != e.Height {
			t.Errorf("frame %d pixels = %dx%d, declared %dx%d",
				i, img.Bounds().Dx(), img.Bounds().Dy(), e.Width, e.Height)
		}
	}
}

func TestEncodeDeclares256AsZeroByte(t *testing.T) {
	data, err := EncodeBytes([]image.Image{solidSquare(256, color.NRGBA{A: 255})})
	if err != nil {
		t.Fatal(err)
	}

	// Raw directory bytes: width and height of a 256px frame must be 0.
	if data[6] != 0 || data[7] != 0 {
		t.Errorf("directory dimension bytes = %d,%d, want 0,0", data[6], data[7])
	}

	entries, err := DecodeDir(data)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Width != 256 || entries[0].Height != 256 {
		t.Errorf("parsed size = %dx%d, want 256x256", entries[0].Width, entries[0].Height)
	}
}

func TestEncodeRejectsEmptyList(t *testing.T) {
	if _, err := EncodeBytes(nil); err == nil {
		t.Fatal("expected error for empty image list")
	}
}

func TestEncodeRejectsOversizedFrame(t *testing.T) {
	if _, err := EncodeBytes([]image.Image{solidSquare(300, color.NRGBA{A: 255})}); err == nil {
		t.Fatal("expected error for frame larger than 256px")
	}
}

func TestDecodeDirRejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"empty":      {},
		"short":      {0, 0, 1},
		"wrong type": {0, 0, 2, 0, 1, 0},
		"zero count": {0, 0, 1, 0, 0, 0},
		"truncated":  {0, 0, 1, 0, 2, 0, 16, 16},
	}
	for name, data := range cases {
		if _, err := DecodeDir(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
