// Package ico writes and inspects multi-resolution ICO containers.
//
// Frames are stored PNG-compressed, which every Windows version since Vista
// accepts and which preserves the alpha channel without an AND mask.
package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	headerSize = 6
	entrySize  = 16
	// resourceType identifies an icon (as opposed to a cursor) container.
	resourceType = 1
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

// Entry describes one frame of an ICO directory.
type Entry struct {
	Width    int    // declared width in pixels (directory byte 0 maps to 256)
	Height   int    // declared height in pixels
	BitCount int    // declared bits per pixel
	Size     uint32 // payload length in bytes
	Offset   uint32 // payload offset from the start of the file
	Format   string // "png" or "bmp"
}

// Encode writes images as a single ICO container. Directory entries appear
// in the order given; callers wanting the conventional smallest-first layout
// sort before encoding. Images larger than 256px cannot be declared in an
// ICO directory and are rejected.
func Encode(w io.Writer, images []image.Image) error {
	if len(images) == 0 {
		return fmt.Errorf("ico: no images to encode")
	}

	payloads := make([][]byte, len(images))
	for i, img := range images {
		b := img.Bounds()
		if b.Dx() > 256 || b.Dy() > 256 {
			return fmt.Errorf("ico: frame %d is %dx%d, larger than 256px", i, b.Dx(), b.Dy())
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("ico: encode frame %d: %w", i, err)
		}
		payloads[i] = buf.Bytes()
	}

	var dir bytes.Buffer
	binary.Write(&dir, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(&dir, binary.LittleEndian, uint16(resourceType))
	binary.Write(&dir, binary.LittleEndian, uint16(len(images)))

	offset := headerSize + entrySize*len(images)
	for i, img := range images {
		b := img.Bounds()
		// 0 means 256 in the one-byte dimension fields.
		bw, bh := byte(b.Dx()), byte(b.Dy())
		if b.Dx() >= 256 {
			bw = 0
		}
		if b.Dy() >= 256 {
			bh = 0
		}
		dir.WriteByte(bw)
		dir.WriteByte(bh)
		dir.WriteByte(0) // color count (0 for truecolor)
		dir.WriteByte(0) // reserved
		binary.Write(&dir, binary.LittleEndian, uint16(1))  // planes
		binary.Write(&dir, binary.LittleEndian, uint16(32)) // bits per pixel
		binary.Write(&dir, binary.LittleEndian, uint32(len(payloads[i])))
		binary.Write(&dir, binary.LittleEndian, uint32(offset))
		offset += len(payloads[i])
	}

	if _, err := w.Write(dir.Bytes()); err != nil {
		return fmt.Errorf("ico: write directory: %w", err)
	}
	for i, p := range payloads {
		if _, err := w.Write(p); err != nil {
			return fmt.Errorf("ico: write frame %d: %w", i, err)
		}
	}
	return nil
}

// EncodeBytes is Encode into a fresh byte slice.
func EncodeBytes(images []image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, images); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDir parses the directory of an ICO file and classifies each frame's
// payload. It does not decode pixel data.
func DecodeDir(data []byte) ([]Entry, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("ico: file too short (%d bytes)", len(data))
	}
	if binary.LittleEndian.Uint16(data[0:]) != 0 ||
		binary.LittleEndian.Uint16(data[2:]) != resourceType {
		return nil, fmt.Errorf("ico: not an ICO file")
	}
	count := int(binary.LittleEndian.Uint16(data[4:]))
	if count == 0 {
		return nil, fmt.Errorf("ico: empty directory")
	}
	if len(data) < headerSize+entrySize*count {
		return nil, fmt.Errorf("ico: truncated directory (%d entries declared)", count)
	}

	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		off := headerSize + entrySize*i
		e := Entry{
			Width:    int(data[off]),
			Height:   int(data[off+1]),
			BitCount: int(binary.LittleEndian.Uint16(data[off+6:])),
			Size:     binary.LittleEndian.Uint32(data[off+8:]),
			Offset:   binary.LittleEndian.Uint32(data[off+12:]),
		}
		if e.Width == 0 {
			e.Width = 256
		}
		if e.Height == 0 {
			e.Height = 256
		}
		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("ico: frame %d payload out of bounds", i)
		}
		if e.Size >= 4 && bytes.Equal(data[e.Offset:e.Offset+4], pngMagic) {
			e.Format = "png"
		} else {
			e.Format = "bmp"
		}
		entries = append(entries, e)
	}
	return entries, nil
}
