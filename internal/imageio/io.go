// Package imageio writes and reads the raster files a render produces.
//
// The output format follows the file extension. PNG output carries a
// pHYs chunk declaring the physical resolution; the standard encoder
// has no hook for ancillary chunks, so the chunk is spliced in directly
// after IHDR.
package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the output extension names
	// a format Save cannot write.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
)

// Save writes img to path in the format named by the file extension:
// .png, .bmp, .tif or .tiff. PNG output declares dpi in a pHYs chunk;
// the other formats have no resolution field and ignore it. A dpi of
// zero or less omits the chunk.
func Save(path string, img image.Image, dpi int) error {
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(w io.Writer) error { return EncodePNG(w, img, dpi) }
	case ".bmp":
		encode = func(w io.Writer) error {
			if err := bmp.Encode(w, img); err != nil {
				return fmt.Errorf("imageio: encode BMP: %w", err)
			}
			return nil
		}
	case ".tif", ".tiff":
		encode = func(w io.Writer) error {
			if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
				return fmt.Errorf("imageio: encode TIFF: %w", err)
			}
			return nil
		}
	default:
		return fmt.Errorf("imageio: save %q: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EncodePNG encodes img as PNG to w with a pHYs resolution chunk
// spliced in after IHDR. A dpi of zero or less writes a plain PNG.
func EncodePNG(w io.Writer, img image.Image, dpi int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("imageio: encode PNG: %w", err)
	}
	data := buf.Bytes()

	if dpi <= 0 {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("imageio: write PNG: %w", err)
		}
		return nil
	}

	// The 8-byte signature and the fixed-size IHDR chunk end at byte
	// 33; pHYs belongs between IHDR and the first IDAT.
	const ihdrEnd = 33
	if _, err := w.Write(data[:ihdrEnd]); err != nil {
		return fmt.Errorf("imageio: write PNG: %w", err)
	}
	if _, err := w.Write(physChunk(dpi)); err != nil {
		return fmt.Errorf("imageio: write PNG: %w", err)
	}
	if _, err := w.Write(data[ihdrEnd:]); err != nil {
		return fmt.Errorf("imageio: write PNG: %w", err)
	}
	return nil
}

// physChunk builds a pHYs chunk declaring dpi as pixels per metre on
// both axes.
func physChunk(dpi int) []byte {
	ppm := frep.PixelsPerMeter(dpi)
	chunk := make([]byte, 21)
	binary.BigEndian.PutUint32(chunk[0:4], 9) // data length
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit is the metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))
	return chunk
}

// Load reads an image from path, auto-detecting the format from its
// content. The PNG, BMP and TIFF decoders are registered.
func Load(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return img, nil
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Resolution returns the pixels-per-metre pair from a PNG file's pHYs
// chunk, or zeros if the file carries none.
func Resolution(path string) (xppm, yppm uint32, err error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, 0, fmt.Errorf("imageio: read file: %w", err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, 0, fmt.Errorf("imageio: resolution of %q: %w", path, ErrUnsupportedFormat)
	}

	off := len(pngSignature)
	for off+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		body := off + 8
		if typ == "pHYs" {
			if length != 9 || body+9 > len(data) {
				return 0, 0, fmt.Errorf("imageio: resolution of %q: malformed pHYs chunk", path)
			}
			xppm = binary.BigEndian.Uint32(data[body : body+4])
			yppm = binary.BigEndian.Uint32(data[body+4 : body+8])
			return xppm, yppm, nil
		}
		if typ == "IEND" {
			break
		}
		off = body + length + 4
	}
	return 0, 0, nil
}
