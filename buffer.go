package frep

// Buffer is the packed-intensity accumulator: one 32-bit unsigned value
// per pixel, row-major, row 0 at the top of the image. Single-layer
// renders assign packed RGB values directly; multi-layer renders sum
// masked layer intensities into it. Summing (not OR-ing) is deliberate:
// overlapping layers can carry a channel past 8 bits, and that overflow
// is accepted behavior.
//
// A Buffer is owned exclusively by one render request. Writers that
// share it (worker goroutines, generated native code threads) must hold
// disjoint row ranges.
type Buffer struct {
	width  int
	height int
	pix    []uint32
}

// NewBuffer creates a zeroed width x height accumulator.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// At returns the accumulator value at (x, y).
func (b *Buffer) At(x, y int) uint32 {
	return b.pix[y*b.width+x]
}

// Row returns the backing slice for one pixel row. Callers writing in
// parallel must keep to their own rows.
func (b *Buffer) Row(y int) []uint32 {
	return b.pix[y*b.width : (y+1)*b.width]
}

// LayerIntensity returns the packed tint for a layer at height z within
// [zmin, zmax]: the red channel tracks the normalized height
// (truncated, so z == zmax lands exactly on 255) while green and blue
// are pinned to full. When all layers share one height the gradient is
// degenerate and the tint is full white.
func LayerIntensity(z, zmin, zmax float64) uint32 {
	red := 255
	if zmax > zmin {
		red = int(255 * (z - zmin) / (zmax - zmin))
	}
	return uint32(red) | 255<<8 | 255<<16
}

// ToRaster unpacks the accumulator into an 8-bit RGB raster, low byte
// to red, middle to green, high to blue, alpha opaque. Rows keep their
// top-down order. The dpi is recorded for resolution metadata.
func (b *Buffer) ToRaster(dpi int) *Raster {
	r := NewRaster(b.width, b.height, dpi)
	for y := 0; y < b.height; y++ {
		src := b.Row(y)
		dst := r.Pix[y*r.Stride : y*r.Stride+b.width*4]
		for x, v := range src {
			dst[x*4+0] = uint8(v & 255)
			dst[x*4+1] = uint8((v >> 8) & 255)
			dst[x*4+2] = uint8((v >> 16) & 255)
			dst[x*4+3] = 255
		}
	}
	return r
}
