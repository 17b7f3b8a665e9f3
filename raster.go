package frep

import (
	"image"
	"image/color"
)

// Raster is the final RGBA pixel buffer produced by a render: 8 bits
// per channel, alpha always opaque, rows top-down. It records the dpi
// the grid was derived from so encoders can attach resolution metadata.
type Raster struct {
	Width  int
	Height int
	// Pix holds RGBA values in row-major order; the pixel at (x, y)
	// starts at Pix[y*Stride + x*4].
	Pix    []uint8
	Stride int
	DPI    int
}

// NewRaster creates an all-zero (transparent black) raster.
func NewRaster(width, height, dpi int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
		Stride: width * 4,
		DPI:    dpi,
	}
}

// RGBAAt returns the pixel at (x, y).
func (r *Raster) RGBAAt(x, y int) color.RGBA {
	i := y*r.Stride + x*4
	return color.RGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// Image wraps the raster as a standard library image without copying;
// the returned image shares Pix.
func (r *Raster) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: r.Stride,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}
