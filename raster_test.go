package frep

import (
	"image"
	"testing"
)

func TestRaster_ImageSharesPix(t *testing.T) {
	r := NewRaster(3, 2, 300)
	img := r.Image()

	if got, want := img.Bounds(), image.Rect(0, 0, 3, 2); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	// Mutating the raster must show through the image view: the wrap is
	// zero-copy.
	i := 1*r.Stride + 2*4
	r.Pix[i] = 0x80
	if got := img.RGBAAt(2, 1).R; got != 0x80 {
		t.Errorf("image R at (2,1) = %#x, want 0x80", got)
	}
}

func TestRaster_RGBAAt(t *testing.T) {
	r := NewRaster(2, 2, 100)
	r.Pix[0] = 1
	r.Pix[1] = 2
	r.Pix[2] = 3
	r.Pix[3] = 4
	px := r.RGBAAt(0, 0)
	if px.R != 1 || px.G != 2 || px.B != 3 || px.A != 4 {
		t.Errorf("RGBAAt(0,0) = %+v, want {1 2 3 4}", px)
	}
}
