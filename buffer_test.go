package frep

import "testing"

func TestBuffer_RowSharesBacking(t *testing.T) {
	b := NewBuffer(4, 3)
	row := b.Row(1)
	if len(row) != 4 {
		t.Fatalf("len(Row(1)) = %d, want 4", len(row))
	}
	row[2] = 0xABCDEF
	if got := b.At(2, 1); got != 0xABCDEF {
		t.Errorf("At(2,1) = %#x, want 0xabcdef", got)
	}
	if got := b.At(2, 0); got != 0 {
		t.Errorf("At(2,0) = %#x, want 0 (row isolation)", got)
	}
}

func TestBuffer_AdditiveOverflow(t *testing.T) {
	// Two layers landing full red on the same pixel push the sum past
	// 8 bits; the carry bleeds into green. That is accepted behavior,
	// not clamped.
	b := NewBuffer(1, 1)
	b.Row(0)[0] += 0xFF
	b.Row(0)[0] += 0xFF
	r := b.ToRaster(100)
	px := r.RGBAAt(0, 0)
	if px.R != 0xFE || px.G != 0x01 {
		t.Errorf("overflow pixel = %+v, want R=0xfe G=0x01", px)
	}
}

func TestLayerIntensity(t *testing.T) {
	tests := []struct {
		name          string
		z, zmin, zmax float64
		want          uint32
	}{
		{"bottom layer", 0, 0, 1, 0x00FFFF00},
		{"top layer", 1, 0, 1, 0x00FFFFFF},
		{"midpoint", 0.5, 0, 1, 0x00FFFF7F},
		{"uneven range", 2, 0, 3, 0x00FFFFAA},
		{"negative range", -1, -2, 0, 0x00FFFF7F},
		{"degenerate full white", 5, 5, 5, 0x00FFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayerIntensity(tt.z, tt.zmin, tt.zmax); got != tt.want {
				t.Errorf("LayerIntensity(%g, %g, %g) = %#x, want %#x",
					tt.z, tt.zmin, tt.zmax, got, tt.want)
			}
		})
	}
}

func TestBuffer_ToRaster_ChannelUnpack(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Row(0)[0] = 0x00332211 // B=0x33 G=0x22 R=0x11
	b.Row(0)[1] = 0xFFFFFFFF // full accumulator, channels saturate per byte
	r := b.ToRaster(100)

	px := r.RGBAAt(0, 0)
	if px.R != 0x11 || px.G != 0x22 || px.B != 0x33 || px.A != 0xFF {
		t.Errorf("pixel 0 = %+v, want R=0x11 G=0x22 B=0x33 A=0xff", px)
	}
	px = r.RGBAAt(1, 0)
	if px.R != 0xFF || px.G != 0xFF || px.B != 0xFF || px.A != 0xFF {
		t.Errorf("pixel 1 = %+v, want all 0xff", px)
	}
}

func TestBuffer_ToRaster_TopDownRows(t *testing.T) {
	// Distinct values per row: the raster must keep the buffer's row
	// order, not flip it.
	b := NewBuffer(1, 3)
	b.Row(0)[0] = 10
	b.Row(1)[0] = 20
	b.Row(2)[0] = 30
	r := b.ToRaster(100)
	for y, want := range []uint8{10, 20, 30} {
		if got := r.RGBAAt(0, y).R; got != want {
			t.Errorf("row %d red = %d, want %d", y, got, want)
		}
	}
	if r.DPI != 100 {
		t.Errorf("DPI = %d, want 100", r.DPI)
	}
}
