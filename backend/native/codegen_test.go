package native

import (
	"strings"
	"testing"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
)

// testDoc builds a unit-square document at 1 inch per unit, so 100 dpi
// yields a 100x100 grid.
func testDoc(function string, layers ...float64) *frep.Document {
	if len(layers) == 0 {
		layers = []float64{0}
	}
	return &frep.Document{
		Type:      frep.ColorModeRGB,
		XMin:      0,
		XMax:      1,
		YMin:      0,
		YMax:      1,
		MMPerUnit: 25.4,
		Layers:    layers,
		Function:  function,
	}
}

func generate(t *testing.T, doc *frep.Document, dpi, threads int, outname string) string {
	t.Helper()
	grid, err := frep.NewGrid(doc, dpi)
	if err != nil {
		t.Fatalf("NewGrid() = %v, want nil", err)
	}
	return string(generateSource(doc, grid, dpi, threads, outname))
}

func TestGenerateSource_TranslatedFunction(t *testing.T) {
	doc := testDoc("(16777215*((X > 0.1) & (math.sqrt(Y)**2 < 0.9)))")
	src := generate(t, doc, 100, 4, "out.png")

	want := "return (16777215*((x > 0.1) && (pow(sqrt(y),2) < 0.9)));"
	if !strings.Contains(src, want) {
		t.Errorf("source missing %q\n%s", want, src)
	}
}

func TestGenerateSource_GridConstants(t *testing.T) {
	src := generate(t, testDoc("0"), 100, 4, "out.png")

	for _, want := range []string{
		"#define NX 100\n",
		"#define NY 100\n",
		"#define NTHREADS 4\n",
		"#define NLAYERS 1\n",
		"static const double delta = 0.01",
		"static const double xmin0 = 0;",
		"static const double ymin0 = 0;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q", want)
		}
	}
}

func TestGenerateSource_SingleLayerStoresValue(t *testing.T) {
	src := generate(t, testDoc("255"), 100, 2, "out.png")

	if !strings.Contains(src, "row[ix] = (uint32_t) fn(x, y, zs[0]);") {
		t.Error("single-layer fill should store the function value directly")
	}
	if strings.Contains(src, "acc") {
		t.Error("single-layer fill should not accumulate")
	}
}

func TestGenerateSource_LayerStack(t *testing.T) {
	src := generate(t, testDoc("255", 0, 1), 100, 2, "out.png")

	for _, want := range []string{
		"#define NLAYERS 2\n",
		"static const double zs[NLAYERS] = {0, 1};",
		"static const uint32_t tints[NLAYERS] = {0xffff00u, 0xffffffu};",
		"acc += tints[l] & (uint32_t) fn(x, y, zs[l]);",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q", want)
		}
	}
}

func TestGenerateSource_Resolution(t *testing.T) {
	src := generate(t, testDoc("0"), 100, 1, "out.png")
	if !strings.Contains(src, "static const png_uint_32 ppm = 3937;") {
		t.Error("source missing pHYs pixels-per-metre constant for 100 dpi")
	}
	if !strings.Contains(src, "png_set_pHYs(png, info, ppm, ppm, PNG_RESOLUTION_METER);") {
		t.Error("source missing png_set_pHYs call")
	}
}

func TestGenerateSource_Outname(t *testing.T) {
	src := generate(t, testDoc("0"), 100, 1, "render.png")
	if !strings.Contains(src, `static const char *outname = "render.png";`) {
		t.Error("source missing output file constant")
	}
}

func TestCFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{1, "1"},
		{-2.5, "-2.5"},
		{0.1, "0.10000000000000001"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := cfloat(tt.v); got != tt.want {
			t.Errorf("cfloat(%g) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
