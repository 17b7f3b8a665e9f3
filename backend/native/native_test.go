package native

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/backend"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/internal/imageio"
)

func TestNativeBackendName(t *testing.T) {
	b := NewBackend()
	if b.Name() != "native" {
		t.Errorf("Name() = %q, want %q", b.Name(), "native")
	}
}

func TestNativeBackendRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendNative) {
		t.Error("native backend should be auto-registered on import")
	}
}

// tempRenderDirs returns the render scratch directories currently in
// the system temp dir.
func tempRenderDirs(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "frep_native_*"))
	if err != nil {
		t.Fatalf("glob temp dirs: %v", err)
	}
	return matches
}

func TestNativeRender_WhiteSquare(t *testing.T) {
	requireToolchain(t)

	b := NewBackend()
	defer b.Close()

	path := filepath.Join(t.TempDir(), "out.png")
	if err := b.Render(testDoc("16777215"), 100, path); err != nil {
		t.Fatalf("Render() = %v, want nil", err)
	}

	img, err := imageio.Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Fatalf("image = %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}
	r, g, bl, a := img.At(50, 50).RGBA()
	if r != 0xFFFF || g != 0xFFFF || bl != 0xFFFF || a != 0xFFFF {
		t.Errorf("pixel (50,50) = %d %d %d %d, want white", r, g, bl, a)
	}

	// The compiled renderer declares the same resolution the vector
	// path would.
	xppm, yppm, err := imageio.Resolution(path)
	if err != nil {
		t.Fatalf("Resolution() = %v, want nil", err)
	}
	if want := frep.PixelsPerMeter(100); xppm != want || yppm != want {
		t.Errorf("Resolution() = %d, %d, want %d, %d", xppm, yppm, want, want)
	}
}

func TestNativeRender_MatchesVector(t *testing.T) {
	requireToolchain(t)

	docs := []*frep.Document{
		testDoc("(16777215*((X > 0.25) & (X < 0.75) & (Y > 0.25) & (Y < 0.75)))"),
		testDoc("(16777215*((X > 0.2) & (Y > 0.2) & (Z < 0.5)))", 0, 1),
	}
	for _, doc := range docs {
		dir := t.TempDir()
		nativePath := filepath.Join(dir, "native.png")
		vectorPath := filepath.Join(dir, "vector.png")

		nb := NewBackend()
		if err := nb.Render(doc, 100, nativePath); err != nil {
			t.Fatalf("native Render() = %v, want nil", err)
		}
		nb.Close()

		vb := backend.NewVectorBackend()
		if err := vb.Render(doc, 100, vectorPath); err != nil {
			t.Fatalf("vector Render() = %v, want nil", err)
		}
		vb.Close()

		nimg, err := imageio.Load(nativePath)
		if err != nil {
			t.Fatalf("Load(native) = %v, want nil", err)
		}
		vimg, err := imageio.Load(vectorPath)
		if err != nil {
			t.Fatalf("Load(vector) = %v, want nil", err)
		}
		if nimg.Bounds() != vimg.Bounds() {
			t.Fatalf("bounds differ: native %v, vector %v", nimg.Bounds(), vimg.Bounds())
		}
		if diff := firstPixelDiff(nimg, vimg); diff != nil {
			t.Errorf("%s: backends differ at %v", doc.Function, *diff)
		}
	}
}

// firstPixelDiff returns the first point where the two images differ,
// or nil when they are identical.
func firstPixelDiff(a, b image.Image) *image.Point {
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				return &image.Point{X: x, Y: y}
			}
		}
	}
	return nil
}

func TestNativeRender_BadExpression(t *testing.T) {
	requireToolchain(t)

	before := len(tempRenderDirs(t))

	b := NewBackend()
	defer b.Close()

	err := b.Render(testDoc("X $$ Y"), 100, filepath.Join(t.TempDir(), "out.png"))
	if !errors.Is(err, frep.ErrUnsupportedExpression) {
		t.Errorf("Render(bad expression) = %v, want ErrUnsupportedExpression", err)
	}

	// The scratch directory is cleaned up on failure too.
	if after := len(tempRenderDirs(t)); after != before {
		t.Errorf("leftover scratch dirs: %d, want %d", after, before)
	}
}

func TestNativeRender_CleanupOnSuccess(t *testing.T) {
	requireToolchain(t)

	before := len(tempRenderDirs(t))

	b := NewBackend()
	defer b.Close()

	if err := b.Render(testDoc("0"), 100, filepath.Join(t.TempDir(), "out.png")); err != nil {
		t.Fatalf("Render() = %v, want nil", err)
	}

	if after := len(tempRenderDirs(t)); after != before {
		t.Errorf("leftover scratch dirs: %d, want %d", after, before)
	}
}

func TestNativeRender_NoToolchain(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("FREP_CC", "")

	b := NewBackend()
	defer b.Close()

	err := b.Render(testDoc("0"), 100, filepath.Join(t.TempDir(), "out.png"))
	if !errors.Is(err, frep.ErrToolchainUnavailable) {
		t.Errorf("Render() = %v, want ErrToolchainUnavailable", err)
	}
}

func TestRenderThreads(t *testing.T) {
	t.Setenv("FREP_THREADS", "3")
	if got := renderThreads(); got != 3 {
		t.Errorf("renderThreads() = %d, want 3", got)
	}

	t.Setenv("FREP_THREADS", "0")
	if got := renderThreads(); got < 1 {
		t.Errorf("renderThreads() = %d, want at least 1", got)
	}

	t.Setenv("FREP_THREADS", "-2")
	if got := renderThreads(); got < 1 {
		t.Errorf("renderThreads() = %d, want at least 1", got)
	}
}
