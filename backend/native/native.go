// Package native renders by compiling the document into a standalone
// multithreaded C program and running it. The generated program links
// against libm, libpng and pthreads; rendering fails with
// frep.ErrToolchainUnavailable when no C compiler can be found.
//
// Importing the package registers the "native" backend:
//
//	import _ "github.com/IdeaLab-Design-Environments-Group/iFRep/backend/native"
package native

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xyproto/env/v2"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/backend"
)

// Backend is the compiled-C render backend.
type Backend struct{}

// init registers the native backend on package import.
func init() {
	backend.Register(backend.BackendNative, func() backend.RenderBackend {
		return &Backend{}
	})
}

// NewBackend creates a new native render backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendNative
}

// Init checks nothing up front; the compiler search happens per
// render, so a toolchain installed later is still picked up.
func (b *Backend) Init() error {
	return nil
}

// Close releases all backend resources.
func (b *Backend) Close() {}

// Render generates the C program for doc, compiles it in a private
// temp directory, runs it there, and moves the image it wrote to
// outfile. The temp directory is removed whether or not the render
// succeeds.
func (b *Backend) Render(doc *frep.Document, dpi int, outfile string) error {
	grid, err := frep.NewGrid(doc, dpi)
	if err != nil {
		return err
	}

	threads := renderThreads()
	src := generateSource(doc, grid, dpi, threads, filepath.Base(outfile))
	frep.Logger().Debug("generated native source",
		"bytes", len(src), "threads", threads, "grid", fmt.Sprintf("%dx%d", grid.Width(), grid.Height()))

	dir, err := os.MkdirTemp("", "frep_native_")
	if err != nil {
		return fmt.Errorf("native: create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			frep.Logger().Warn("failed to remove temp dir", "dir", dir, "err", err)
		}
	}()

	srcPath := filepath.Join(dir, "render.c")
	if err := os.WriteFile(srcPath, src, 0o644); err != nil {
		return fmt.Errorf("native: write source: %w", err)
	}

	exePath := filepath.Join(dir, "render")
	if err := compile(dir, srcPath, exePath); err != nil {
		return err
	}

	cmd := exec.Command(exePath)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("native: run renderer: %s: %w", msg, frep.ErrNativeExecutionFailed)
	}

	produced := filepath.Join(dir, filepath.Base(outfile))
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("native: renderer wrote no image: %w", frep.ErrNativeExecutionFailed)
	}
	return moveFile(produced, outfile)
}

// renderThreads returns the fill thread count for the generated
// program: FREP_THREADS when positive, otherwise the CPU count.
func renderThreads() int {
	if n := env.Int("FREP_THREADS", 0); n > 0 {
		return n
	}
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// moveFile renames src to dst, falling back to a copy when the rename
// crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	frep.Logger().Warn("rename failed, copying image", "src", src, "dst", dst)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("native: read rendered image: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("native: write rendered image: %w", err)
	}
	return nil
}
