package backend

import (
	"errors"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// RenderBackend is the interface for render backends. It abstracts how
// a document's function is evaluated over the sample grid, allowing
// the library to support both in-process array evaluation and
// compiled native code.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "vector", "native").
	Name() string

	// Init prepares the backend for rendering.
	// This should be called before any render operations.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Render evaluates doc over its sample grid at the given
	// resolution and writes the raster to outfile.
	Render(doc *frep.Document, dpi int, outfile string) error
}
