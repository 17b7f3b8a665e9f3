// Package frep renders raster images from functional representations.
//
// # Overview
//
// An FRep describes a scene as a single boolean/arithmetic expression
// over the spatial coordinates X, Y and Z. The expression is sampled on
// a regular grid derived from the document bounds and a requested output
// density, and the per-sample values become packed RGB pixels: directly
// for single-layer documents, or through a height-normalized intensity
// gradient when several layers are composited.
//
// # Quick Start
//
//	doc, err := frep.ReadDocument(os.Stdin)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := backend.Get(backend.BackendVector)
//	if err := b.Render(doc, 100, "out.png"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Architecture
//
// The library is organized into:
//   - Root package: document model, sample grid, intensity buffer,
//     raster materialization
//   - expr: the expression parser/evaluator and the scalar-C translator
//   - backend: the render backend registry and the vectorized backend
//   - backend/native: C code generation, toolchain probing and execution
//   - cmd/frep: the command-line renderer
//
// Two backends evaluate the same document: the vector backend walks the
// grid in-process, while the native backend emits a multithreaded C
// program, compiles it with the first working system compiler, and runs
// it. Both must produce pixel-identical images.
//
// # Coordinate System
//
// Sample columns ascend from xmin; sample rows descend from just below
// ymax, so image row 0 corresponds to the highest sampled y.
package frep

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
