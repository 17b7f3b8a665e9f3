// Package backend provides a pluggable render backend abstraction.
//
// A backend takes a validated document and a resolution and produces
// the raster file. Two implementations exist: the vector backend
// evaluates the document's function in-process over the whole sample
// grid, and the native backend (backend/native) compiles the function
// into a multithreaded C program and runs it.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The vector backend is automatically registered on import:
//
//	import _ "github.com/IdeaLab-Design-Environments-Group/iFRep/backend"
//
// The native backend registers itself the same way:
//
//	import _ "github.com/IdeaLab-Design-Environments-Group/iFRep/backend/native"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b := backend.Get(backend.BackendNative)
//
// # Rendering
//
//	b := backend.Default()
//	if err := b.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	if err := b.Render(doc, 300, "out.png"); err != nil {
//		log.Fatal(err)
//	}
//
// # Available Backends
//
// - "vector": in-process array evaluator (always available)
// - "native": compiled C, needs a C compiler, libpng and pthreads
package backend
