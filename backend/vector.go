package backend

import (
	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/expr"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/internal/imageio"
	"github.com/IdeaLab-Design-Environments-Group/iFRep/internal/parallel"
)

// Backend name constants.
const (
	// BackendVector is the name of the in-process array evaluator.
	BackendVector = "vector"
	// BackendNative is the name of the compiled-C backend (backend/native).
	BackendNative = "native"
)

// VectorBackend renders in-process: it parses the document's function
// once and evaluates it at every grid sample, with rows fanned out
// over a worker pool. It needs no toolchain and is always available.
type VectorBackend struct {
	pool *parallel.WorkerPool
}

// init registers the vector backend on package import.
func init() {
	Register(BackendVector, func() RenderBackend {
		return &VectorBackend{}
	})
}

// NewVectorBackend creates a new in-process render backend.
func NewVectorBackend() *VectorBackend {
	return &VectorBackend{}
}

// Name returns the backend identifier.
func (b *VectorBackend) Name() string {
	return BackendVector
}

// Init initializes the backend. The worker pool is created lazily on
// first render, so Init never fails.
func (b *VectorBackend) Init() error {
	return nil
}

// Close releases all backend resources.
func (b *VectorBackend) Close() {
	if b.pool != nil {
		b.pool.Close()
		b.pool = nil
	}
}

// Render evaluates doc over its sample grid and writes the raster to
// outfile. The output format follows the file extension.
func (b *VectorBackend) Render(doc *frep.Document, dpi int, outfile string) error {
	grid, err := frep.NewGrid(doc, dpi)
	if err != nil {
		return err
	}
	buf, err := b.Rasterize(doc, grid)
	if err != nil {
		return err
	}
	return imageio.Save(outfile, buf.ToRaster(dpi).Image(), dpi)
}

// Rasterize evaluates the document's function over grid and returns
// the packed-color buffer.
//
// A single-layer document stores the function's value directly: the
// function is the color. A layer stack instead sums one contribution
// per layer, the layer's height tint masked by the function's value,
// with the running sum left to wrap as it will.
func (b *VectorBackend) Rasterize(doc *frep.Document, grid *frep.Grid) (*frep.Buffer, error) {
	e, err := expr.Parse(doc.Function)
	if err != nil {
		return nil, err
	}
	if b.pool == nil {
		b.pool = parallel.NewWorkerPool(0)
	}

	buf := frep.NewBuffer(grid.Width(), grid.Height())
	frep.Logger().Debug("rasterizing",
		"width", grid.Width(), "height", grid.Height(), "layers", len(doc.Layers))

	if len(doc.Layers) == 1 {
		// An all-ones mask with += on a zeroed buffer stores the value
		// as-is.
		return buf, b.renderLayer(e, grid, buf, doc.Layers[0], ^uint32(0))
	}

	zmin, zmax := doc.ZRange()
	for _, z := range doc.Layers {
		frep.Logger().Info("evaluating layer", "z", z)
		tint := frep.LayerIntensity(z, zmin, zmax)
		if err := b.renderLayer(e, grid, buf, z, tint); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// renderLayer evaluates e at height z for every grid sample and adds
// tint & value to the buffer, row bands in parallel.
func (b *VectorBackend) renderLayer(e *expr.Expr, grid *frep.Grid, buf *frep.Buffer, z float64, tint uint32) error {
	xs, ys := grid.Xs, grid.Ys
	return b.pool.RunBands(len(ys), func(lo, hi int) error {
		for r := lo; r < hi; r++ {
			row := buf.Row(r)
			y := ys[r]
			for i, x := range xs {
				v, err := e.Eval(x, y, z)
				if err != nil {
					return err
				}
				row[i] += tint & v.Uint32()
			}
		}
		return nil
	})
}
