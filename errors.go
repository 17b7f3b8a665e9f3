package frep

import "errors"

// Render errors. Every failure in the pipeline wraps one of these
// sentinels, so callers can classify with errors.Is regardless of how
// much context has been layered on top. No error is ever retried; the
// first failure is terminal for the render request.
var (
	// ErrInvalidDocument is returned when the input document cannot be
	// decoded or fails validation (unsupported type, missing fields,
	// inverted bounds).
	ErrInvalidDocument = errors.New("frep: invalid document")

	// ErrInvalidResolution is returned when the requested dpi is not a
	// positive integer, or when it produces a grid with no samples.
	ErrInvalidResolution = errors.New("frep: invalid resolution")

	// ErrUnsupportedExpression is returned when the expression text falls
	// outside the documented vocabulary: a parse failure on the vector
	// path, or a compiler diagnostic on the native path.
	ErrUnsupportedExpression = errors.New("frep: unsupported expression")

	// ErrToolchainUnavailable is returned by the native backend when none
	// of the candidate C compilers could be found.
	ErrToolchainUnavailable = errors.New("frep: no usable C compiler")

	// ErrNativeExecutionFailed is returned when the generated renderer
	// compiled but exited nonzero, or did not produce its image file.
	ErrNativeExecutionFailed = errors.New("frep: native renderer failed")

	// ErrEvaluation is returned for runtime expression failures on the
	// vector path: unbound names, math domain errors, operand type
	// mismatches.
	ErrEvaluation = errors.New("frep: expression evaluation failed")
)
