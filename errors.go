package overlay

import (
	"errors"
	"fmt"
)

// Sentinel errors for the overlay package.
var (
	// ErrInvalidHandle is returned when a FontHandle was not issued by the Renderer.
	ErrInvalidHandle = errors.New("overlay: invalid font handle")

	// ErrScaleExhausted is returned when the atlas could not be packed at the
	// device's maximum texture size before the text scale fell below the
	// configured minimum or the retry budget ran out.
	ErrScaleExhausted = errors.New("overlay: text scale exhausted while fitting atlas")

	// ErrAtlasTooLarge is returned when atlas size doubling passes the
	// configured upper bound.
	ErrAtlasTooLarge = errors.New("overlay: atlas size limit exceeded")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("overlay: renderer closed")

	// ErrReleased is returned when drawing between Release and Reacquire.
	ErrReleased = errors.New("overlay: device resources released")

	// errPackingOverflow signals that the glyphs do not fit the candidate
	// atlas. It drives the size/scale retry loop and never leaves the package.
	errPackingOverflow = errors.New("overlay: packing overflow")
)

// InvalidHandleError reports an out-of-range font handle.
type InvalidHandleError struct {
	Handle FontHandle
	Count  int
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("overlay: bad font handle %d (%d fonts registered)", int(e.Handle), e.Count)
}

func (e *InvalidHandleError) Unwrap() error { return ErrInvalidHandle }

// RasterizerError reports a failed call into the glyph rasterizer.
type RasterizerError struct {
	Op   string // "open", "measure" or "paint"
	Char byte   // 0 for Op == "open"
	Err  error
}

func (e *RasterizerError) Error() string {
	if e.Op == "open" {
		return fmt.Sprintf("overlay: rasterizer %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("overlay: rasterizer %s %q: %v", e.Op, rune(e.Char), e.Err)
}

func (e *RasterizerError) Unwrap() error { return e.Err }

// ResourceCreationError reports a failed device allocation.
type ResourceCreationError struct {
	Resource string // "texture" or "vertex buffer"
	Err      error
}

func (e *ResourceCreationError) Error() string {
	return fmt.Sprintf("overlay: failed to create %s: %v", e.Resource, e.Err)
}

func (e *ResourceCreationError) Unwrap() error { return e.Err }
