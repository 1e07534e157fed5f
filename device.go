package overlay

import "image"

// Device is the graphics backend the Renderer draws through.
// The package does not depend on any concrete graphics API; backends such
// as backend/opengl or backend/memory satisfy this interface.
type Device interface {
	// MaxTextureSize returns the largest supported texture side in pixels.
	MaxTextureSize() int

	// CreateTexture uploads a glyph coverage image. Coverage is white text
	// whose alpha is the image value.
	CreateTexture(img *image.Alpha) (Texture, error)

	// CreateVertexBuffer allocates a dynamic buffer for capacity vertices.
	CreateVertexBuffer(capacity int) (VertexBuffer, error)

	// SubmitDraw issues one draw call. tex is nil for untextured batches.
	SubmitDraw(topology Topology, tex Texture, startVertex, primitiveCount int) error
}

// Texture is a device texture. Release frees it; further use is undefined.
type Texture interface {
	Release()
}

// VertexBuffer is a device vertex buffer.
type VertexBuffer interface {
	// Capacity returns the number of vertices the buffer holds.
	Capacity() int

	// Upload replaces the buffer contents. len(v) never exceeds Capacity.
	Upload(v []Vertex) error

	Release()
}

// StateScoper is implemented by devices that save and restore render
// state around overlay drawing. Renderer.Begin and Renderer.End call it
// when present.
type StateScoper interface {
	BeginState()
	EndState()
}

// FontStyle is a bit set of font style flags.
type FontStyle uint8

const (
	FontDefault FontStyle = 0
	FontBold    FontStyle = 1 << 0
	FontItalic  FontStyle = 1 << 1
)

// FontDescriptor identifies the font to rasterize.
type FontDescriptor struct {
	Family string
	Height int // requested height in points
	Style  FontStyle
}

// Rasterizer opens glyph faces for a font descriptor.
type Rasterizer interface {
	// Face selects desc with its height multiplied by scale.
	Face(desc FontDescriptor, scale float32) (Face, error)
}

// Face measures and paints single ASCII characters of one selected font.
type Face interface {
	// Measure returns the advance width and cell height of ch in pixels.
	Measure(ch byte) (width, height int, err error)

	// Draw paints ch with its cell's top-left corner at (x, y).
	Draw(dst *image.Alpha, x, y int, ch byte) error

	Close() error
}
