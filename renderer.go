package overlay

import "fmt"

// Renderer owns the device resources, the registered fonts and a default
// RenderList. Drawing calls only append to a list; nothing reaches the
// device until Flush or DrawList.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	dev  Device
	rast Rasterizer
	cfg  config

	fonts []*Font
	list  *RenderList

	vb       VertexBuffer
	capacity int
	closed   bool
}

// New creates a Renderer drawing through dev and rasterizing fonts with rast.
func New(dev Device, rast Rasterizer, opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Renderer{
		dev:      dev,
		rast:     rast,
		cfg:      cfg,
		list:     newRenderList(cfg.maxVertices),
		capacity: cfg.maxVertices,
	}
	if err := r.Reacquire(); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateFont rasterizes the printable ASCII range of a font and registers
// it. On failure no font is registered and existing fonts are untouched.
func (r *Renderer) CreateFont(family string, height int, style FontStyle) (FontHandle, error) {
	if r.closed {
		return -1, ErrClosed
	}

	desc := FontDescriptor{Family: family, Height: height, Style: style}
	f, err := newFont(r, desc)
	if err != nil {
		return -1, fmt.Errorf("overlay: create font %q %dpt: %w", family, height, err)
	}

	r.fonts = append(r.fonts, f)
	h := FontHandle(len(r.fonts) - 1)
	Logger().Info("font created",
		"handle", int(h), "family", family, "height", height,
		"atlas", f.texSize, "scale", f.textScale, "spacing", f.spacing)
	return h, nil
}

// Font returns the font registered under h.
func (r *Renderer) Font(h FontHandle) (*Font, error) {
	if h < 0 || int(h) >= len(r.fonts) {
		return nil, &InvalidHandleError{Handle: h, Count: len(r.fonts)}
	}
	return r.fonts[h], nil
}

// MeasureText returns the extent of text drawn with font h.
func (r *Renderer) MeasureText(h FontHandle, text string) (Vec2, error) {
	f, err := r.Font(h)
	if err != nil {
		return Vec2{}, err
	}
	return f.MeasureText(text), nil
}

// DrawText appends text to the default list.
func (r *Renderer) DrawText(h FontHandle, pos Vec2, text string, c Color, flags TextFlags) error {
	return r.DrawTextTo(r.list, h, pos, text, c, flags)
}

// DrawTextTo appends text to rl.
func (r *Renderer) DrawTextTo(rl *RenderList, h FontHandle, pos Vec2, text string, c Color, flags TextFlags) error {
	if r.closed {
		return ErrClosed
	}
	f, err := r.Font(h)
	if err != nil {
		return err
	}
	f.layout(rl, pos, text, c, flags)
	return nil
}

// AppendShape appends caller-built vertices to the default list.
func (r *Renderer) AppendShape(verts []Vertex, topology Topology, tex Texture) {
	r.list.Append(verts, topology, tex)
}

// List returns the default RenderList. Shape helpers such as FilledRect
// are called on it directly.
func (r *Renderer) List() *RenderList {
	return r.list
}

// NewRenderList creates an empty list sized like the vertex buffer. Lists
// can be drawn repeatedly with DrawList.
func (r *Renderer) NewRenderList() *RenderList {
	return newRenderList(r.capacity)
}

// Flush draws the default list and clears it.
func (r *Renderer) Flush() error {
	err := r.DrawList(r.list)
	r.list.Clear()
	return err
}

// DrawList uploads rl and draws its batches in order. rl is not cleared.
func (r *Renderer) DrawList(rl *RenderList) error {
	if r.closed {
		return ErrClosed
	}
	if r.vb == nil {
		return ErrReleased
	}

	if n := len(rl.Vertices); n > 0 {
		if n > r.vb.Capacity() {
			if err := r.grow(n); err != nil {
				return err
			}
		}
		if err := r.vb.Upload(rl.Vertices); err != nil {
			return fmt.Errorf("overlay: upload %d vertices: %w", n, err)
		}
	}
	return submitBatches(r.dev, rl.Batches)
}

// grow replaces the vertex buffer with one holding at least n vertices.
func (r *Renderer) grow(n int) error {
	size := max(n, 2*r.capacity)
	Logger().Warn("growing vertex buffer", "from", r.capacity, "to", size, "needed", n)

	r.vb.Release()
	r.vb = nil
	r.capacity = size
	return r.Reacquire()
}

// Begin saves the device's render state and applies the overlay state,
// when the device supports it.
func (r *Renderer) Begin() {
	if s, ok := r.dev.(StateScoper); ok {
		s.BeginState()
	}
}

// End restores the state saved by Begin.
func (r *Renderer) End() {
	if s, ok := r.dev.(StateScoper); ok {
		s.EndState()
	}
}

// Release drops the vertex buffer, e.g. before a device reset. Fonts are
// kept. Call Reacquire before drawing again.
func (r *Renderer) Release() {
	if r.vb != nil {
		r.vb.Release()
		r.vb = nil
	}
}

// Reacquire recreates the vertex buffer at the current capacity.
func (r *Renderer) Reacquire() error {
	if r.closed {
		return ErrClosed
	}
	if r.vb != nil {
		return nil
	}
	vb, err := r.dev.CreateVertexBuffer(r.capacity)
	if err != nil {
		return &ResourceCreationError{Resource: "vertex buffer", Err: err}
	}
	r.vb = vb
	Logger().Debug("vertex buffer created", "capacity", r.capacity)
	return nil
}

// Close releases every font texture and the vertex buffer. Afterwards
// text drawing and list submission return ErrClosed.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.Release()
	for _, f := range r.fonts {
		f.release()
	}
	r.closed = true
	return nil
}
