// Package memory provides a headless overlay backend. Textures stay in
// memory as images and draw calls are recorded instead of executed, which
// makes it suitable for tests, tooling and servers without a GPU.
package memory

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/go-theft-auto/overlay"
)

// DefaultMaxTextureSize is the texture limit reported when none is configured.
const DefaultMaxTextureSize = 4096

// ErrInjected is returned by operations made to fail with FailTextures or
// FailVertexBuffers.
var ErrInjected = errors.New("memory: injected failure")

// DrawCall is one recorded SubmitDraw.
type DrawCall struct {
	Topology       overlay.Topology
	Texture        *Texture // nil for untextured batches
	StartVertex    int
	PrimitiveCount int
}

// Device implements overlay.Device without a GPU.
type Device struct {
	maxTexture int

	textures      []*Texture
	buffer        *VertexBuffer
	calls         []DrawCall
	stateDepth    int
	failTextures  bool
	failVertexBuf bool
}

var (
	_ overlay.Device      = (*Device)(nil)
	_ overlay.StateScoper = (*Device)(nil)
)

// Option configures a Device.
type Option func(*Device)

// WithMaxTextureSize sets the largest texture side the device accepts.
func WithMaxTextureSize(n int) Option {
	return func(d *Device) {
		if n > 0 {
			d.maxTexture = n
		}
	}
}

// NewDevice creates a headless device.
func NewDevice(opts ...Option) *Device {
	d := &Device{maxTexture: DefaultMaxTextureSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxTextureSize implements overlay.Device.
func (d *Device) MaxTextureSize() int { return d.maxTexture }

// CreateTexture implements overlay.Device. The image is copied.
func (d *Device) CreateTexture(img *image.Alpha) (overlay.Texture, error) {
	if d.failTextures {
		return nil, ErrInjected
	}
	b := img.Bounds()
	if b.Dx() > d.maxTexture || b.Dy() > d.maxTexture {
		return nil, fmt.Errorf("memory: texture %dx%d exceeds limit %d", b.Dx(), b.Dy(), d.maxTexture)
	}

	t := &Texture{
		id:  len(d.textures) + 1,
		img: &image.Alpha{Pix: slices.Clone(img.Pix), Stride: img.Stride, Rect: img.Rect},
	}
	d.textures = append(d.textures, t)
	return t, nil
}

// CreateVertexBuffer implements overlay.Device.
func (d *Device) CreateVertexBuffer(capacity int) (overlay.VertexBuffer, error) {
	if d.failVertexBuf {
		return nil, ErrInjected
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("memory: invalid vertex buffer capacity %d", capacity)
	}
	d.buffer = &VertexBuffer{capacity: capacity}
	return d.buffer, nil
}

// SubmitDraw implements overlay.Device.
func (d *Device) SubmitDraw(topology overlay.Topology, tex overlay.Texture, start, prims int) error {
	call := DrawCall{Topology: topology, StartVertex: start, PrimitiveCount: prims}
	if tex != nil {
		t, ok := tex.(*Texture)
		if !ok {
			return fmt.Errorf("memory: foreign texture %T", tex)
		}
		if t.released {
			return fmt.Errorf("memory: texture %d used after release", t.id)
		}
		call.Texture = t
	}
	d.calls = append(d.calls, call)
	return nil
}

// BeginState implements overlay.StateScoper.
func (d *Device) BeginState() { d.stateDepth++ }

// EndState implements overlay.StateScoper.
func (d *Device) EndState() { d.stateDepth-- }

// StateDepth returns the number of unmatched BeginState calls.
func (d *Device) StateDepth() int { return d.stateDepth }

// Calls returns the draw calls recorded since the last Reset.
func (d *Device) Calls() []DrawCall { return d.calls }

// Reset forgets recorded draw calls.
func (d *Device) Reset() { d.calls = d.calls[:0] }

// Textures returns every texture created, released ones included.
func (d *Device) Textures() []*Texture { return d.textures }

// Buffer returns the most recently created vertex buffer.
func (d *Device) Buffer() *VertexBuffer { return d.buffer }

// FailTextures makes CreateTexture fail while on is true.
func (d *Device) FailTextures(on bool) { d.failTextures = on }

// FailVertexBuffers makes CreateVertexBuffer fail while on is true.
func (d *Device) FailVertexBuffers(on bool) { d.failVertexBuf = on }

// Texture is an in-memory alpha texture.
type Texture struct {
	id       int
	img      *image.Alpha
	released bool
}

// ID returns the creation index of the texture, starting at 1.
func (t *Texture) ID() int { return t.id }

// Image returns the texture contents.
func (t *Texture) Image() *image.Alpha { return t.img }

// Released reports whether Release was called.
func (t *Texture) Released() bool { return t.released }

// Release implements overlay.Texture.
func (t *Texture) Release() { t.released = true }

// VertexBuffer keeps the last uploaded vertices.
type VertexBuffer struct {
	capacity int
	vertices []overlay.Vertex
	uploads  int
	released bool
}

// Capacity implements overlay.VertexBuffer.
func (b *VertexBuffer) Capacity() int { return b.capacity }

// Upload implements overlay.VertexBuffer.
func (b *VertexBuffer) Upload(v []overlay.Vertex) error {
	if b.released {
		return errors.New("memory: upload to released vertex buffer")
	}
	if len(v) > b.capacity {
		return fmt.Errorf("memory: %d vertices exceed capacity %d", len(v), b.capacity)
	}
	b.vertices = append(b.vertices[:0], v...)
	b.uploads++
	return nil
}

// Release implements overlay.VertexBuffer.
func (b *VertexBuffer) Release() { b.released = true }

// Vertices returns the last uploaded vertices.
func (b *VertexBuffer) Vertices() []overlay.Vertex { return b.vertices }

// Uploads returns the number of Upload calls.
func (b *VertexBuffer) Uploads() int { return b.uploads }

// Released reports whether Release was called.
func (b *VertexBuffer) Released() bool { return b.released }
