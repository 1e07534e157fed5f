// Package opengl provides an OpenGL 4.1 backend for the overlay package.
//
// All methods must be called on the thread that owns the GL context.
package opengl

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/overlay"
)

var vertexStride = int32(unsafe.Sizeof(overlay.Vertex{}))

// Device implements overlay.Device using OpenGL.
type Device struct {
	shader    uint32
	projLoc   int32
	texLoc    int32
	useTexLoc int32
	width     int
	height    int

	buffer *vertexBuffer // most recent vertex buffer
	saved  savedState
}

var (
	_ overlay.Device      = (*Device)(nil)
	_ overlay.StateScoper = (*Device)(nil)
)

// NewDevice creates a device drawing into a width x height viewport.
// A GL context must be current and gl.Init must have been called.
func NewDevice(width, height int) (*Device, error) {
	d := &Device{width: width, height: height}

	var err error
	d.shader, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}

	d.projLoc = gl.GetUniformLocation(d.shader, gl.Str("projection\x00"))
	d.texLoc = gl.GetUniformLocation(d.shader, gl.Str("atlas\x00"))
	d.useTexLoc = gl.GetUniformLocation(d.shader, gl.Str("useTexture\x00"))

	overlay.Logger().Debug("opengl device created",
		"width", width, "height", height, "maxTexture", d.MaxTextureSize())
	return d, nil
}

// Resize updates the viewport size used for the projection.
func (d *Device) Resize(width, height int) {
	d.width = width
	d.height = height
}

// MaxTextureSize implements overlay.Device.
func (d *Device) MaxTextureSize() int {
	var n int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &n)
	return int(n)
}

// CreateTexture implements overlay.Device. The coverage image is stored
// in the red channel.
func (d *Device) CreateTexture(img *image.Alpha) (overlay.Texture, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := img.Pix
	if img.Stride != w {
		pix = make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			off := y * img.Stride
			pix = append(pix, img.Pix[off:off+w]...)
		}
	}
	if len(pix) == 0 {
		return nil, errors.New("opengl: empty texture")
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(w), int32(h), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return nil, fmt.Errorf("opengl: TexImage2D %dx%d: error 0x%x", w, h, code)
	}
	return &Texture{id: tex}, nil
}

// CreateVertexBuffer implements overlay.Device.
func (d *Device) CreateVertexBuffer(capacity int) (overlay.VertexBuffer, error) {
	b := &vertexBuffer{capacity: capacity}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*int(vertexStride), nil, gl.DYNAMIC_DRAW)

	// Position attribute
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)

	// Color attribute: packed ARGB is B, G, R, A in memory
	gl.VertexAttribPointerWithOffset(1, gl.BGRA, gl.UNSIGNED_BYTE, true, vertexStride, unsafe.Offsetof(overlay.Vertex{}.Color))
	gl.EnableVertexAttribArray(1)

	// TexCoord attribute
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, unsafe.Offsetof(overlay.Vertex{}.TexCoord))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		b.Release()
		return nil, fmt.Errorf("opengl: vertex buffer for %d vertices: error 0x%x", capacity, code)
	}
	d.buffer = b
	return b, nil
}

// SubmitDraw implements overlay.Device. It draws from the most recently
// uploaded vertex buffer.
func (d *Device) SubmitDraw(topology overlay.Topology, tex overlay.Texture, start, prims int) error {
	mode, ok := drawModes[topology]
	if !ok {
		return fmt.Errorf("opengl: unsupported topology %s", topology)
	}
	if d.buffer == nil || d.buffer.vao == 0 {
		return errors.New("opengl: no vertex buffer")
	}

	gl.UseProgram(d.shader)
	proj := orthoMatrix(0, float32(d.width), float32(d.height), 0, -1, 1)
	gl.UniformMatrix4fv(d.projLoc, 1, false, &proj[0])
	gl.BindVertexArray(d.buffer.vao)

	if tex != nil {
		t, ok := tex.(*Texture)
		if !ok {
			return fmt.Errorf("opengl: foreign texture %T", tex)
		}
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.Uniform1i(d.texLoc, 0)
		gl.Uniform1i(d.useTexLoc, 1)
	} else {
		gl.Uniform1i(d.useTexLoc, 0)
	}

	gl.DrawArrays(mode, int32(start), int32(vertexCount(topology, prims)))
	gl.BindVertexArray(0)
	return nil
}

var drawModes = map[overlay.Topology]uint32{
	overlay.TopologyPointList:     gl.POINTS,
	overlay.TopologyLineList:      gl.LINES,
	overlay.TopologyLineStrip:     gl.LINE_STRIP,
	overlay.TopologyTriangleList:  gl.TRIANGLES,
	overlay.TopologyTriangleStrip: gl.TRIANGLE_STRIP,
	overlay.TopologyTriangleFan:   gl.TRIANGLE_FAN,
}

// vertexCount inverts Topology.PrimitiveCount for DrawArrays.
func vertexCount(t overlay.Topology, prims int) int {
	if t.IsList() {
		return prims * t.Order()
	}
	return prims + t.Order() - 1
}

// Delete releases the shader program.
func (d *Device) Delete() {
	if d.shader != 0 {
		gl.DeleteProgram(d.shader)
		d.shader = 0
	}
}

// Texture is an OpenGL texture name.
type Texture struct {
	id uint32
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 { return t.id }

// Release implements overlay.Texture.
func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

type vertexBuffer struct {
	vao, vbo uint32
	capacity int
}

func (b *vertexBuffer) Capacity() int { return b.capacity }

func (b *vertexBuffer) Upload(v []overlay.Vertex) error {
	if len(v) > b.capacity {
		return fmt.Errorf("opengl: %d vertices exceed capacity %d", len(v), b.capacity)
	}
	if len(v) == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(v)*int(vertexStride), gl.Ptr(v))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (b *vertexBuffer) Release() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
