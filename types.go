package overlay

import "fmt"

// Vec2 represents a 2D vector for positions and sizes.
type Vec2 struct {
	X, Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Vec4 is a homogeneous position. Rectangles reuse it as
// {X, Y, Z: width, W: height}.
type Vec4 struct {
	X, Y, Z, W float32
}

// Color is a packed 32-bit ARGB color (alpha in the high byte).
type Color uint32

// Color constants.
const (
	ColorWhite       Color = 0xFFFFFFFF
	ColorBlack       Color = 0xFF000000
	ColorRed         Color = 0xFFFF0000
	ColorGreen       Color = 0xFF00FF00
	ColorBlue        Color = 0xFF0000FF
	ColorYellow      Color = 0xFFFFFF00
	ColorCyan        Color = 0xFF00FFFF
	ColorMagenta     Color = 0xFFFF00FF
	ColorGray        Color = 0xFF808080
	ColorTransparent Color = 0x00000000
)

// ARGB creates a packed color from individual components.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Alpha returns the alpha component.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00FFFFFF | Color(a)<<24
}

// Unpack extracts the ARGB components.
func (c Color) Unpack() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// Vertex is a pre-transformed screen-space vertex.
// Memory layout: Pos (4 x float32), Color (ARGB uint32), TexCoord (2 x float32).
type Vertex struct {
	Pos      [4]float32 // x, y, z, w
	Color    Color
	TexCoord [2]float32 // u, v
}

// V2 creates an untextured vertex at (x, y) with z = w = 1.
func V2(x, y float32, c Color) Vertex {
	return Vertex{Pos: [4]float32{x, y, 1, 1}, Color: c}
}

// V3 creates an untextured vertex at (x, y, z) with w = 1.
func V3(x, y, z float32, c Color) Vertex {
	return Vertex{Pos: [4]float32{x, y, z, 1}, Color: c}
}

// V4 creates a textured vertex.
func V4(pos Vec4, c Color, tex Vec2) Vertex {
	return Vertex{Pos: [4]float32{pos.X, pos.Y, pos.Z, pos.W}, Color: c, TexCoord: [2]float32{tex.X, tex.Y}}
}
