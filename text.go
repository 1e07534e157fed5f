package overlay

import "strconv"

// TextFlags control text alignment and effects.
type TextFlags uint8

const (
	// TextLeft is the default: the origin is the top-left of the text.
	TextLeft    TextFlags = 0
	TextRight   TextFlags = 1 << 1
	TextCenterX TextFlags = 1 << 2
	TextCenterY TextFlags = 1 << 3
	// TextCentered centers on both axes.
	TextCentered = TextCenterX | TextCenterY

	// TextShadow draws a black outline behind every glyph.
	TextShadow TextFlags = 1 << 4

	// TextColorTags enables inline {#AARRGGBB} and {#RRGGBB} color tags.
	TextColorTags TextFlags = 1 << 5
)

const (
	glyphDepth = 0.9

	// Quads are shifted by half a pixel so texels map onto pixels.
	texelOffset = 0.5
)

// shadowPasses are applied cumulatively to a glyph quad; each step is
// drawn once in the shadow color. shadowRestore returns the quad to the
// pen position for the real glyph.
var (
	shadowPasses  = [...]Vec2{{X: 1}, {X: -2}, {X: 1, Y: 1}, {Y: -2}}
	shadowRestore = Vec2{Y: 1}
)

// layout appends one textured quad per visible glyph of text to rl.
func (f *Font) layout(rl *RenderList, pos Vec2, text string, color Color, flags TextFlags) {
	if flags&(TextRight|TextCentered) != 0 {
		size := f.MeasureText(text)
		if flags&TextRight != 0 {
			pos.X -= size.X
		} else if flags&TextCenterX != 0 {
			pos.X -= 0.5 * size.X
		}
		if flags&TextCenterY != 0 {
			pos.Y -= 0.5 * size.Y
		}
	}

	spacing := float32(f.spacing)
	pos.X -= spacing
	startX := pos.X
	rowHeight := f.RowHeight()
	texSize := float32(f.texSize)
	baseColor := color

	for i := 0; i < len(text); i++ {
		c := text[i]

		if c == '{' && flags&TextColorTags != 0 {
			if tagColor, n, ok := parseColorTag(text, i, baseColor); ok {
				color = tagColor
				i += n - 1
				continue
			}
		}

		if c == '\n' {
			pos.X = startX
			pos.Y += rowHeight
			continue
		}

		g, ok := f.glyphs.lookup(c)
		if !ok {
			continue
		}

		w := (g.U2 - g.U1) * texSize / f.textScale
		h := (g.V2 - g.V1) * texSize / f.textScale

		if c != ' ' {
			q := glyphQuad(pos, w, h, g, color)
			if flags&TextShadow != 0 {
				shadow := ARGB(color.Alpha(), 0, 0, 0)
				setQuadColor(&q, shadow)
				for _, d := range shadowPasses {
					offsetQuad(&q, d)
					rl.Append(q[:], TopologyTriangleList, f.texture)
				}
				offsetQuad(&q, shadowRestore)
				setQuadColor(&q, color)
			}
			rl.Append(q[:], TopologyTriangleList, f.texture)
		}

		pos.X += w - 2*spacing
	}
}

// glyphQuad builds the two triangles covering a w x h glyph at pos.
func glyphQuad(pos Vec2, w, h float32, g GlyphRect, c Color) [6]Vertex {
	x, y := pos.X-texelOffset, pos.Y-texelOffset
	return [6]Vertex{
		V4(Vec4{x, y + h, glyphDepth, 1}, c, Vec2{g.U1, g.V2}),
		V4(Vec4{x, y, glyphDepth, 1}, c, Vec2{g.U1, g.V1}),
		V4(Vec4{x + w, y + h, glyphDepth, 1}, c, Vec2{g.U2, g.V2}),

		V4(Vec4{x + w, y, glyphDepth, 1}, c, Vec2{g.U2, g.V1}),
		V4(Vec4{x + w, y + h, glyphDepth, 1}, c, Vec2{g.U2, g.V2}),
		V4(Vec4{x, y, glyphDepth, 1}, c, Vec2{g.U1, g.V1}),
	}
}

func offsetQuad(q *[6]Vertex, d Vec2) {
	for i := range q {
		q[i].Pos[0] += d.X
		q[i].Pos[1] += d.Y
	}
}

func setQuadColor(q *[6]Vertex, c Color) {
	for i := range q {
		q[i].Color = c
	}
}

// Color tag layout. The window is always colorTagWindow bytes long and
// must fit strictly inside the text; the closing brace decides the form.
const (
	colorTagWindow = 11
	longTagLen     = 11 // {#AARRGGBB}
	shortTagLen    = 9  // {#RRGGBB}
)

// parseColorTag parses a color tag starting at text[i]. It returns the new
// color and the tag length. Short tags keep the alpha of base.
//
// The window check requires at least one byte after an 11 byte window, so
// a tag ending exactly at the end of text is drawn literally.
func parseColorTag(text string, i int, base Color) (Color, int, bool) {
	if len(text) <= i+colorTagWindow {
		return 0, 0, false
	}
	window := text[i : i+colorTagWindow]
	if window[0] != '{' || window[1] != '#' {
		return 0, 0, false
	}

	var n int
	switch {
	case window[longTagLen-1] == '}':
		n = longTagLen
	case window[shortTagLen-1] == '}':
		n = shortTagLen
	default:
		return 0, 0, false
	}

	payload := alnum(window[:n])
	if n == shortTagLen {
		payload = "ff" + payload
	}
	v, err := strconv.ParseUint(payload, 16, 32)
	if err != nil {
		return 0, 0, false
	}

	c := Color(v)
	if n == shortTagLen {
		c = c.WithAlpha(base.Alpha())
	}
	return c, n, true
}

// alnum returns s with every byte that is not an ASCII letter or digit removed.
func alnum(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			b = append(b, c)
		}
	}
	return string(b)
}
