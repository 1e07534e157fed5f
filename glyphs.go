package overlay

// Printable ASCII range held by every font atlas.
const (
	firstGlyph = 32
	lastGlyph  = 126
	glyphCount = lastGlyph - firstGlyph + 1

	// probeGlyph is measured to derive the packing spacing.
	probeGlyph = 'x'
)

// GlyphRect is a glyph's normalized texture rectangle. The rectangle
// includes spacing pixels on the left and right of the painted glyph.
type GlyphRect struct {
	U1, V1, U2, V2 float32
}

// Width returns the rectangle width in pixels for an atlas of side texSize.
func (g GlyphRect) Width(texSize int) float32 {
	return (g.U2 - g.U1) * float32(texSize)
}

// Height returns the rectangle height in pixels for an atlas of side texSize.
func (g GlyphRect) Height(texSize int) float32 {
	return (g.V2 - g.V1) * float32(texSize)
}

// glyphTable maps code-firstGlyph to its rectangle.
type glyphTable [glyphCount]GlyphRect

func isGlyph(c byte) bool {
	return c >= firstGlyph && c <= lastGlyph
}

// lookup returns the rectangle for c, or false if c is outside the table.
func (t *glyphTable) lookup(c byte) (GlyphRect, bool) {
	if !isGlyph(c) {
		return GlyphRect{}, false
	}
	return t[c-firstGlyph], true
}

// rowHeight is the line advance, taken from the space glyph.
func (t *glyphTable) rowHeight(texSize int) float32 {
	return t[0].Height(texSize)
}

// setPixelRect records a glyph painted with its pen at (x, y).
func (t *glyphTable) setPixelRect(c byte, x, y, w, h, spacing, texSize int) {
	s := float32(texSize)
	t[c-firstGlyph] = GlyphRect{
		U1: float32(x-spacing) / s,
		V1: float32(y) / s,
		U2: float32(x+w+spacing) / s,
		V2: float32(y+h) / s,
	}
}
