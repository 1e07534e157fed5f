package overlay

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FontHandle identifies a font registered with a Renderer. Handles are
// small integers and only valid for the Renderer that issued them.
type FontHandle int

// Font is a rasterized ASCII font: one atlas texture plus the glyph
// rectangles inside it. Fonts live as long as their Renderer.
type Font struct {
	renderer *Renderer // owner; the registry holds the Font, not the reverse

	desc      FontDescriptor
	texture   Texture
	atlas     *image.Alpha
	texSize   int
	textScale float32
	spacing   int
	glyphs    glyphTable

	extents *lru.Cache[string, Vec2] // nil when disabled
}

// newFont builds the atlas for desc and uploads it. Nothing is kept when
// any step fails.
func newFont(r *Renderer, desc FontDescriptor) (*Font, error) {
	b := newAtlasBuilder(r.rast, desc, r.dev.MaxTextureSize(), r.cfg.atlas)
	a, err := b.build()
	if err != nil {
		return nil, err
	}

	tex, err := r.dev.CreateTexture(a.surface)
	if err != nil {
		return nil, &ResourceCreationError{Resource: "texture", Err: err}
	}

	f := &Font{
		renderer:  r,
		desc:      desc,
		texture:   tex,
		atlas:     a.surface,
		texSize:   a.size,
		textScale: a.scale,
		spacing:   a.spacing,
		glyphs:    a.glyphs,
	}
	if r.cfg.extentCacheSize > 0 {
		if f.extents, err = newExtentCache(r.cfg.extentCacheSize); err != nil {
			tex.Release()
			return nil, err
		}
	}
	return f, nil
}

func newExtentCache(size int) (*lru.Cache[string, Vec2], error) {
	return lru.New[string, Vec2](size)
}

// Renderer returns the Renderer that owns f.
func (f *Font) Renderer() *Renderer { return f.renderer }

// Descriptor returns the font's requested family, height and style.
func (f *Font) Descriptor() FontDescriptor { return f.desc }

// Texture returns the device texture holding the atlas.
func (f *Font) Texture() Texture { return f.texture }

// Atlas returns the painted coverage image. It must not be modified.
func (f *Font) Atlas() *image.Alpha { return f.atlas }

// TextureSize returns the atlas side in pixels.
func (f *Font) TextureSize() int { return f.texSize }

// TextScale returns the factor the font was shrunk by to fit the device.
// It is 1 unless the natural atlas exceeded the maximum texture size.
func (f *Font) TextScale() float32 { return f.textScale }

// Spacing returns the glyph padding in atlas pixels.
func (f *Font) Spacing() int { return f.spacing }

// Glyph returns the texture rectangle for ch.
func (f *Font) Glyph(ch byte) (GlyphRect, bool) {
	return f.glyphs.lookup(ch)
}

// RowHeight returns the line advance in pixels.
func (f *Font) RowHeight() float32 {
	return f.glyphs.rowHeight(f.texSize)
}

// MeasureText returns the extent of text. Every string, including the
// empty one, is at least one row high.
func (f *Font) MeasureText(text string) Vec2 {
	if f.extents != nil {
		if size, ok := f.extents.Get(text); ok {
			return size
		}
	}
	size := f.measure(text)
	if f.extents != nil {
		f.extents.Add(text, size)
	}
	return size
}

func (f *Font) measure(text string) Vec2 {
	rowHeight := f.RowHeight()
	pad := 2 * float32(f.spacing)

	var rowWidth float32
	size := Vec2{Y: rowHeight}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			rowWidth = 0
			size.Y += rowHeight
			continue
		}
		g, ok := f.glyphs.lookup(c)
		if !ok {
			continue
		}
		rowWidth += g.Width(f.texSize) - pad
		size.X = max(size.X, rowWidth)
	}
	return size
}

func (f *Font) release() {
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
	if f.extents != nil {
		f.extents.Purge()
	}
}
