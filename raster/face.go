package raster

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// face adapts an x/image font.Face to overlay.Face. Every glyph cell has
// the same height: ascent plus descent.
type face struct {
	face   font.Face
	ascent fixed.Int26_6
	height int
}

func newFace(f *opentype.Font, size, dpi float64) (*face, error) {
	otFace, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: open face at %.2fpt: %w", size, err)
	}

	m := otFace.Metrics()
	return &face{
		face:   otFace,
		ascent: m.Ascent,
		height: (m.Ascent + m.Descent).Ceil(),
	}, nil
}

// Measure returns the rounded-up advance of ch and the cell height.
func (f *face) Measure(ch byte) (int, int, error) {
	adv, ok := f.face.GlyphAdvance(rune(ch))
	if !ok {
		// The font's missing-glyph box is drawn instead.
		adv, _ = f.face.GlyphAdvance(0)
	}
	return adv.Ceil(), f.height, nil
}

// Draw paints ch with the top of its cell at y.
func (f *face) Draw(dst *image.Alpha, x, y int, ch byte) error {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return fmt.Errorf("raster: pen (%d,%d) outside %v", x, y, dst.Bounds())
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: f.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + f.ascent},
	}
	d.DrawString(string(rune(ch)))
	return nil
}

func (f *face) Close() error {
	return f.face.Close()
}
