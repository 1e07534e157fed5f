package memory

import (
	"fmt"
	"image"
	"math"

	"github.com/go-theft-auto/overlay"
)

// FixedRasterizer produces predictable glyph metrics without any font
// files. A glyph is a solid box: its cell height is the requested height
// times the scale, rounded up, and its width is that height times the
// glyph's advance ratio, rounded up.
//
// The zero value draws square glyphs.
type FixedRasterizer struct {
	// Ratio is the default width/height ratio. Zero means 1.
	Ratio float32
	// Ratios overrides Ratio per character.
	Ratios map[byte]float32

	// OpenErr, when set, is returned by Face.
	OpenErr error
	// MeasureErr, when set, is returned when measuring FailChar.
	MeasureErr error
	// PaintErr, when set, is returned when drawing FailChar.
	PaintErr error
	FailChar byte

	// Scales records the scale of every opened face, in order.
	Scales []float32
	// Open counts faces not yet closed.
	Open int
}

var _ overlay.Rasterizer = (*FixedRasterizer)(nil)

// Face implements overlay.Rasterizer.
func (r *FixedRasterizer) Face(desc overlay.FontDescriptor, scale float32) (overlay.Face, error) {
	if r.OpenErr != nil {
		return nil, r.OpenErr
	}
	if desc.Height <= 0 {
		return nil, fmt.Errorf("memory: invalid font height %d", desc.Height)
	}
	r.Scales = append(r.Scales, scale)
	r.Open++
	return &fixedFace{r: r, px: float32(desc.Height) * scale}, nil
}

type fixedFace struct {
	r  *FixedRasterizer
	px float32
}

func (f *fixedFace) metrics(ch byte) (int, int) {
	ratio := f.r.Ratio
	if v, ok := f.r.Ratios[ch]; ok {
		ratio = v
	}
	if ratio == 0 {
		ratio = 1
	}
	w := int(math.Ceil(float64(f.px * ratio)))
	h := int(math.Ceil(float64(f.px)))
	return w, h
}

func (f *fixedFace) Measure(ch byte) (int, int, error) {
	if f.r.MeasureErr != nil && ch == f.r.FailChar {
		return 0, 0, f.r.MeasureErr
	}
	w, h := f.metrics(ch)
	return w, h, nil
}

func (f *fixedFace) Draw(dst *image.Alpha, x, y int, ch byte) error {
	if f.r.PaintErr != nil && ch == f.r.FailChar {
		return f.r.PaintErr
	}
	if ch == ' ' {
		return nil
	}
	w, h := f.metrics(ch)
	r := image.Rect(x, y, x+w, y+h).Intersect(dst.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			dst.Pix[dst.PixOffset(px, py)] = 0xff
		}
	}
	return nil
}

func (f *fixedFace) Close() error {
	f.r.Open--
	return nil
}
