package overlay

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// packGlyphs lays the printable ASCII range out in rows inside a
// size x size atlas. Each glyph is padded by spacing pixels on both
// sides; rows are separated by one pixel. It returns errPackingOverflow
// when the rows run past the bottom edge.
//
// With a nil surface this is a pure layout pass. Otherwise every glyph is
// painted into surface and its rectangle recorded in table.
func packGlyphs(face Face, size int, surface *image.Alpha, table *glyphTable) (spacing int, err error) {
	_, probeHeight, err := face.Measure(probeGlyph)
	if err != nil {
		return 0, &RasterizerError{Op: "measure", Char: probeGlyph, Err: err}
	}
	spacing = int(math.Ceil(float64(float32(probeHeight) * 0.3)))

	x, y := spacing, 0
	for c := byte(firstGlyph); c <= lastGlyph; c++ {
		w, h, err := face.Measure(c)
		if err != nil {
			return spacing, &RasterizerError{Op: "measure", Char: c, Err: err}
		}

		if x+w+spacing > size {
			x = spacing
			y += h + 1
		}
		if y+h > size {
			return spacing, errPackingOverflow
		}

		if surface != nil {
			if err := face.Draw(surface, x, y, c); err != nil {
				return spacing, &RasterizerError{Op: "paint", Char: c, Err: err}
			}
			table.setPixelRect(c, x, y, w, h, spacing, size)
		}

		x += w + 2*spacing
	}
	return spacing, nil
}

// atlasConfig bounds the atlas retry loop.
type atlasConfig struct {
	initialSize int
	maxSize     int // upper bound for the doubling phase
	minScale    float32
	maxRetries  int
}

// atlasState is a step of the atlas construction state machine.
//
//	Measuring --fits--> Succeeded
//	Measuring --fits, size > device max--> Measuring (clamped, rescaled face)
//	Measuring --overflow--> Overflowed
//	Overflowed --not clamped--> Measuring (size doubled)
//	Overflowed --clamped--> ScalingDown
//	ScalingDown --> Measuring (scale *= 0.9, face reopened)
//	any --fatal error or limit--> Failed
type atlasState int

const (
	stateMeasuring atlasState = iota
	stateOverflowed
	stateScalingDown
	stateSucceeded
	stateFailed
)

func (s atlasState) String() string {
	switch s {
	case stateMeasuring:
		return "measuring"
	case stateOverflowed:
		return "overflowed"
	case stateScalingDown:
		return "scaling-down"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// builtAtlas is the result of a successful build.
type builtAtlas struct {
	surface *image.Alpha
	glyphs  glyphTable
	size    int
	spacing int
	scale   float32
}

type atlasBuilder struct {
	rast   Rasterizer
	desc   FontDescriptor
	cfg    atlasConfig
	maxTex int

	state   atlasState
	face    Face
	size    int
	scale   float32
	clamped bool
	retries int
	err     error
}

func newAtlasBuilder(rast Rasterizer, desc FontDescriptor, maxTex int, cfg atlasConfig) *atlasBuilder {
	return &atlasBuilder{
		rast:   rast,
		desc:   desc,
		cfg:    cfg,
		maxTex: maxTex,
		size:   cfg.initialSize,
		scale:  1,
	}
}

// build discovers the atlas size and text scale, then paints the glyphs.
func (b *atlasBuilder) build() (*builtAtlas, error) {
	defer b.closeFace()

	b.state = b.openFace()
	for b.state != stateSucceeded && b.state != stateFailed {
		b.state = b.step()
	}
	if b.state == stateFailed {
		return nil, b.err
	}
	return b.paint()
}

func (b *atlasBuilder) step() atlasState {
	switch b.state {
	case stateMeasuring:
		_, err := packGlyphs(b.face, b.size, nil, nil)
		if errors.Is(err, errPackingOverflow) {
			return stateOverflowed
		}
		if err != nil {
			return b.fail(err)
		}
		if !b.clamped && b.size > b.maxTex {
			b.scale = float32(b.maxTex) / float32(b.size)
			Logger().Debug("atlas exceeds device limit, clamping",
				"family", b.desc.Family, "size", b.size, "max", b.maxTex, "scale", b.scale)
			b.size = b.maxTex
			b.clamped = true
			return b.openFace()
		}
		return stateSucceeded

	case stateOverflowed:
		if b.clamped {
			return stateScalingDown
		}
		if b.size*2 > b.cfg.maxSize {
			return b.fail(fmt.Errorf("%w: %d > %d", ErrAtlasTooLarge, b.size*2, b.cfg.maxSize))
		}
		b.size *= 2
		Logger().Debug("atlas overflow, growing", "family", b.desc.Family, "size", b.size)
		return stateMeasuring

	case stateScalingDown:
		b.retries++
		b.scale *= 0.9
		if b.retries > b.cfg.maxRetries || b.scale < b.cfg.minScale {
			return b.fail(fmt.Errorf("%w: scale %.3f after %d retries", ErrScaleExhausted, b.scale, b.retries))
		}
		Logger().Debug("atlas overflow at device limit, scaling down",
			"family", b.desc.Family, "scale", b.scale, "retry", b.retries)
		return b.openFace()
	}
	return b.fail(fmt.Errorf("overlay: unexpected atlas state %v", b.state))
}

func (b *atlasBuilder) fail(err error) atlasState {
	b.err = err
	return stateFailed
}

// openFace replaces the current face with one at the current scale.
func (b *atlasBuilder) openFace() atlasState {
	b.closeFace()
	face, err := b.rast.Face(b.desc, b.scale)
	if err != nil {
		return b.fail(&RasterizerError{Op: "open", Err: err})
	}
	b.face = face
	return stateMeasuring
}

func (b *atlasBuilder) closeFace() {
	if b.face == nil {
		return
	}
	if err := b.face.Close(); err != nil {
		Logger().Warn("closing rasterizer face", "family", b.desc.Family, "err", err)
	}
	b.face = nil
}

func (b *atlasBuilder) paint() (*builtAtlas, error) {
	a := &builtAtlas{
		surface: image.NewAlpha(image.Rect(0, 0, b.size, b.size)),
		size:    b.size,
		scale:   b.scale,
	}
	spacing, err := packGlyphs(b.face, b.size, a.surface, &a.glyphs)
	if errors.Is(err, errPackingOverflow) {
		// The measure pass fitted with this face; a rasterizer whose
		// metrics change between passes is broken.
		return nil, &RasterizerError{Op: "paint", Err: fmt.Errorf("glyph metrics changed between passes")}
	}
	if err != nil {
		return nil, err
	}
	a.spacing = spacing
	return a, nil
}
