package overlay

import (
	"errors"
	"image"
	"math"
	"testing"
)

// stubRasterizer opens faces whose metrics depend only on the scale.
type stubRasterizer struct {
	metrics func(scale float32) (w, h int)
	openErr error

	scales []float32
	open   int
}

func (r *stubRasterizer) Face(desc FontDescriptor, scale float32) (Face, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.scales = append(r.scales, scale)
	r.open++
	w, h := r.metrics(scale)
	return &stubFace{r: r, w: w, h: h}, nil
}

type stubFace struct {
	r    *stubRasterizer
	w, h int

	measureErr error
	paintErr   error
	draws      int
}

func (f *stubFace) Measure(ch byte) (int, int, error) {
	if f.measureErr != nil {
		return 0, 0, f.measureErr
	}
	return f.w, f.h, nil
}

func (f *stubFace) Draw(dst *image.Alpha, x, y int, ch byte) error {
	if f.paintErr != nil {
		return f.paintErr
	}
	f.draws++
	dst.Pix[dst.PixOffset(x, y)] = ch
	return nil
}

func (f *stubFace) Close() error {
	if f.r != nil {
		f.r.open--
	}
	return nil
}

// linearMetrics gives w x h glyphs at scale 1, shrinking with the scale.
func linearMetrics(w, h int) func(float32) (int, int) {
	return func(s float32) (int, int) {
		return int(math.Ceil(float64(float32(w) * s))), int(math.Ceil(float64(float32(h) * s)))
	}
}

func testAtlasConfig() atlasConfig {
	return atlasConfig{
		initialSize: DefaultInitialAtlasSize,
		maxSize:     DefaultMaxAtlasSize,
		minScale:    DefaultMinTextScale,
		maxRetries:  DefaultMaxScaleRetries,
	}
}

var testDesc = FontDescriptor{Family: "stub", Height: 16}

func TestPackGlyphsOverflow(t *testing.T) {
	// 8x16 glyphs with spacing 5 take 18 pixels each: 7 per row at 128
	// needs 14 rows, 14 per row at 256 needs 7.
	face := &stubFace{w: 8, h: 16}

	spacing, err := packGlyphs(face, 128, nil, nil)
	if !errors.Is(err, errPackingOverflow) {
		t.Fatalf("packGlyphs(128) error = %v, want overflow", err)
	}
	if spacing != 5 {
		t.Errorf("spacing = %d, want 5", spacing)
	}

	if _, err := packGlyphs(face, 256, nil, nil); err != nil {
		t.Fatalf("packGlyphs(256) error = %v", err)
	}
	if face.draws != 0 {
		t.Errorf("measure pass painted %d glyphs", face.draws)
	}
}

func TestPackGlyphsSpacing(t *testing.T) {
	tests := []struct {
		height int
		want   int
	}{
		{12, 4}, // 3.6
		{16, 5}, // 4.8
		{4, 2},  // 1.2
		{1, 1},  // 0.3
	}
	for _, tt := range tests {
		face := &stubFace{w: 1, h: tt.height}
		spacing, _ := packGlyphs(face, 4096, nil, nil)
		if spacing != tt.want {
			t.Errorf("height %d: spacing = %d, want %d", tt.height, spacing, tt.want)
		}
	}
}

func TestPackGlyphsRects(t *testing.T) {
	face := &stubFace{w: 8, h: 16}
	surface := image.NewAlpha(image.Rect(0, 0, 256, 256))
	var table glyphTable

	if _, err := packGlyphs(face, 256, surface, &table); err != nil {
		t.Fatalf("packGlyphs: %v", err)
	}
	if face.draws != glyphCount {
		t.Errorf("painted %d glyphs, want %d", face.draws, glyphCount)
	}

	tests := []struct {
		ch   byte
		want GlyphRect
	}{
		{' ', GlyphRect{0, 0, 18.0 / 256, 16.0 / 256}},
		{'!', GlyphRect{18.0 / 256, 0, 36.0 / 256, 16.0 / 256}},
		{' ' + 14, GlyphRect{0, 17.0 / 256, 18.0 / 256, 33.0 / 256}}, // first glyph of row two
	}
	for _, tt := range tests {
		got, ok := table.lookup(tt.ch)
		if !ok {
			t.Fatalf("lookup(%q) failed", tt.ch)
		}
		if got != tt.want {
			t.Errorf("rect(%q) = %+v, want %+v", tt.ch, got, tt.want)
		}
	}

	for i, g := range table {
		if !(g.U1 < g.U2 && g.V1 < g.V2) || g.U1 < 0 || g.V1 < 0 || g.U2 > 1 || g.V2 > 1 {
			t.Errorf("glyph %d has invalid rect %+v", i+firstGlyph, g)
		}
	}

	// The pen position is painted, spacing pixels inside the rect.
	if surface.AlphaAt(5, 0).A != ' ' || surface.AlphaAt(23, 0).A != '!' {
		t.Error("glyphs not painted at their pen positions")
	}
}

func TestPackGlyphsErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := packGlyphs(&stubFace{w: 8, h: 16, measureErr: boom}, 256, nil, nil)
	var rerr *RasterizerError
	if !errors.As(err, &rerr) || rerr.Op != "measure" || !errors.Is(err, boom) {
		t.Errorf("measure failure: got %v", err)
	}

	surface := image.NewAlpha(image.Rect(0, 0, 256, 256))
	var table glyphTable
	_, err = packGlyphs(&stubFace{w: 8, h: 16, paintErr: boom}, 256, surface, &table)
	if !errors.As(err, &rerr) || rerr.Op != "paint" || rerr.Char != ' ' {
		t.Errorf("paint failure: got %v", err)
	}
}

func TestAtlasBuilderGrows(t *testing.T) {
	rast := &stubRasterizer{metrics: linearMetrics(8, 16)}
	a, err := newAtlasBuilder(rast, testDesc, 4096, testAtlasConfig()).build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if a.size != 256 || a.scale != 1 || a.spacing != 5 {
		t.Errorf("atlas size=%d scale=%v spacing=%d, want 256, 1, 5", a.size, a.scale, a.spacing)
	}
	if b := a.surface.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("surface bounds = %v", b)
	}
	if len(rast.scales) != 1 {
		t.Errorf("opened %d faces, want 1", len(rast.scales))
	}
	if rast.open != 0 {
		t.Errorf("%d faces left open", rast.open)
	}
}

func TestAtlasBuilderDeterministic(t *testing.T) {
	build := func() *builtAtlas {
		rast := &stubRasterizer{metrics: linearMetrics(7, 12)}
		a, err := newAtlasBuilder(rast, testDesc, 4096, testAtlasConfig()).build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		return a
	}
	a, b := build(), build()
	if a.glyphs != b.glyphs || a.size != b.size {
		t.Error("identical metrics produced different atlases")
	}
}

func TestAtlasBuilderClampsToDevice(t *testing.T) {
	rast := &stubRasterizer{metrics: linearMetrics(8, 16)}
	a, err := newAtlasBuilder(rast, testDesc, 128, testAtlasConfig()).build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Fits at 256, so the clamp to 128 halves the scale.
	if a.size != 128 || a.scale != 0.5 {
		t.Errorf("atlas size=%d scale=%v, want 128, 0.5", a.size, a.scale)
	}
	if want := []float32{1, 0.5}; !equalScales(rast.scales, want) {
		t.Errorf("face scales = %v, want %v", rast.scales, want)
	}
}

func TestAtlasBuilderScalesDown(t *testing.T) {
	// Metrics ignore the first reduction, as hinting can.
	rast := &stubRasterizer{metrics: func(s float32) (int, int) {
		if s > 0.46 {
			return 8, 16
		}
		return 4, 8
	}}
	a, err := newAtlasBuilder(rast, testDesc, 128, testAtlasConfig()).build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := float32(0.5) * 0.9
	if a.size != 128 || a.scale != want {
		t.Errorf("atlas size=%d scale=%v, want 128, %v", a.size, a.scale, want)
	}
	if got := len(rast.scales); got != 3 {
		t.Errorf("opened %d faces, want 3", got)
	}
	if rast.open != 0 {
		t.Errorf("%d faces left open", rast.open)
	}
}

func TestAtlasBuilderScaleExhausted(t *testing.T) {
	rast := &stubRasterizer{metrics: func(float32) (int, int) { return 8, 16 }}
	cfg := testAtlasConfig()
	cfg.maxRetries = 3

	_, err := newAtlasBuilder(rast, testDesc, 128, cfg).build()
	if !errors.Is(err, ErrScaleExhausted) {
		t.Fatalf("build error = %v, want ErrScaleExhausted", err)
	}
	// Initial face, the clamped face, then one per allowed retry.
	if got := len(rast.scales); got != 5 {
		t.Errorf("opened %d faces, want 5", got)
	}
	if rast.open != 0 {
		t.Errorf("%d faces left open", rast.open)
	}
}

func TestAtlasBuilderMinScale(t *testing.T) {
	rast := &stubRasterizer{metrics: func(float32) (int, int) { return 8, 16 }}
	cfg := testAtlasConfig()
	cfg.minScale = 0.4

	_, err := newAtlasBuilder(rast, testDesc, 128, cfg).build()
	if !errors.Is(err, ErrScaleExhausted) {
		t.Fatalf("build error = %v, want ErrScaleExhausted", err)
	}
	for _, s := range rast.scales {
		if s < cfg.minScale {
			t.Errorf("opened face below minimum scale: %v", s)
		}
	}
}

func TestAtlasBuilderTooLarge(t *testing.T) {
	rast := &stubRasterizer{metrics: linearMetrics(8, 16)}
	cfg := testAtlasConfig()
	cfg.maxSize = 128

	_, err := newAtlasBuilder(rast, testDesc, 4096, cfg).build()
	if !errors.Is(err, ErrAtlasTooLarge) {
		t.Fatalf("build error = %v, want ErrAtlasTooLarge", err)
	}
}

func TestAtlasBuilderOpenError(t *testing.T) {
	boom := errors.New("no such font")
	rast := &stubRasterizer{openErr: boom}

	_, err := newAtlasBuilder(rast, testDesc, 4096, testAtlasConfig()).build()
	var rerr *RasterizerError
	if !errors.As(err, &rerr) || rerr.Op != "open" || !errors.Is(err, boom) {
		t.Fatalf("build error = %v, want open RasterizerError", err)
	}
}

func TestAtlasStateString(t *testing.T) {
	if stateScalingDown.String() != "scaling-down" || atlasState(99).String() != "unknown" {
		t.Error("unexpected state names")
	}
}

func equalScales(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
