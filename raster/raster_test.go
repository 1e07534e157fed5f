package raster_test

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/overlay"
	"github.com/go-theft-auto/overlay/backend/memory"
	"github.com/go-theft-auto/overlay/raster"
)

func newRasterizer(t *testing.T, opts ...raster.Option) *raster.Rasterizer {
	t.Helper()
	r, err := raster.New(opts...)
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	return r
}

func TestFamilies(t *testing.T) {
	r := newRasterizer(t)
	want := []string{"go", "go medium", "go mono", "go smallcaps"}
	if got := r.Families(); !slices.Equal(got, want) {
		t.Errorf("Families() = %v, want %v", got, want)
	}

	if got := newRasterizer(t, raster.WithoutGoFonts()).Families(); len(got) != 0 {
		t.Errorf("Families() without Go fonts = %v", got)
	}
}

func TestFaceMeasureAndDraw(t *testing.T) {
	r := newRasterizer(t)
	f, err := r.Face(overlay.FontDescriptor{Family: raster.FamilyGoMono, Height: 16}, 1)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	defer f.Close()

	wM, hM, err := f.Measure('M')
	if err != nil {
		t.Fatal(err)
	}
	wI, hI, _ := f.Measure('i')
	if wM <= 0 || hM <= 0 {
		t.Fatalf("Measure('M') = %d x %d", wM, hM)
	}
	if wM != wI || hM != hI {
		t.Errorf("monospace glyphs differ: M %dx%d, i %dx%d", wM, hM, wI, hI)
	}

	dst := image.NewAlpha(image.Rect(0, 0, 64, 64))
	if err := f.Draw(dst, 4, 4, 'M'); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	covered := 0
	for _, a := range dst.Pix {
		if a > 0 {
			covered++
		}
	}
	if covered == 0 {
		t.Error("Draw painted no coverage")
	}

	// Nothing is painted above the top of the cell.
	for x := 0; x < 64; x++ {
		for y := 0; y < 4; y++ {
			if dst.AlphaAt(x, y).A > 0 {
				t.Fatalf("coverage at (%d,%d) above the cell", x, y)
			}
		}
	}

	if err := f.Draw(dst, 64, 0, 'M'); err == nil {
		t.Error("Draw outside the surface succeeded")
	}
}

func TestFaceScale(t *testing.T) {
	r := newRasterizer(t)
	desc := overlay.FontDescriptor{Family: raster.FamilyGo, Height: 32}

	full, err := r.Face(desc, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer full.Close()
	half, err := r.Face(desc, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	defer half.Close()

	_, hFull, _ := full.Measure('x')
	_, hHalf, _ := half.Measure('x')
	if hHalf >= hFull {
		t.Errorf("half-scale height %d not below full height %d", hHalf, hFull)
	}
}

func TestFaceErrors(t *testing.T) {
	r := newRasterizer(t)

	_, err := r.Face(overlay.FontDescriptor{Family: "Comic Sans", Height: 12}, 1)
	if !errors.Is(err, raster.ErrUnknownFamily) {
		t.Errorf("unknown family error = %v", err)
	}
	if _, err := r.Face(overlay.FontDescriptor{Family: raster.FamilyGo}, 1); err == nil {
		t.Error("zero height accepted")
	}
}

func TestFaceStyleFallback(t *testing.T) {
	r := newRasterizer(t)

	// Go Medium has no bold variant; the regular face is used.
	f, err := r.Face(overlay.FontDescriptor{Family: "go medium", Height: 12, Style: overlay.FontBold}, 1)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	f.Close()
}

func TestRegister(t *testing.T) {
	r := newRasterizer(t, raster.WithoutGoFonts())

	if err := r.Register("Broken", overlay.FontDefault, []byte("not a font")); err == nil {
		t.Error("invalid font data accepted")
	}
	if err := r.Register("Mono", overlay.FontDefault, gomono.TTF); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Face(overlay.FontDescriptor{Family: "MONO", Height: 10}, 1); err != nil {
		t.Errorf("family lookup is case sensitive: %v", err)
	}
}

func TestRegisterFile(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "regular.ttf")
	if err := os.WriteFile(plain, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "regular.ttf.zst")
	if err := os.WriteFile(compressed, enc.EncodeAll(goregular.TTF, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	enc.Close()

	corrupt := filepath.Join(dir, "corrupt.zst")
	if err := os.WriteFile(corrupt, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newRasterizer(t, raster.WithoutGoFonts())
	if err := r.RegisterFile("Plain", overlay.FontDefault, plain); err != nil {
		t.Errorf("plain file: %v", err)
	}
	if err := r.RegisterFile("Packed", overlay.FontDefault, compressed); err != nil {
		t.Errorf("zstd file: %v", err)
	}
	if err := r.RegisterFile("Corrupt", overlay.FontDefault, corrupt); err == nil {
		t.Error("corrupt zstd file accepted")
	}
	if err := r.RegisterFile("Missing", overlay.FontDefault, filepath.Join(dir, "nope.ttf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	if got, want := r.Families(), []string{"packed", "plain"}; !slices.Equal(got, want) {
		t.Errorf("Families() = %v, want %v", got, want)
	}
}

func TestRendererWithGoFonts(t *testing.T) {
	rast := newRasterizer(t)
	dev := memory.NewDevice()
	r, err := overlay.New(dev, rast)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	h, err := r.CreateFont(raster.FamilyGo, 14, overlay.FontDefault)
	if err != nil {
		t.Fatalf("CreateFont: %v", err)
	}
	f, _ := r.Font(h)
	if f.TextScale() != 1 {
		t.Errorf("text scale = %v, want 1", f.TextScale())
	}

	size, err := r.MeasureText(h, "Wasted")
	if err != nil {
		t.Fatal(err)
	}
	if size.X <= 0 || size.Y != f.RowHeight() {
		t.Errorf("MeasureText = %v", size)
	}

	if err := r.DrawText(h, overlay.Vec2{X: 10, Y: 10}, "Wasted", overlay.ColorWhite, overlay.TextShadow); err != nil {
		t.Fatal(err)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	if calls := dev.Calls(); len(calls) != 1 || calls[0].PrimitiveCount != 6*2*5 {
		t.Errorf("calls = %+v, want one batch of 60 triangles", calls)
	}
}

func TestRendererShrinksLargeFont(t *testing.T) {
	rast := newRasterizer(t)
	dev := memory.NewDevice(memory.WithMaxTextureSize(128))
	r, err := overlay.New(dev, rast)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	h, err := r.CreateFont(raster.FamilyGoMono, 24, overlay.FontBold)
	if err != nil {
		t.Fatalf("CreateFont: %v", err)
	}
	f, _ := r.Font(h)
	if f.TextureSize() != 128 || f.TextScale() >= 1 {
		t.Errorf("atlas=%d scale=%v, want 128 and scale below 1", f.TextureSize(), f.TextScale())
	}
	for c := byte(' '); c <= '~'; c++ {
		g, ok := f.Glyph(c)
		if !ok || g.U2 > 1 || g.V2 > 1 {
			t.Fatalf("glyph %q rect %+v outside atlas", c, g)
		}
	}
}
