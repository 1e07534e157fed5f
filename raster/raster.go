// Package raster implements the overlay glyph rasterizer with
// golang.org/x/image. It ships the Go font families and can load further
// TrueType/OpenType fonts, optionally zstd compressed.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/opentype"

	"github.com/go-theft-auto/overlay"
)

// ErrUnknownFamily is returned when no font was registered under a family name.
var ErrUnknownFamily = errors.New("raster: unknown font family")

// DefaultDPI matches the logical resolution of a standard desktop display.
const DefaultDPI = 96

// Go font family names registered by New.
const (
	FamilyGo          = "Go"
	FamilyGoMono      = "Go Mono"
	FamilyGoMedium    = "Go Medium"
	FamilyGoSmallcaps = "Go Smallcaps"
)

type fontKey struct {
	family string // lower case
	style  overlay.FontStyle
}

// Rasterizer opens x/image faces for registered fonts. It implements
// overlay.Rasterizer.
type Rasterizer struct {
	dpi     float64
	goFonts bool
	fonts   map[fontKey]*opentype.Font
}

var _ overlay.Rasterizer = (*Rasterizer)(nil)

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithDPI sets the resolution used to convert point sizes into pixels.
func WithDPI(dpi float64) Option {
	return func(r *Rasterizer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithoutGoFonts skips registering the bundled Go fonts.
func WithoutGoFonts() Option {
	return func(r *Rasterizer) { r.goFonts = false }
}

// New creates a Rasterizer with the Go font families registered.
func New(opts ...Option) (*Rasterizer, error) {
	r := &Rasterizer{
		dpi:     DefaultDPI,
		goFonts: true,
		fonts:   make(map[fontKey]*opentype.Font),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.goFonts {
		if err := r.registerGoFonts(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Rasterizer) registerGoFonts() error {
	bi := overlay.FontBold | overlay.FontItalic
	for _, f := range []struct {
		family string
		style  overlay.FontStyle
		ttf    []byte
	}{
		{FamilyGo, overlay.FontDefault, goregular.TTF},
		{FamilyGo, overlay.FontBold, gobold.TTF},
		{FamilyGo, overlay.FontItalic, goitalic.TTF},
		{FamilyGo, bi, gobolditalic.TTF},
		{FamilyGoMono, overlay.FontDefault, gomono.TTF},
		{FamilyGoMono, overlay.FontBold, gomonobold.TTF},
		{FamilyGoMono, overlay.FontItalic, gomonoitalic.TTF},
		{FamilyGoMono, bi, gomonobolditalic.TTF},
		{FamilyGoMedium, overlay.FontDefault, gomedium.TTF},
		{FamilyGoMedium, overlay.FontItalic, gomediumitalic.TTF},
		{FamilyGoSmallcaps, overlay.FontDefault, gosmallcaps.TTF},
		{FamilyGoSmallcaps, overlay.FontItalic, gosmallcapsitalic.TTF},
	} {
		if err := r.Register(f.family, f.style, f.ttf); err != nil {
			return err
		}
	}
	return nil
}

// Register parses a TrueType or OpenType font and makes it available
// under family and style. A later registration replaces an earlier one.
func (r *Rasterizer) Register(family string, style overlay.FontStyle, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("raster: parse %s font: %w", family, err)
	}
	r.fonts[fontKey{strings.ToLower(family), style}] = f
	overlay.Logger().Debug("font registered", "family", family, "style", int(style), "bytes", len(data))
	return nil
}

// RegisterFile registers the font stored at path. Files ending in .zst
// are zstd compressed.
func (r *Rasterizer) RegisterFile(family string, style overlay.FontStyle, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if filepath.Ext(path) == ".zst" {
		if b, err = decompress(b); err != nil {
			return fmt.Errorf("raster: decompress %s: %w", path, err)
		}
	}
	return r.Register(family, style, b)
}

func decompress(b []byte) ([]byte, error) {
	zr, err := zstd.NewReader(bytes.NewReader(b), zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

// Families returns the registered family names, sorted. Names are
// reported in lower case.
func (r *Rasterizer) Families() []string {
	var names []string
	for k := range r.fonts {
		if !slices.Contains(names, k.family) {
			names = append(names, k.family)
		}
	}
	slices.Sort(names)
	return names
}

// lookup finds the font for desc. Missing style variants fall back to the
// family's regular face.
func (r *Rasterizer) lookup(desc overlay.FontDescriptor) (*opentype.Font, error) {
	family := strings.ToLower(desc.Family)
	if f, ok := r.fonts[fontKey{family, desc.Style}]; ok {
		return f, nil
	}
	if f, ok := r.fonts[fontKey{family, overlay.FontDefault}]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, desc.Family)
}

// Face opens desc at desc.Height*scale points.
func (r *Rasterizer) Face(desc overlay.FontDescriptor, scale float32) (overlay.Face, error) {
	if desc.Height <= 0 {
		return nil, fmt.Errorf("raster: invalid font height %d", desc.Height)
	}
	f, err := r.lookup(desc)
	if err != nil {
		return nil, err
	}
	return newFace(f, float64(desc.Height)*float64(scale), r.dpi)
}
