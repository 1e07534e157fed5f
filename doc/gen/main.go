// Command gen renders sample overlays, captures framebuffer pixels and
// saves JPEG screenshots to doc/imgs/. It also dumps the glyph atlas of
// every sample font as PNG.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/overlay"
	"github.com/go-theft-auto/overlay/backend/opengl"
	"github.com/go-theft-auto/overlay/raster"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fonts are created once and shared by all screenshots.
type fonts struct {
	body, mono, title overlay.FontHandle
}

// screenshot defines a single overlay screenshot to capture.
type screenshot struct {
	name   string // filename without extension
	width  int
	height int
	draw   func(r *overlay.Renderer, f fonts) error
}

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(800, 600, "screenshot-gen", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	dev, err := opengl.NewDevice(800, 600)
	if err != nil {
		return fmt.Errorf("opengl device: %w", err)
	}
	defer dev.Delete()

	rast, err := raster.New()
	if err != nil {
		return err
	}
	r, err := overlay.New(dev, rast)
	if err != nil {
		return err
	}
	defer r.Close()

	var f fonts
	for _, fd := range []struct {
		h      *overlay.FontHandle
		family string
		size   int
		style  overlay.FontStyle
	}{
		{&f.body, raster.FamilyGo, 14, overlay.FontDefault},
		{&f.mono, raster.FamilyGoMono, 12, overlay.FontDefault},
		{&f.title, raster.FamilyGo, 28, overlay.FontBold},
	} {
		if *fd.h, err = r.CreateFont(fd.family, fd.size, fd.style); err != nil {
			return err
		}
	}

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	shots := buildScreenshots()
	for _, s := range shots {
		if err := capture(dev, r, f, s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, s.width, s.height)
	}

	for name, h := range map[string]overlay.FontHandle{"body": f.body, "mono": f.mono, "title": f.title} {
		font, err := r.Font(h)
		if err != nil {
			return err
		}
		if err := savePNG(filepath.Join(outDir, "atlas_"+name+".png"), font.Atlas()); err != nil {
			return err
		}
		fmt.Printf("  atlas_%s.png (%dx%d, scale %.2f)\n", name, font.TextureSize(), font.TextureSize(), font.TextScale())
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

func capture(dev *opengl.Device, r *overlay.Renderer, f fonts, s screenshot, outDir string) error {
	// The hidden window stays at 800x600, larger than every screenshot.
	dev.Resize(s.width, s.height)

	gl.Viewport(0, 0, int32(s.width), int32(s.height))
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if err := s.draw(r, f); err != nil {
		return err
	}
	r.Begin()
	err := r.Flush()
	r.End()
	if err != nil {
		return err
	}

	pixels := make([]byte, s.width*s.height*4)
	gl.ReadPixels(0, 0, int32(s.width), int32(s.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// Flip vertically (OpenGL origin is bottom-left)
	rowLen := s.width * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < s.height/2; y++ {
		top := y * rowLen
		bot := (s.height - 1 - y) * rowLen
		copy(tmp, pixels[top:top+rowLen])
		copy(pixels[top:top+rowLen], pixels[bot:bot+rowLen])
		copy(pixels[bot:bot+rowLen], tmp)
	}

	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, pixels)

	path := filepath.Join(outDir, s.name+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return jpeg.Encode(out, img, &jpeg.Options{Quality: 90})
}

func savePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

// buildScreenshots returns the list of all screenshots to generate.
func buildScreenshots() []screenshot {
	return []screenshot{
		{
			name: "shapes", width: 400, height: 200,
			draw: func(r *overlay.Renderer, _ fonts) error {
				l := r.List()
				l.FilledRect(overlay.Vec4{X: 20, Y: 20, Z: 80, W: 60}, overlay.ColorRed)
				l.Rect(overlay.Vec4{X: 120, Y: 20, Z: 80, W: 60}, 3, overlay.ColorGreen)
				l.OutlinedRect(overlay.Vec4{X: 220, Y: 20, Z: 80, W: 60}, 2, overlay.ColorWhite, overlay.ColorBlue)
				l.Line(overlay.Vec2{X: 20, Y: 120}, overlay.Vec2{X: 380, Y: 180}, overlay.ColorYellow)
				l.Circle(overlay.Vec2{X: 340, Y: 50}, 30, overlay.ColorCyan)
				for i := 0; i < 10; i++ {
					l.Pixels(overlay.Vec2{X: 30 + float32(i)*12, Y: 160}, float32(i+1), overlay.ColorMagenta)
				}
				return nil
			},
		},
		{
			name: "text", width: 400, height: 200,
			draw: func(r *overlay.Renderer, f fonts) error {
				if err := r.DrawText(f.body, overlay.Vec2{X: 12, Y: 12}, "Plain text\nSecond row", overlay.ColorWhite, overlay.TextLeft); err != nil {
					return err
				}
				if err := r.DrawText(f.mono, overlay.Vec2{X: 388, Y: 12}, "right aligned", overlay.ColorGray, overlay.TextRight); err != nil {
					return err
				}
				return r.DrawText(f.body, overlay.Vec2{X: 12, Y: 80},
					"{#ffff4040}Health{#ffffff}: 100  {#ff40a0ff}Armor{#ffffff}: 50", overlay.ColorWhite, overlay.TextColorTags)
			},
		},
		{
			name: "shadow", width: 400, height: 120,
			draw: func(r *overlay.Renderer, f fonts) error {
				r.List().FilledRect(overlay.Vec4{Z: 400, W: 120}, 0xFF6080A0)
				return r.DrawText(f.title, overlay.Vec2{X: 200, Y: 60}, "WASTED", overlay.ColorRed,
					overlay.TextCentered|overlay.TextShadow)
			},
		},
	}
}
