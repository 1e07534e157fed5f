// Example draws a small HUD overlay on top of a cleared GLFW window.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// Flags select the font family and size; logs go to a rotating JSON file
// in -logdir and to stderr.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/go-theft-auto/overlay"
	"github.com/go-theft-auto/overlay/backend/opengl"
	"github.com/go-theft-auto/overlay/raster"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "overlay example"
)

var (
	fontFamily = flag.String("font", raster.FamilyGo, "font family, or a .ttf/.otf/.zst file")
	fontSize   = flag.Int("size", 14, "font height in points")
	logLevel   = flag.String("loglevel", "info", "log level: debug, info, warn, error")
	logDir     = flag.String("logdir", ".", "directory for overlay.slog")
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level, dir string) (*slog.Logger, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "overlay.slog"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}

	h := slog.NewJSONHandler(io.MultiWriter(w, os.Stderr), &slog.HandlerOptions{Level: lvl})
	return slog.New(h), w
}

func run() error {
	logger, logFile := newLogger(*logLevel, *logDir)
	defer logFile.Close()
	overlay.SetLogger(logger)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	dev, err := opengl.NewDevice(windowWidth, windowHeight)
	if err != nil {
		return fmt.Errorf("opengl device: %w", err)
	}
	defer dev.Delete()
	opengl.TrackFramebuffer(window, dev)

	rast, err := raster.New()
	if err != nil {
		return fmt.Errorf("rasterizer: %w", err)
	}
	family := *fontFamily
	if ext := filepath.Ext(family); ext != "" {
		if err := rast.RegisterFile("user", overlay.FontDefault, family); err != nil {
			return err
		}
		family = "user"
	}

	r, err := overlay.New(dev, rast)
	if err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	defer r.Close()

	body, err := r.CreateFont(family, *fontSize, overlay.FontDefault)
	if err != nil {
		return err
	}
	title, err := r.CreateFont(family, *fontSize*2, overlay.FontBold)
	if err != nil {
		return err
	}

	// The frame is static, so it is built once and redrawn every frame.
	static := r.NewRenderList()
	static.OutlinedRect(overlay.Vec4{X: 20, Y: 20, Z: 260, W: 120}, 2, overlay.ColorBlack, 0xC0202028)
	if err := r.DrawTextTo(static, title, overlay.Vec2{X: 150, Y: 45}, "OVERLAY", overlay.ColorYellow,
		overlay.TextCentered|overlay.TextShadow); err != nil {
		return err
	}

	start := time.Now()
	frames := 0
	fps := 0.0
	for !window.ShouldClose() {
		glfw.PollEvents()

		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		w, h := window.GetFramebufferSize()
		t := time.Since(start).Seconds()
		frames++
		if frames%60 == 0 {
			fps = float64(frames) / t
		}

		list := r.List()
		center := overlay.Vec2{X: float32(w) / 2, Y: float32(h) / 2}
		list.Line(center.Sub(overlay.Vec2{X: 10}), center.Add(overlay.Vec2{X: 10}), overlay.ColorGreen)
		list.Line(center.Sub(overlay.Vec2{Y: 10}), center.Add(overlay.Vec2{Y: 10}), overlay.ColorGreen)
		list.Circle(center, 40+10*float32(math.Sin(t*2)), overlay.ColorGreen)
		list.Pixels(overlay.Vec2{X: float32(w) - 20, Y: 20}, 6, overlay.ColorRed)

		text := fmt.Sprintf("{#ffa0ffa0}fps{#ffffff} %.0f\n{#ffa0ffa0}time{#ffffff} %.1fs\n", fps, t)
		if err := r.DrawText(body, overlay.Vec2{X: 32, Y: 80}, text, overlay.ColorWhite,
			overlay.TextShadow|overlay.TextColorTags); err != nil {
			return err
		}

		r.Begin()
		err := r.DrawList(static)
		if err == nil {
			err = r.Flush()
		}
		r.End()
		if err != nil {
			return fmt.Errorf("overlay draw: %w", err)
		}

		window.SwapBuffers()
	}

	return nil
}
