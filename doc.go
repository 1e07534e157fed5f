/*
Package overlay provides an immediate-mode 2D overlay renderer for shapes,
lines and ASCII text, designed to sit on top of an existing 3D scene.

# Overview

Drawing calls never touch the graphics device. They append vertices to a
RenderList, which merges consecutive runs that share a primitive topology
and texture into batches. Flush uploads the whole list into one vertex
buffer and issues a single draw call per batch, in insertion order.

The package talks to the GPU through the small Device interface. The
backend/opengl package implements it over OpenGL; backend/memory is a
headless implementation that records draw calls.

# Quick Start

	dev, _ := opengl.NewDevice(1280, 720)
	rast, _ := raster.New()
	r, _ := overlay.New(dev, rast)

	font, _ := r.CreateFont("Go", 14, overlay.FontBold)

	// Game loop
	for !window.ShouldClose() {
	    // ... render the scene ...

	    r.List().OutlinedRect(overlay.Vec4{X: 10, Y: 10, Z: 200, W: 40}, 1, overlay.ColorBlack, 0x80202020)
	    r.DrawText(font, overlay.Vec2{X: 110, Y: 30}, "{#ffff4040}HP{#ffffff} 100", overlay.ColorWhite,
	        overlay.TextCentered|overlay.TextShadow|overlay.TextColorTags)

	    r.Begin()
	    if err := r.Flush(); err != nil {
	        log.Fatal(err)
	    }
	    r.End()
	    window.SwapBuffers()
	}

# Fonts

CreateFont rasterizes the 95 printable ASCII characters into one square
alpha texture. The atlas starts at 128x128 and doubles until every glyph
fits. When the fitting size is larger than the device's maximum texture
size, the atlas is clamped to that maximum and the font is re-rasterized
smaller; the resulting factor is reported by Font.TextScale. Text drawn
with a scaled font is stretched back to its requested size, so it stays
the same size on screen at a lower resolution.

Fonts are identified by FontHandle values and live as long as their
Renderer.

# Text Flags

	TextLeft       origin is the top-left corner (default)
	TextRight      origin is the right edge of the widest row
	TextCenterX    origin is the horizontal center of the text
	TextCenterY    origin is the vertical center of the text
	TextCentered   TextCenterX | TextCenterY
	TextShadow     draw a one pixel black outline behind each glyph
	TextColorTags  honor inline color tags

Alignment is computed once from the bounding box of the whole string, so
rows of multi-line centered text share one left edge.

# Color Tags

With TextColorTags, the sequences {#AARRGGBB} and {#RRGGBB} change the
color of the text that follows. The short form keeps the alpha of the
color passed to DrawText. Anything that does not parse as a tag is drawn
as written. A tag is only recognized when at least one more byte follows
its 11 byte window, so a tag at the very end of a string is drawn
literally.

# Logging

The package logs through log/slog. Logging is disabled until SetLogger is
called; raster and the backends share the same logger.
*/
package overlay
