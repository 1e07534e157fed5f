package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// TrackFramebuffer keeps the device projection and the GL viewport in step
// with the window's framebuffer size.
func TrackFramebuffer(window *glfw.Window, d *Device) {
	w, h := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(w), int32(h))
	d.Resize(w, h)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		d.Resize(width, height)
	})
}
