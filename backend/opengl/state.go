package opengl

import "github.com/go-gl/gl/v4.1-core/gl"

// savedState is the GL state touched by overlay drawing.
type savedState struct {
	program        int32
	texture        int32
	vao            int32
	blendSrc       int32
	blendDst       int32
	blendEnabled   bool
	depthEnabled   bool
	cullEnabled    bool
	scissorEnabled bool
}

// BeginState saves the current GL state and sets up alpha blended 2D
// drawing without depth test, culling or scissoring.
func (d *Device) BeginState() {
	s := &d.saved
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vao)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDst)
	s.blendEnabled = gl.IsEnabled(gl.BLEND)
	s.depthEnabled = gl.IsEnabled(gl.DEPTH_TEST)
	s.cullEnabled = gl.IsEnabled(gl.CULL_FACE)
	s.scissorEnabled = gl.IsEnabled(gl.SCISSOR_TEST)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.SCISSOR_TEST)
}

// EndState restores the state saved by BeginState.
func (d *Device) EndState() {
	s := &d.saved
	gl.UseProgram(uint32(s.program))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.BindVertexArray(uint32(s.vao))
	gl.BlendFunc(uint32(s.blendSrc), uint32(s.blendDst))

	setEnabled(gl.BLEND, s.blendEnabled)
	setEnabled(gl.DEPTH_TEST, s.depthEnabled)
	setEnabled(gl.CULL_FACE, s.cullEnabled)
	setEnabled(gl.SCISSOR_TEST, s.scissorEnabled)
}

func setEnabled(cap uint32, on bool) {
	if on {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}
