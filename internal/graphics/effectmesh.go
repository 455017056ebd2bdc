package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"driftscape/internal/effects"
)

// EffectMesh renders one registry's population as instanced ground quads
// (shadow blobs, light glows). The registry's SoA buffers map one-to-one
// onto instance attributes, so an upload is three BufferSubData calls.
type EffectMesh struct {
	shader *Shader

	vao     uint32
	quadVBO uint32

	posVBO   uint32
	scaleVBO uint32
	catVBO   uint32

	capacity int
	count    int

	color mgl32.Vec3
}

const effectVertexSrc = `#version 410 core
layout (location = 0) in vec2 aCorner;
layout (location = 1) in vec3 aInstancePos;
layout (location = 2) in float aInstanceScale;
layout (location = 3) in int aInstanceCategory;

uniform mat4 uView;
uniform mat4 uProj;

out vec2 vCorner;
flat out int vCategory;

void main() {
	vec3 world = aInstancePos + vec3(aCorner.x, 0.01, aCorner.y) * aInstanceScale;
	vCorner = aCorner;
	vCategory = aInstanceCategory;
	gl_Position = uProj * uView * vec4(world, 1.0);
}
`

const effectFragmentSrc = `#version 410 core
in vec2 vCorner;
flat in int vCategory;

uniform vec3 uColor;

out vec4 fragColor;

void main() {
	float r = length(vCorner);
	if (r > 1.0) discard;
	float fade = 1.0 - r * r;
	fragColor = vec4(uColor, fade * 0.6);
}
`

// NewEffectMesh allocates instance buffers sized for the registry's fixed
// capacity. Requires a current GL context.
func NewEffectMesh(capacity int, color mgl32.Vec3) (*EffectMesh, error) {
	shader, err := NewShader(effectVertexSrc, effectFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("effect mesh: %w", err)
	}

	em := &EffectMesh{shader: shader, capacity: capacity, color: color}

	quad := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}

	gl.GenVertexArrays(1, &em.vao)
	gl.BindVertexArray(em.vao)

	gl.GenBuffers(1, &em.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, em.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)

	gl.GenBuffers(1, &em.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, em.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, 3*capacity*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 3*4, nil)
	gl.VertexAttribDivisor(1, 1)

	gl.GenBuffers(1, &em.scaleVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, em.scaleVBO)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, 4, nil)
	gl.VertexAttribDivisor(2, 1)

	gl.GenBuffers(1, &em.catVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, em.catVBO)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribIPointer(3, 1, gl.INT, 4, nil)
	gl.VertexAttribDivisor(3, 1)

	gl.BindVertexArray(0)
	return em, nil
}

// Upload pushes the registry's populated prefix to the instance buffers if
// the registry was flagged since the last upload.
func (em *EffectMesh) Upload(reg *effects.Registry) {
	if !reg.NeedsUpload() {
		return
	}
	em.count = reg.Count()
	if em.count > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, em.posVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(reg.Positions())*4, gl.Ptr(reg.Positions()))
		gl.BindBuffer(gl.ARRAY_BUFFER, em.scaleVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(reg.Scales())*4, gl.Ptr(reg.Scales()))
		gl.BindBuffer(gl.ARRAY_BUFFER, em.catVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(reg.Categories())*4, gl.Ptr(reg.Categories()))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	reg.ClearUploadFlag()
}

// Draw renders the uploaded instances.
func (em *EffectMesh) Draw(view, proj mgl32.Mat4) {
	if em.count == 0 {
		return
	}
	em.shader.Use()
	em.shader.SetMatrix4("uView", &view[0])
	em.shader.SetMatrix4("uProj", &proj[0])
	em.shader.SetVector3("uColor", em.color.X(), em.color.Y(), em.color.Z())

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.BindVertexArray(em.vao)
	gl.DrawArraysInstanced(gl.TRIANGLE_STRIP, 0, 4, int32(em.count))
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

// Dispose frees all GL objects.
func (em *EffectMesh) Dispose() {
	gl.DeleteBuffers(1, &em.quadVBO)
	gl.DeleteBuffers(1, &em.posVBO)
	gl.DeleteBuffers(1, &em.scaleVBO)
	gl.DeleteBuffers(1, &em.catVBO)
	gl.DeleteVertexArrays(1, &em.vao)
	em.shader.Delete()
}
