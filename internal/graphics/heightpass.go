package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// HeightPass evaluates the elevation function on the GPU: a fragment pass
// writes one elevation sample per texel into an R32F framebuffer, which is
// read back into the height field's sample buffer. Implements
// terrain.Evaluator.
//
// The GLSL below implements the same family of noise as the CPU elevation
// function: hashed lattice values, smoothstep fade, four octaves. Its 32-bit
// hash produces a different lattice than the CPU's 64-bit one, so the two
// paths generate different (each internally consistent) terrain; a process
// uses one evaluator for the lifetime of a height field, never both.
type HeightPass struct {
	shader *Shader
	fbo    uint32
	tex    uint32
	vao    uint32
	vbo    uint32
	seed   int32

	texSize int
}

const heightVertexSrc = `#version 410 core
layout (location = 0) in vec2 aPos;
void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
}
`

// Sample positions are corner-aligned to match the Evaluator contract and
// the bilinear reconstruction: texel i holds f at cx - extent/2 +
// i*extent/(n-1), so texel 0 and texel n-1 sit exactly on the window edges.
// gl_FragCoord is at texel centers (i + 0.5), hence the floor.
const heightFragmentSrc = `#version 410 core
out float height;

uniform vec2  uCenter;
uniform float uExtent;
uniform float uScale;
uniform float uAmplitude;
uniform int   uGridN;
uniform int   uSeed;

uint hash2(ivec2 p, uint seed) {
	uint v = uint(p.x) + (uint(p.y) << 1) + seed * 0x9E3779B9u;
	v += 0x9E3779B9u;
	v = (v ^ (v >> 15)) * 0x85EBCA6Bu;
	v = (v ^ (v >> 13)) * 0xC2B2AE35u;
	return v ^ (v >> 16);
}

float lattice(ivec2 p, uint seed) {
	return float(hash2(p, seed)) / 4294967295.0;
}

float valueNoise(vec2 p, uint seed) {
	vec2 i = floor(p);
	vec2 f = p - i;
	vec2 w = f * f * f * (f * (f * 6.0 - 15.0) + 10.0);
	ivec2 p0 = ivec2(i);
	float v00 = lattice(p0, seed);
	float v10 = lattice(p0 + ivec2(1, 0), seed);
	float v01 = lattice(p0 + ivec2(0, 1), seed);
	float v11 = lattice(p0 + ivec2(1, 1), seed);
	return mix(mix(v00, v10, w.x), mix(v01, v11, w.x), w.y);
}

float octaveNoise(vec2 p, uint seed) {
	float amp = 1.0;
	float freq = 1.0;
	float sum = 0.0;
	float norm = 0.0;
	for (int i = 0; i < 4; i++) {
		sum += valueNoise(p * freq, seed + uint(i * 131)) * amp;
		norm += amp;
		amp *= 0.5;
		freq *= 2.0;
	}
	return sum / norm;
}

void main() {
	vec2 idx = floor(gl_FragCoord.xy);
	vec2 t = idx / float(uGridN - 1);
	vec2 world = uCenter + (t - 0.5) * uExtent;
	float n = octaveNoise(world * uScale, uint(uSeed));
	height = (n * 2.0 - 1.0) * uAmplitude;
}
`

// NewHeightPass compiles the evaluation shader and sets up the fullscreen
// quad. Requires a current GL context.
func NewHeightPass(seed int64) (*HeightPass, error) {
	shader, err := NewShader(heightVertexSrc, heightFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("height pass: %w", err)
	}

	hp := &HeightPass{shader: shader, seed: int32(seed)}

	quad := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}
	gl.GenVertexArrays(1, &hp.vao)
	gl.GenBuffers(1, &hp.vbo)
	gl.BindVertexArray(hp.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, hp.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)
	gl.BindVertexArray(0)

	gl.GenFramebuffers(1, &hp.fbo)
	return hp, nil
}

// ensureTexture (re)allocates the render target when the grid size changes.
func (hp *HeightPass) ensureTexture(n int) {
	if hp.texSize == n {
		return
	}
	if hp.tex != 0 {
		gl.DeleteTextures(1, &hp.tex)
	}
	gl.GenTextures(1, &hp.tex)
	gl.BindTexture(gl.TEXTURE_2D, hp.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R32F, int32(n), int32(n), 0, gl.RED, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, hp.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, hp.tex, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	hp.texSize = n
}

// FillGrid renders one evaluation pass and reads the samples back into dst.
func (hp *HeightPass) FillGrid(dst []float32, n int, cx, cz, extent, scale, amplitude float32) {
	hp.ensureTexture(n)

	var prevViewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, hp.fbo)
	gl.Viewport(0, 0, int32(n), int32(n))

	hp.shader.Use()
	hp.shader.SetVector2("uCenter", cx, cz)
	hp.shader.SetFloat("uExtent", extent)
	hp.shader.SetFloat("uScale", scale)
	hp.shader.SetFloat("uAmplitude", amplitude)
	hp.shader.SetInt("uGridN", int32(n))
	hp.shader.SetInt("uSeed", hp.seed)

	gl.BindVertexArray(hp.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	gl.ReadPixels(0, 0, int32(n), int32(n), gl.RED, gl.FLOAT, gl.Ptr(dst))

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
}

// Release frees all GL objects held by the pass.
func (hp *HeightPass) Release() {
	if hp.tex != 0 {
		gl.DeleteTextures(1, &hp.tex)
	}
	gl.DeleteFramebuffers(1, &hp.fbo)
	gl.DeleteBuffers(1, &hp.vbo)
	gl.DeleteVertexArrays(1, &hp.vao)
	hp.shader.Delete()
}
