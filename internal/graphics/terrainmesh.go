package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"driftscape/internal/terrain"
)

// TerrainMesh renders the height field's cached window as a displaced grid.
// The mesh only changes when the field rebuilds, so Sync compares the
// field's center against the last built one and re-uploads vertices only
// then.
type TerrainMesh struct {
	shader *Shader

	vao uint32
	vbo uint32
	ebo uint32

	indexCount int32
	vertices   []float32 // scratch, reused across rebuilds

	builtX, builtZ float32
	built          bool
}

const terrainVertexSrc = `#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 uView;
uniform mat4 uProj;
uniform float uAmplitude;

out float vRelHeight;

void main() {
	vRelHeight = clamp(aPos.y / max(uAmplitude, 0.001) * 0.5 + 0.5, 0.0, 1.0);
	gl_Position = uProj * uView * vec4(aPos, 1.0);
}
`

const terrainFragmentSrc = `#version 410 core
in float vRelHeight;

out vec4 fragColor;

void main() {
	vec3 low = vec3(0.16, 0.32, 0.18);
	vec3 high = vec3(0.55, 0.51, 0.39);
	fragColor = vec4(mix(low, high, vRelHeight), 1.0);
}
`

// NewTerrainMesh allocates buffers for an n x n vertex grid. Requires a
// current GL context.
func NewTerrainMesh(n int) (*TerrainMesh, error) {
	shader, err := NewShader(terrainVertexSrc, terrainFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("terrain mesh: %w", err)
	}

	tm := &TerrainMesh{
		shader:   shader,
		vertices: make([]float32, 3*n*n),
	}

	// Index buffer is static: two triangles per grid cell.
	indices := make([]uint32, 0, 6*(n-1)*(n-1))
	for iz := 0; iz < n-1; iz++ {
		for ix := 0; ix < n-1; ix++ {
			i00 := uint32(iz*n + ix)
			i10 := i00 + 1
			i01 := i00 + uint32(n)
			i11 := i01 + 1
			indices = append(indices, i00, i01, i10, i10, i01, i11)
		}
	}
	tm.indexCount = int32(len(indices))

	gl.GenVertexArrays(1, &tm.vao)
	gl.BindVertexArray(tm.vao)

	gl.GenBuffers(1, &tm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(tm.vertices)*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)

	gl.GenBuffers(1, &tm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return tm, nil
}

// Sync rebuilds the vertex buffer from the height field when its window
// moved since the last build.
func (tm *TerrainMesh) Sync(hf *terrain.HeightField) {
	cx, cz := hf.Center()
	if tm.built && cx == tm.builtX && cz == tm.builtZ {
		return
	}

	n := hf.GridSize()
	extent := hf.Extent()
	samples := hf.Samples()
	half := extent / 2
	step := extent / float32(n-1)

	for iz := 0; iz < n; iz++ {
		z := cz - half + float32(iz)*step
		for ix := 0; ix < n; ix++ {
			x := cx - half + float32(ix)*step
			v := (iz*n + ix) * 3
			tm.vertices[v] = x
			tm.vertices[v+1] = samples[iz*n+ix]
			tm.vertices[v+2] = z
		}
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, tm.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(tm.vertices)*4, gl.Ptr(tm.vertices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	tm.builtX = cx
	tm.builtZ = cz
	tm.built = true
}

// Draw renders the terrain window.
func (tm *TerrainMesh) Draw(view, proj mgl32.Mat4, amplitude float32) {
	tm.shader.Use()
	tm.shader.SetMatrix4("uView", &view[0])
	tm.shader.SetMatrix4("uProj", &proj[0])
	tm.shader.SetFloat("uAmplitude", amplitude)

	gl.BindVertexArray(tm.vao)
	gl.DrawElements(gl.TRIANGLES, tm.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Dispose frees all GL objects.
func (tm *TerrainMesh) Dispose() {
	gl.DeleteBuffers(1, &tm.vbo)
	gl.DeleteBuffers(1, &tm.ebo)
	gl.DeleteVertexArrays(1, &tm.vao)
	tm.shader.Delete()
}
