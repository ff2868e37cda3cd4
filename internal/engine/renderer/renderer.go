// Package renderer draws the editor scene: the terrain mesh, one marker per
// visible plant, and the line overlays (octree wireframe, brush cursor).
package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/Faultbox/verdant/internal/engine/shader"
	"github.com/Faultbox/verdant/internal/engine/terrain"
	"github.com/Faultbox/verdant/internal/logger"
	"github.com/Faultbox/verdant/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns all GL state. Create it after the GL context exists.
type Renderer struct {
	config Config

	sceneProgram uint32
	sceneMVP     int32
	sceneModel   int32
	sceneTint    int32

	lineProgram uint32
	lineMVP     int32
	lineColor   int32

	terrainVAO   uint32
	terrainVBO   uint32
	terrainEBO   uint32
	terrainCount int32

	plantVAO   uint32
	plantVBO   uint32
	plantCount int32

	staticLineVAO   uint32
	staticLineVBO   uint32
	staticLineCount int32

	dynamicLineVAO uint32
	dynamicLineVBO uint32
	dynamicLineCap int

	viewProj math.Mat4
}

// New initializes OpenGL and compiles the editor's shader programs.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing OpenGL")
	}

	log := logger.Named("renderer")
	log.Infow("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.35, 0.52, 0.68, 1.0)

	var err error
	r.sceneProgram, err = shader.CompileProgram(sceneVertexSrc, sceneFragmentSrc)
	if err != nil {
		return nil, errors.Wrap(err, "scene program")
	}
	r.sceneMVP = shader.MustGetUniform(r.sceneProgram, "uMVP")
	r.sceneModel = shader.MustGetUniform(r.sceneProgram, "uModel")
	r.sceneTint = shader.MustGetUniform(r.sceneProgram, "uTint")

	r.lineProgram, err = shader.CompileProgram(lineVertexSrc, lineFragmentSrc)
	if err != nil {
		return nil, errors.Wrap(err, "line program")
	}
	r.lineMVP = shader.MustGetUniform(r.lineProgram, "uMVP")
	r.lineColor = shader.MustGetUniform(r.lineProgram, "uColor")

	r.createPlantMarker()
	r.createLineBuffers()
	return r, nil
}

// Close releases all GL resources.
func (r *Renderer) Close() {
	for _, vao := range []uint32{r.terrainVAO, r.plantVAO, r.staticLineVAO, r.dynamicLineVAO} {
		if vao != 0 {
			gl.DeleteVertexArrays(1, &vao)
		}
	}
	for _, vbo := range []uint32{r.terrainVBO, r.terrainEBO, r.plantVBO, r.staticLineVBO, r.dynamicLineVBO} {
		if vbo != 0 {
			gl.DeleteBuffers(1, &vbo)
		}
	}
	gl.DeleteProgram(r.sceneProgram)
	gl.DeleteProgram(r.lineProgram)
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// BeginFrame clears the buffers and sets the frame's view-projection matrix.
func (r *Renderer) BeginFrame(viewProj math.Mat4) {
	r.viewProj = viewProj
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// UploadTerrain replaces the terrain mesh on the GPU.
func (r *Renderer) UploadTerrain(mesh *terrain.Mesh) {
	if r.terrainVAO == 0 {
		gl.GenVertexArrays(1, &r.terrainVAO)
		gl.GenBuffers(1, &r.terrainVBO)
		gl.GenBuffers(1, &r.terrainEBO)
	}

	gl.BindVertexArray(r.terrainVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.terrainVBO)
	stride := int32(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride),
		unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.terrainEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4,
		unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	// Position, normal, color.
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	r.terrainCount = int32(len(mesh.Indices))
}

// DrawTerrain draws the uploaded terrain mesh.
func (r *Renderer) DrawTerrain() {
	if r.terrainVAO == 0 {
		return
	}
	gl.UseProgram(r.sceneProgram)
	gl.UniformMatrix4fv(r.sceneMVP, 1, false, r.viewProj.Ptr())
	identity := math.Identity()
	gl.UniformMatrix4fv(r.sceneModel, 1, false, identity.Ptr())
	gl.Uniform4f(r.sceneTint, 1, 1, 1, 1)
	gl.BindVertexArray(r.terrainVAO)
	gl.DrawElements(gl.TRIANGLES, r.terrainCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawPlant draws one plant marker with the given model transform and tint.
func (r *Renderer) DrawPlant(model math.Mat4, tint [4]float32) {
	mvp := r.viewProj.Mul(model)
	gl.UseProgram(r.sceneProgram)
	gl.UniformMatrix4fv(r.sceneMVP, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.sceneModel, 1, false, model.Ptr())
	gl.Uniform4f(r.sceneTint, tint[0], tint[1], tint[2], tint[3])
	gl.BindVertexArray(r.plantVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, r.plantCount)
	gl.BindVertexArray(0)
}

// UploadStaticLines replaces the cached line overlay (octree wireframes).
// Pass nil to clear it.
func (r *Renderer) UploadStaticLines(verts []float32) {
	r.staticLineCount = int32(len(verts) / 3)
	if len(verts) == 0 {
		return
	}
	gl.BindVertexArray(r.staticLineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.staticLineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
	gl.BindVertexArray(0)
}

// DrawStaticLines draws the cached line overlay.
func (r *Renderer) DrawStaticLines(color [4]float32) {
	if r.staticLineCount == 0 {
		return
	}
	r.drawLines(r.staticLineVAO, r.staticLineCount, color)
}

// DrawDynamicLines uploads and draws transient line geometry (brush cursor).
func (r *Renderer) DrawDynamicLines(verts []float32, color [4]float32) {
	if len(verts) == 0 {
		return
	}
	gl.BindVertexArray(r.dynamicLineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.dynamicLineVBO)
	if len(verts) > r.dynamicLineCap {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
		r.dynamicLineCap = len(verts)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, unsafe.Pointer(&verts[0]))
	}
	gl.BindVertexArray(0)
	r.drawLines(r.dynamicLineVAO, int32(len(verts)/3), color)
}

func (r *Renderer) drawLines(vao uint32, count int32, color [4]float32) {
	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.lineMVP, 1, false, r.viewProj.Ptr())
	gl.Uniform4f(r.lineColor, color[0], color[1], color[2], color[3])
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.LINES, 0, count)
	gl.BindVertexArray(0)
}

// ReadPixels returns the framebuffer contents as tightly packed RGBA.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// createPlantMarker uploads the unit plant marker: a squashed octahedron
// standing on the origin, scaled per plant by its transform.
func (r *Renderer) createPlantMarker() {
	top := [3]float32{0, 1, 0}
	bottom := [3]float32{0, 0, 0}
	ring := [][3]float32{
		{0.3, 0.4, 0}, {0, 0.4, 0.3}, {-0.3, 0.4, 0}, {0, 0.4, -0.3},
	}

	var verts []float32
	push := func(a, b, c [3]float32) {
		// Face normal from the winding.
		u := math.Vec3{X: b[0] - a[0], Y: b[1] - a[1], Z: b[2] - a[2]}
		v := math.Vec3{X: c[0] - a[0], Y: c[1] - a[1], Z: c[2] - a[2]}
		n := u.Cross(v).Normalize()
		for _, p := range [][3]float32{a, b, c} {
			verts = append(verts, p[0], p[1], p[2], n.X, n.Y, n.Z, 1, 1, 1, 1)
		}
	}
	for i := range ring {
		j := (i + 1) % len(ring)
		push(ring[i], ring[j], top)
		push(ring[j], ring[i], bottom)
	}

	gl.GenVertexArrays(1, &r.plantVAO)
	gl.GenBuffers(1, &r.plantVBO)
	gl.BindVertexArray(r.plantVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.plantVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	stride := int32(10 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	r.plantCount = int32(len(verts) / 10)
}

func (r *Renderer) createLineBuffers() {
	for _, pair := range []struct {
		vao *uint32
		vbo *uint32
	}{
		{&r.staticLineVAO, &r.staticLineVBO},
		{&r.dynamicLineVAO, &r.dynamicLineVBO},
	} {
		gl.GenVertexArrays(1, pair.vao)
		gl.GenBuffers(1, pair.vbo)
		gl.BindVertexArray(*pair.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, *pair.vbo)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
		gl.EnableVertexAttribArray(0)
		gl.BindVertexArray(0)
	}
}

const sceneVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec3 vNormal;
out vec4 vColor;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
	vColor = aColor;
}
`

const sceneFragmentSrc = `
#version 410 core

in vec3 vNormal;
in vec4 vColor;

uniform vec4 uTint;

out vec4 FragColor;

void main() {
	vec3 lightDir = normalize(vec3(0.4, 1.0, 0.3));
	float diffuse = max(dot(normalize(vNormal), lightDir), 0.0);
	vec3 lit = (0.35 + 0.65 * diffuse) * vColor.rgb * uTint.rgb;
	FragColor = vec4(lit, vColor.a * uTint.a);
}
`

const lineVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const lineFragmentSrc = `
#version 410 core

uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`
