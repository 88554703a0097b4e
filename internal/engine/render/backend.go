// Package render implements the OpenGL 4.1 backend that uploads and draws
// glTF model data. It owns the shader program, the per-frame view/projection
// state and a fallback white texture for untextured materials.
package render

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/polyforge/gltfscene/pkg/gltfmodel"
)

// Backend is the OpenGL implementation of gltfmodel.Backend. One instance
// drives one GL context; all methods must run on the thread that owns it.
type Backend struct {
	logger *zap.Logger

	program      uint32
	locMVP       int32
	locModel     int32
	locTint      int32
	locLightDir  int32
	locTexture   int32
	viewProj     mgl32.Mat4
	lightDir     mgl32.Vec3
	whiteTexture uint32
}

// NewBackend initializes GL function pointers, compiles the model shader and
// creates the fallback texture. The GL context must be current.
func NewBackend(logger *zap.Logger) (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	logger.Info("OpenGL initialized", zap.String("version", version))

	program, err := newProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compile model shader: %w", err)
	}

	b := &Backend{
		logger:      logger,
		program:     program,
		locMVP:      gl.GetUniformLocation(program, gl.Str("uMVP\x00")),
		locModel:    gl.GetUniformLocation(program, gl.Str("uModel\x00")),
		locTint:     gl.GetUniformLocation(program, gl.Str("uTint\x00")),
		locLightDir: gl.GetUniformLocation(program, gl.Str("uLightDir\x00")),
		locTexture:  gl.GetUniformLocation(program, gl.Str("uTexture\x00")),
		viewProj:    mgl32.Ident4(),
		lightDir:    mgl32.Vec3{-0.4, -1, -0.6},
	}
	b.whiteTexture = createWhiteTexture()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	return b, nil
}

// SetViewProjection stores the combined camera matrix used by subsequent
// DrawMesh calls.
func (b *Backend) SetViewProjection(viewProj mgl32.Mat4) {
	b.viewProj = viewProj
}

// SetLightDirection changes the directional light used for shading.
func (b *Backend) SetLightDirection(dir mgl32.Vec3) {
	b.lightDir = dir
}

// BeginFrame clears the framebuffer and resets the viewport.
func (b *Backend) BeginFrame(width, height int32) {
	gl.Viewport(0, 0, width, height)
	gl.ClearColor(0.12, 0.12, 0.14, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// UploadMesh creates the VAO, one VBO per present vertex attribute and an
// index buffer when the mesh is indexed. Meshes without positions are left
// on the CPU and skipped at draw time.
func (b *Backend) UploadMesh(mesh *gltfmodel.Mesh) {
	if len(mesh.Vertices) == 0 {
		b.logger.Debug("skipping GPU upload for mesh without positions")
		return
	}

	gl.GenVertexArrays(1, &mesh.VAO)
	gl.BindVertexArray(mesh.VAO)

	uploadAttribute(&mesh.VBO[gltfmodel.BufVertices], 0, 3, mesh.Vertices)
	uploadAttribute(&mesh.VBO[gltfmodel.BufTexcoords], 1, 2, mesh.Texcoords)
	uploadAttribute(&mesh.VBO[gltfmodel.BufNormals], 2, 3, mesh.Normals)
	uploadAttribute(&mesh.VBO[gltfmodel.BufTangents], 4, 4, mesh.Tangents)

	if len(mesh.Colors) > 0 {
		gl.GenBuffers(1, &mesh.VBO[gltfmodel.BufColors])
		gl.BindBuffer(gl.ARRAY_BUFFER, mesh.VBO[gltfmodel.BufColors])
		gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Colors), unsafe.Pointer(&mesh.Colors[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(3, 4, gl.UNSIGNED_BYTE, true, 0, 0)
		gl.EnableVertexAttribArray(3)
	}

	if len(mesh.Indices) > 0 {
		gl.GenBuffers(1, &mesh.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*2, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
}

// uploadAttribute fills one float VBO and wires it to a shader location.
// Empty slices leave the buffer at zero; the shader sees the attribute's
// default value instead.
func uploadAttribute(vbo *uint32, location uint32, components int32, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.GenBuffers(1, vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, *vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(location, components, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(location)
}

// UnloadMesh releases the mesh's GPU buffers. Safe to call for meshes that
// were never uploaded.
func (b *Backend) UnloadMesh(mesh *gltfmodel.Mesh) {
	if mesh.VAO == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &mesh.VAO)
	for i := range mesh.VBO {
		if mesh.VBO[i] != 0 {
			gl.DeleteBuffers(1, &mesh.VBO[i])
			mesh.VBO[i] = 0
		}
	}
	if mesh.EBO != 0 {
		gl.DeleteBuffers(1, &mesh.EBO)
		mesh.EBO = 0
	}
	mesh.VAO = 0
}

// UploadTexture creates a mipmapped RGBA texture from decoded image data.
func (b *Backend) UploadTexture(img *image.RGBA) gltfmodel.Texture {
	bounds := img.Bounds()
	width, height := int32(bounds.Dx()), int32(bounds.Dy())

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return gltfmodel.Texture{ID: id, Width: width, Height: height}
}

// UnloadTexture deletes a texture created by UploadTexture.
func (b *Backend) UnloadTexture(tex gltfmodel.Texture) {
	if tex.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.ID)
}

// DrawMesh renders one mesh with the material's albedo map and the current
// view/projection. Untextured materials sample the 1x1 white texture so the
// diffuse color passes through unchanged.
func (b *Backend) DrawMesh(mesh *gltfmodel.Mesh, material *gltfmodel.Material, transform mgl32.Mat4) {
	if mesh.VAO == 0 {
		return
	}

	gl.UseProgram(b.program)

	mvp := b.viewProj.Mul4(transform)
	gl.UniformMatrix4fv(b.locMVP, 1, false, &mvp[0])
	gl.UniformMatrix4fv(b.locModel, 1, false, &transform[0])
	gl.Uniform3f(b.locLightDir, b.lightDir.X(), b.lightDir.Y(), b.lightDir.Z())

	diffuse := material.Maps[gltfmodel.MapDiffuse]
	gl.Uniform4f(b.locTint,
		float32(diffuse.Color.R)/255,
		float32(diffuse.Color.G)/255,
		float32(diffuse.Color.B)/255,
		float32(diffuse.Color.A)/255,
	)

	gl.ActiveTexture(gl.TEXTURE0)
	if diffuse.Texture.ID != 0 {
		gl.BindTexture(gl.TEXTURE_2D, diffuse.Texture.ID)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, b.whiteTexture)
	}
	gl.Uniform1i(b.locTexture, 0)

	gl.BindVertexArray(mesh.VAO)

	// Missing attribute arrays fall back to fixed defaults.
	if len(mesh.Normals) == 0 {
		gl.VertexAttrib3f(2, 0, 1, 0)
	}
	if len(mesh.Colors) == 0 {
		gl.VertexAttrib4f(3, 1, 1, 1, 1)
	}

	if mesh.EBO != 0 {
		gl.DrawElements(gl.TRIANGLES, int32(mesh.TriangleCount*3), gl.UNSIGNED_SHORT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(mesh.TriangleCount*3))
	}

	gl.BindVertexArray(0)
}

// EnableWireframe switches polygon rasterization to outlines.
func (b *Backend) EnableWireframe() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
}

// DisableWireframe restores filled polygon rasterization.
func (b *Backend) DisableWireframe() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// Destroy releases the shader program and fallback texture.
func (b *Backend) Destroy() {
	if b.whiteTexture != 0 {
		gl.DeleteTextures(1, &b.whiteTexture)
		b.whiteTexture = 0
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
}

func createWhiteTexture() uint32 {
	white := []uint8{255, 255, 255, 255}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&white[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}
