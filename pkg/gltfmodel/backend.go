package gltfmodel

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Backend is the GPU interface the model pipeline is written against.
// The import stage calls UploadMesh/UploadTexture once per resource, the
// draw stage calls DrawMesh with a fully composed world transform, and
// Unload pairs every upload with exactly one unload call.
//
// Wireframe state is global raster state: EnableWireframe/DisableWireframe
// calls always come in matched pairs.
type Backend interface {
	UploadMesh(m *Mesh)
	UnloadMesh(m *Mesh)

	UploadTexture(img *image.RGBA) Texture
	UnloadTexture(t Texture)

	DrawMesh(m *Mesh, mat *Material, transform mgl32.Mat4)

	EnableWireframe()
	DisableWireframe()
}

// log is the package logger. The import pipeline reports every recoverable
// problem here instead of returning errors; silent by default.
var log = zap.NewNop()

// SetLogger routes the package diagnostics to the given logger.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}
