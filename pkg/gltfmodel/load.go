package gltfmodel

import (
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// Loader imports glTF files and uploads the result through a GPU backend.
type Loader struct {
	gpu Backend
}

// NewLoader returns a loader bound to the given backend.
func NewLoader(gpu Backend) *Loader {
	return &Loader{gpu: gpu}
}

// Load imports a .gltf or .glb file into a ready-to-draw model. Load never
// fails: malformed or empty input degrades to a placeholder cube with the
// default material, with every problem reported through the package logger.
// Check Model.Valid or the log output to distinguish real content.
func (l *Loader) Load(path string) *Model {
	model := &Model{
		Transform: mgl32.Ident4(),
		Scene:     -1,
		gpu:       l.gpu,
	}

	doc, err := gltf.Open(path)
	if err != nil {
		log.Warn("failed to load glTF data", zap.String("file", path), zap.Error(err))
	} else {
		l.importDocument(model, doc, path)
	}

	if len(model.Meshes) == 0 {
		log.Warn("failed to load mesh data, defaulting to cube mesh", zap.String("file", path))
		model.Meshes = []Mesh{genMeshCube(1, 1, 1)}
		model.MeshMaterial = nil
	}

	if len(model.Materials) == 0 {
		log.Warn("failed to load material data, defaulting to white material", zap.String("file", path))
		model.Materials = []Material{DefaultMaterial()}
	}

	if len(model.MeshMaterial) != len(model.Meshes) {
		model.MeshMaterial = make([]int, len(model.Meshes))
	}

	// Upload vertex data to GPU (static meshes).
	for i := range model.Meshes {
		l.gpu.UploadMesh(&model.Meshes[i])
	}

	return model
}

// importDocument runs the conversion pipeline over a parsed document:
// materials, then meshes, then the node/scene graph. Buffers were already
// resolved by the parser (external files, base64 and GLB chunks alike).
func (l *Loader) importDocument(model *Model, doc *gltf.Document, path string) {
	log.Info("model basic data loaded",
		zap.String("file", path),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("materials", len(doc.Materials)),
	)
	log.Debug("document inventory",
		zap.Int("buffers", len(doc.Buffers)),
		zap.Int("images", len(doc.Images)),
		zap.Int("textures", len(doc.Textures)),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("scenes", len(doc.Scenes)),
	)

	baseDir := filepath.Dir(path)

	l.importMaterials(model, doc, baseDir)
	ranges := importMeshes(model, doc, path)
	importNodes(model, doc, ranges)
	importScenes(model, doc)
}
