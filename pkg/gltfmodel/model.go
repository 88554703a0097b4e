// Package gltfmodel imports glTF 2.0 assets into renderer-ready models and
// draws them through a pluggable GPU backend.
//
// Supported input: .gltf and .glb containers, embedded (base64) or external
// buffers and textures, PBR metallic/roughness materials. Every glTF
// primitive becomes a separate mesh. Restrictions: triangle meshes only;
// positions/normals vec3 float, texcoords vec2 float, tangents vec4 float,
// colors vec4 u8/u16/f32 normalized, indices u16 or u32 (truncated to u16).
package gltfmodel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// White is the neutral tint; drawing with it leaves material colors unchanged.
var White = Color{255, 255, 255, 255}

// Texture is a GPU texture handle created by a Backend.
type Texture struct {
	ID     uint32
	Width  int32
	Height int32
}

// Material map slots, one per supported PBR channel.
const (
	MapAlbedo = iota
	MapMetalness
	MapNormal
	MapRoughness
	MapOcclusion
	MapEmission
	MapCount
)

// MapDiffuse is an alias for MapAlbedo.
const MapDiffuse = MapAlbedo

// MaterialMap is one texture channel of a material: an optional texture
// plus a tint color and a scalar value.
type MaterialMap struct {
	Texture Texture
	Color   Color
	Value   float32
}

// Material holds the texture maps of one imported material. The Shader
// handle is caller-supplied and never owned by the model.
type Material struct {
	Shader uint32
	Maps   [MapCount]MaterialMap
}

// Vertex buffer slots within Mesh.VBO, one per attribute stream.
const (
	BufVertices = iota
	BufTexcoords
	BufNormals
	BufColors
	BufTangents
	meshVertexBuffers
)

// Mesh is one glTF primitive flattened into renderer-native arrays.
// CPU arrays are owned until upload; GPU handles are owned after it.
type Mesh struct {
	VertexCount   int
	TriangleCount int

	Vertices  []float32 // vec3 per vertex, mandatory for drawable geometry
	Normals   []float32 // vec3 per vertex
	Tangents  []float32 // vec4 per vertex
	Texcoords []float32 // vec2 per vertex
	Colors    []uint8   // rgba8 per vertex
	Indices   []uint16

	// GPU handles, populated by Backend.UploadMesh.
	VAO uint32
	VBO [meshVertexBuffers]uint32
	EBO uint32
}

// Node is one element of the flat scene graph. All references are integer
// indices into the owning model's arrays, so the graph is acyclic by
// construction and trivially relocatable.
type Node struct {
	Children []int

	// [MeshStart, MeshEnd) into Model.Meshes; both -1 when the node has no mesh.
	MeshStart int
	MeshEnd   int

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	// Local is the composed TRS matrix (scale applied first).
	Local mgl32.Mat4
}

// Scene is a named list of root node indices.
type Scene struct {
	Name  string
	Nodes []int
}

// Model is a fully imported glTF asset: flattened meshes, materials with
// slot 0 reserved for the default material, and an index-based node/scene
// graph. It owns every array and GPU handle it imported.
type Model struct {
	Transform mgl32.Mat4

	Meshes       []Mesh
	Materials    []Material
	MeshMaterial []int // per-mesh material index, parallel to Meshes

	Nodes  []Node
	Scenes []Scene
	Scene  int // default scene index, -1 when none

	gpu      Backend
	ownedTex []Texture // textures created during import, released on Unload
}

// Valid reports whether the model satisfies its structural invariants and
// is safe to draw: at least one mesh and material, a mesh-material mapping
// in range, and all node and scene references within bounds.
func (m *Model) Valid() bool {
	if len(m.Meshes) == 0 || len(m.Materials) == 0 {
		return false
	}
	if len(m.MeshMaterial) != len(m.Meshes) {
		return false
	}
	for _, mi := range m.MeshMaterial {
		if mi < 0 || mi >= len(m.Materials) {
			return false
		}
	}
	for i := range m.Nodes {
		n := &m.Nodes[i]
		for _, c := range n.Children {
			if c < 0 || c >= len(m.Nodes) {
				return false
			}
		}
		if n.MeshStart != -1 || n.MeshEnd != -1 {
			if n.MeshStart < 0 || n.MeshEnd < n.MeshStart || n.MeshEnd > len(m.Meshes) {
				return false
			}
		}
	}
	for i := range m.Scenes {
		for _, root := range m.Scenes[i].Nodes {
			if root < 0 || root >= len(m.Nodes) {
				return false
			}
		}
	}
	return true
}

// Unload releases everything the import created: GPU mesh buffers,
// importer-created textures, and all CPU-side arrays. Caller-supplied
// shaders and textures attached after loading are left alone. Call exactly
// once per loaded model.
func (m *Model) Unload() {
	for i := range m.Meshes {
		m.gpu.UnloadMesh(&m.Meshes[i])
	}
	for _, tex := range m.ownedTex {
		m.gpu.UnloadTexture(tex)
	}
	m.ownedTex = nil

	m.Meshes = nil
	m.Materials = nil
	m.MeshMaterial = nil

	for i := range m.Nodes {
		m.Nodes[i].Children = nil
	}
	m.Nodes = nil
	for i := range m.Scenes {
		m.Scenes[i].Nodes = nil
	}
	m.Scenes = nil

	log.Info("model unloaded from RAM and VRAM")
}
