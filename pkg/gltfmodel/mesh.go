package gltfmodel

import (
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// meshRange is the [start, end) window of output meshes produced by one
// source mesh. Nodes reference whole source meshes, the renderer tracks
// primitives individually; this table bridges the two.
type meshRange struct {
	start, end int
}

// importMeshes converts every triangle primitive into one output mesh and
// fills the parallel mesh-material index array. Non-triangle primitives
// (points, lines, strips, fans) are skipped, not errors.
func importMeshes(model *Model, doc *gltf.Document, file string) []meshRange {
	total := 0
	for _, src := range doc.Meshes {
		for _, prim := range src.Primitives {
			if prim.Mode == gltf.PrimitiveTriangles {
				total++
			}
		}
	}

	model.Meshes = make([]Mesh, 0, total)
	model.MeshMaterial = make([]int, total)
	ranges := make([]meshRange, len(doc.Meshes))

	meshIndex := 0
	for i, src := range doc.Meshes {
		ranges[i].start = meshIndex
		for _, prim := range src.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}

			var mesh Mesh

			if ai, ok := prim.Attributes[gltf.POSITION]; ok {
				acc := accessor(doc, ai)
				if verts := floatAttribute(doc, acc, gltf.AccessorVec3); verts != nil {
					mesh.Vertices = verts
					mesh.VertexCount = len(verts) / 3
				} else {
					log.Warn("vertices attribute data format not supported, use vec3 float",
						zap.String("file", file))
				}
			}

			if ai, ok := prim.Attributes[gltf.NORMAL]; ok {
				acc := accessor(doc, ai)
				if normals := floatAttribute(doc, acc, gltf.AccessorVec3); normals != nil {
					mesh.Normals = normals
				} else {
					log.Warn("normal attribute data format not supported, use vec3 float",
						zap.String("file", file))
				}
			}

			if ai, ok := prim.Attributes[gltf.TANGENT]; ok {
				acc := accessor(doc, ai)
				if tangents := floatAttribute(doc, acc, gltf.AccessorVec4); tangents != nil {
					mesh.Tangents = tangents
				} else {
					log.Warn("tangent attribute data format not supported, use vec4 float",
						zap.String("file", file))
				}
			}

			if ai, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				acc := accessor(doc, ai)
				if texcoords := floatAttribute(doc, acc, gltf.AccessorVec2); texcoords != nil {
					mesh.Texcoords = texcoords
				} else {
					log.Warn("texcoords attribute data format not supported, use vec2 float",
						zap.String("file", file))
				}
			}

			if ai, ok := prim.Attributes[gltf.COLOR_0]; ok {
				acc := accessor(doc, ai)
				if colors := colorAttribute(doc, acc); colors != nil {
					mesh.Colors = colors
				} else {
					log.Warn("color attribute data format not supported",
						zap.String("file", file))
				}
			}

			if prim.Indices != nil {
				acc := accessor(doc, *prim.Indices)
				if acc != nil {
					mesh.TriangleCount = acc.Count / 3
				}
				if indices, lossy := indexAttribute(doc, acc); indices != nil {
					mesh.Indices = indices
					if lossy {
						log.Warn("indices data converted from u32 to u16, possible loss of data",
							zap.String("file", file))
					}
				} else {
					log.Warn("indices data format not supported, use u16",
						zap.String("file", file))
				}
			} else {
				// Unindexed mesh: every 3 consecutive vertices form a triangle.
				mesh.TriangleCount = mesh.VertexCount / 3
			}

			// Index 0 is the default material; source material m maps to m+1.
			if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(doc.Materials) {
				model.MeshMaterial[meshIndex] = *prim.Material + 1
			}

			model.Meshes = append(model.Meshes, mesh)
			meshIndex++
		}
		ranges[i].end = meshIndex
	}

	return ranges
}

// accessor bounds-checks an accessor index against the document.
func accessor(doc *gltf.Document, i int) *gltf.Accessor {
	if i < 0 || i >= len(doc.Accessors) {
		log.Warn("accessor index out of range", zap.Int("accessor", i))
		return nil
	}
	return doc.Accessors[i]
}

// genMeshCube builds the placeholder mesh used when an asset yields no
// drawable geometry: an axis-aligned cube with per-face normals and UVs.
func genMeshCube(width, height, length float32) Mesh {
	w, h, l := width/2, height/2, length/2

	vertices := []float32{
		// Front face
		-w, -h, l, w, -h, l, w, h, l, -w, h, l,
		// Back face
		-w, -h, -l, -w, h, -l, w, h, -l, w, -h, -l,
		// Top face
		-w, h, -l, -w, h, l, w, h, l, w, h, -l,
		// Bottom face
		-w, -h, -l, w, -h, -l, w, -h, l, -w, -h, l,
		// Right face
		w, -h, -l, w, h, -l, w, h, l, w, -h, l,
		// Left face
		-w, -h, -l, -w, -h, l, -w, h, l, -w, h, -l,
	}

	normals := []float32{
		0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1,
		0, 0, -1, 0, 0, -1, 0, 0, -1, 0, 0, -1,
		0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0,
		0, -1, 0, 0, -1, 0, 0, -1, 0, 0, -1, 0,
		1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0,
		-1, 0, 0, -1, 0, 0, -1, 0, 0, -1, 0, 0,
	}

	texcoords := []float32{
		0, 0, 1, 0, 1, 1, 0, 1,
		1, 0, 1, 1, 0, 1, 0, 0,
		0, 1, 0, 0, 1, 0, 1, 1,
		1, 1, 0, 1, 0, 0, 1, 0,
		1, 0, 1, 1, 0, 1, 0, 0,
		0, 0, 1, 0, 1, 1, 0, 1,
	}

	indices := make([]uint16, 0, 36)
	for face := uint16(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return Mesh{
		VertexCount:   24,
		TriangleCount: 12,
		Vertices:      vertices,
		Normals:       normals,
		Texcoords:     texcoords,
		Indices:       indices,
	}
}
