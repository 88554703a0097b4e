package gltfmodel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// importNodes converts every source node to the same position in the output
// array. Index stability matters: children and scene roots reference nodes
// purely by position.
func importNodes(model *Model, doc *gltf.Document, ranges []meshRange) {
	model.Nodes = make([]Node, len(doc.Nodes))
	for i, src := range doc.Nodes {
		node := Node{
			MeshStart:   -1,
			MeshEnd:     -1,
			Rotation:    mgl32.QuatIdent(),
			Scale:       mgl32.Vec3{1, 1, 1},
			Local:       mgl32.Ident4(),
			Translation: mgl32.Vec3{},
		}
		if src == nil {
			model.Nodes[i] = node
			continue
		}

		if src.Mesh != nil {
			mi := *src.Mesh
			if mi >= 0 && mi < len(ranges) {
				node.MeshStart = ranges[mi].start
				node.MeshEnd = ranges[mi].end
			} else {
				log.Warn("node references missing mesh", zap.Int("node", i), zap.Int("mesh", mi))
			}
		}

		node.Children = make([]int, len(src.Children))
		copy(node.Children, src.Children)

		node.Translation = mgl32.Vec3{
			float32(src.Translation[0]),
			float32(src.Translation[1]),
			float32(src.Translation[2]),
		}
		// A zero quaternion means the rotation was absent from the source.
		if src.Rotation != ([4]float64{}) {
			node.Rotation = mgl32.Quat{
				W: float32(src.Rotation[3]),
				V: mgl32.Vec3{
					float32(src.Rotation[0]),
					float32(src.Rotation[1]),
					float32(src.Rotation[2]),
				},
			}
		}
		if src.Scale != ([3]float64{}) {
			node.Scale = mgl32.Vec3{
				float32(src.Scale[0]),
				float32(src.Scale[1]),
				float32(src.Scale[2]),
			}
		}

		node.Local = composeTRS(node.Translation, node.Rotation, node.Scale)
		model.Nodes[i] = node
	}
}

// composeTRS builds the local transform with scale applied first, then
// rotation, then translation (T * R * S, column-vector convention).
func composeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).
		Mul4(r.Mat4()).
		Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

// importScenes converts the scene list and picks the default scene. A
// document without scenes leaves the list empty and the index at -1.
func importScenes(model *Model, doc *gltf.Document) {
	model.Scene = -1
	if len(doc.Scenes) == 0 {
		return
	}
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		model.Scene = *doc.Scene
	}
	model.Scenes = make([]Scene, len(doc.Scenes))
	for i, src := range doc.Scenes {
		if src == nil {
			continue
		}
		roots := make([]int, len(src.Nodes))
		copy(roots, src.Nodes)
		model.Scenes[i] = Scene{Name: src.Name, Nodes: roots}
	}
}
