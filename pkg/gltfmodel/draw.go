package gltfmodel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DrawModel draws the model at position with a uniform scale and tint.
func (m *Model) DrawModel(position mgl32.Vec3, scale float32, tint Color) {
	m.DrawModelEx(position, mgl32.Vec3{0, 1, 0}, 0, mgl32.Vec3{scale, scale, scale}, tint)
}

// DrawModelEx draws the model with full transform parameters. The world
// transform composes translation, axis-angle rotation (degrees) and
// non-uniform scale with the model's stored base transform, scale applied
// first. The default scene is traversed when valid and non-empty; otherwise
// the flat mesh list is drawn without hierarchy.
func (m *Model) DrawModelEx(position, rotationAxis mgl32.Vec3, rotationAngle float32, scale mgl32.Vec3, tint Color) {
	matScale := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	matRotation := mgl32.HomogRotate3D(mgl32.DegToRad(rotationAngle), rotationAxis)
	matTranslation := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	world := matTranslation.Mul4(matRotation).Mul4(matScale).Mul4(m.Transform)

	if m.Scene >= 0 && m.Scene < len(m.Scenes) && len(m.Scenes[m.Scene].Nodes) > 0 {
		m.DrawScene(m.Scene, world, tint)
		return
	}
	for i := range m.Meshes {
		m.drawMesh(i, world, tint)
	}
}

// DrawModelWires draws the model with wireframe rasterization.
func (m *Model) DrawModelWires(position mgl32.Vec3, scale float32, tint Color) {
	m.gpu.EnableWireframe()
	defer m.gpu.DisableWireframe()

	m.DrawModel(position, scale, tint)
}

// DrawModelWiresEx draws the model in wireframe with full transform parameters.
func (m *Model) DrawModelWiresEx(position, rotationAxis mgl32.Vec3, rotationAngle float32, scale mgl32.Vec3, tint Color) {
	m.gpu.EnableWireframe()
	defer m.gpu.DisableWireframe()

	m.DrawModelEx(position, rotationAxis, rotationAngle, scale, tint)
}

// DrawScene draws every root node of one scene. Out-of-range scene indices
// draw nothing.
func (m *Model) DrawScene(scene int, transform mgl32.Mat4, tint Color) {
	if scene < 0 || scene >= len(m.Scenes) {
		return
	}
	for _, root := range m.Scenes[scene].Nodes {
		m.DrawNode(root, transform, tint)
	}
}

// DrawSceneWires draws one scene in wireframe.
func (m *Model) DrawSceneWires(scene int, transform mgl32.Mat4, tint Color) {
	m.gpu.EnableWireframe()
	defer m.gpu.DisableWireframe()

	m.DrawScene(scene, transform, tint)
}

// DrawNode draws a node subtree depth-first. The node's local matrix is
// applied before the inherited transform. A node with children recurses and
// does not draw its own mesh range; only leaf nodes draw meshes.
func (m *Model) DrawNode(node int, transform mgl32.Mat4, tint Color) {
	if node < 0 || node >= len(m.Nodes) {
		return
	}
	n := &m.Nodes[node]
	world := transform.Mul4(n.Local)

	if len(n.Children) > 0 {
		for _, child := range n.Children {
			m.DrawNode(child, world, tint)
		}
		return
	}
	for i := n.MeshStart; i < n.MeshEnd; i++ {
		m.drawMesh(i, world, tint)
	}
}

// DrawNodeWires draws a node subtree in wireframe.
func (m *Model) DrawNodeWires(node int, transform mgl32.Mat4, tint Color) {
	m.gpu.EnableWireframe()
	defer m.gpu.DisableWireframe()

	m.DrawNode(node, transform, tint)
}

// drawMesh issues one mesh draw with the tint composed into the material's
// diffuse color for the duration of the call. Materials can be shared
// between meshes, so the original color is restored before returning.
func (m *Model) drawMesh(index int, transform mgl32.Mat4, tint Color) {
	mat := &m.Materials[m.MeshMaterial[index]]
	original := mat.Maps[MapDiffuse].Color
	mat.Maps[MapDiffuse].Color = modulate(original, tint)

	m.gpu.DrawMesh(&m.Meshes[index], mat, transform)

	mat.Maps[MapDiffuse].Color = original
}

// modulate multiplies two colors channel-wise as normalized fractions.
func modulate(c, tint Color) Color {
	return Color{
		R: uint8(float32(c.R) / 255 * (float32(tint.R) / 255) * 255),
		G: uint8(float32(c.G) / 255 * (float32(tint.G) / 255) * 255),
		B: uint8(float32(c.B) / 255 * (float32(tint.B) / 255) * 255),
		A: uint8(float32(c.A) / 255 * (float32(tint.A) / 255) * 255),
	}
}
