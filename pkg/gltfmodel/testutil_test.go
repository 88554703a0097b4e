package gltfmodel

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// fakeBackend records every GPU interaction so tests can assert on upload,
// draw and release behavior without a GL context.
type fakeBackend struct {
	meshUploads int
	meshUnloads int

	texUploads []*image.RGBA
	texUnloads []Texture

	draws []drawCall

	wireframe    bool
	wireEnables  int
	wireDisables int

	nextID uint32
}

type drawCall struct {
	mesh      *Mesh
	color     Color
	transform mgl32.Mat4
	wireframe bool
}

func (f *fakeBackend) UploadMesh(m *Mesh) {
	f.nextID++
	m.VAO = f.nextID
	f.meshUploads++
}

func (f *fakeBackend) UnloadMesh(m *Mesh) {
	if m.VAO != 0 {
		m.VAO = 0
		f.meshUnloads++
	}
}

func (f *fakeBackend) UploadTexture(img *image.RGBA) Texture {
	f.nextID++
	f.texUploads = append(f.texUploads, img)
	bounds := img.Bounds()
	return Texture{ID: f.nextID, Width: int32(bounds.Dx()), Height: int32(bounds.Dy())}
}

func (f *fakeBackend) UnloadTexture(t Texture) {
	f.texUnloads = append(f.texUnloads, t)
}

func (f *fakeBackend) DrawMesh(m *Mesh, mat *Material, transform mgl32.Mat4) {
	f.draws = append(f.draws, drawCall{
		mesh:      m,
		color:     mat.Maps[MapDiffuse].Color,
		transform: transform,
		wireframe: f.wireframe,
	})
}

func (f *fakeBackend) EnableWireframe() {
	f.wireframe = true
	f.wireEnables++
}

func (f *fakeBackend) DisableWireframe() {
	f.wireframe = false
	f.wireDisables++
}

func intPtr(i int) *int { return &i }

func f64Ptr(v float64) *float64 { return &v }

// f32bytes packs float32 values little-endian.
func f32bytes(vals ...float32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// u16bytes packs uint16 values little-endian.
func u16bytes(vals ...uint16) []byte {
	out := make([]byte, 0, len(vals)*2)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// u32bytes packs uint32 values little-endian.
func u32bytes(vals ...uint32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

// addBuffer appends a buffer holding data and returns its index.
func addBuffer(doc *gltf.Document, data []byte) int {
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{ByteLength: len(data), Data: data})
	return len(doc.Buffers) - 1
}

// addView appends a buffer view and returns its index.
func addView(doc *gltf.Document, buffer, byteOffset, byteLength, byteStride int) int {
	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{
		Buffer:     buffer,
		ByteOffset: byteOffset,
		ByteLength: byteLength,
		ByteStride: byteStride,
	})
	return len(doc.BufferViews) - 1
}

// addAccessor appends an accessor over view and returns its index.
func addAccessor(doc *gltf.Document, view, byteOffset, count int, comp gltf.ComponentType, typ gltf.AccessorType) int {
	doc.Accessors = append(doc.Accessors, &gltf.Accessor{
		BufferView:    intPtr(view),
		ByteOffset:    byteOffset,
		Count:         count,
		ComponentType: comp,
		Type:          typ,
	})
	return len(doc.Accessors) - 1
}

// pngBytes encodes a solid-color image.
func pngBytes(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// mat4Near compares matrices with a small epsilon.
func mat4Near(a, b mgl32.Mat4) bool {
	for i := 0; i < 16; i++ {
		if d := a[i] - b[i]; d > 1e-5 || d < -1e-5 {
			return false
		}
	}
	return true
}
