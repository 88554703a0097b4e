package gltfmodel

import (
	"reflect"
	"testing"

	"github.com/qmuntal/gltf"
)

func TestFloatAttributeTightlyPacked(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, f32bytes(1, 2, 3, 4, 5, 6))
	view := addView(doc, buf, 0, 24, 0)
	ai := addAccessor(doc, view, 0, 2, gltf.ComponentFloat, gltf.AccessorVec3)

	got := floatAttribute(doc, doc.Accessors[ai], gltf.AccessorVec3)
	want := []float32{1, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFloatAttributeStrided(t *testing.T) {
	// Two vec2 elements interleaved with 8 bytes of padding each.
	data := append(f32bytes(1, 2, 99, 99), f32bytes(3, 4, 99, 99)...)

	doc := &gltf.Document{}
	buf := addBuffer(doc, data)
	view := addView(doc, buf, 0, len(data), 16)
	ai := addAccessor(doc, view, 0, 2, gltf.ComponentFloat, gltf.AccessorVec2)

	got := floatAttribute(doc, doc.Accessors[ai], gltf.AccessorVec2)
	want := []float32{1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFloatAttributeViewOffset(t *testing.T) {
	data := append([]byte{0xde, 0xad, 0xbe, 0xef}, f32bytes(7, 8, 9, 10)...)

	doc := &gltf.Document{}
	buf := addBuffer(doc, data)
	view := addView(doc, buf, 4, 16, 0)
	ai := addAccessor(doc, view, 0, 1, gltf.ComponentFloat, gltf.AccessorVec4)

	got := floatAttribute(doc, doc.Accessors[ai], gltf.AccessorVec4)
	want := []float32{7, 8, 9, 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFloatAttributeRejectsWrongEncoding(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, []byte{1, 2, 3, 4, 5, 6})
	view := addView(doc, buf, 0, 6, 0)

	tests := []struct {
		name string
		comp gltf.ComponentType
		typ  gltf.AccessorType
	}{
		{"ubyte components", gltf.ComponentUbyte, gltf.AccessorVec3},
		{"wrong shape", gltf.ComponentFloat, gltf.AccessorVec2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := addAccessor(doc, view, 0, 1, tt.comp, tt.typ)
			if got := floatAttribute(doc, doc.Accessors[ai], gltf.AccessorVec3); got != nil {
				t.Errorf("expected nil, got %v", got)
			}
		})
	}
}

func TestFloatAttributeOutOfBounds(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, f32bytes(1, 2, 3))
	view := addView(doc, buf, 0, 12, 0)
	// Claims two vec3 elements but the buffer holds only one.
	ai := addAccessor(doc, view, 0, 2, gltf.ComponentFloat, gltf.AccessorVec3)

	if got := floatAttribute(doc, doc.Accessors[ai], gltf.AccessorVec3); got != nil {
		t.Errorf("expected nil for out-of-bounds accessor, got %v", got)
	}
}

func TestFloatAttributeSparseUnsupported(t *testing.T) {
	doc := &gltf.Document{}
	acc := &gltf.Accessor{
		Count:         1,
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
	}
	if got := floatAttribute(doc, acc, gltf.AccessorVec3); got != nil {
		t.Errorf("expected nil for accessor without buffer view, got %v", got)
	}
}

func TestColorAttributeEncodings(t *testing.T) {
	tests := []struct {
		name string
		comp gltf.ComponentType
		data []byte
		want []uint8
	}{
		{
			name: "u8 copied",
			comp: gltf.ComponentUbyte,
			data: []byte{0, 128, 255, 64},
			want: []uint8{0, 128, 255, 64},
		},
		{
			name: "u16 normalized",
			comp: gltf.ComponentUshort,
			data: u16bytes(0, 32768, 65535, 65535),
			want: []uint8{0, 127, 255, 255},
		},
		{
			name: "f32 normalized",
			comp: gltf.ComponentFloat,
			data: f32bytes(0, 0.5, 1, 1),
			want: []uint8{0, 127, 255, 255},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &gltf.Document{}
			buf := addBuffer(doc, tt.data)
			view := addView(doc, buf, 0, len(tt.data), 0)
			ai := addAccessor(doc, view, 0, 1, tt.comp, gltf.AccessorVec4)

			got := colorAttribute(doc, doc.Accessors[ai])
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorAttributeRejectsVec3(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, []byte{1, 2, 3})
	view := addView(doc, buf, 0, 3, 0)
	ai := addAccessor(doc, view, 0, 1, gltf.ComponentUbyte, gltf.AccessorVec3)

	if got := colorAttribute(doc, doc.Accessors[ai]); got != nil {
		t.Errorf("expected nil for vec3 colors, got %v", got)
	}
}

func TestIndexAttributeU16(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, u16bytes(0, 2, 1))
	view := addView(doc, buf, 0, 6, 0)
	ai := addAccessor(doc, view, 0, 3, gltf.ComponentUshort, gltf.AccessorScalar)

	got, lossy := indexAttribute(doc, doc.Accessors[ai])
	if lossy {
		t.Error("u16 indices reported as lossy")
	}
	want := []uint16{0, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIndexAttributeU32Narrowed(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, u32bytes(0, 70000, 3))
	view := addView(doc, buf, 0, 12, 0)
	ai := addAccessor(doc, view, 0, 3, gltf.ComponentUint, gltf.AccessorScalar)

	got, lossy := indexAttribute(doc, doc.Accessors[ai])
	if !lossy {
		t.Error("u32 indices not reported as lossy")
	}
	// 70000 wraps to 70000 - 65536 = 4464 when truncated.
	want := []uint16{0, 4464, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIndexAttributeRejectsU8(t *testing.T) {
	doc := &gltf.Document{}
	buf := addBuffer(doc, []byte{0, 1, 2})
	view := addView(doc, buf, 0, 3, 0)
	ai := addAccessor(doc, view, 0, 3, gltf.ComponentUbyte, gltf.AccessorScalar)

	if got, _ := indexAttribute(doc, doc.Accessors[ai]); got != nil {
		t.Errorf("expected nil for u8 indices, got %v", got)
	}
}
