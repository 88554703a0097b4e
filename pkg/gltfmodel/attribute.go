package gltfmodel

import (
	"encoding/binary"
	"math"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// accessorData locates the raw bytes behind an accessor and the effective
// element stride. glTF allows interleaved and padded layouts, so the stride
// can be larger than the element size; a zero bufferView stride means
// tightly packed. Returns ok=false (with a warning) when the accessor has
// no backing buffer or runs past the end of it.
func accessorData(doc *gltf.Document, acc *gltf.Accessor) (data []byte, stride int, ok bool) {
	if acc == nil || acc.BufferView == nil {
		log.Warn("accessor has no buffer view, sparse accessors not supported")
		return nil, 0, false
	}
	vi := *acc.BufferView
	if vi < 0 || vi >= len(doc.BufferViews) {
		log.Warn("accessor buffer view index out of range", zap.Int("bufferView", vi))
		return nil, 0, false
	}
	view := doc.BufferViews[vi]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
		log.Warn("buffer view references missing buffer", zap.Int("buffer", view.Buffer))
		return nil, 0, false
	}
	buf := doc.Buffers[view.Buffer].Data

	elemSize := acc.Type.Components() * acc.ComponentType.ByteSize()
	stride = view.ByteStride
	if stride == 0 {
		stride = elemSize
	}

	start := view.ByteOffset + acc.ByteOffset
	if acc.Count == 0 {
		return nil, 0, false
	}
	need := start + stride*(acc.Count-1) + elemSize
	if start < 0 || need > len(buf) {
		log.Warn("accessor data exceeds buffer bounds",
			zap.Int("need", need), zap.Int("have", len(buf)))
		return nil, 0, false
	}
	return buf[start:], stride, true
}

// floatAttribute re-strides a float accessor of the given shape into a
// tightly packed []float32. Only 32-bit float components are supported;
// any other encoding returns nil and the caller reports the attribute-
// specific warning.
func floatAttribute(doc *gltf.Document, acc *gltf.Accessor, want gltf.AccessorType) []float32 {
	if acc == nil || acc.ComponentType != gltf.ComponentFloat || acc.Type != want {
		return nil
	}
	data, stride, ok := accessorData(doc, acc)
	if !ok {
		return nil
	}
	comps := want.Components()
	out := make([]float32, acc.Count*comps)
	for k := 0; k < acc.Count; k++ {
		base := k * stride
		for c := 0; c < comps; c++ {
			bits := binary.LittleEndian.Uint32(data[base+4*c:])
			out[k*comps+c] = math.Float32frombits(bits)
		}
	}
	return out
}

// colorAttribute decodes a vec4 COLOR accessor into rgba8, normalizing from
// any of the three supported encodings: u8 (copied), u16 (x/65535), f32
// (expected pre-normalized to [0,1]). Returns nil for anything else.
func colorAttribute(doc *gltf.Document, acc *gltf.Accessor) []uint8 {
	if acc == nil || acc.Type != gltf.AccessorVec4 {
		return nil
	}
	data, stride, ok := accessorData(doc, acc)
	if !ok {
		return nil
	}
	out := make([]uint8, acc.Count*4)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for k := 0; k < acc.Count; k++ {
			copy(out[k*4:k*4+4], data[k*stride:k*stride+4])
		}
	case gltf.ComponentUshort:
		for k := 0; k < acc.Count; k++ {
			base := k * stride
			for c := 0; c < 4; c++ {
				v := binary.LittleEndian.Uint16(data[base+2*c:])
				out[k*4+c] = uint8(float32(v) / 65535.0 * 255.0)
			}
		}
	case gltf.ComponentFloat:
		for k := 0; k < acc.Count; k++ {
			base := k * stride
			for c := 0; c < 4; c++ {
				v := math.Float32frombits(binary.LittleEndian.Uint32(data[base+4*c:]))
				out[k*4+c] = uint8(v * 255.0)
			}
		}
	default:
		return nil
	}
	return out
}

// indexAttribute decodes a scalar index accessor to u16. A u32 source is
// narrowed value-by-value; lossy reports that the narrowing happened so the
// caller can emit the precision-loss warning. Returns nil for unsupported
// encodings.
func indexAttribute(doc *gltf.Document, acc *gltf.Accessor) (indices []uint16, lossy bool) {
	if acc == nil || acc.Type != gltf.AccessorScalar {
		return nil, false
	}
	data, stride, ok := accessorData(doc, acc)
	if !ok {
		return nil, false
	}
	out := make([]uint16, acc.Count)
	switch acc.ComponentType {
	case gltf.ComponentUshort:
		for k := 0; k < acc.Count; k++ {
			out[k] = binary.LittleEndian.Uint16(data[k*stride:])
		}
		return out, false
	case gltf.ComponentUint:
		for k := 0; k < acc.Count; k++ {
			out[k] = uint16(binary.LittleEndian.Uint32(data[k*stride:]))
		}
		return out, true
	default:
		return nil, false
	}
}
