package gltfmodel

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// resolveImage turns a glTF image reference into decoded pixels. Three
// sources are tried in order: a base64 data URI (always PNG payload), a
// filesystem path relative to baseDir, or an embedded buffer view decoded
// per its MIME type. Every failure path returns nil after a warning; the
// caller checks before use.
func resolveImage(doc *gltf.Document, img *gltf.Image, baseDir string) *image.RGBA {
	if img == nil {
		return nil
	}

	if strings.HasPrefix(img.URI, "data:") {
		// Data URI format: data:<mediatype>;base64,<data>
		comma := strings.IndexByte(img.URI, ',')
		if comma < 0 {
			log.Warn("glTF data URI is not a valid image")
			return nil
		}
		payload := img.URI[comma+1:]
		// Sized 3*(n/4); the decoder reports the exact length, which may be
		// up to two bytes shorter when the payload is padded.
		decoded := make([]byte, 3*(len(payload)/4))
		n, err := base64.StdEncoding.Decode(decoded, []byte(payload))
		if err != nil {
			log.Warn("glTF data URI base64 decode failed", zap.Error(err))
			return nil
		}
		return decodeImage(decoded[:n], mimePNG)
	}

	if img.URI != "" {
		path := filepath.Join(baseDir, img.URI)
		f, err := os.Open(path)
		if err != nil {
			log.Warn("glTF image file not readable", zap.String("path", path), zap.Error(err))
			return nil
		}
		defer f.Close()
		decoded, _, err := image.Decode(f)
		if err != nil {
			log.Warn("glTF image decode failed", zap.String("path", path), zap.Error(err))
			return nil
		}
		return toRGBA(decoded)
	}

	if img.BufferView != nil {
		vi := *img.BufferView
		if vi < 0 || vi >= len(doc.BufferViews) {
			log.Warn("glTF image buffer view out of range", zap.Int("bufferView", vi))
			return nil
		}
		view := doc.BufferViews[vi]
		if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
			log.Warn("glTF image references missing buffer", zap.Int("buffer", view.Buffer))
			return nil
		}
		buf := doc.Buffers[view.Buffer].Data

		stride := view.ByteStride
		if stride == 0 {
			stride = 1
		}
		data := make([]byte, view.ByteLength)
		offset := view.ByteOffset
		for i := 0; i < view.ByteLength; i++ {
			if offset >= len(buf) {
				log.Warn("glTF image data exceeds buffer bounds")
				return nil
			}
			data[i] = buf[offset]
			offset += stride
		}
		kind := classifyMIME(img.MimeType)
		if kind == mimeUnknown {
			log.Warn("glTF image data MIME type not recognized",
				zap.String("mimeType", img.MimeType))
			return nil
		}
		return decodeImage(data, kind)
	}

	return nil
}

type imageMIME int

const (
	mimeUnknown imageMIME = iota
	mimePNG
	mimeJPEG
)

// classifyMIME tolerates the escaped-slash variants some exporters emit
// ("image\/png" instead of "image/png").
func classifyMIME(mime string) imageMIME {
	switch mime {
	case "image/png", `image\/png`:
		return mimePNG
	case "image/jpeg", `image\/jpeg`:
		return mimeJPEG
	default:
		return mimeUnknown
	}
}

func decodeImage(data []byte, kind imageMIME) *image.RGBA {
	var (
		decoded image.Image
		err     error
	)
	switch kind {
	case mimePNG:
		decoded, err = png.Decode(bytes.NewReader(data))
	case mimeJPEG:
		decoded, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return nil
	}
	if err != nil {
		log.Warn("glTF image decode failed", zap.Error(err))
		return nil
	}
	return toRGBA(decoded)
}

// toRGBA normalizes any decoded image to the RGBA layout backends upload.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba
}
