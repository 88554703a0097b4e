package gltfmodel

import (
	"image"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// DefaultMaterial returns the plain white material that occupies slot 0 of
// every model and backs any mesh without a resolved material.
func DefaultMaterial() Material {
	var mat Material
	mat.Maps[MapAlbedo].Color = White
	return mat
}

// importMaterials fills model.Materials: the default material at index 0,
// then one imported material per source material, so source material i maps
// to model slot i+1.
func (l *Loader) importMaterials(model *Model, doc *gltf.Document, baseDir string) {
	model.Materials = make([]Material, 0, len(doc.Materials)+1)
	model.Materials = append(model.Materials, DefaultMaterial())
	for _, src := range doc.Materials {
		model.Materials = append(model.Materials, l.importMaterial(model, doc, src, baseDir))
	}
}

// importMaterial converts one glTF material. Only the PBR metallic/roughness
// workflow is honored; specular/glossiness and the extension flows
// (clearcoat, transmission, sheen, ...) are ignored.
func (l *Loader) importMaterial(model *Model, doc *gltf.Document, src *gltf.Material, baseDir string) Material {
	mat := DefaultMaterial()
	if src == nil {
		return mat
	}

	if pbr := src.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			l.loadMaterialTexture(model, &mat.Maps[MapAlbedo], doc, pbr.BaseColorTexture.Index, baseDir)
		}
		// The base color factor applies whether or not a texture exists.
		base := [4]float64{1, 1, 1, 1}
		if pbr.BaseColorFactor != nil {
			base = *pbr.BaseColorFactor
		}
		mat.Maps[MapAlbedo].Color = Color{
			R: uint8(base[0] * 255),
			G: uint8(base[1] * 255),
			B: uint8(base[2] * 255),
			A: uint8(base[3] * 255),
		}

		if pbr.MetallicRoughnessTexture != nil {
			l.loadMaterialTexture(model, &mat.Maps[MapRoughness], doc, pbr.MetallicRoughnessTexture.Index, baseDir)

			// The scalar factors are only read alongside the texture;
			// texture-less materials keep the map defaults.
			roughness := 1.0
			if pbr.RoughnessFactor != nil {
				roughness = *pbr.RoughnessFactor
			}
			mat.Maps[MapRoughness].Value = float32(roughness)

			metallic := 1.0
			if pbr.MetallicFactor != nil {
				metallic = *pbr.MetallicFactor
			}
			mat.Maps[MapMetalness].Value = float32(metallic)
		}
	}

	if src.NormalTexture != nil && src.NormalTexture.Index != nil {
		l.loadMaterialTexture(model, &mat.Maps[MapNormal], doc, *src.NormalTexture.Index, baseDir)
	}

	if src.OcclusionTexture != nil && src.OcclusionTexture.Index != nil {
		l.loadMaterialTexture(model, &mat.Maps[MapOcclusion], doc, *src.OcclusionTexture.Index, baseDir)
	}

	if src.EmissiveTexture != nil {
		l.loadMaterialTexture(model, &mat.Maps[MapEmission], doc, src.EmissiveTexture.Index, baseDir)

		mat.Maps[MapEmission].Color = Color{
			R: uint8(src.EmissiveFactor[0] * 255),
			G: uint8(src.EmissiveFactor[1] * 255),
			B: uint8(src.EmissiveFactor[2] * 255),
			A: 255,
		}
	}

	return mat
}

// loadMaterialTexture resolves and uploads one texture channel, recording
// ownership on the model so Unload can release it. Missing or undecodable
// images leave the map without a texture.
func (l *Loader) loadMaterialTexture(model *Model, dst *MaterialMap, doc *gltf.Document, texIndex int, baseDir string) {
	img := textureImage(doc, texIndex, baseDir)
	if img == nil {
		return
	}
	tex := l.gpu.UploadTexture(img)
	dst.Texture = tex
	model.ownedTex = append(model.ownedTex, tex)
}

// textureImage follows texture -> image indirection and resolves the pixels.
func textureImage(doc *gltf.Document, texIndex int, baseDir string) *image.RGBA {
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		log.Warn("material references missing texture", zap.Int("texture", texIndex))
		return nil
	}
	tex := doc.Textures[texIndex]
	if tex.Source == nil || *tex.Source < 0 || *tex.Source >= len(doc.Images) {
		log.Warn("texture has no image source", zap.Int("texture", texIndex))
		return nil
	}
	return resolveImage(doc, doc.Images[*tex.Source], baseDir)
}
