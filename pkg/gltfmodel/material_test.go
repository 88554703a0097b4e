package gltfmodel

import (
	"encoding/base64"
	"image/color"
	"testing"

	"github.com/qmuntal/gltf"
)

// docWithTexture returns a document holding one texture backed by a 2x2
// data URI PNG, usable as texture index 0.
func docWithTexture(t *testing.T) *gltf.Document {
	t.Helper()
	payload := pngBytes(t, 2, 2, color.RGBA{200, 200, 200, 255})
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	doc := &gltf.Document{}
	doc.Images = append(doc.Images, &gltf.Image{URI: uri})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: intPtr(0)})
	return doc
}

func TestDefaultMaterial(t *testing.T) {
	mat := DefaultMaterial()
	if mat.Maps[MapAlbedo].Color != White {
		t.Errorf("default albedo color = %v, want white", mat.Maps[MapAlbedo].Color)
	}
	if mat.Maps[MapAlbedo].Texture.ID != 0 {
		t.Error("default material should have no texture")
	}
}

func TestImportMaterialsSlotZero(t *testing.T) {
	doc := &gltf.Document{}
	doc.Materials = append(doc.Materials, &gltf.Material{})

	loader := NewLoader(&fakeBackend{})
	model := &Model{}
	loader.importMaterials(model, doc, "")

	if len(model.Materials) != 2 {
		t.Fatalf("expected 2 materials (default + 1), got %d", len(model.Materials))
	}
	if model.Materials[0].Maps[MapAlbedo].Color != White {
		t.Error("slot 0 is not the default material")
	}
}

func TestImportMaterialBaseColorFactor(t *testing.T) {
	// The base color factor applies even without a base color texture.
	src := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 1.0, 1.0},
		},
	}

	loader := NewLoader(&fakeBackend{})
	mat := loader.importMaterial(&Model{}, &gltf.Document{}, src, "")

	want := Color{R: 127, G: 63, B: 255, A: 255}
	if mat.Maps[MapAlbedo].Color != want {
		t.Errorf("albedo color = %v, want %v", mat.Maps[MapAlbedo].Color, want)
	}
}

func TestImportMaterialFactorsRequireTexture(t *testing.T) {
	// Metallic and roughness factors are ignored without the combined
	// metallic/roughness texture.
	src := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor:  f64Ptr(0.75),
			RoughnessFactor: f64Ptr(0.25),
		},
	}

	loader := NewLoader(&fakeBackend{})
	mat := loader.importMaterial(&Model{}, &gltf.Document{}, src, "")

	if mat.Maps[MapMetalness].Value != 0 {
		t.Errorf("metalness value = %f, want 0 without texture", mat.Maps[MapMetalness].Value)
	}
	if mat.Maps[MapRoughness].Value != 0 {
		t.Errorf("roughness value = %f, want 0 without texture", mat.Maps[MapRoughness].Value)
	}
}

func TestImportMaterialFactorsWithTexture(t *testing.T) {
	doc := docWithTexture(t)
	src := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 0},
			MetallicFactor:           f64Ptr(0.75),
			RoughnessFactor:          f64Ptr(0.25),
		},
	}

	gpu := &fakeBackend{}
	loader := NewLoader(gpu)
	model := &Model{}
	mat := loader.importMaterial(model, doc, src, "")

	if mat.Maps[MapMetalness].Value != 0.75 {
		t.Errorf("metalness value = %f, want 0.75", mat.Maps[MapMetalness].Value)
	}
	if mat.Maps[MapRoughness].Value != 0.25 {
		t.Errorf("roughness value = %f, want 0.25", mat.Maps[MapRoughness].Value)
	}
	if mat.Maps[MapRoughness].Texture.ID == 0 {
		t.Error("roughness map has no texture")
	}
	if len(model.ownedTex) != 1 {
		t.Errorf("expected 1 owned texture, got %d", len(model.ownedTex))
	}
}

func TestImportMaterialFactorDefaultsWithTexture(t *testing.T) {
	// With the texture present but no explicit factors, both default to 1.
	doc := docWithTexture(t)
	src := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 0},
		},
	}

	loader := NewLoader(&fakeBackend{})
	mat := loader.importMaterial(&Model{}, doc, src, "")

	if mat.Maps[MapMetalness].Value != 1 {
		t.Errorf("metalness value = %f, want 1", mat.Maps[MapMetalness].Value)
	}
	if mat.Maps[MapRoughness].Value != 1 {
		t.Errorf("roughness value = %f, want 1", mat.Maps[MapRoughness].Value)
	}
}

func TestImportMaterialEmissive(t *testing.T) {
	doc := docWithTexture(t)
	src := &gltf.Material{
		EmissiveTexture: &gltf.TextureInfo{Index: 0},
		EmissiveFactor:  [3]float64{1.0, 0.5, 0.0},
	}

	loader := NewLoader(&fakeBackend{})
	mat := loader.importMaterial(&Model{}, doc, src, "")

	want := Color{R: 255, G: 127, B: 0, A: 255}
	if mat.Maps[MapEmission].Color != want {
		t.Errorf("emission color = %v, want %v", mat.Maps[MapEmission].Color, want)
	}
	if mat.Maps[MapEmission].Texture.ID == 0 {
		t.Error("emission map has no texture")
	}
}

func TestImportMaterialEmissiveFactorRequiresTexture(t *testing.T) {
	src := &gltf.Material{
		EmissiveFactor: [3]float64{1.0, 0.5, 0.0},
	}

	loader := NewLoader(&fakeBackend{})
	mat := loader.importMaterial(&Model{}, &gltf.Document{}, src, "")

	var zero Color
	if mat.Maps[MapEmission].Color != zero {
		t.Errorf("emission color = %v, want zero without texture", mat.Maps[MapEmission].Color)
	}
}

func TestImportMaterialAllTextures(t *testing.T) {
	doc := docWithTexture(t)
	src := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture:         &gltf.TextureInfo{Index: 0},
			MetallicRoughnessTexture: &gltf.TextureInfo{Index: 0},
		},
		NormalTexture:    &gltf.NormalTexture{Index: intPtr(0)},
		OcclusionTexture: &gltf.OcclusionTexture{Index: intPtr(0)},
		EmissiveTexture:  &gltf.TextureInfo{Index: 0},
	}

	gpu := &fakeBackend{}
	loader := NewLoader(gpu)
	model := &Model{}
	mat := loader.importMaterial(model, doc, src, "")

	for _, slot := range []int{MapAlbedo, MapRoughness, MapNormal, MapOcclusion, MapEmission} {
		if mat.Maps[slot].Texture.ID == 0 {
			t.Errorf("map slot %d has no texture", slot)
		}
	}
	if len(model.ownedTex) != 5 {
		t.Errorf("expected 5 owned textures, got %d", len(model.ownedTex))
	}
	if len(gpu.texUploads) != 5 {
		t.Errorf("expected 5 texture uploads, got %d", len(gpu.texUploads))
	}
}

func TestImportMaterialMissingTexture(t *testing.T) {
	// Dangling texture index leaves the map untextured.
	src := &gltf.Material{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: 7},
		},
	}

	loader := NewLoader(&fakeBackend{})
	mat := loader.importMaterial(&Model{}, &gltf.Document{}, src, "")

	if mat.Maps[MapAlbedo].Texture.ID != 0 {
		t.Error("expected no texture for dangling index")
	}
	if mat.Maps[MapAlbedo].Color != White {
		t.Error("albedo color should stay white")
	}
}
