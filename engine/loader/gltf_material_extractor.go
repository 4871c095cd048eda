package loader

import "fmt"

// gltfMaterialExtractor reads materials and decodes the images they can reference.
type gltfMaterialExtractor struct {
	parser *gltfParser
}

// materials returns one GltfMaterial per document material. BaseColorTexture is the image index
// behind the base color texture, or -1.
func (e *gltfMaterialExtractor) materials() []GltfMaterial {
	doc := e.parser.document
	out := make([]GltfMaterial, len(doc.Materials))
	for i, m := range doc.Materials {
		mat := GltfMaterial{Name: m.Name, BaseColor: [4]float32{1, 1, 1, 1}, BaseColorTexture: -1}
		if pbr := m.PbrMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if info := pbr.BaseColorTexture; info != nil && info.Index >= 0 && info.Index < len(doc.Textures) {
				if src := doc.Textures[info.Index].Source; src != nil {
					mat.BaseColorTexture = *src
				}
			}
		}
		out[i] = mat
	}
	return out
}

// images decodes every image in document order.
func (e *gltfMaterialExtractor) images() ([]GltfTexture, error) {
	doc := e.parser.document
	out := make([]GltfTexture, len(doc.Images))
	for i := range doc.Images {
		staging, err := e.parser.readImage(i)
		if err != nil {
			return nil, err
		}
		name := doc.Images[i].Name
		if name == "" {
			name = fmt.Sprintf("gltf_texture_%d", i)
		}
		out[i] = GltfTexture{Name: name, Data: staging}
	}
	return out, nil
}
