package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// gltfMeshExtractor merges every triangle primitive of a document into one indexed mesh.
type gltfMeshExtractor struct {
	parser *gltfParser
}

// extract combines all primitives of all meshes. Each primitive's indices are offset by the
// number of vertices already combined. Primitives without indices get sequential indices.
// Missing normals default to +Y and missing UVs to (0, 0).
func (e *gltfMeshExtractor) extract() (GltfMesh, error) {
	doc := e.parser.document
	var out GltfMesh
	var indices []uint32

	for mi := range doc.Meshes {
		mesh := &doc.Meshes[mi]
		if out.Name == "" {
			out.Name = mesh.Name
		}
		for pi := range mesh.Primitives {
			prim := &mesh.Primitives[pi]
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				continue
			}
			verts, err := e.primitiveVertices(prim)
			if err != nil {
				return GltfMesh{}, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}

			offset := uint32(len(out.Vertices))
			if prim.Indices != nil {
				if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
					return GltfMesh{}, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, ErrMissingIndices)
				}
				idx, err := e.parser.readIndices(*prim.Indices)
				if err != nil {
					return GltfMesh{}, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
				}
				for _, i := range idx {
					indices = append(indices, i+offset)
				}
			} else {
				for i := range uint32(len(verts)) {
					indices = append(indices, i+offset)
				}
			}
			out.Vertices = append(out.Vertices, verts...)
		}
	}

	if len(out.Vertices) == 0 {
		return GltfMesh{}, ErrNoPrimitives
	}

	out.Indices = make([]uint16, len(indices))
	for i, idx := range indices {
		if idx > math.MaxUint16 {
			return GltfMesh{}, fmt.Errorf("index %d exceeds 16 bits: %w", idx, ErrUnsupportedIndexFormat)
		}
		out.Indices[i] = uint16(idx)
	}
	return out, nil
}

func (e *gltfMeshExtractor) primitiveVertices(prim *gltfPrimitive) ([]common.VertexData, error) {
	posIdx, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return nil, ErrMissingPosition
	}
	positions, err := e.parser.readFloats(posIdx, 3)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals, uvs [][]float32
	if idx, ok := prim.Attributes[gltfAttributeNormal]; ok {
		if normals, err = e.parser.readFloats(idx, 3); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltfAttributeTexCoord0]; ok {
		if uvs, err = e.parser.readFloats(idx, 2); err != nil {
			return nil, fmt.Errorf("uvs: %w", err)
		}
	}

	verts := make([]common.VertexData, len(positions))
	for i, p := range positions {
		v := common.VertexData{
			Position: [3]float32{p[0], p[1], p[2]},
			Normal:   [3]float32{0, 1, 0},
		}
		if i < len(normals) {
			v.Normal = [3]float32{normals[i][0], normals[i][1], normals[i][2]}
		}
		if i < len(uvs) {
			v.UV = [2]float32{uvs[i][0], uvs[i][1]}
		}
		verts[i] = v
	}
	return verts, nil
}
