package mesh

import "github.com/Carmen-Shannon/oxy-forward/common"

// CubeData returns a cube of edge length size centered on the origin with per-face normals and UVs.
// Faces wind counter-clockwise when viewed from outside.
func CubeData(size float32) ([]common.VertexData, []uint16) {
	h := size / 2
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]common.VertexData, 0, 24)
	indices := make([]uint16, 0, 36)
	for _, f := range faces {
		base := uint16(len(vertices))
		for i, c := range f.corners {
			vertices = append(vertices, common.VertexData{Position: c, Normal: f.normal, UV: uvs[i]})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// PlaneData returns a square in the XZ plane facing +Y, with UVs repeated tiling times.
func PlaneData(size, tiling float32) ([]common.VertexData, []uint16) {
	h := size / 2
	up := [3]float32{0, 1, 0}
	vertices := []common.VertexData{
		{Position: [3]float32{-h, 0, h}, Normal: up, UV: [2]float32{0, tiling}},
		{Position: [3]float32{h, 0, h}, Normal: up, UV: [2]float32{tiling, tiling}},
		{Position: [3]float32{h, 0, -h}, Normal: up, UV: [2]float32{tiling, 0}},
		{Position: [3]float32{-h, 0, -h}, Normal: up, UV: [2]float32{0, 0}},
	}
	return vertices, []uint16{0, 1, 2, 0, 2, 3}
}
