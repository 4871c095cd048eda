// package common contains plain data types and helpers shared by every engine package. Nothing here owns GPU state.
package common

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// VertexData is the single vertex layout consumed by every render pipeline in the engine.
// It is 32 bytes: position (12), normal (12), uv (8).
type VertexData struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// VertexLayout returns the wgpu vertex buffer layout matching VertexData.
// Locations: 0 position, 1 normal, 2 uv.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex layout
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// TextureStagingData holds decoded RGBA8 pixel data pending GPU upload.
type TextureStagingData struct {
	// Pixels is tightly packed RGBA, 4 bytes per pixel, row-major.
	Pixels []byte
	Width  uint32
	Height uint32
}

// Validate checks that the pixel slice matches the declared dimensions.
//
// Returns:
//   - error: non-nil when dimensions are zero or the pixel count mismatches
func (t TextureStagingData) Validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("texture has zero dimension %dx%d", t.Width, t.Height)
	}
	if want := int(t.Width) * int(t.Height) * 4; len(t.Pixels) != want {
		return fmt.Errorf("texture pixel data is %d bytes, expected %d for %dx%d RGBA", len(t.Pixels), want, t.Width, t.Height)
	}
	return nil
}

// SolidColor returns a 1x1 RGBA texture of the given color.
func SolidColor(r, g, b, a uint8) TextureStagingData {
	return TextureStagingData{Pixels: []byte{r, g, b, a}, Width: 1, Height: 1}
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// Zero fields are replaced by defaults when the sampler is created.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	// Compare is set only for comparison samplers (shadow lookups).
	Compare       wgpu.CompareFunction
	MaxAnisotropy uint16
}

// DecodeImage decodes any registered image format (png, jpeg, bmp, tiff, webp) into RGBA8 staging data.
//
// Parameters:
//   - r: reader positioned at the encoded image
//
// Returns:
//   - TextureStagingData: decoded pixels
//   - error: error if the image cannot be decoded
func DecodeImage(r io.Reader) (TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return ImageToStaging(img), nil
}

// DecodeImageFile opens and decodes an image file from disk.
//
// Parameters:
//   - path: file path
//
// Returns:
//   - TextureStagingData: decoded pixels
//   - error: error if the file cannot be opened or decoded
func DecodeImageFile(path string) (TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer f.Close()

	staging, err := DecodeImage(f)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("%s: %w", path, err)
	}
	return staging, nil
}

// ImageToStaging converts any image.Image to tightly packed RGBA8.
func ImageToStaging(img image.Image) TextureStagingData {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return TextureStagingData{
		Pixels: rgba.Pix[:bounds.Dx()*bounds.Dy()*4],
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}
