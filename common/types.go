// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
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
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// CubeTextureStagingData holds the six RGBA faces of a cubemap pending GPU upload.
// Faces are ordered +X, -X, +Y, -Y, +Z, -Z and must all share the same square size.
type CubeTextureStagingData struct {
	Faces [6][]byte
	Size  uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering, which can improve texture quality at oblique viewing angles.
	MaxAnisotropy uint16
}

// ImageData is a decoded image in tightly packed RGBA8 form.
type ImageData struct {
	// Pixels holds 4 bytes per pixel, row-major, top row first.
	Pixels []byte
	Width  int
	Height int
}

// Staging converts the image into texture staging data.
//
// Returns:
//   - TextureStagingData: the staging data sharing the pixel slice
func (d ImageData) Staging() TextureStagingData {
	return TextureStagingData{
		Pixels: d.Pixels,
		Width:  uint32(d.Width),
		Height: uint32(d.Height),
	}
}

// At returns the RGBA bytes of the pixel at (x, y). Coordinates are clamped to the image bounds.
//
// Parameters:
//   - x: column
//   - y: row
//
// Returns:
//   - r, g, b, a: the channel values
func (d ImageData) At(x, y int) (r, g, b, a uint8) {
	x = max(0, min(x, d.Width-1))
	y = max(0, min(y, d.Height-1))
	i := (y*d.Width + x) * 4
	return d.Pixels[i], d.Pixels[i+1], d.Pixels[i+2], d.Pixels[i+3]
}

// DecodeImage decodes PNG, JPEG, BMP or TIFF data into RGBA pixels.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - r: the encoded image stream
//
// Returns:
//   - ImageData: the decoded pixels
//   - error: error if decoding fails
func DecodeImage(r io.Reader) (ImageData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return ImageData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return ImageData{
		Pixels: rgba.Pix,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// LoadImage opens and decodes an image file from disk.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - ImageData: the decoded pixels
//   - error: error if the file cannot be opened or decoded
func LoadImage(path string) (ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		return ImageData{}, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	data, err := DecodeImage(file)
	if err != nil {
		return ImageData{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
