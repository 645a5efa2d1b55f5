package scene

import "math"

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, row 0 at v = 0).
	Pixels []byte
	// GLID is the OpenGL texture object ID, set by opengl.UploadTexture.
	GLID uint32
}

// FacadeBands is the number of horizontal stripes on a facade.
const FacadeBands = 10

// FacadeTexel returns the facade channels at height v in [0, 1):
// an albedo mask that alternates every band, and the roughness and
// metallic values that go with it. Window bands are smooth and metallic.
func FacadeTexel(v float32) (mask, roughness, metallic float32) {
	band := int(math.Floor(float64(v * FacadeBands)))
	mask = float32(((band % 2) + 2) % 2)
	roughness = mix(0.08, 0.735, mask)
	metallic = mix(0.9, 0.2, mask)
	return mask, roughness, metallic
}

// NewFacadeTexture bakes FacadeTexel into a size×size RGBA8 texture with
// the mask in R, roughness in G and metallic in B.
func NewFacadeTexture(size int) *Texture {
	tex := &Texture{
		Name:   "facade",
		Width:  size,
		Height: size,
		Pixels: make([]byte, size*size*4),
	}
	for y := 0; y < size; y++ {
		v := (float32(y) + 0.5) / float32(size)
		m, r, mt := FacadeTexel(v)
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			tex.Pixels[i+0] = unorm8(m)
			tex.Pixels[i+1] = unorm8(r)
			tex.Pixels[i+2] = unorm8(mt)
			tex.Pixels[i+3] = 255
		}
	}
	return tex
}

func mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

func unorm8(v float32) byte {
	return byte(math.Round(float64(min(max(v, 0), 1)) * 255))
}
