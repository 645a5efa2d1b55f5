package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mrjoshuak/go-openexr/half"

	"skyline/ibl"
	"skyline/scene"
)

var errNoPixels = errors.New("no pixel data")

// UploadTexture uploads a scene.Texture to the GPU and sets its GLID field.
// Call this from the main goroutine (OpenGL context must be current).
func UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return fmt.Errorf("nil texture")
	}
	if len(tex.Pixels) == 0 {
		return fmt.Errorf("texture %q: %w", tex.Name, errNoPixels)
	}

	var id uint32
	gl.GenTextures(1, &id)
	if err := allocated("texture "+tex.Name, id); err != nil {
		return err
	}
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GLID = id
	return nil
}

// DeleteTexture frees a previously uploaded GPU texture and zeroes its GLID.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}

// ── HDR textures ──────────────────────────────────────────────────────────────

// uploadPanorama stores the equirectangular image as an RGB16F texture,
// clamped and linearly filtered.
func uploadPanorama(p *ibl.Panorama) (uint32, error) {
	if len(p.Pix) == 0 {
		return 0, fmt.Errorf("panorama: %w", errNoPixels)
	}
	var id uint32
	gl.GenTextures(1, &id)
	if err := allocated("panorama texture", id); err != nil {
		return 0, err
	}
	pix := p.FlippedRGB()
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(p.Width), int32(p.Height), 0,
		gl.RGB, gl.FLOAT, gl.Ptr(pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

// newCubemap allocates an RGB16F cubemap of size×size faces. With
// mipmapped set, the whole chain is allocated and trilinear filtering is
// enabled; maxLevel caps the chain when positive.
func newCubemap(size int, mipmapped bool, maxLevel int) (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if err := allocated("cubemap", id); err != nil {
		return 0, err
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	for f := 0; f < ibl.FaceCount; f++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(f), 0, gl.RGB16F,
			int32(size), int32(size), 0, gl.RGB, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	if mipmapped {
		if maxLevel > 0 {
			gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(maxLevel))
		}
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	} else {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return id, nil
}

// newLUT allocates the two channel RG16F split-sum table.
func newLUT(size int) (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if err := allocated("brdf lut", id); err != nil {
		return 0, err
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RG16F, int32(size), int32(size), 0, gl.RG, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id, nil
}

func deleteTexture(id *uint32) {
	if *id != 0 {
		gl.DeleteTextures(1, id)
		*id = 0
	}
}

// ── Readback ──────────────────────────────────────────────────────────────────

// readCubemap copies mips levels of a GPU cubemap into CPU memory. Texels
// travel as half floats, the storage precision, so nothing is rounded twice.
func readCubemap(id uint32, size, mips int) *ibl.Cubemap {
	c := ibl.NewCubemap(size, mips)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	for level := 0; level < mips; level++ {
		n := c.MipSize(level)
		buf := make([]uint16, n*n*3)
		for f := 0; f < ibl.FaceCount; f++ {
			gl.GetTexImage(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(f), int32(level),
				gl.RGB, gl.HALF_FLOAT, gl.Ptr(buf))
			widen(c.Face(level, ibl.CubeFace(f)), buf)
		}
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return c
}

func readLUT(id uint32, size int) *ibl.LUT {
	l := ibl.NewLUT(size)
	buf := make([]uint16, len(l.Pix))
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RG, gl.HALF_FLOAT, gl.Ptr(buf))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	widen(l.Pix, buf)
	return l
}

func widen(dst []float32, src []uint16) {
	for i, h := range src {
		dst[i] = half.Half(h).Float32()
	}
}
