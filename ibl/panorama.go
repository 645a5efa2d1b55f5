package ibl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

// ErrDecode is returned when a panorama cannot be decoded.
var ErrDecode = errors.New("ibl: panorama decode failed")

// Panorama is an equirectangular HDR image in linear RGB. Row 0 is the top
// of the image, towards +Y.
type Panorama struct {
	Width, Height int
	Pix           []float32
}

func NewPanorama(w, h int) *Panorama {
	return &Panorama{Width: w, Height: h, Pix: make([]float32, w*h*3)}
}

func (p *Panorama) At(x, y int) mgl32.Vec3 {
	i := (y*p.Width + x) * 3
	return mgl32.Vec3{p.Pix[i], p.Pix[i+1], p.Pix[i+2]}
}

func (p *Panorama) Set(x, y int, c mgl32.Vec3) {
	i := (y*p.Width + x) * 3
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = c[0], c[1], c[2]
}

// 1/(2pi), 1/pi
var invAtan = [2]float32{0.15915494309, 0.31830988618}

// EquirectUV maps a unit direction to equirectangular texture coordinates.
// v = 1 is the zenith.
func EquirectUV(dir mgl32.Vec3) (u, v float32) {
	u = math32.Atan2(dir[2], dir[0])*invAtan[0] + 0.5
	v = math32.Asin(min(max(dir[1], -1), 1))*invAtan[1] + 0.5
	return u, v
}

// Sample returns the bilinearly filtered radiance seen along dir.
func (p *Panorama) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	u, v := EquirectUV(dir)
	return sampleBilinear(p.Width, p.Height, p.Pix, u, 1-v)
}

// FlippedRGB returns the pixels bottom row first, the order GL expects so
// that texture coordinate v = 1 lands on the top of the image.
func (p *Panorama) FlippedRGB() []float32 {
	out := make([]float32, len(p.Pix))
	row := p.Width * 3
	for y := 0; y < p.Height; y++ {
		copy(out[(p.Height-1-y)*row:], p.Pix[y*row:(y+1)*row])
	}
	return out
}

// DecodePanorama reads a Radiance RGBE (.hdr) stream.
func DecodePanorama(r io.Reader) (*Panorama, error) {
	img, err := rgbe.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	himg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: decoder returned %T, not an HDR image", ErrDecode, img)
	}
	return panoramaFromImage(himg), nil
}

func panoramaFromImage(img hdr.Image) *Panorama {
	b := img.Bounds()
	p := NewPanorama(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.HDRAt(x, y).HDRRGBA()
			p.Set(x-b.Min.X, y-b.Min.Y, mgl32.Vec3{float32(r), float32(g), float32(bl)})
		}
	}
	return p
}

type decodeResult struct {
	pano *Panorama
	err  error
}

// LoadPanorama decodes the file at path on its own goroutine and waits for
// the result or for ctx to be cancelled.
func LoadPanorama(ctx context.Context, path string) (*Panorama, error) {
	done := make(chan decodeResult, 1)
	go func() {
		f, err := os.Open(path)
		if err != nil {
			done <- decodeResult{err: fmt.Errorf("failed to open panorama: %w", err)}
			return
		}
		defer f.Close()
		p, err := DecodePanorama(f)
		done <- decodeResult{pano: p, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("load %s: %w", path, res.err)
		}
		if res.pano.Width == 0 || res.pano.Height == 0 {
			return nil, fmt.Errorf("load %s: %w: empty image", path, ErrDecode)
		}
		return res.pano, nil
	}
}
