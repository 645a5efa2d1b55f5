package ibl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Cubemap is a float RGB cubemap with an optional mip chain. Faces are
// stored row-major with row 0 at t = -1, matching GL texel order.
type Cubemap struct {
	Size   int
	Levels [][FaceCount][]float32
}

// NewCubemap allocates a size×size cubemap with the given number of mip
// levels, each half the size of the previous one.
func NewCubemap(size, mips int) *Cubemap {
	c := &Cubemap{Size: size, Levels: make([][FaceCount][]float32, mips)}
	for level := range c.Levels {
		n := c.MipSize(level)
		for f := range c.Levels[level] {
			c.Levels[level][f] = make([]float32, n*n*3)
		}
	}
	return c
}

// MipCount returns the number of stored levels.
func (c *Cubemap) MipCount() int {
	return len(c.Levels)
}

func (c *Cubemap) MipSize(level int) int {
	return max(c.Size>>level, 1)
}

// Face returns the RGB pixels of one face at one level.
func (c *Cubemap) Face(level int, face CubeFace) []float32 {
	return c.Levels[level][face]
}

func (c *Cubemap) Texel(level int, face CubeFace, x, y int) mgl32.Vec3 {
	n := c.MipSize(level)
	i := (y*n + x) * 3
	p := c.Levels[level][face]
	return mgl32.Vec3{p[i], p[i+1], p[i+2]}
}

func (c *Cubemap) SetTexel(level int, face CubeFace, x, y int, v mgl32.Vec3) {
	n := c.MipSize(level)
	i := (y*n + x) * 3
	p := c.Levels[level][face]
	p[i], p[i+1], p[i+2] = v[0], v[1], v[2]
}

// SampleLevel bilinearly samples one mip level along dir. Filtering is
// clamped at face edges.
func (c *Cubemap) SampleLevel(dir mgl32.Vec3, level int) mgl32.Vec3 {
	level = min(max(level, 0), len(c.Levels)-1)
	face, s, t := CubeLookup(dir)
	n := c.MipSize(level)
	return sampleBilinear(n, n, c.Levels[level][face], s*0.5+0.5, t*0.5+0.5)
}

// SampleLod blends the two mip levels around lod.
func (c *Cubemap) SampleLod(dir mgl32.Vec3, lod float32) mgl32.Vec3 {
	maxLod := float32(len(c.Levels) - 1)
	lod = min(max(lod, 0), maxLod)
	lo, frac := math32.Modf(lod)
	a := c.SampleLevel(dir, int(lo))
	if frac == 0 {
		return a
	}
	b := c.SampleLevel(dir, int(lo)+1)
	return a.Mul(1 - frac).Add(b.Mul(frac))
}

// GenerateMips fills every level below 0 with a 2×2 box filter of the
// level above it.
func (c *Cubemap) GenerateMips() {
	for level := 1; level < len(c.Levels); level++ {
		src := c.MipSize(level - 1)
		n := c.MipSize(level)
		for f := CubeFace(0); f < FaceCount; f++ {
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					x0, y0 := min(2*x, src-1), min(2*y, src-1)
					x1, y1 := min(x0+1, src-1), min(y0+1, src-1)
					sum := c.Texel(level-1, f, x0, y0).
						Add(c.Texel(level-1, f, x1, y0)).
						Add(c.Texel(level-1, f, x0, y1)).
						Add(c.Texel(level-1, f, x1, y1))
					c.SetTexel(level, f, x, y, sum.Mul(0.25))
				}
			}
		}
	}
}

// MaxAbsDiff returns the largest per-channel difference between two
// cubemaps over the levels they share. Mismatched sizes report +Inf.
func (c *Cubemap) MaxAbsDiff(o *Cubemap) float32 {
	if c.Size != o.Size {
		return math32.Inf(1)
	}
	var worst float32
	for level := 0; level < min(len(c.Levels), len(o.Levels)); level++ {
		for f := range c.Levels[level] {
			a, b := c.Levels[level][f], o.Levels[level][f]
			for i := range a {
				worst = max(worst, math32.Abs(a[i]-b[i]))
			}
		}
	}
	return worst
}

// sampleBilinear reads an RGB image at normalized (u, v), where v = 0 is
// row 0. Coordinates are clamped to the image.
func sampleBilinear(w, h int, pix []float32, u, v float32) mgl32.Vec3 {
	// -0.5 to adjust for the pixel centre offset
	u = u*float32(w) - 0.5
	v = v*float32(h) - 0.5
	uf := math32.Floor(u)
	vf := math32.Floor(v)
	ufrac, vfrac := u-uf, v-vf

	x0, y0 := int(uf), int(vf)
	x1, y1 := x0+1, y0+1
	if x0 < 0 {
		x0, x1, ufrac = 0, 0, 0
	}
	if y0 < 0 {
		y0, y1, vfrac = 0, 0, 0
	}
	if x1 >= w {
		x0, x1, ufrac = w-1, w-1, 0
	}
	if y1 >= h {
		y0, y1, vfrac = h-1, h-1, 0
	}

	at := func(x, y int) mgl32.Vec3 {
		i := (y*w + x) * 3
		return mgl32.Vec3{pix[i], pix[i+1], pix[i+2]}
	}
	top := at(x0, y0).Mul(1 - ufrac).Add(at(x1, y0).Mul(ufrac))
	bottom := at(x0, y1).Mul(1 - ufrac).Add(at(x1, y1).Mul(ufrac))
	return top.Mul(1 - vfrac).Add(bottom.Mul(vfrac))
}
