package placement

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// paretoAlpha is the shape of the truncated Pareto distribution used for
// building heights. Most buildings stay low; a few become towers.
const paretoAlpha = 2.0

// Instance is one accepted building.
type Instance struct {
	Row, Col int
	Yaw      float32
	// Scale holds the footprint and height factors before the half-cell
	// scaling is applied.
	Scale     mgl32.Vec3
	Transform mgl32.Mat4
}

// Generate walks the padded grid row by row and returns the accepted
// instances in traversal order. A cell is kept when its density draw
// succeeds and the exclusion mask does not cover it.
func Generate(p Params, field DensityField, mask ExclusionMask) ([]Instance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if field == nil {
		field = p.Radial()
	}

	center := p.Center()
	half := p.HalfWidth()
	gridToWorld := mgl32.Translate3D(-half, 0, -half)

	var out []Instance
	for r := -p.Padding; r < p.CellCount+p.Padding; r++ {
		for c := -p.Padding; c < p.CellCount+p.Padding; c++ {
			rng := cellRand(p.Seed, r, c)
			dist := math.Hypot(float64(r)-center, float64(c)-center)
			if rng.Float64() > field.Density(dist) {
				continue
			}
			if mask.Excludes(r, c) {
				continue
			}
			inst := p.build(rng, r, c)
			inst.Transform = gridToWorld.Mul4(inst.Transform)
			out = append(out, inst)
		}
	}
	return out, nil
}

// build draws the yaw and scale factors of an accepted cell and composes
// its grid-space transform.
func (p Params) build(rng *rand.Rand, row, col int) Instance {
	yaw := p.MaxYaw * rng.Float32()

	fx := skewed(rng, p.FootprintX, 3)
	fz := skewed(rng, p.FootprintZ, 2)
	fy := truncatedPareto(rng.Float64(), float64(p.Height.Min), float64(p.Height.Max), paretoAlpha)

	s := p.CellSize * 0.5
	x := float32(col)*p.CellSize + s
	z := float32(row)*p.CellSize + s

	scale := mgl32.Vec3{fx, float32(fy), fz}
	m := mgl32.Translate3D(x, 0, z).
		Mul4(mgl32.HomogRotate3DY(yaw)).
		Mul4(mgl32.Scale3D(s*scale.X(), s*scale.Y(), s*scale.Z()))

	return Instance{Row: row, Col: col, Yaw: yaw, Scale: scale, Transform: m}
}

// skewed multiplies n uniform draws, which pulls the value towards r.Min.
func skewed(rng *rand.Rand, r Range, n int) float32 {
	u := float32(1)
	for i := 0; i < n; i++ {
		u *= rng.Float32()
	}
	return r.Min + (r.Max-r.Min)*u
}

// truncatedPareto inverts the CDF of a Pareto distribution truncated to
// [lo, hi] at the uniform draw u.
func truncatedPareto(u, lo, hi, alpha float64) float64 {
	if hi <= lo {
		return lo
	}
	tail := 1 - math.Pow(lo/hi, alpha)
	return lo * math.Pow(1-u*tail, -1/alpha)
}
