package ibl

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// projectFace fills one face of level 0 of env from the panorama.
func projectFace(pano *Panorama, env *Cubemap, face CubeFace) {
	n := env.Size
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			env.SetTexel(0, face, x, y, pano.Sample(TexelDirection(face, x, y, n)))
		}
	}
}

// IrradianceSteps returns how many azimuth and elevation steps the
// irradiance quadrature takes.
func IrradianceSteps() (phi, theta int) {
	phi = int(math32.Ceil(2 * math32.Pi / IrradianceStep))
	theta = int(math32.Ceil(0.5 * math32.Pi / IrradianceStep))
	return phi, theta
}

type hemiSample struct {
	// z is along the normal
	x, y, z float32
	weight  float32
}

func irradianceSamples() []hemiSample {
	phiSteps, thetaSteps := IrradianceSteps()
	samples := make([]hemiSample, 0, phiSteps*thetaSteps)
	for i := 0; i < phiSteps; i++ {
		phi := float32(i) * IrradianceStep
		for j := 0; j < thetaSteps; j++ {
			theta := float32(j) * IrradianceStep
			sinT, cosT := math32.Sincos(theta)
			samples = append(samples, hemiSample{
				x:      sinT * math32.Cos(phi),
				y:      sinT * math32.Sin(phi),
				z:      cosT,
				weight: cosT * sinT,
			})
		}
	}
	return samples
}

// tangentFrame builds right and up vectors around n. Near the poles the
// world up axis is swapped for +Z.
func tangentFrame(n mgl32.Vec3) (right, up mgl32.Vec3) {
	up = mgl32.Vec3{0, 1, 0}
	if math32.Abs(n[1]) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}
	right = up.Cross(n).Normalize()
	up = n.Cross(right)
	return right, up
}

func convolveFace(env, dst *Cubemap, samples []hemiSample, face CubeFace) {
	n := dst.Size
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			normal := TexelDirection(face, x, y, n)
			right, up := tangentFrame(normal)

			var sum mgl32.Vec3
			for _, s := range samples {
				dir := right.Mul(s.x).Add(up.Mul(s.y)).Add(normal.Mul(s.z))
				sum = sum.Add(env.SampleLevel(dir, 0).Mul(s.weight))
			}
			dst.SetTexel(0, face, x, y, sum.Mul(math32.Pi/float32(len(samples))))
		}
	}
}

// prefilterFace fills one face of one level of dst with the GGX weighted
// average of env for that level's roughness.
func prefilterFace(env, dst *Cubemap, sampleCount, level int, face CubeFace) {
	n := dst.MipSize(level)
	roughness := Roughness(level)
	envRes := float32(env.Size)
	saTexel := 4 * math32.Pi / (6 * envRes * envRes)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			normal := TexelDirection(face, x, y, n)
			v := normal

			var sum mgl32.Vec3
			var weight float32
			for i := 0; i < sampleCount; i++ {
				xi0, xi1 := Hammersley(i, sampleCount)
				h := ImportanceSampleGGX(xi0, xi1, normal, roughness)
				l := reflect(v, h)

				nDotL := normal.Dot(l)
				if nDotL <= 0 {
					continue
				}

				var lod float32
				if roughness > 0 {
					nDotH := max(normal.Dot(h), 0)
					hDotV := max(h.Dot(v), 0)
					pdf := DistributionGGX(nDotH, roughness)*nDotH/(4*hDotV) + 0.0001
					saSample := 1 / (float32(sampleCount)*pdf + 0.0001)
					lod = 0.5 * math32.Log2(saSample/saTexel)
				}
				sum = sum.Add(env.SampleLod(l, lod).Mul(nDotL))
				weight += nDotL
			}
			if weight > 0 {
				sum = sum.Mul(1 / weight)
			}
			dst.SetTexel(level, face, x, y, sum)
		}
	}
}

// integrateBRDF returns the split-sum scale and bias for one view angle
// and roughness.
func integrateBRDF(nDotV, roughness float32, sampleCount int) (float32, float32) {
	v := mgl32.Vec3{math32.Sqrt(1 - nDotV*nDotV), 0, nDotV}
	n := mgl32.Vec3{0, 0, 1}

	var a, b float32
	for i := 0; i < sampleCount; i++ {
		xi0, xi1 := Hammersley(i, sampleCount)
		h := ImportanceSampleGGX(xi0, xi1, n, roughness)
		l := reflect(v, h)

		nDotL := max(l[2], 0)
		if nDotL <= 0 {
			continue
		}
		nDotH := max(h[2], 0)
		vDotH := max(v.Dot(h), 0)

		g := GeometrySchlickGGX(nDotV, roughness) * GeometrySchlickGGX(nDotL, roughness)
		gVis := g * vDotH / (nDotH * nDotV)
		fc := math32.Pow(1-vDotH, 5)

		a += (1 - fc) * gVis
		b += fc * gVis
	}
	return a / float32(sampleCount), b / float32(sampleCount)
}

// LUT is the two channel split-sum table. Column x varies N·V and row y
// varies roughness, both sampled at texel centres.
type LUT struct {
	Size int
	Pix  []float32
}

func NewLUT(size int) *LUT {
	return &LUT{Size: size, Pix: make([]float32, size*size*2)}
}

func (l *LUT) At(x, y int) (scale, bias float32) {
	i := (y*l.Size + x) * 2
	return l.Pix[i], l.Pix[i+1]
}

func (l *LUT) fillRows(y0, y1, sampleCount int) {
	n := float32(l.Size)
	for y := y0; y < y1; y++ {
		roughness := (float32(y) + 0.5) / n
		for x := 0; x < l.Size; x++ {
			nDotV := (float32(x) + 0.5) / n
			a, b := integrateBRDF(nDotV, roughness, sampleCount)
			i := (y*l.Size + x) * 2
			l.Pix[i], l.Pix[i+1] = a, b
		}
	}
}

// MaxAbsDiff is the largest per-channel difference between two tables.
func (l *LUT) MaxAbsDiff(o *LUT) float32 {
	if l.Size != o.Size {
		return math32.Inf(1)
	}
	var worst float32
	for i := range l.Pix {
		worst = max(worst, math32.Abs(l.Pix[i]-o.Pix[i]))
	}
	return worst
}
