package ibl

import (
	"math/bits"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Roughness is the roughness baked into prefilter mip level mip.
func Roughness(mip int) float32 {
	return float32(mip) / float32(PrefilterMips-1)
}

// radicalInverse is the van der Corput sequence in base 2.
func radicalInverse(i uint32) float32 {
	return float32(bits.Reverse32(i)) * 2.3283064365386963e-10 // 0x1p-32
}

// Hammersley returns point i of an n point Hammersley set.
func Hammersley(i, n int) (float32, float32) {
	return float32(i) / float32(n), radicalInverse(uint32(i))
}

// ImportanceSampleGGX maps a low discrepancy point to a half vector around
// n distributed by the GGX lobe of the given roughness.
func ImportanceSampleGGX(xi0, xi1 float32, n mgl32.Vec3, roughness float32) mgl32.Vec3 {
	a := roughness * roughness

	phi := 2 * math32.Pi * xi0
	cosTheta := math32.Sqrt((1 - xi1) / (1 + (a*a-1)*xi1))
	sinTheta := math32.Sqrt(max(1-cosTheta*cosTheta, 0))

	hx := math32.Cos(phi) * sinTheta
	hy := math32.Sin(phi) * sinTheta
	hz := cosTheta

	up := mgl32.Vec3{0, 0, 1}
	if math32.Abs(n[2]) >= 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	tangent := up.Cross(n).Normalize()
	bitangent := n.Cross(tangent)

	return tangent.Mul(hx).Add(bitangent.Mul(hy)).Add(n.Mul(hz)).Normalize()
}

// DistributionGGX is the Trowbridge-Reitz normal distribution.
func DistributionGGX(nDotH, roughness float32) float32 {
	a := roughness * roughness
	a2 := a * a
	d := nDotH*nDotH*(a2-1) + 1
	return a2 / (math32.Pi * d * d)
}

// GeometrySchlickGGX is the Schlick-GGX shadowing term for the IBL k.
func GeometrySchlickGGX(nDotX, roughness float32) float32 {
	k := roughness * roughness / 2
	return nDotX / (nDotX*(1-k) + k)
}

func reflect(v, h mgl32.Vec3) mgl32.Vec3 {
	return h.Mul(2 * v.Dot(h)).Sub(v).Normalize()
}
