package ibl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeLookupInvertsFaceDirection(t *testing.T) {
	coords := []float32{-1, -0.75, -0.3, 0, 0.3, 0.75, 1}
	for f := CubeFace(0); f < FaceCount; f++ {
		for _, s := range coords {
			for _, tc := range coords {
				d := FaceDirection(f, s, tc)
				f2, s2, t2 := CubeLookup(d)
				back := FaceDirection(f2, s2, t2).Normalize()
				if !near(back, d.Normalize(), 1e-5) {
					t.Fatalf("%v (%v,%v): lookup returned %v (%v,%v) pointing %v, expected %v", f, s, tc, f2, s2, t2, back, d.Normalize())
				}
				if s > -1 && s < 1 && tc > -1 && tc < 1 {
					if f2 != f || mgl32.Abs(s2-s) > 1e-5 || mgl32.Abs(t2-tc) > 1e-5 {
						t.Errorf("%v (%v,%v): expected the same texel back, got %v (%v,%v)", f, s, tc, f2, s2, t2)
					}
				}
			}
		}
	}
}

func TestFaceCentres(t *testing.T) {
	want := [FaceCount]mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for f := CubeFace(0); f < FaceCount; f++ {
		if got := FaceDirection(f, 0, 0); got != want[f] {
			t.Errorf("%v: expected centre %v, got %v", f, want[f], got)
		}
	}
}

func TestCaptureViewsUnprojectToFaceDirection(t *testing.T) {
	proj := CaptureProjection()
	views := CaptureViews()
	coords := []float32{-0.9, -0.5, 0, 0.5, 0.9}
	for f := CubeFace(0); f < FaceCount; f++ {
		inv := proj.Mul4(views[f]).Inv()
		for _, s := range coords {
			for _, tc := range coords {
				// Framebuffer row 0 sits at NDC y = -1, the same edge as t = -1.
				p := inv.Mul4x1(mgl32.Vec4{s, tc, 0.5, 1})
				got := p.Vec3().Mul(1 / p.W()).Normalize()
				want := FaceDirection(f, s, tc).Normalize()
				if !near(got, want, 1e-4) {
					t.Errorf("%v (%v,%v): view unprojects to %v, expected %v", f, s, tc, got, want)
				}
			}
		}
	}
}

func TestTexelDirectionIsUnit(t *testing.T) {
	for f := CubeFace(0); f < FaceCount; f++ {
		d := TexelDirection(f, 0, 3, 4)
		if mgl32.Abs(d.Len()-1) > 1e-6 {
			t.Errorf("%v: expected unit direction, got length %v", f, d.Len())
		}
	}
}

func near(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
