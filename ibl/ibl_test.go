package ibl

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testOptions() Options {
	return Options{
		EnvSize:        8,
		IrradianceSize: 2,
		PrefilterSize:  16,
		BRDFSize:       8,
		SampleCount:    64,
	}
}

func constantPanorama(c mgl32.Vec3) *Panorama {
	p := NewPanorama(16, 8)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			p.Set(x, y, c)
		}
	}
	return p
}

// gradientPanorama brightens smoothly from the nadir to the zenith.
func gradientPanorama() *Panorama {
	p := NewPanorama(32, 16)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			v := 1 - float32(y)/float32(p.Height-1)
			p.Set(x, y, mgl32.Vec3{v, 0.5 * v, 0.25 + float32(x)/float32(4*p.Width)})
		}
	}
	return p
}

func newTestBaker(t *testing.T) *Baker {
	t.Helper()
	b, err := NewBaker(testOptions())
	if err != nil {
		t.Fatalf("NewBaker: %v", err)
	}
	return b
}

func TestRoughness(t *testing.T) {
	if Roughness(0) != 0 {
		t.Errorf("Roughness(0): expected 0, got %v", Roughness(0))
	}
	if Roughness(PrefilterMips-1) != 1 {
		t.Errorf("Roughness(4): expected 1, got %v", Roughness(PrefilterMips-1))
	}
	for mip := 1; mip < PrefilterMips; mip++ {
		if Roughness(mip) <= Roughness(mip-1) {
			t.Errorf("Roughness not increasing at mip %d", mip)
		}
	}
}

func TestHammersley(t *testing.T) {
	tests := []struct {
		i    int
		x, y float32
	}{
		{0, 0, 0},
		{1, 0.25, 0.5},
		{2, 0.5, 0.25},
		{3, 0.75, 0.75},
	}
	for _, tt := range tests {
		x, y := Hammersley(tt.i, 4)
		if x != tt.x || y != tt.y {
			t.Errorf("Hammersley(%d, 4): expected (%v, %v), got (%v, %v)", tt.i, tt.x, tt.y, x, y)
		}
	}
}

func TestIrradianceSteps(t *testing.T) {
	phi, theta := IrradianceSteps()
	if phi != 252 || theta != 63 {
		t.Errorf("expected 252x63 steps, got %dx%d", phi, theta)
	}
}

func TestValidateOptions(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options: %v", err)
	}
	o := DefaultOptions()
	o.PrefilterSize = 8
	if err := o.Validate(); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions for 8px prefilter, got %v", err)
	}
	if got := DefaultOptions().EnvMips(); got != 10 {
		t.Errorf("EnvMips for 512: expected 10, got %d", got)
	}
}

func TestPanoramaSampleOrientation(t *testing.T) {
	p := NewPanorama(8, 4)
	for x := 0; x < p.Width; x++ {
		p.Set(x, 0, mgl32.Vec3{1, 1, 1})
		p.Set(x, 1, mgl32.Vec3{1, 1, 1})
	}
	if got := p.Sample(mgl32.Vec3{0, 1, 0}); got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("zenith: expected top rows, got %v", got)
	}
	if got := p.Sample(mgl32.Vec3{0, -1, 0}); got != (mgl32.Vec3{}) {
		t.Errorf("nadir: expected bottom rows, got %v", got)
	}
	flipped := p.FlippedRGB()
	if flipped[0] != 0 || flipped[len(flipped)-1] != 1 {
		t.Errorf("FlippedRGB should put the top row last")
	}
}

func TestLoadPanoramaMissingFile(t *testing.T) {
	_, err := LoadPanorama(context.Background(), filepath.Join(t.TempDir(), "nope.hdr"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestProjectDeterministic(t *testing.T) {
	b := newTestBaker(t)
	pano := gradientPanorama()
	a, err := b.Project(context.Background(), pano)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	c, _ := b.Project(context.Background(), pano)
	if d := a.MaxAbsDiff(c); d != 0 {
		t.Errorf("two projections differ by %v", d)
	}
	if a.MipCount() != 4 {
		t.Errorf("expected a full 8,4,2,1 chain, got %d levels", a.MipCount())
	}
	up := a.SampleLevel(mgl32.Vec3{0, 1, 0}, 0)
	down := a.SampleLevel(mgl32.Vec3{0, -1, 0}, 0)
	if up.X() <= down.X() {
		t.Errorf("expected the +Y face brighter than -Y, got %v and %v", up, down)
	}
}

func TestGenerateMipsConstant(t *testing.T) {
	c := NewCubemap(8, 4)
	for f := CubeFace(0); f < FaceCount; f++ {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				c.SetTexel(0, f, x, y, mgl32.Vec3{2, 3, 4})
			}
		}
	}
	c.GenerateMips()
	if got := c.Texel(3, NegativeZ, 0, 0); got != (mgl32.Vec3{2, 3, 4}) {
		t.Errorf("level 3: expected {2 3 4}, got %v", got)
	}
}

func TestIrradianceOfConstantEnvironment(t *testing.T) {
	b := newTestBaker(t)
	env, err := b.Project(context.Background(), constantPanorama(mgl32.Vec3{1, 0.5, 0.25}))
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	irr, err := b.Irradiance(context.Background(), env)
	if err != nil {
		t.Fatalf("Irradiance: %v", err)
	}
	want := mgl32.Vec3{1, 0.5, 0.25}
	for f := CubeFace(0); f < FaceCount; f++ {
		for y := 0; y < irr.Size; y++ {
			for x := 0; x < irr.Size; x++ {
				got := irr.Texel(0, f, x, y)
				if !near(got, want, 1e-2) {
					t.Errorf("%v (%d,%d): expected %v, got %v", f, x, y, want, got)
				}
			}
		}
	}
}

func TestPrefilterMipZeroIsMirror(t *testing.T) {
	b := newTestBaker(t)
	env, err := b.Project(context.Background(), gradientPanorama())
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	pre, err := b.Prefilter(context.Background(), env)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if pre.MipCount() != PrefilterMips {
		t.Fatalf("expected %d mips, got %d", PrefilterMips, pre.MipCount())
	}
	for f := CubeFace(0); f < FaceCount; f++ {
		for _, xy := range [][2]int{{0, 0}, {7, 9}, {15, 15}} {
			dir := TexelDirection(f, xy[0], xy[1], pre.Size)
			want := env.SampleLevel(dir, 0)
			got := pre.Texel(0, f, xy[0], xy[1])
			if !near(got, want, 1e-3) {
				t.Errorf("%v %v: expected mirror lookup %v, got %v", f, xy, want, got)
			}
		}
	}
}

func TestPrefilterConstantEnvironment(t *testing.T) {
	b := newTestBaker(t)
	env, _ := b.Project(context.Background(), constantPanorama(mgl32.Vec3{0.7, 0.7, 0.7}))
	pre, err := b.Prefilter(context.Background(), env)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	for level := 0; level < PrefilterMips; level++ {
		got := pre.Texel(level, PositiveY, 0, 0)
		if !near(got, mgl32.Vec3{0.7, 0.7, 0.7}, 1e-3) {
			t.Errorf("level %d: expected 0.7, got %v", level, got)
		}
	}
}

func TestBRDFDeterministic(t *testing.T) {
	b := newTestBaker(t)
	a, err := b.BRDF(context.Background())
	if err != nil {
		t.Fatalf("BRDF: %v", err)
	}
	c, _ := b.BRDF(context.Background())
	for i := range a.Pix {
		if a.Pix[i] != c.Pix[i] {
			t.Fatalf("texel component %d differs: %v vs %v", i, a.Pix[i], c.Pix[i])
		}
	}
	for y := 0; y < a.Size; y++ {
		for x := 0; x < a.Size; x++ {
			scale, bias := a.At(x, y)
			if scale < 0 || bias < 0 {
				t.Errorf("(%d,%d): negative scale/bias %v/%v", x, y, scale, bias)
			}
		}
	}
	// A near-mirror lobe seen head on reflects almost everything.
	scale, bias := a.At(a.Size-1, 0)
	if sum := scale + bias; sum < 0.95 || sum > 1.02 {
		t.Errorf("smooth head-on texel: expected scale+bias near 1, got %v", sum)
	}
}

func TestBakeAllPasses(t *testing.T) {
	b := newTestBaker(t)
	res, err := b.Bake(context.Background(), gradientPanorama())
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	if res.Env == nil || res.Irradiance == nil || res.Prefilter == nil || res.BRDF == nil {
		t.Fatal("expected every resource to be baked")
	}
	if len(res.Timings) != 4 {
		t.Errorf("expected 4 pass timings, got %d", len(res.Timings))
	}
}

func TestBakeCancelled(t *testing.T) {
	b := newTestBaker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Bake(ctx, gradientPanorama()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
