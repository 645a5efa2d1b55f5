package opengl

import (
	"fmt"
	"strings"
	"testing"

	"skyline/ibl"
)

func TestCapturePlanSchedule(t *testing.T) {
	opts := ibl.DefaultOptions()

	var sizes []int
	for _, step := range CapturePlan(opts, true) {
		sizes = append(sizes, step.Size)
	}
	want := []int{512, 32, 128, 64, 32, 16, 8, 512}
	if fmt.Sprint(sizes) != fmt.Sprint(want) {
		t.Fatalf("expected sizes %v, got %v", want, sizes)
	}

	plan := CapturePlan(opts, false)
	if len(plan) != len(want)-1 {
		t.Fatalf("expected %d steps without the BRDF table, got %d", len(want)-1, len(plan))
	}
	for _, step := range plan {
		if step.Pass == PassBRDF {
			t.Errorf("BRDF step present although the table was already baked")
		}
	}
}

func TestCapturePlanPrefilterMips(t *testing.T) {
	mip := 0
	for _, step := range CapturePlan(ibl.DefaultOptions(), true) {
		if step.Pass != PassPrefilter {
			continue
		}
		if step.Mip != mip {
			t.Errorf("expected prefilter mip %d, got %d", mip, step.Mip)
		}
		mip++
	}
	if mip != ibl.PrefilterMips {
		t.Errorf("expected %d prefilter steps, got %d", ibl.PrefilterMips, mip)
	}
}

func TestBakeSourcesCarryConstants(t *testing.T) {
	opts := ibl.DefaultOptions()
	opts.SampleCount = 256
	src := newBakeSources(opts)

	phi, theta := ibl.IrradianceSteps()
	tests := []struct {
		name, src, want string
	}{
		{"irradiance phi", src.irradiance, fmt.Sprintf("PHI_STEPS = %d;", phi)},
		{"irradiance theta", src.irradiance, fmt.Sprintf("THETA_STEPS = %d;", theta)},
		{"irradiance step", src.irradiance, "STEP = 0.025000;"},
		{"prefilter samples", src.prefilter, "SAMPLE_COUNT = 256u;"},
		{"prefilter resolution", src.prefilter, "ENV_RESOLUTION = 512.0;"},
		{"prefilter ggx", src.prefilter, "vec3 ImportanceSampleGGX("},
		{"brdf samples", src.brdf, "SAMPLE_COUNT = 256u;"},
		{"pbr lod", pbrFragSrc(), "MAX_REFLECTION_LOD = 4.0;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.src, tt.want) {
				t.Errorf("expected source to contain %q", tt.want)
			}
			if strings.Contains(tt.src, "%!") {
				t.Errorf("source has a formatting error")
			}
			if !strings.HasSuffix(tt.src, "\x00") {
				t.Errorf("source is not NUL terminated")
			}
		})
	}
}

func TestPBRVertexVariants(t *testing.T) {
	if !strings.Contains(pbrVertSrc(true), "#define INSTANCED") {
		t.Errorf("instanced variant does not define INSTANCED")
	}
	if strings.Contains(pbrVertSrc(false), "#define INSTANCED") {
		t.Errorf("plain variant defines INSTANCED")
	}
}

func TestWidenHalfFloats(t *testing.T) {
	src := []uint16{0x0000, 0x3C00, 0x3800, 0xC000, 0x7BFF}
	want := []float32{0, 1, 0.5, -2, 65504}
	dst := make([]float32, len(src))
	widen(dst, src)
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("half 0x%04X: expected %v, got %v", src[i], want[i], dst[i])
		}
	}
}
