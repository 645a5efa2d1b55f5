package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"skyline/ibl"
)

// CaptureTarget wraps the framebuffer and depth renderbuffer every bake
// pass renders into. The renderbuffer is resized per pass and the colour
// attachment swapped per face and mip.
type CaptureTarget struct {
	FBO  uint32
	RBO  uint32
	Size int32
}

// NewCaptureTarget allocates the framebuffer/renderbuffer pair.
func NewCaptureTarget() (*CaptureTarget, error) {
	ct := &CaptureTarget{}

	gl.GenFramebuffers(1, &ct.FBO)
	if err := allocated("capture framebuffer", ct.FBO); err != nil {
		return nil, err
	}
	gl.GenRenderbuffers(1, &ct.RBO)
	if err := allocated("capture renderbuffer", ct.RBO); err != nil {
		ct.Destroy()
		return nil, err
	}
	return ct, nil
}

// Resize reallocates depth storage at size×size, attaches it and sets the
// viewport to match.
func (ct *CaptureTarget) Resize(size int) {
	ct.Size = int32(size)
	gl.BindFramebuffer(gl.FRAMEBUFFER, ct.FBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, ct.RBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, ct.Size, ct.Size)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, ct.RBO)
	gl.Viewport(0, 0, ct.Size, ct.Size)
}

// AttachCubeFace makes one face and mip of a cubemap colour attachment 0.
func (ct *CaptureTarget) AttachCubeFace(tex uint32, face ibl.CubeFace, mip int) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, ct.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), tex, int32(mip))
	return ct.check(fmt.Sprintf("cubemap %d face %v mip %d", tex, face, mip))
}

// Attach2D makes level 0 of a 2D texture colour attachment 0.
func (ct *CaptureTarget) Attach2D(tex uint32) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, ct.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	return ct.check(fmt.Sprintf("texture %d", tex))
}

func (ct *CaptureTarget) check(attachment string) error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: %s at %dx%d: status=0x%X", ErrIncompleteFramebuffer, attachment, ct.Size, ct.Size, status)
	}
	return nil
}

// Unbind restores the default framebuffer.
func (ct *CaptureTarget) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

// Destroy frees GPU resources.
func (ct *CaptureTarget) Destroy() {
	if ct.FBO != 0 {
		gl.DeleteFramebuffers(1, &ct.FBO)
		ct.FBO = 0
	}
	if ct.RBO != 0 {
		gl.DeleteRenderbuffers(1, &ct.RBO)
		ct.RBO = 0
	}
}

// ── Bake plan ─────────────────────────────────────────────────────────────────

// Pass names a GPU bake pass.
type Pass string

const (
	PassProject    Pass = "project"
	PassIrradiance Pass = "irradiance"
	PassPrefilter  Pass = "prefilter"
	PassBRDF       Pass = "brdf"
)

// CaptureStep is one resize of the capture target.
type CaptureStep struct {
	Pass Pass
	Size int
	Mip  int
}

// CapturePlan lists the capture target sizes of a full bake in order.
// The BRDF step is dropped when the table has already been baked.
func CapturePlan(opts ibl.Options, withBRDF bool) []CaptureStep {
	plan := []CaptureStep{
		{Pass: PassProject, Size: opts.EnvSize},
		{Pass: PassIrradiance, Size: opts.IrradianceSize},
	}
	for mip := 0; mip < ibl.PrefilterMips; mip++ {
		plan = append(plan, CaptureStep{Pass: PassPrefilter, Size: max(opts.PrefilterSize>>mip, 1), Mip: mip})
	}
	if withBRDF {
		plan = append(plan, CaptureStep{Pass: PassBRDF, Size: opts.BRDFSize})
	}
	return plan
}
