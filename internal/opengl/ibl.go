package opengl

import (
	"fmt"
	"time"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"skyline/ibl"
	"skyline/log"
)

// BakedIBL is one set of GPU lighting resources. BRDF is shared by every
// set a Baker produces and is not released with it.
type BakedIBL struct {
	Env        uint32
	Irradiance uint32
	Prefilter  uint32
	BRDF       uint32

	Options ibl.Options
	Timings []ibl.Timing
}

// bakeProgram is a compiled bake stage with its uniform locations.
type bakeProgram struct {
	id         uint32
	projection int32
	view       int32
	roughness  int32
}

func newBakeProgram(vert, frag, sampler string) (bakeProgram, error) {
	id, err := newProgram(vert, frag)
	if err != nil {
		return bakeProgram{}, err
	}
	p := bakeProgram{
		id:         id,
		projection: uniform(id, "projection"),
		view:       uniform(id, "view"),
		roughness:  uniform(id, "roughness"),
	}
	if sampler != "" {
		gl.UseProgram(id)
		gl.Uniform1i(uniform(id, sampler), 0)
		gl.UseProgram(0)
	}
	return p, nil
}

// Baker runs the bake passes on the GPU. It owns the capture target, the
// capture geometry and the BRDF table, which is baked on the first Bake
// and kept for the life of the Baker.
type Baker struct {
	opts   ibl.Options
	target *CaptureTarget
	cube   *shape
	quad   *shape

	equirect   bakeProgram
	irradiance bakeProgram
	prefilter  bakeProgram
	brdf       bakeProgram

	lut    uint32
	logger log.Logger
}

// NewBaker compiles the bake stages and allocates the capture target. The
// GL context must be current.
func NewBaker(opts ibl.Options) (*Baker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &Baker{opts: opts, logger: log.New("opengl")}

	var err error
	if b.target, err = NewCaptureTarget(); err != nil {
		return nil, err
	}
	if b.cube, err = newCube(); err != nil {
		b.Destroy()
		return nil, err
	}
	if b.quad, err = newQuad(); err != nil {
		b.Destroy()
		return nil, err
	}

	src := newBakeSources(opts)
	stages := []struct {
		dst     *bakeProgram
		name    string
		vert    string
		frag    string
		sampler string
	}{
		{&b.equirect, "equirect", captureVertSrc, equirectFragSrc, "equirectangularMap"},
		{&b.irradiance, "irradiance", captureVertSrc, src.irradiance, "environmentMap"},
		{&b.prefilter, "prefilter", captureVertSrc, src.prefilter, "environmentMap"},
		{&b.brdf, "brdf", quadVertSrc, src.brdf, ""},
	}
	for _, s := range stages {
		p, err := newBakeProgram(s.vert, s.frag, s.sampler)
		if err != nil {
			b.Destroy()
			return nil, fmt.Errorf("%s shader: %w", s.name, err)
		}
		*s.dst = p
	}
	return b, nil
}

func (b *Baker) Options() ibl.Options {
	return b.opts
}

// Bake projects pano into a new set of lighting resources. Passes follow
// CapturePlan; on any failure every texture allocated by this call is
// released and the GL viewport is restored.
func (b *Baker) Bake(pano *ibl.Panorama) (_ *BakedIBL, err error) {
	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)

	set := &BakedIBL{Options: b.opts}
	newLUT := b.lut == 0
	defer func() {
		b.target.Unbind()
		gl.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])
		gl.DepthFunc(gl.LESS)
		if err != nil {
			b.Release(set)
			if newLUT {
				deleteTexture(&b.lut)
			}
		}
	}()

	pt, err := uploadPanorama(pano)
	if err != nil {
		return nil, err
	}
	defer deleteTexture(&pt)

	if set.Env, err = newCubemap(b.opts.EnvSize, true, 0); err != nil {
		return nil, err
	}
	if set.Irradiance, err = newCubemap(b.opts.IrradianceSize, false, 0); err != nil {
		return nil, err
	}
	if set.Prefilter, err = newCubemap(b.opts.PrefilterSize, true, ibl.PrefilterMips-1); err != nil {
		return nil, err
	}
	if newLUT {
		if b.lut, err = newLUT(b.opts.BRDFSize); err != nil {
			return nil, err
		}
	}
	set.BRDF = b.lut

	proj := ibl.CaptureProjection()
	views := ibl.CaptureViews()
	durations := map[Pass]time.Duration{}
	var order []Pass

	for _, step := range CapturePlan(b.opts, newLUT) {
		start := time.Now()
		b.target.Resize(step.Size)

		switch step.Pass {
		case PassProject:
			err = b.renderFaces(b.equirect, gl.TEXTURE_2D, pt, set.Env, 0, proj, views)
			if err == nil {
				gl.BindTexture(gl.TEXTURE_CUBE_MAP, set.Env)
				gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
				gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
				deleteTexture(&pt)
			}
		case PassIrradiance:
			err = b.renderFaces(b.irradiance, gl.TEXTURE_CUBE_MAP, set.Env, set.Irradiance, 0, proj, views)
		case PassPrefilter:
			gl.UseProgram(b.prefilter.id)
			gl.Uniform1f(b.prefilter.roughness, ibl.Roughness(step.Mip))
			err = b.renderFaces(b.prefilter, gl.TEXTURE_CUBE_MAP, set.Env, set.Prefilter, step.Mip, proj, views)
		case PassBRDF:
			err = b.renderLUT()
		}
		if err != nil {
			return nil, fmt.Errorf("%s pass: %w", step.Pass, err)
		}

		gl.Finish()
		if _, seen := durations[step.Pass]; !seen {
			order = append(order, step.Pass)
		}
		durations[step.Pass] += time.Since(start)
		b.logger.Debugf("%s step %dx%d mip %d done", step.Pass, step.Size, step.Size, step.Mip)
	}

	for _, p := range order {
		set.Timings = append(set.Timings, ibl.Timing{Pass: string(p), Duration: durations[p]})
		b.logger.Infof("gpu %s pass: %v", p, durations[p])
	}
	return set, nil
}

// renderFaces draws the capture cube once per face into mip of dst,
// sampling src bound to unit 0.
func (b *Baker) renderFaces(p bakeProgram, srcTarget, src, dst uint32, mip int, proj mgl32.Mat4, views [ibl.FaceCount]mgl32.Mat4) error {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.projection, 1, false, &proj[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(srcTarget, src)
	defer gl.BindTexture(srcTarget, 0)

	for f := 0; f < ibl.FaceCount; f++ {
		if err := b.target.AttachCubeFace(dst, ibl.CubeFace(f), mip); err != nil {
			return err
		}
		gl.UniformMatrix4fv(p.view, 1, false, &views[f][0])
		gl.ClearColor(0, 0, 0, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		b.cube.draw()
	}
	return nil
}

func (b *Baker) renderLUT() error {
	if err := b.target.Attach2D(b.lut); err != nil {
		return err
	}
	gl.UseProgram(b.brdf.id)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	b.quad.draw()
	return nil
}

// Release deletes the cubemaps of set. The shared BRDF table stays.
func (b *Baker) Release(set *BakedIBL) {
	if set == nil {
		return
	}
	deleteTexture(&set.Env)
	deleteTexture(&set.Irradiance)
	deleteTexture(&set.Prefilter)
}

// ReadBack copies every resource of set into CPU memory.
func (b *Baker) ReadBack(set *BakedIBL) (*ibl.Result, error) {
	if set == nil || set.Env == 0 || set.BRDF == 0 {
		return nil, fmt.Errorf("read back: baked set has been released")
	}
	o := set.Options
	return &ibl.Result{
		Env:        readCubemap(set.Env, o.EnvSize, o.EnvMips()),
		Irradiance: readCubemap(set.Irradiance, o.IrradianceSize, 1),
		Prefilter:  readCubemap(set.Prefilter, o.PrefilterSize, ibl.PrefilterMips),
		BRDF:       readLUT(set.BRDF, o.BRDFSize),
		Timings:    set.Timings,
	}, nil
}

// Destroy frees everything the Baker owns, including the BRDF table.
func (b *Baker) Destroy() {
	for _, p := range []*bakeProgram{&b.equirect, &b.irradiance, &b.prefilter, &b.brdf} {
		if p.id != 0 {
			gl.DeleteProgram(p.id)
			p.id = 0
		}
	}
	deleteTexture(&b.lut)
	if b.cube != nil {
		b.cube.destroy()
	}
	if b.quad != nil {
		b.quad.destroy()
	}
	if b.target != nil {
		b.target.Destroy()
	}
}
