package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"skyline/config"
	"skyline/core"
	"skyline/scene"
)

// Point lights in front of the hero.
var (
	lightPositions = [4]mgl32.Vec3{
		{-10, 10, 10},
		{10, 10, 10},
		{-10, -10, 10},
		{10, -10, 10},
	}
	lightColor = mgl32.Vec3{300, 300, 300}
)

// Texture units used by the shading stage.
const (
	unitIrradiance = iota
	unitPrefilter
	unitBRDF
	unitFacade
)

// RenderContext is everything one frame reads. The scheduler fills it
// and passes it to Scene.Draw; nothing in it is modified by drawing.
type RenderContext struct {
	IBL       *BakedIBL
	Hero      *GPUMesh
	Buildings *InstanceBuffer
	Facade    *scene.Texture
	Camera    *scene.Camera
	Settings  config.Settings

	Width, Height int
}

// pbrProgram is one variant of the PBR shader with its uniform locations.
type pbrProgram struct {
	id uint32

	model, view, projection int32
	camPos                  int32
	albedo                  int32
	metallic, roughness     int32
	useFacade               int32
	fogBegin, fogEnd        int32
	fogColor                int32
}

func newPBRProgram(instanced bool) (pbrProgram, error) {
	id, err := newProgram(pbrVertSrc(instanced), pbrFragSrc())
	if err != nil {
		return pbrProgram{}, err
	}
	p := pbrProgram{
		id:         id,
		model:      uniform(id, "model"),
		view:       uniform(id, "view"),
		projection: uniform(id, "projection"),
		camPos:     uniform(id, "camPos"),
		albedo:     uniform(id, "albedo"),
		metallic:   uniform(id, "metallic"),
		roughness:  uniform(id, "roughness"),
		useFacade:  uniform(id, "useFacade"),
		fogBegin:   uniform(id, "fogBegin"),
		fogEnd:     uniform(id, "fogEnd"),
		fogColor:   uniform(id, "fogColor"),
	}

	// Samplers and lights never change.
	gl.UseProgram(id)
	gl.Uniform1i(uniform(id, "irradianceMap"), unitIrradiance)
	gl.Uniform1i(uniform(id, "prefilterMap"), unitPrefilter)
	gl.Uniform1i(uniform(id, "brdfLUT"), unitBRDF)
	gl.Uniform1i(uniform(id, "facadeMap"), unitFacade)
	for i, pos := range lightPositions {
		gl.Uniform3f(uniform(id, fmt.Sprintf("lightPositions[%d]", i)), pos[0], pos[1], pos[2])
		gl.Uniform3f(uniform(id, fmt.Sprintf("lightColors[%d]", i)), lightColor[0], lightColor[1], lightColor[2])
	}
	gl.UseProgram(0)
	return p, nil
}

// frame sets the per-frame uniforms shared by both variants.
func (p pbrProgram) frame(view, proj mgl32.Mat4, cam mgl32.Vec3, s config.Settings) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.view, 1, false, &view[0])
	gl.UniformMatrix4fv(p.projection, 1, false, &proj[0])
	gl.Uniform3f(p.camPos, cam[0], cam[1], cam[2])
	gl.Uniform1f(p.fogBegin, s.FogBegin)
	gl.Uniform1f(p.fogEnd, s.FogEnd)
	setColor(p.fogColor, s.FogColor)
}

// apply sets the material uniforms. A facade texture that has not been
// uploaded is ignored.
func (p pbrProgram) apply(mat *scene.Material) {
	setColor(p.albedo, mat.Albedo)
	gl.Uniform1f(p.metallic, mat.Metallic)
	gl.Uniform1f(p.roughness, mat.Roughness)
	if mat.Facade != nil && mat.Facade.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0 + unitFacade)
		gl.BindTexture(gl.TEXTURE_2D, mat.Facade.GLID)
		gl.Uniform1i(p.useFacade, 1)
	} else {
		gl.Uniform1i(p.useFacade, 0)
	}
}

func setColor(loc int32, c core.Color) {
	gl.Uniform3f(loc, c.R, c.G, c.B)
}

// Scene is the shading stage: the hero drawn with the plain PBR variant,
// the filler field drawn with the instanced one, then the environment as
// background.
type Scene struct {
	hero      pbrProgram
	instanced pbrProgram

	background      uint32
	backgroundView  int32
	backgroundProj  int32
	backgroundShape *shape
}

func NewScene() (*Scene, error) {
	s := &Scene{}
	var err error
	if s.hero, err = newPBRProgram(false); err != nil {
		return nil, fmt.Errorf("pbr shader: %w", err)
	}
	if s.instanced, err = newPBRProgram(true); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("instanced pbr shader: %w", err)
	}
	if s.background, err = newProgram(backgroundVertSrc, backgroundFragSrc); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("background shader: %w", err)
	}
	s.backgroundView = uniform(s.background, "view")
	s.backgroundProj = uniform(s.background, "projection")
	gl.UseProgram(s.background)
	gl.Uniform1i(uniform(s.background, "environmentMap"), 0)
	gl.UseProgram(0)

	if s.backgroundShape, err = newCube(); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// Draw renders one frame into the default framebuffer.
func (s *Scene) Draw(rc *RenderContext) {
	gl.Viewport(0, 0, int32(rc.Width), int32(rc.Height))
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0.2, 0.3, 0.3, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if rc.IBL == nil {
		return
	}

	view := rc.Camera.ViewMatrix()
	proj := rc.Camera.ProjectionMatrix()
	cam := rc.Camera.Position
	set := rc.Settings

	gl.ActiveTexture(gl.TEXTURE0 + unitIrradiance)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, rc.IBL.Irradiance)
	gl.ActiveTexture(gl.TEXTURE0 + unitPrefilter)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, rc.IBL.Prefilter)
	gl.ActiveTexture(gl.TEXTURE0 + unitBRDF)
	gl.BindTexture(gl.TEXTURE_2D, rc.IBL.BRDF)

	if rc.Hero != nil {
		s.hero.frame(view, proj, cam, set)
		model := mgl32.Scale3D(set.HeroScale, set.HeroScale, set.HeroScale)
		gl.UniformMatrix4fv(s.hero.model, 1, false, &model[0])
		s.hero.apply(scene.NewPBRMaterial("hero", set.HeroAlbedo, set.Metallic, set.Roughness))
		rc.Hero.Draw()
	}

	if rc.Buildings != nil {
		s.instanced.frame(view, proj, cam, set)
		filler := scene.NewPBRMaterial("filler", set.FillerAlbedo, set.Metallic, set.Roughness)
		filler.Facade = rc.Facade
		s.instanced.apply(filler)
		rc.Buildings.Draw()
	}

	// Background last: depth LEQUAL lets the xyww fragments pass against
	// the cleared depth, and only where nothing else was drawn.
	gl.DepthFunc(gl.LEQUAL)
	gl.UseProgram(s.background)
	gl.UniformMatrix4fv(s.backgroundView, 1, false, &view[0])
	gl.UniformMatrix4fv(s.backgroundProj, 1, false, &proj[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, rc.IBL.Env)
	s.backgroundShape.draw()
	gl.DepthFunc(gl.LESS)
	gl.UseProgram(0)
}

// Destroy frees all GPU resources owned by the scene.
func (s *Scene) Destroy() {
	for _, id := range []*uint32{&s.hero.id, &s.instanced.id, &s.background} {
		if *id != 0 {
			gl.DeleteProgram(*id)
			*id = 0
		}
	}
	if s.backgroundShape != nil {
		s.backgroundShape.destroy()
	}
}
