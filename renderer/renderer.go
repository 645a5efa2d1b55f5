package renderer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"skyline/config"
	"skyline/core"
	"skyline/ibl"
	"skyline/internal/opengl"
	"skyline/log"
	"skyline/placement"
	"skyline/scene"
)

// ErrNoScene is returned by Run on an engine created with NewHeadless.
var ErrNoScene = errors.New("renderer: engine has no scene")

const (
	facadeSize    = 256
	cameraFOV     = 45
	orbitDistance = 10
)

// Engine owns the window, the GPU baker with its current baked set and
// the drawable scene. All methods except Settings and SetSettings must be
// called from the main goroutine.
type Engine struct {
	cfg    config.Scene
	window *core.Window
	baker  *opengl.Baker
	baked  *opengl.BakedIBL

	// Only set by New.
	scene     *opengl.Scene
	hero      *opengl.GPUMesh
	box       *opengl.GPUMesh
	buildings *opengl.InstanceBuffer
	facade    *scene.Texture
	camera    *scene.OrbitCamera
	instances []placement.Instance

	mu       sync.Mutex
	settings config.Settings

	logger log.Logger
}

// NewHeadless opens a hidden window and a GPU baker, enough to bake and
// read back lighting resources without drawing anything.
func NewHeadless(cfg config.Scene) (*Engine, error) {
	cfg.Window.Hidden = true
	return newEngine(cfg)
}

// New opens the window, compiles the shading stage, uploads the hero and
// the filler field, and points an orbit camera at the hero. Bake must run
// before the first frame shows lighting.
func New(cfg config.Scene) (*Engine, error) {
	e, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	if err := e.setupScene(); err != nil {
		e.Destroy()
		return nil, err
	}
	return e, nil
}

func newEngine(cfg config.Scene) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		settings: cfg.Settings,
		logger:   log.New("renderer"),
	}

	window, err := core.NewWindow(cfg.Window)
	if err != nil {
		return nil, err
	}
	e.window = window

	version, err := opengl.Init()
	if err != nil {
		e.Destroy()
		return nil, err
	}
	e.logger.Infof("OpenGL version: %s", version)

	if e.baker, err = opengl.NewBaker(cfg.Bake); err != nil {
		e.Destroy()
		return nil, fmt.Errorf("failed to create baker: %w", err)
	}
	return e, nil
}

func (e *Engine) setupScene() error {
	var err error
	if e.scene, err = opengl.NewScene(); err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	heroMesh := scene.CreateSphere(1, 64, 64)
	if e.cfg.HeroModel != "" {
		if heroMesh, err = scene.LoadHeroGLTF(e.cfg.HeroModel); err != nil {
			return err
		}
	}
	if e.hero, err = opengl.UploadMesh(heroMesh); err != nil {
		return err
	}
	if e.box, err = opengl.UploadMesh(scene.CreateBuildingBox()); err != nil {
		return err
	}

	e.instances, err = placement.Generate(e.cfg.Placement, nil, e.cfg.Mask())
	if err != nil {
		return err
	}
	if e.buildings, err = opengl.NewInstanceBuffer(e.box, placement.Pack(e.instances)); err != nil {
		return err
	}
	e.logger.Infof("placed %d buildings", len(e.instances))

	e.facade = scene.NewFacadeTexture(facadeSize)
	if err := opengl.UploadTexture(e.facade); err != nil {
		return err
	}

	aspect := float32(e.window.Width) / float32(max(e.window.Height, 1))
	e.camera = scene.NewOrbitCamera(mgl32.Vec3{0, 0, 0}, orbitDistance, cameraFOV, aspect)
	return nil
}

// Instances returns the placed filler buildings.
func (e *Engine) Instances() []placement.Instance {
	return e.instances
}

// Bake decodes the configured panorama and bakes a fresh set of lighting
// resources. Any set from a previous bake is released first.
func (e *Engine) Bake(ctx context.Context) error {
	return e.Reload(ctx, e.cfg.Panorama)
}

// Reload decodes the panorama at path and rebakes everything but the
// BRDF table. A decode failure leaves the current set untouched.
func (e *Engine) Reload(ctx context.Context, path string) error {
	pano, err := ibl.LoadPanorama(ctx, path)
	if err != nil {
		return err
	}
	e.logger.Infof("decoded %s (%dx%d)", path, pano.Width, pano.Height)

	e.baker.Release(e.baked)
	e.baked = nil

	set, err := e.baker.Bake(pano)
	if err != nil {
		return fmt.Errorf("failed to bake %s: %w", path, err)
	}
	e.baked = set
	e.cfg.Panorama = path
	e.window.SetTitle(fmt.Sprintf("%s - %s", e.cfg.Window.Title, filepath.Base(path)))
	return nil
}

// Timings returns the per-pass durations of the current baked set.
func (e *Engine) Timings() []ibl.Timing {
	if e.baked == nil {
		return nil
	}
	return e.baked.Timings
}

// ReadBack copies the current baked set into CPU memory.
func (e *Engine) ReadBack() (*ibl.Result, error) {
	return e.baker.ReadBack(e.baked)
}

// Settings returns a copy of the shading controls.
func (e *Engine) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SetSettings replaces the shading controls. Invalid values are rejected
// and the previous settings kept. Safe to call from any goroutine.
func (e *Engine) SetSettings(s config.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
	return nil
}

// Run draws frames at the configured rate until the window closes, Escape
// is pressed or ctx is cancelled. R reloads the current panorama.
func (e *Engine) Run(ctx context.Context) error {
	if e.scene == nil {
		return ErrNoScene
	}

	ticker := time.NewTicker(frameInterval(e.cfg.FPS))
	defer ticker.Stop()

	reload := edge{}
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			e.window.PollEvents()
			if e.window.ShouldClose() || e.window.IsKeyPressed(core.KeyEscape) {
				return nil
			}
			if reload.pressed(e.window.IsKeyPressed(core.KeyR)) {
				if err := e.Reload(ctx, e.cfg.Panorama); err != nil {
					e.logger.Errorf("reload failed: %v", err)
				}
			}

			dt := float32(now.Sub(last).Seconds())
			last = now
			e.camera.Advance(dt)
			e.camera.UpdateAspectRatio(float32(e.window.Width), float32(e.window.Height))

			e.scene.Draw(&opengl.RenderContext{
				IBL:       e.baked,
				Hero:      e.hero,
				Buildings: e.buildings,
				Facade:    e.facade,
				Camera:    &e.camera.Camera,
				Settings:  e.Settings(),
				Width:     e.window.Width,
				Height:    e.window.Height,
			})
			e.window.SwapBuffers()
		}
	}
}

// Destroy frees GPU resources and closes the window.
func (e *Engine) Destroy() {
	if e.baker != nil {
		e.baker.Release(e.baked)
		e.baker.Destroy()
	}
	if e.buildings != nil {
		e.buildings.Destroy()
	}
	if e.box != nil {
		e.box.Destroy()
	}
	if e.hero != nil {
		e.hero.Destroy()
	}
	opengl.DeleteTexture(e.facade)
	if e.scene != nil {
		e.scene.Destroy()
	}
	if e.window != nil {
		e.window.Destroy()
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(fps)
}

// edge turns a held key into a single press.
type edge struct {
	down bool
}

func (k *edge) pressed(down bool) bool {
	fire := down && !k.down
	k.down = down
	return fire
}
