// Package config holds the user-facing settings of the viewer and the
// scene description file that drives a run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"skyline/core"
	"skyline/ibl"
	"skyline/placement"
)

// ErrInvalid is returned by Validate when a value is out of range.
var ErrInvalid = errors.New("config: invalid value")

const (
	MinHeroScale = 1.0
	MaxHeroScale = 15.0
)

// Settings are the shading controls read by the renderer once per frame.
// The renderer copies the value and never mutates it.
type Settings struct {
	Roughness    float32    `json:"roughness"`
	Metallic     float32    `json:"metallic"`
	HeroScale    float32    `json:"hero_scale"`
	HeroAlbedo   core.Color `json:"hero_albedo"`
	FillerAlbedo core.Color `json:"filler_albedo"`
	FogBegin     float32    `json:"fog_begin"`
	FogEnd       float32    `json:"fog_end"`
	FogColor     core.Color `json:"fog_color"`
}

func DefaultSettings() Settings {
	return Settings{
		Roughness:    0.01,
		Metallic:     0.9,
		HeroScale:    1.0,
		HeroAlbedo:   core.ColorFromRGB8(242, 196, 120),
		FillerAlbedo: core.ColorFromRGB8(128, 140, 158),
		FogBegin:     20,
		FogEnd:       70,
		FogColor:     core.ColorFromRGB8(178, 186, 199),
	}
}

func (s Settings) Validate() error {
	if s.Roughness < 0 || s.Roughness > 1 {
		return fmt.Errorf("%w: roughness %v outside [0, 1]", ErrInvalid, s.Roughness)
	}
	if s.Metallic < 0 || s.Metallic > 1 {
		return fmt.Errorf("%w: metallic %v outside [0, 1]", ErrInvalid, s.Metallic)
	}
	if s.HeroScale < MinHeroScale || s.HeroScale > MaxHeroScale {
		return fmt.Errorf("%w: hero scale %v outside [%v, %v]", ErrInvalid, s.HeroScale, MinHeroScale, MaxHeroScale)
	}
	if s.FogBegin >= s.FogEnd {
		return fmt.Errorf("%w: fog begin %v must be below fog end %v", ErrInvalid, s.FogBegin, s.FogEnd)
	}
	for name, c := range map[string]core.Color{"hero albedo": s.HeroAlbedo, "filler albedo": s.FillerAlbedo, "fog colour": s.FogColor} {
		if !unitRGB(c) {
			return fmt.Errorf("%w: %s %v has a channel outside [0, 1]", ErrInvalid, name, c)
		}
	}
	return nil
}

func unitRGB(c core.Color) bool {
	for _, v := range [3]float32{c.R, c.G, c.B} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Scene is the top-level run description loaded from a JSON file.
type Scene struct {
	Panorama  string `json:"panorama"`
	HeroModel string `json:"hero_model,omitempty"`

	Window core.WindowConfig `json:"window"`
	FPS    int               `json:"fps"`

	Bake      ibl.Options      `json:"bake"`
	Placement placement.Params `json:"placement"`
	// River lists 1-based inclusive column pairs keyed by 1-based row.
	// When empty a meandering river RiverWidth cells wide is generated.
	River      map[int][2]int `json:"river,omitempty"`
	RiverWidth int            `json:"river_width"`

	Settings Settings `json:"settings"`
}

func DefaultScene() Scene {
	return Scene{
		Window:     core.DefaultWindowConfig(),
		FPS:        60,
		Bake:       ibl.DefaultOptions(),
		Placement:  placement.DefaultParams(),
		RiverWidth: 6,
		Settings:   DefaultSettings(),
	}
}

// Mask returns the exclusion mask described by the scene.
func (s Scene) Mask() placement.ExclusionMask {
	if len(s.River) > 0 {
		return placement.RiverFromPairs(s.River)
	}
	return placement.DefaultRiver(s.Placement.CellCount, s.RiverWidth)
}

func (s Scene) Validate() error {
	if s.FPS <= 0 {
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalid, s.FPS)
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, s.Window.Width, s.Window.Height)
	}
	if err := s.Bake.Validate(); err != nil {
		return err
	}
	if err := s.Placement.Validate(); err != nil {
		return err
	}
	return s.Settings.Validate()
}

// Load reads a scene file. Fields absent from the file keep their defaults.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s := DefaultScene()
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the scene as indented JSON.
func Save(path string, s *Scene) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
