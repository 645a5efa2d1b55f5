// Package placement generates the instance transforms of the procedural
// filler buildings and packs them for instanced drawing.
package placement

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when generation parameters are inconsistent.
var ErrInvalidParams = errors.New("placement: invalid parameters")

// Range is a closed interval of scale factors.
type Range struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Params fixes every input of a placement run. Two runs with equal Params,
// density field and exclusion mask produce identical output.
type Params struct {
	CellSize  float32 `json:"cell_size"`
	CellCount int     `json:"cell_count"`
	// Padding adds extra rings of cells outside the nominal grid on every side.
	Padding int `json:"padding"`

	// Density falls from MaxDensity at BeginDist to MinDensity at EndDist,
	// both measured in cells from the grid midpoint.
	BeginDist  float64 `json:"begin_dist"`
	EndDist    float64 `json:"end_dist"`
	MinDensity float64 `json:"min_density"`
	MaxDensity float64 `json:"max_density"`

	// MaxYaw bounds the random rotation around +Y, in radians.
	MaxYaw float32 `json:"max_yaw"`

	FootprintX Range `json:"footprint_x"`
	FootprintZ Range `json:"footprint_z"`
	Height     Range `json:"height"`

	Seed uint64 `json:"seed"`
}

func DefaultParams() Params {
	return Params{
		CellSize:   1,
		CellCount:  60,
		Padding:    20,
		BeginDist:  8,
		EndDist:    45,
		MinDensity: 0.05,
		MaxDensity: 0.15,
		MaxYaw:     math.Pi / 2,
		FootprintX: Range{Min: 0.3, Max: 0.9},
		FootprintZ: Range{Min: 0.4, Max: 0.9},
		Height:     Range{Min: 0.5, Max: 8},
		Seed:       1,
	}
}

// Center returns the grid midpoint in cell units.
func (p Params) Center() float64 {
	return float64(p.CellCount) * 0.5
}

// HalfWidth is half the world-space extent of the nominal grid.
func (p Params) HalfWidth() float32 {
	return p.CellSize * float32(p.CellCount) * 0.5
}

// Radial returns the density field described by the params.
func (p Params) Radial() RadialDensity {
	return RadialDensity{
		Begin: p.BeginDist,
		End:   p.EndDist,
		Min:   p.MinDensity,
		Max:   p.MaxDensity,
	}
}

func (p Params) Validate() error {
	switch {
	case p.CellSize <= 0:
		return fmt.Errorf("%w: cell size %v must be positive", ErrInvalidParams, p.CellSize)
	case p.CellCount <= 0:
		return fmt.Errorf("%w: cell count %d must be positive", ErrInvalidParams, p.CellCount)
	case p.Padding < 0:
		return fmt.Errorf("%w: padding %d must not be negative", ErrInvalidParams, p.Padding)
	case p.BeginDist >= p.EndDist:
		return fmt.Errorf("%w: begin dist %v must be below end dist %v", ErrInvalidParams, p.BeginDist, p.EndDist)
	case p.MinDensity < 0 || p.MaxDensity > 1 || p.MinDensity > p.MaxDensity:
		return fmt.Errorf("%w: density bounds [%v, %v] outside [0, 1]", ErrInvalidParams, p.MinDensity, p.MaxDensity)
	case p.MaxYaw < 0:
		return fmt.Errorf("%w: max yaw %v must not be negative", ErrInvalidParams, p.MaxYaw)
	}
	for name, r := range map[string]Range{"footprint x": p.FootprintX, "footprint z": p.FootprintZ, "height": p.Height} {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("%w: %s range [%v, %v] must be positive and ordered", ErrInvalidParams, name, r.Min, r.Max)
		}
	}
	return nil
}
