package ibl

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned when bake sizes or sample counts are unusable.
var ErrInvalidOptions = errors.New("ibl: invalid options")

const (
	// PrefilterMips is the fixed length of the prefiltered mip chain.
	PrefilterMips = 5
	// IrradianceStep is the angular step of the irradiance quadrature, in radians.
	IrradianceStep = 0.025
	// DefaultSampleCount is the number of GGX samples per prefilter and BRDF texel.
	DefaultSampleCount = 1024
)

// Options fixes the resolution of every baked resource.
type Options struct {
	EnvSize        int `json:"env_size"`
	IrradianceSize int `json:"irradiance_size"`
	PrefilterSize  int `json:"prefilter_size"`
	BRDFSize       int `json:"brdf_size"`
	SampleCount    int `json:"sample_count"`
	// Workers bounds the goroutines of the software baker. Zero picks
	// one per cube face.
	Workers int `json:"workers,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		EnvSize:        512,
		IrradianceSize: 32,
		PrefilterSize:  128,
		BRDFSize:       512,
		SampleCount:    DefaultSampleCount,
	}
}

// EnvMips is the length of the full mip chain of the environment cubemap.
func (o Options) EnvMips() int {
	n := 1
	for s := o.EnvSize; s > 1; s >>= 1 {
		n++
	}
	return n
}

func (o Options) Validate() error {
	switch {
	case o.EnvSize <= 0:
		return fmt.Errorf("%w: env size %d", ErrInvalidOptions, o.EnvSize)
	case o.IrradianceSize <= 0:
		return fmt.Errorf("%w: irradiance size %d", ErrInvalidOptions, o.IrradianceSize)
	case o.PrefilterSize>>(PrefilterMips-1) < 1:
		return fmt.Errorf("%w: prefilter size %d too small for %d mips", ErrInvalidOptions, o.PrefilterSize, PrefilterMips)
	case o.BRDFSize <= 0:
		return fmt.Errorf("%w: brdf size %d", ErrInvalidOptions, o.BRDFSize)
	case o.SampleCount <= 0:
		return fmt.Errorf("%w: sample count %d", ErrInvalidOptions, o.SampleCount)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}
