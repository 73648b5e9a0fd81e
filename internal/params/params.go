// Package params holds the simulation parameter snapshot shared by every stage
// of the ocean pipeline. A snapshot is compared against the previous frame's to
// decide whether the initial spectrum has to be rebuilt.
package params

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Sentinel errors returned by Validate.
var (
	// ErrInvalidSize is returned when the grid resolution is not a power of two
	// of at least 2.
	ErrInvalidSize = errors.New("params: grid size must be a power of two >= 2")

	// ErrInvalidBand is returned when a cascade band or lengthscale is unusable.
	ErrInvalidBand = errors.New("params: invalid cascade band")

	// ErrNoCascades is returned when no cascade is configured.
	ErrNoCascades = errors.New("params: at least one cascade is required")

	// ErrInvalidPhysics is returned for non-positive physical constants.
	ErrInvalidPhysics = errors.New("params: invalid physical constant")
)

// Cascade describes one spatial-frequency band.
type Cascade struct {
	// Lengthscale is the world-space side length covered by the grid.
	Lengthscale float64
	// CutoffLow and CutoffHigh bound |k|; texels outside contribute nothing.
	CutoffLow  float64
	CutoffHigh float64
	// ScaleFactor weights the cascade when compositing.
	ScaleFactor float64
}

// Params is the full parameter snapshot consumed by the simulation.
type Params struct {
	Cascades []Cascade
	Settings
}

// Settings holds every scalar knob. It is comparable with ==.
type Settings struct {
	Size int

	Depth      float64
	Gravity    float64
	WindSpeed  float64
	WindOffset float64
	Fetch      float64
	Swell      float64
	Beta       float64
	Gamma      float64

	Choppiness         float64
	FoamBias           float64
	FoamDecay          float64
	InjectionThreshold float64
	InjectionAmount    float64

	Renormalize     bool
	IntegrationStep float64

	Instances           int
	InstanceMicroOffset float64
	MeshStep            float64

	Seed uint64
}

// Defaults returns the three-cascade configuration used by the viewer.
func Defaults() Params {
	return Params{
		Cascades: []Cascade{
			{Lengthscale: 250, CutoffLow: 0.0001, CutoffHigh: 1.0, ScaleFactor: 1},
			{Lengthscale: 37, CutoffLow: 1.0, CutoffHigh: 6.0, ScaleFactor: 1},
			{Lengthscale: 9, CutoffLow: 6.0, CutoffHigh: 15.0, ScaleFactor: 1},
		},
		Settings: Settings{
			Size:                256,
			Depth:               500,
			Gravity:             9.81,
			WindSpeed:           10,
			WindOffset:          math.Pi / 4,
			Fetch:               8000,
			Swell:               0.3,
			Beta:                5.0 / 4.0,
			Gamma:               3.3,
			Choppiness:          0.8,
			FoamBias:            0.85,
			FoamDecay:           0.05,
			InjectionThreshold:  0,
			InjectionAmount:     1,
			Renormalize:         false,
			IntegrationStep:     0.01,
			Instances:           3,
			InstanceMicroOffset: 0.99,
			MeshStep:            0.1,
			Seed:                42,
		},
	}
}

// Clone returns a deep copy so later edits do not alias the cascade slice.
func (p Params) Clone() Params {
	p.Cascades = slices.Clone(p.Cascades)
	return p
}

// Equal reports whether two snapshots are identical field by field.
func (p Params) Equal(o Params) bool {
	return p.Settings == o.Settings && slices.Equal(p.Cascades, o.Cascades)
}

// GridChanged reports whether the grid resolution differs, which invalidates
// every buffer and the butterfly table.
func (p Params) GridChanged(o Params) bool {
	return p.Size != o.Size
}

// BandsChanged reports whether cascade count, lengthscales or cutoffs differ.
func (p Params) BandsChanged(o Params) bool {
	if len(p.Cascades) != len(o.Cascades) {
		return true
	}
	for i := range p.Cascades {
		a, b := p.Cascades[i], o.Cascades[i]
		if a.Lengthscale != b.Lengthscale || a.CutoffLow != b.CutoffLow || a.CutoffHigh != b.CutoffHigh {
			return true
		}
	}
	return false
}

// WavesChanged reports whether the wave vector fields are stale: the bands
// changed, or gravity or depth moved the dispersion relation.
func (p Params) WavesChanged(o Params) bool {
	return p.BandsChanged(o) || p.Gravity != o.Gravity || p.Depth != o.Depth
}

// Validate checks the snapshot for values the pipeline cannot run with.
func (p Params) Validate() error {
	if p.Size < 2 || p.Size&(p.Size-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, p.Size)
	}
	if len(p.Cascades) == 0 {
		return ErrNoCascades
	}
	for i, c := range p.Cascades {
		if c.Lengthscale <= 0 {
			return fmt.Errorf("%w: cascade %d lengthscale %g", ErrInvalidBand, i, c.Lengthscale)
		}
		if c.CutoffLow < 0 || c.CutoffHigh <= c.CutoffLow {
			return fmt.Errorf("%w: cascade %d cutoff [%g, %g]", ErrInvalidBand, i, c.CutoffLow, c.CutoffHigh)
		}
	}
	switch {
	case p.Gravity <= 0:
		return fmt.Errorf("%w: gravity %g", ErrInvalidPhysics, p.Gravity)
	case p.Depth <= 0:
		return fmt.Errorf("%w: depth %g", ErrInvalidPhysics, p.Depth)
	case p.WindSpeed <= 0:
		return fmt.Errorf("%w: wind speed %g", ErrInvalidPhysics, p.WindSpeed)
	case p.Fetch <= 0:
		return fmt.Errorf("%w: fetch %g", ErrInvalidPhysics, p.Fetch)
	case p.Gamma <= 0:
		return fmt.Errorf("%w: gamma %g", ErrInvalidPhysics, p.Gamma)
	}
	if p.Renormalize && p.IntegrationStep <= 0 {
		return fmt.Errorf("%w: integration step %g", ErrInvalidPhysics, p.IntegrationStep)
	}
	if p.Instances < 1 {
		return fmt.Errorf("params: instances must be >= 1, got %d", p.Instances)
	}
	return nil
}
