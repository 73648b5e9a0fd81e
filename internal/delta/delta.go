// Package delta turns the spatial transform outputs of a cascade into the
// displacement, normal and foam maps, carrying foam from frame to frame.
package delta

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"OSR/internal/evolve"
	"OSR/internal/grid"
	"OSR/internal/params"
	"OSR/internal/texture"
)

// minFoamDivisor keeps the decay term bounded when the jacobian is small or
// negative.
const minFoamDivisor = 0.5

// Settings are the per-frame knobs of the processor.
type Settings struct {
	Choppiness         float64
	FoamBias           float64
	FoamDecay          float64
	InjectionThreshold float64
	InjectionAmount    float64
}

// NewSettings extracts the delta knobs from a parameter snapshot.
func NewSettings(s params.Settings) Settings {
	return Settings{
		Choppiness:         s.Choppiness,
		FoamBias:           s.FoamBias,
		FoamDecay:          s.FoamDecay,
		InjectionThreshold: s.InjectionThreshold,
		InjectionAmount:    s.InjectionAmount,
	}
}

// Input is the spatial-domain sample of one texel.
type Input struct {
	Dx, Y, Dz     float64
	Nx, Nz        float64
	Jxx, Jzz, Jxz float64
}

// Output is the processed texel.
type Output struct {
	Displacement mgl32.Vec3
	Normal       mgl32.Vec3
	Jacobian     float64
	Foam         float32
}

// Jacobian returns the foam signal: the negated determinant of the
// horizontal displacement jacobian plus bias.
func (s Settings) Jacobian(in Input) float64 {
	c := s.Choppiness
	jxz := c * in.Jxz
	return -((1+c*in.Jxx)*(1+c*in.Jzz) - jxz*jxz) + s.FoamBias
}

// Foam advances the accumulated foam by dt given the current jacobian.
func (s Settings) Foam(j, prev, dt float64) float64 {
	acc := prev - dt*s.FoamDecay/math.Max(j, minFoamDivisor)
	if j <= s.InjectionThreshold {
		acc += s.InjectionAmount * j
	}
	return math.Max(j, acc)
}

// Process computes one texel. prevFoam is this texel's foam from the last
// frame.
func (s Settings) Process(in Input, prevFoam float32, dt float64) Output {
	c := s.Choppiness
	j := s.Jacobian(in)
	return Output{
		Displacement: mgl32.Vec3{float32(c * in.Dx), float32(in.Y), float32(c * in.Dz)},
		Normal:       mgl32.Vec3{float32(-in.Nx), 1, float32(-in.Nz)}.Normalize(),
		Jacobian:     j,
		Foam:         float32(s.Foam(j, float64(prevFoam), dt)),
	}
}

// InputAt unpacks texel i of the four spatial fields.
func InputAt(f evolve.Fields, i int) Input {
	dxdz := f[evolve.DisplacementXZ][i]
	hj := f[evolve.HeightJacobianXZ][i]
	n := f[evolve.Slope][i]
	jj := f[evolve.JacobianDiagonal][i]
	return Input{
		Dx: real(dxdz), Dz: imag(dxdz),
		Y: real(hj), Jxz: imag(hj),
		Nx: real(n), Nz: imag(n),
		Jxx: real(jj), Jzz: imag(jj),
	}
}

// Processor runs Process over a grid. Foam is read from the front buffer and
// written to the back buffer; Swap must follow every full pass.
type Processor struct {
	Grid         grid.Grid
	Spatial      evolve.Fields
	Displacement *texture.Vec3Map
	Normal       *texture.Vec3Map
	Foam         *grid.PingPong[float32]
	Settings     Settings
	Dt           float64
}

// NewProcessor allocates the output maps for g.
func NewProcessor(g grid.Grid, spatial evolve.Fields, s Settings) *Processor {
	return &Processor{
		Grid:         g,
		Spatial:      spatial,
		Displacement: texture.NewVec3Map(g.N()),
		Normal:       texture.NewVec3Map(g.N()),
		Foam:         grid.NewPingPong[float32](g.Len()),
		Settings:     s,
	}
}

// Row processes row z.
func (p *Processor) Row(z int) {
	n := p.Grid.N()
	prev := p.Foam.Front()
	next := p.Foam.Back()
	for x := 0; x < n; x++ {
		i := p.Grid.Index(x, z)
		out := p.Settings.Process(InputAt(p.Spatial, i), prev[i], p.Dt)
		p.Displacement.Texels[i] = out.Displacement
		p.Normal.Texels[i] = out.Normal
		next[i] = out.Foam
	}
}

// Swap publishes the foam written by the last pass.
func (p *Processor) Swap() { p.Foam.Swap() }

// FoamMap returns the latest foam as a scalar map view.
func (p *Processor) FoamMap() *texture.ScalarMap {
	return &texture.ScalarMap{N: p.Grid.N(), Texels: p.Foam.Front()}
}

// Run processes every row on the calling goroutine and swaps.
func (p *Processor) Run() {
	for z := 0; z < p.Grid.N(); z++ {
		p.Row(z)
	}
	p.Swap()
}
