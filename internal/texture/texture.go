// Package texture holds the float32 maps handed to the renderer: vec3 maps
// for displacement and normals and scalar maps for foam.
package texture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3Map is an N×N row-major grid of vec3 texels.
type Vec3Map struct {
	N      int
	Texels []mgl32.Vec3
}

// NewVec3Map allocates a zeroed map.
func NewVec3Map(n int) *Vec3Map {
	return &Vec3Map{N: n, Texels: make([]mgl32.Vec3, n*n)}
}

// At returns the texel at (x, z) with wrap-around addressing.
func (m *Vec3Map) At(x, z int) mgl32.Vec3 {
	return m.Texels[wrap(z, m.N)*m.N+wrap(x, m.N)]
}

// Bilinear samples the map at texel coordinates (u, v), repeating at the
// edges like a tiling sampler.
func (m *Vec3Map) Bilinear(u, v float64) mgl32.Vec3 {
	x0, z0, fx, fz := footprint(u, v)
	a := m.At(x0, z0).Mul(float32((1 - fx) * (1 - fz)))
	b := m.At(x0+1, z0).Mul(float32(fx * (1 - fz)))
	c := m.At(x0, z0+1).Mul(float32((1 - fx) * fz))
	d := m.At(x0+1, z0+1).Mul(float32(fx * fz))
	return a.Add(b).Add(c).Add(d)
}

// ScalarMap is an N×N row-major grid of float32 texels.
type ScalarMap struct {
	N      int
	Texels []float32
}

// NewScalarMap allocates a zeroed map.
func NewScalarMap(n int) *ScalarMap {
	return &ScalarMap{N: n, Texels: make([]float32, n*n)}
}

// At returns the texel at (x, z) with wrap-around addressing.
func (m *ScalarMap) At(x, z int) float32 {
	return m.Texels[wrap(z, m.N)*m.N+wrap(x, m.N)]
}

// Bilinear samples like Vec3Map.Bilinear.
func (m *ScalarMap) Bilinear(u, v float64) float32 {
	x0, z0, fx, fz := footprint(u, v)
	return float32(float64(m.At(x0, z0))*(1-fx)*(1-fz) +
		float64(m.At(x0+1, z0))*fx*(1-fz) +
		float64(m.At(x0, z0+1))*(1-fx)*fz +
		float64(m.At(x0+1, z0+1))*fx*fz)
}

// Range returns the smallest and largest texel.
func (m *ScalarMap) Range() (lo, hi float32) {
	if len(m.Texels) == 0 {
		return 0, 0
	}
	lo, hi = m.Texels[0], m.Texels[0]
	for _, v := range m.Texels[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func footprint(u, v float64) (x0, z0 int, fx, fz float64) {
	fu, fv := math.Floor(u), math.Floor(v)
	return int(fu), int(fv), u - fu, v - fv
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
