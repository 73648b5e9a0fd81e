package spectrum

import (
	"math"

	"OSR/internal/grid"
	"OSR/internal/params"
)

// WaveVector is the per-texel wave number data. Outside the band every field
// is zero and InBand is false. InBand is also false on row 0 and column 0
// whatever |k| is, so it is not a pure cutoff test.
type WaveVector struct {
	Kx, Kz float64
	InvK   float64
	Omega  float64
	InBand bool
}

// K returns |k|.
func (w WaveVector) K() float64 {
	if w.InvK == 0 {
		return 0
	}
	return 1 / w.InvK
}

// Step returns dk = 2π/lengthscale.
func Step(band params.Cascade) float64 {
	return 2 * math.Pi / band.Lengthscale
}

// WaveNumber returns k for texel (x, z), with DC at (N/2, N/2).
func WaveNumber(g grid.Grid, band params.Cascade, x, z int) (kx, kz float64) {
	dk := Step(band)
	half := g.N() / 2
	return float64(x-half) * dk, float64(z-half) * dk
}

// WaveRow fills row z of dst.
func WaveRow(dst []WaveVector, g grid.Grid, band params.Cascade, m Model, z int) {
	n := g.N()
	for x := 0; x < n; x++ {
		dst[g.Index(x, z)] = waveAt(g, band, m, x, z)
	}
}

func waveAt(g grid.Grid, band params.Cascade, m Model, x, z int) WaveVector {
	// Row and column 0 hold the Nyquist frequency, which has no mirrored
	// partner of opposite sign; leaving them out keeps the field Hermitian.
	if x == 0 || z == 0 {
		return WaveVector{}
	}
	kx, kz := WaveNumber(g, band, x, z)
	k := math.Hypot(kx, kz)
	if k < band.CutoffLow || k > band.CutoffHigh || k == 0 {
		return WaveVector{}
	}
	return WaveVector{
		Kx:     kx,
		Kz:     kz,
		InvK:   1 / k,
		Omega:  m.Dispersion(k),
		InBand: true,
	}
}
