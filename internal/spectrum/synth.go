package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"OSR/internal/grid"
	"OSR/internal/params"
)

// Packed is the initial spectrum at k together with the conjugate of the
// spectrum at -k.
type Packed struct {
	H0  complex128
	H0c complex128
}

// Density returns S(k) for an in-band wave vector.
func (m Model) Density(w WaveVector, dk float64) float64 {
	return m.density(w, dk, m.SpreadingArea)
}

func (m Model) density(w WaveVector, dk float64, area func(omega, omegaP float64) float64) float64 {
	k := w.K()
	omegaP := m.PeakFrequency()
	theta := WrapAngle(math.Atan2(w.Kz, w.Kx) - m.WindOffset)
	tma := m.JONSWAP(w.Omega, omegaP) * m.DepthAttenuation(w.Omega)
	dOmega := math.Abs(m.DispersionDerivative(k))
	return 2 * tma * m.spreading(w.Omega, omegaP, theta, area) * dOmega * dk * dk / k
}

// Sample returns h0 for one texel. ok is false outside the band, where the
// texel contributes nothing.
func (m Model) Sample(w WaveVector, xi complex128, dk float64) (h0 complex128, ok bool) {
	return m.sample(w, xi, dk, m.SpreadingArea)
}

func (m Model) sample(w WaveVector, xi complex128, dk float64, area func(omega, omegaP float64) float64) (complex128, bool) {
	if !w.InBand {
		return 0, false
	}
	amp := math.Sqrt(m.density(w, dk, area)) / math.Sqrt2
	return xi * complex(amp, 0), true
}

// Synthesizer owns one cascade's spectrum buffers. Rows are independent
// within a stage, so the row methods may run concurrently for distinct z.
type Synthesizer struct {
	Grid  grid.Grid
	Band  params.Cascade
	Model Model

	Waves  []WaveVector
	Noise  []complex128
	H0     []complex128
	Packed []Packed

	areas *areaCache
}

// areaCache memoizes spreading areas by ω for one model. Every texel with
// the same |k| shares ω, so a renormalized build integrates once per radius
// instead of once per texel.
type areaCache struct {
	mu    sync.RWMutex
	model Model
	areas map[float64]float64
}

// area returns m.SpreadingArea(omega, omegaP), computing it at most once per
// distinct ω while m stays the same.
func (c *areaCache) area(m Model, omega, omegaP float64) float64 {
	c.mu.RLock()
	a, ok := c.areas[omega]
	hit := ok && c.model == m
	c.mu.RUnlock()
	if hit {
		return a
	}
	a = m.SpreadingArea(omega, omegaP)
	c.mu.Lock()
	if c.areas == nil || c.model != m {
		c.model = m
		c.areas = make(map[float64]float64)
	}
	c.areas[omega] = a
	c.mu.Unlock()
	return a
}

// len reports how many areas are cached.
func (c *areaCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.areas)
}

// NewSynthesizer allocates the buffers and draws the noise field.
func NewSynthesizer(g grid.Grid, band params.Cascade, m Model, seed uint64) *Synthesizer {
	return &Synthesizer{
		Grid:   g,
		Band:   band,
		Model:  m,
		Waves:  make([]WaveVector, g.Len()),
		Noise:  NewNoise(g.Len(), seed),
		H0:     make([]complex128, g.Len()),
		Packed: make([]Packed, g.Len()),
		areas:  &areaCache{},
	}
}

// WaveRow recomputes the wave vectors of row z.
func (s *Synthesizer) WaveRow(z int) {
	WaveRow(s.Waves, s.Grid, s.Band, s.Model, z)
}

// SpectrumRow writes h0 for row z. Waves must be current.
func (s *Synthesizer) SpectrumRow(z int) {
	dk := Step(s.Band)
	n := s.Grid.N()
	m := s.Model
	area := func(omega, omegaP float64) float64 { return s.areas.area(m, omega, omegaP) }
	for x := 0; x < n; x++ {
		i := s.Grid.Index(x, z)
		h, _ := m.sample(s.Waves[i], s.Noise[i], dk, area)
		s.H0[i] = h
	}
}

// PackRow pairs h0(k) with conj(h0(-k)) for row z. Every SpectrumRow must
// have completed first.
func (s *Synthesizer) PackRow(z int) {
	n := s.Grid.N()
	for x := 0; x < n; x++ {
		i := s.Grid.Index(x, z)
		s.Packed[i] = Packed{H0: s.H0[i], H0c: cmplx.Conj(s.H0[s.Grid.MirrorIndex(i)])}
	}
}

// Build runs the three passes on the calling goroutine.
func (s *Synthesizer) Build() {
	s.BuildWaves()
	s.BuildSpectrum()
}

// BuildWaves recomputes every wave vector. Only band, gravity or depth
// changes require it.
func (s *Synthesizer) BuildWaves() {
	for z := 0; z < s.Grid.N(); z++ {
		s.WaveRow(z)
	}
}

// BuildSpectrum regenerates h0 and the packed spectrum from the current
// wave vectors.
func (s *Synthesizer) BuildSpectrum() {
	n := s.Grid.N()
	for z := 0; z < n; z++ {
		s.SpectrumRow(z)
	}
	for z := 0; z < n; z++ {
		s.PackRow(z)
	}
}

// Energy returns Σ|h0|² over the grid.
func (s *Synthesizer) Energy() float64 {
	var e float64
	for _, h := range s.H0 {
		e += real(h)*real(h) + imag(h)*imag(h)
	}
	return e
}
