package evolve

import (
	"math"
	"math/cmplx"
	"testing"

	"OSR/internal/grid"
	"OSR/internal/params"
	"OSR/internal/spectrum"
)

// endToEndSynth is the N=8 single cascade with g=9.81, depth=500, U=10 and
// fetch=8000.
func endToEndSynth(t *testing.T) *spectrum.Synthesizer {
	t.Helper()
	p := params.Defaults()
	p.Size = 8
	p.Gravity = 9.81
	p.Depth = 500
	p.WindSpeed = 10
	p.Fetch = 8000
	p.Cascades = []params.Cascade{{Lengthscale: 20, CutoffLow: 0.0001, CutoffHigh: 10, ScaleFactor: 1}}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	g, err := grid.New(p.Size)
	if err != nil {
		t.Fatalf("grid.New() error = %v", err)
	}
	s := spectrum.NewSynthesizer(g, p.Cascades[0], spectrum.NewModel(p.Settings), p.Seed)
	s.Build()
	return s
}

func newEvolver(s *spectrum.Synthesizer, tm float64) *Evolver {
	return &Evolver{
		Grid:   s.Grid,
		Waves:  s.Waves,
		Packed: s.Packed,
		Out:    NewFields(s.Grid.Len()),
		Time:   tm,
	}
}

func TestZeroTimeCollapsesToH0PlusConjugate(t *testing.T) {
	s := endToEndSynth(t)
	nonZero := 0
	for i, p := range s.Packed {
		got := At(p, s.Waves[i], 0).H
		want := p.H0 + p.H0c
		if got != want {
			x, z := s.Grid.Coords(i)
			t.Fatalf("texel (%d,%d): h(0) = %v, want %v", x, z, got, want)
		}
		if want != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatal("spectrum is empty; test would be vacuous")
	}

	e := newEvolver(s, 0)
	e.Run()
	for i, p := range s.Packed {
		tx := At(p, s.Waves[i], 0)
		if got, want := e.Out[HeightJacobianXZ][i], pack(tx.H, tx.Jxz); got != want {
			t.Fatalf("texel %d: packed height = %v, want %v", i, got, want)
		}
	}
}

func TestEvolveIsPure(t *testing.T) {
	s := endToEndSynth(t)
	before := append([]spectrum.Packed(nil), s.Packed...)

	a := newEvolver(s, 3.25)
	a.Run()
	b := newEvolver(s, 3.25)
	b.Run()
	for f := range a.Out {
		for i := range a.Out[f] {
			if a.Out[f][i] != b.Out[f][i] {
				t.Fatalf("%v[%d] not reproducible: %v vs %v", Field(f), i, a.Out[f][i], b.Out[f][i])
			}
		}
	}
	for i := range before {
		if before[i] != s.Packed[i] {
			t.Fatalf("evolve modified packed spectrum at %d", i)
		}
	}
}

func closeC(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol*(1+cmplx.Abs(b))
}

func TestEvolvedFieldsStayHermitian(t *testing.T) {
	s := endToEndSynth(t)
	for _, tm := range []float64{0, 0.7, 12.5} {
		for i := range s.Packed {
			m := s.Grid.MirrorIndex(i)
			a := At(s.Packed[i], s.Waves[i], tm)
			b := At(s.Packed[m], s.Waves[m], tm)
			pairs := []struct {
				name  string
				k, mk complex128
			}{
				{"h", a.H, b.H}, {"dx", a.Dx, b.Dx}, {"dz", a.Dz, b.Dz},
				{"nx", a.Nx, b.Nx}, {"nz", a.Nz, b.Nz},
				{"jxx", a.Jxx, b.Jxx}, {"jzz", a.Jzz, b.Jzz}, {"jxz", a.Jxz, b.Jxz},
			}
			for _, p := range pairs {
				if !closeC(p.mk, cmplx.Conj(p.k), 1e-12) {
					t.Fatalf("t=%g texel %d: %s(-k) = %v, want %v", tm, i, p.name, p.mk, cmplx.Conj(p.k))
				}
			}
		}
	}
}

func TestPhaseIsPeriodic(t *testing.T) {
	s := endToEndSynth(t)
	for i, w := range s.Waves {
		if !w.InBand {
			continue
		}
		period := 2 * math.Pi / w.Omega
		a := At(s.Packed[i], w, 0).H
		b := At(s.Packed[i], w, period).H
		if !closeC(b, a, 1e-9) {
			t.Fatalf("texel %d: h(T) = %v, want h(0) = %v", i, b, a)
		}
	}
}

func TestOutOfBandTexelsStayZero(t *testing.T) {
	s := endToEndSynth(t)
	e := newEvolver(s, 5)
	for f := range e.Out {
		for i := range e.Out[f] {
			e.Out[f][i] = complex(1, 1)
		}
	}
	e.Run()
	for i, w := range s.Waves {
		if w.InBand {
			continue
		}
		for f := range e.Out {
			if e.Out[f][i] != 0 {
				t.Fatalf("%v[%d] = %v outside band", Field(f), i, e.Out[f][i])
			}
		}
	}
}

func TestPackSeparatesRealFields(t *testing.T) {
	// For real spatial values a and b, pack(a, b) is a + ib.
	if got := pack(complex(2, 0), complex(-3, 0)); got != complex(2, -3) {
		t.Fatalf("pack = %v, want (2-3i)", got)
	}
}
