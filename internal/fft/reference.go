package fft

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"OSR/internal/grid"
)

// Reference computes the same transform as Plan with gonum's mixed-radix
// FFT. It is slower and allocates scratch once; it exists to cross-check the
// Stockham path.
type Reference struct {
	grid  grid.Grid
	scale float64
	fft   *fourier.CmplxFFT
	line  []complex128
	work  []complex128
}

// NewReference returns a reference transform for g with the given scale.
func NewReference(g grid.Grid, scale float64) *Reference {
	n := g.N()
	return &Reference{
		grid:  g,
		scale: scale,
		fft:   fourier.NewCmplxFFT(n),
		line:  make([]complex128, n),
		work:  make([]complex128, g.Len()),
	}
}

// Inverse2D implements Transformer.
func (r *Reference) Inverse2D(dst, src []complex128) error {
	n := r.grid.N()
	if len(src) != r.grid.Len() || len(dst) != r.grid.Len() {
		return fmt.Errorf("%w: src %d dst %d, want %d", ErrLengthMismatch, len(src), len(dst), r.grid.Len())
	}
	copy(r.work, src)
	for z := 0; z < n; z++ {
		row := r.work[z*n : (z+1)*n]
		r.fft.Sequence(row, row)
	}
	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			r.line[z] = r.work[z*n+x]
		}
		r.fft.Sequence(r.line, r.line)
		for z := 0; z < n; z++ {
			r.work[z*n+x] = r.line[z]
		}
	}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			i := z*n + x
			dst[i] = r.work[i] * complex(grid.Checkerboard(x, z)*r.scale, 0)
		}
	}
	return nil
}

// MaxAbsDiff returns the largest |a[i]-b[i]|. Lengths must match.
func MaxAbsDiff(a, b []complex128) float64 {
	var worst float64
	for i := range a {
		d := a[i] - b[i]
		if m := real(d)*real(d) + imag(d)*imag(d); m > worst {
			worst = m
		}
	}
	return math.Sqrt(worst)
}
