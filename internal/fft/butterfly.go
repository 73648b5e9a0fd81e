// Package fft implements the radix-2 Stockham inverse transform used to turn
// evolved spectra into spatial fields: the butterfly table, a CPU plan that
// runs stage by stage through ping-pong buffers, and a gonum-backed reference.
package fft

import (
	"fmt"
	"math"
	"math/bits"
)

// Twiddle is one butterfly entry: out[row] = in[Top] + W·in[Bottom] for the
// forward direction. K is the twiddle exponent, W = exp(-2πiK/N). Both
// inverse paths, Plan and the OpenCL kernels, apply conj(W) instead.
type Twiddle struct {
	W      complex128
	K      int
	Top    int
	Bottom int
}

// Butterfly is the per-(stage,row) table for one transform size. It is
// read-only after construction and shared by horizontal and vertical passes.
type Butterfly struct {
	n       int
	stages  int
	entries []Twiddle
}

// NewButterfly precomputes the table for size n.
func NewButterfly(n int) (*Butterfly, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	stages := bits.TrailingZeros(uint(n))
	b := &Butterfly{n: n, stages: stages, entries: make([]Twiddle, stages*n)}
	for s := 0; s < stages; s++ {
		for y := 0; y < n; y++ {
			b.entries[s*n+y] = entry(n, stages, s, y)
		}
	}
	return b, nil
}

func entry(n, stages, s, y int) Twiddle {
	span := 1 << s
	block := span << 1
	k := (y * n / block) % n
	angle := -2 * math.Pi * float64(k) / float64(n)
	sin, cos := math.Sincos(angle)
	wing := y%block < span

	var top, bottom int
	switch {
	case s == 0 && wing:
		top, bottom = reverse(y, stages), reverse(y+1, stages)
	case s == 0:
		top, bottom = reverse(y-1, stages), reverse(y, stages)
	case wing:
		top, bottom = y, y+span
	default:
		top, bottom = y-span, y
	}
	return Twiddle{W: complex(cos, sin), K: k, Top: top, Bottom: bottom}
}

// reverse returns the low width bits of v in reverse order.
func reverse(v, width int) int {
	return int(bits.Reverse(uint(v)) >> (bits.UintSize - width))
}

// N returns the transform size.
func (b *Butterfly) N() int { return b.n }

// Stages returns log2(N).
func (b *Butterfly) Stages() int { return b.stages }

// At returns the entry for (stage, row).
func (b *Butterfly) At(stage, row int) Twiddle { return b.entries[stage*b.n+row] }

// Stage returns the N entries of one stage.
func (b *Butterfly) Stage(stage int) []Twiddle {
	return b.entries[stage*b.n : (stage+1)*b.n]
}

// Float32 flattens the table as (re, im, top, bottom) quadruples, stage-major,
// for upload to a device.
func (b *Butterfly) Float32() []float32 {
	out := make([]float32, 0, 4*len(b.entries))
	for _, e := range b.entries {
		out = append(out, float32(real(e.W)), float32(imag(e.W)), float32(e.Top), float32(e.Bottom))
	}
	return out
}
