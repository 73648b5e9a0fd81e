package fft

import (
	"fmt"
	"math/cmplx"

	"OSR/internal/dispatch"
	"OSR/internal/grid"
)

// Transformer runs a 2D inverse transform of a DC-centered N×N spectrum.
// Implementations apply the (-1)^(x+z) correction and their configured scale,
// so dst[z*N+x] = scale·Σ src[m,l]·exp(2πi((m-N/2)x + (l-N/2)z)/N).
type Transformer interface {
	Inverse2D(dst, src []complex128) error
}

// Plan is the CPU butterfly-table transform. Each of the 2·log2(N) stages reads the
// front buffer (or the source for the first stage) and fully overwrites the
// back buffer; the final permute pass writes dst.
type Plan struct {
	grid  grid.Grid
	table *Butterfly
	buf   *grid.PingPong[complex128]
	scale float64
	pool  *dispatch.Pool
}

// NewPlan builds a plan for g. scale is applied in the permute pass; use 1
// for ocean fields and 1/N² for a normalized inverse. pool may be nil, in
// which case Inverse2D runs on the calling goroutine.
func NewPlan(g grid.Grid, scale float64, pool *dispatch.Pool) (*Plan, error) {
	table, err := NewButterfly(g.N())
	if err != nil {
		return nil, err
	}
	return &Plan{
		grid:  g,
		table: table,
		buf:   grid.NewPingPong[complex128](g.Len()),
		scale: scale,
		pool:  pool,
	}, nil
}

// Butterfly exposes the precomputed table.
func (p *Plan) Butterfly() *Butterfly { return p.table }

// Scale returns the factor applied by the permute pass.
func (p *Plan) Scale() float64 { return p.scale }

func (p *Plan) check(dst, src []complex128) error {
	if len(src) != p.grid.Len() || len(dst) != p.grid.Len() {
		return fmt.Errorf("%w: src %d dst %d, want %d", ErrLengthMismatch, len(src), len(dst), p.grid.Len())
	}
	return nil
}

// Inverse2D transforms src into dst. src is left untouched.
func (p *Plan) Inverse2D(dst, src []complex128) error {
	if err := p.check(dst, src); err != nil {
		return err
	}
	var s dispatch.Schedule
	s.Append(p.Stages("ifft", dst, src)...)
	s.Run(p.pool)
	return nil
}

// Stages returns the ordered stages transforming src into dst: log2(N)
// horizontal stages, log2(N) vertical stages and the permute pass. The
// stages share the plan's ping-pong buffers, so stage lists from the same
// plan must not run concurrently.
func (p *Plan) Stages(label string, dst, src []complex128) []dispatch.Stage {
	n := p.grid.N()
	log2 := p.grid.Log2()
	out := make([]dispatch.Stage, 0, 2*log2+1)
	for pass := 0; pass < 2*log2; pass++ {
		stage := pass % log2
		horizontal := pass < log2
		first := pass == 0
		name := fmt.Sprintf("%s/v%d", label, stage)
		kernel := func(z int) { p.verticalRow(stage, p.source(first, src), p.buf.Back(), z) }
		if horizontal {
			name = fmt.Sprintf("%s/h%d", label, stage)
			kernel = func(z int) { p.horizontalRow(stage, p.source(first, src), p.buf.Back(), z) }
		}
		out = append(out, dispatch.Stage{Name: name, Rows: n, Kernel: kernel, Done: p.buf.Swap})
	}
	out = append(out, dispatch.Stage{
		Name:   label + "/permute",
		Rows:   n,
		Kernel: func(z int) { p.permuteRow(dst, p.buf.Front(), z) },
	})
	return out
}

func (p *Plan) source(first bool, src []complex128) []complex128 {
	if first {
		return src
	}
	return p.buf.Front()
}

func (p *Plan) horizontalRow(stage int, src, dst []complex128, z int) {
	n := p.grid.N()
	in := src[z*n : (z+1)*n]
	out := dst[z*n : (z+1)*n]
	for x, tw := range p.table.Stage(stage) {
		out[x] = in[tw.Top] + cmplx.Conj(tw.W)*in[tw.Bottom]
	}
}

func (p *Plan) verticalRow(stage int, src, dst []complex128, z int) {
	n := p.grid.N()
	tw := p.table.At(stage, z)
	w := cmplx.Conj(tw.W)
	top := src[tw.Top*n : (tw.Top+1)*n]
	bottom := src[tw.Bottom*n : (tw.Bottom+1)*n]
	out := dst[z*n : (z+1)*n]
	for x := range out {
		out[x] = top[x] + w*bottom[x]
	}
}

func (p *Plan) permuteRow(dst, src []complex128, z int) {
	n := p.grid.N()
	for x := 0; x < n; x++ {
		i := z*n + x
		dst[i] = src[i] * complex(grid.Checkerboard(x, z)*p.scale, 0)
	}
}
