//go:build !opencl

package clfft

import (
	"fmt"

	"OSR/internal/fft"
	"OSR/internal/grid"
)

// Solver is unavailable without the opencl build tag.
type Solver struct{}

// New always fails in this build.
func New(grid.Grid, *fft.Butterfly, float64) (*Solver, error) {
	return nil, fmt.Errorf("%w: OpenCL support is not enabled; rebuild with -tags opencl", fft.ErrUnavailable)
}

// Inverse2D implements fft.Transformer.
func (s *Solver) Inverse2D(dst, src []complex128) error {
	return fmt.Errorf("%w: OpenCL solver unavailable", fft.ErrUnavailable)
}

func (s *Solver) DeviceName() string { return "" }

func (s *Solver) Close() {}
