//go:build !opencl

package clfft

import (
	"errors"
	"testing"

	"OSR/internal/fft"
	"OSR/internal/grid"
)

func TestStubReportsUnavailable(t *testing.T) {
	g, _ := grid.New(8)
	table, _ := fft.NewButterfly(8)
	if _, err := New(g, table, 1); !errors.Is(err, fft.ErrUnavailable) {
		t.Fatalf("New() error = %v, want ErrUnavailable", err)
	}
	var s Solver
	if err := s.Inverse2D(nil, nil); !errors.Is(err, fft.ErrUnavailable) {
		t.Fatalf("Inverse2D() error = %v, want ErrUnavailable", err)
	}
}
