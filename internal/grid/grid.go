// Package grid defines the N×N texel domain shared by the frequency and
// spatial fields of a cascade, and the double buffers the stages ping-pong
// between.
package grid

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidSize is returned when N is not a power of two >= 2.
var ErrInvalidSize = errors.New("grid: size must be a power of two >= 2")

// Grid is a square power-of-two texel domain. Fields are stored row-major,
// index z*N + x.
type Grid struct {
	n    int
	log2 int
}

// New validates n and returns the grid.
func New(n int) (Grid, error) {
	if n < 2 || n&(n-1) != 0 {
		return Grid{}, fmt.Errorf("%w: got %d", ErrInvalidSize, n)
	}
	return Grid{n: n, log2: bits.TrailingZeros(uint(n))}, nil
}

// N returns the side length.
func (g Grid) N() int { return g.n }

// Log2 returns log2(N), the number of butterfly stages per axis.
func (g Grid) Log2() int { return g.log2 }

// Len returns N*N.
func (g Grid) Len() int { return g.n * g.n }

// Index returns the row-major index of texel (x, z).
func (g Grid) Index(x, z int) int { return z*g.n + x }

// Coords is the inverse of Index.
func (g Grid) Coords(i int) (x, z int) { return i % g.n, i / g.n }

// Mirror returns the texel holding -k for the texel at (x, z):
// ((N-x) mod N, (N-z) mod N).
func (g Grid) Mirror(x, z int) (int, int) {
	mask := g.n - 1
	return (g.n - x) & mask, (g.n - z) & mask
}

// MirrorIndex is Mirror on a flat index.
func (g Grid) MirrorIndex(i int) int {
	x, z := g.Coords(i)
	mx, mz := g.Mirror(x, z)
	return g.Index(mx, mz)
}

// Checkerboard returns (-1)^(x+z).
func Checkerboard(x, z int) float64 {
	if (x+z)&1 == 0 {
		return 1
	}
	return -1
}
