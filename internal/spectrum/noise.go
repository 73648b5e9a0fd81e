package spectrum

import (
	"math"

	"gonum.org/v1/gonum/mathext/prng"
)

// NewNoise returns n complex standard Gaussian samples drawn with Box-Muller
// from a xoshiro256+ stream seeded through splitmix64. The same seed always
// yields the same field.
func NewNoise(n int, seed uint64) []complex128 {
	src := prng.NewXoshiro256plus(seed)
	out := make([]complex128, n)
	for i := range out {
		out[i] = boxMuller(unitFloat(src.Uint64()), unitFloat(src.Uint64()))
	}
	return out
}

// unitFloat maps the top 53 bits onto [0, 1).
func unitFloat(v uint64) float64 {
	return float64(v>>11) * (1.0 / (1 << 53))
}

func boxMuller(u1, u2 float64) complex128 {
	r := math.Sqrt(-2 * math.Log(1-u1))
	s, c := math.Sincos(2 * math.Pi * u2)
	return complex(r*c, r*s)
}
