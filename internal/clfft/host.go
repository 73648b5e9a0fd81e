// Package clfft runs the Stockham inverse transform on an OpenCL device.
// Without the opencl build tag every constructor reports fft.ErrUnavailable
// and callers fall back to the CPU plan.
package clfft

// interleave writes src as (re, im) float32 pairs.
func interleave(dst []float32, src []complex128) []float32 {
	if cap(dst) < 2*len(src) {
		dst = make([]float32, 2*len(src))
	}
	dst = dst[:2*len(src)]
	for i, v := range src {
		dst[2*i] = float32(real(v))
		dst[2*i+1] = float32(imag(v))
	}
	return dst
}

// deinterleave is the inverse of interleave.
func deinterleave(dst []complex128, src []float32) {
	for i := range dst {
		dst[i] = complex(float64(src[2*i]), float64(src[2*i+1]))
	}
}
