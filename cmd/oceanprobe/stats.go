package main

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"OSR/internal/cascade"
)

// fieldStats summarizes one scalar field of the surface.
type fieldStats struct {
	Mean, StdDev float64
	Min, Max     float64
}

func summarize(values []float64) fieldStats {
	if len(values) == 0 {
		return fieldStats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return fieldStats{Mean: mean, StdDev: std, Min: floats.Min(values), Max: floats.Max(values)}
}

// surfaceFields copies heights and foam out of s into dst buffers, growing
// them as needed.
func surfaceFields(s *cascade.Surface, heights, foam []float64) ([]float64, []float64) {
	n := len(s.Displacement.Texels)
	heights = resize(heights, n)
	foam = resize(foam, n)
	for i, d := range s.Displacement.Texels {
		heights[i] = float64(d.Y())
		foam[i] = float64(s.Foam.Texels[i])
	}
	return heights, foam
}

// coverage is the fraction of values strictly above threshold.
func coverage(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

// profile returns row z of the height field.
func profile(s *cascade.Surface, z int) []float64 {
	row := make([]float64, s.N)
	for x := range row {
		row[x] = float64(s.Displacement.At(x, z).Y())
	}
	return row
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
