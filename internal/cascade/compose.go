package cascade

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"OSR/internal/texture"
)

// ErrLayerSize is returned when a layer does not match the surface size.
var ErrLayerSize = errors.New("cascade: layer size does not match surface")

// Layer is one cascade's contribution to the surface.
type Layer struct {
	Displacement *texture.Vec3Map
	Normal       *texture.Vec3Map
	Foam         *texture.ScalarMap
	Scale        float64
}

// Surface is the sum of every layer, texel by texel.
type Surface struct {
	N            int
	Displacement *texture.Vec3Map
	Normal       *texture.Vec3Map
	Foam         *texture.ScalarMap
}

// NewSurface allocates an N×N surface.
func NewSurface(n int) *Surface {
	return &Surface{
		N:            n,
		Displacement: texture.NewVec3Map(n),
		Normal:       texture.NewVec3Map(n),
		Foam:         texture.NewScalarMap(n),
	}
}

// Check verifies every layer matches the surface size.
func (s *Surface) Check(layers []Layer) error {
	for i, l := range layers {
		if l.Displacement.N != s.N || l.Normal.N != s.N || l.Foam.N != s.N {
			return fmt.Errorf("%w: layer %d", ErrLayerSize, i)
		}
	}
	return nil
}

// ComposeRow writes row z of the weighted sum. The normal sum is left
// unnormalized; renderers normalize after interpolation.
func (s *Surface) ComposeRow(layers []Layer, z int) {
	base := z * s.N
	for x := 0; x < s.N; x++ {
		i := base + x
		var d, n mgl32.Vec3
		var f float32
		for _, l := range layers {
			w := float32(l.Scale)
			d = d.Add(l.Displacement.Texels[i].Mul(w))
			n = n.Add(l.Normal.Texels[i].Mul(w))
			f += l.Foam.Texels[i] * w
		}
		s.Displacement.Texels[i] = d
		s.Normal.Texels[i] = n
		s.Foam.Texels[i] = f
	}
}

// Compose sums every layer into s on the calling goroutine.
func (s *Surface) Compose(layers []Layer) error {
	if err := s.Check(layers); err != nil {
		return err
	}
	for z := 0; z < s.N; z++ {
		s.ComposeRow(layers, z)
	}
	return nil
}

// Sample is the surface state at a mesh vertex.
type Sample struct {
	Displacement mgl32.Vec3
	Normal       mgl32.Vec3
	Foam         float32
}

// Sample interpolates the surface at texel coordinates (u, v), wrapping
// across tile edges. The returned normal is unit length.
func (s *Surface) Sample(u, v float64) Sample {
	n := s.Normal.Bilinear(u, v)
	if n.Len() > 0 {
		n = n.Normalize()
	}
	return Sample{
		Displacement: s.Displacement.Bilinear(u, v),
		Normal:       n,
		Foam:         s.Foam.Bilinear(u, v),
	}
}
