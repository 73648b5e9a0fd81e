package cascade

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a flat mesh vertex; UV addresses the surface texel it samples.
type Vertex struct {
	Pos mgl32.Vec3
	UV  [2]uint32
}

// Mesh is a size×size vertex grid triangulated into two triangles per quad.
type Mesh struct {
	Size     int
	Vertices []Vertex
	Indices  []uint32
}

// NewMesh lays out vertices from the origin towards +x/+z, step apart.
func NewMesh(size int, step float64) Mesh {
	m := Mesh{Size: size}
	if size < 1 {
		return m
	}
	m.Vertices = make([]Vertex, 0, size*size)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			m.Vertices = append(m.Vertices, Vertex{
				Pos: mgl32.Vec3{float32(float64(x) * step), 0, float32(float64(z) * step)},
				UV:  [2]uint32{uint32(x), uint32(z)},
			})
		}
	}
	if size < 2 {
		return m
	}
	s := uint32(size)
	m.Indices = make([]uint32, 0, 6*(size-1)*(size-1))
	for y := uint32(0); y < s-1; y++ {
		for x := uint32(0); x < s-1; x++ {
			m.Indices = append(m.Indices,
				x+y*s, (x+1)+(y+1)*s, x+(y+1)*s,
				x+y*s, (x+1)+y*s, (x+1)+(y+1)*s,
			)
		}
	}
	return m
}

// Extent is the world-space side length covered by one tile.
func (m Mesh) Extent(step float64) float64 {
	return float64(m.Size) * step
}

// InstanceOffsets returns the per-axis count² tile translations centred on
// the origin. Tiles sit microOffset·extent apart; values just below one
// overlap neighbours slightly so seams between periodic tiles are hidden.
func InstanceOffsets(count int, extent, microOffset float64) []mgl32.Vec3 {
	if count < 1 {
		return nil
	}
	out := make([]mgl32.Vec3, 0, count*count)
	pitch := extent * microOffset
	centre := float64(count-1) / 2
	for j := 0; j < count; j++ {
		for i := 0; i < count; i++ {
			out = append(out, mgl32.Vec3{
				float32((float64(i) - centre) * pitch),
				0,
				float32((float64(j) - centre) * pitch),
			})
		}
	}
	return out
}
