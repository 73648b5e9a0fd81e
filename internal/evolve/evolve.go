// Package evolve advances the initial spectrum to time t and derives the
// frequency-domain height, displacement, slope and jacobian fields.
package evolve

import (
	"math"

	"OSR/internal/grid"
	"OSR/internal/spectrum"
)

// Texel holds every derived frequency-domain quantity for one wave vector.
type Texel struct {
	H        complex128
	Dx, Dz   complex128
	Nx, Nz   complex128
	Jxx, Jzz complex128
	Jxz      complex128
}

// At evaluates one texel at time t. It only reads its arguments.
func At(p spectrum.Packed, w spectrum.WaveVector, t float64) Texel {
	if !w.InBand {
		return Texel{}
	}
	s, c := math.Sincos(w.Omega * t)
	h := p.H0*complex(c, s) + p.H0c*complex(c, -s)
	ih := complex(-imag(h), real(h))

	kx, kz, invK := w.Kx, w.Kz, w.InvK
	return Texel{
		H:   h,
		Dx:  -ih * complex(kx*invK, 0),
		Dz:  -ih * complex(kz*invK, 0),
		Nx:  ih * complex(kx, 0),
		Nz:  ih * complex(kz, 0),
		Jxx: -h * complex(kx*kx*invK, 0),
		Jzz: -h * complex(kz*kz*invK, 0),
		Jxz: -h * complex(kx*kz*invK, 0),
	}
}

// pack combines two Hermitian fields a and b as a + i·b so one inverse
// transform recovers both as the real and imaginary parts.
func pack(a, b complex128) complex128 {
	return a + complex(-imag(b), real(b))
}

// Field names the packed transform inputs.
type Field int

const (
	// DisplacementXZ packs dx (real) and dz (imaginary).
	DisplacementXZ Field = iota
	// HeightJacobianXZ packs height and j_xz.
	HeightJacobianXZ
	// Slope packs nx and nz.
	Slope
	// JacobianDiagonal packs j_xx and j_zz.
	JacobianDiagonal

	FieldCount
)

func (f Field) String() string {
	switch f {
	case DisplacementXZ:
		return "dx_dz"
	case HeightJacobianXZ:
		return "dy_jxz"
	case Slope:
		return "nx_nz"
	case JacobianDiagonal:
		return "jxx_jzz"
	}
	return "unknown"
}

// Fields are the four packed complex grids fed to the inverse transform.
type Fields [FieldCount][]complex128

// NewFields allocates four n-element grids.
func NewFields(n int) Fields {
	var f Fields
	for i := range f {
		f[i] = make([]complex128, n)
	}
	return f
}

// Evolver writes the packed fields of one cascade for the current Time.
type Evolver struct {
	Grid   grid.Grid
	Waves  []spectrum.WaveVector
	Packed []spectrum.Packed
	Out    Fields
	Time   float64
}

// Row evolves row z.
func (e *Evolver) Row(z int) {
	n := e.Grid.N()
	for x := 0; x < n; x++ {
		i := e.Grid.Index(x, z)
		tx := At(e.Packed[i], e.Waves[i], e.Time)
		e.Out[DisplacementXZ][i] = pack(tx.Dx, tx.Dz)
		e.Out[HeightJacobianXZ][i] = pack(tx.H, tx.Jxz)
		e.Out[Slope][i] = pack(tx.Nx, tx.Nz)
		e.Out[JacobianDiagonal][i] = pack(tx.Jxx, tx.Jzz)
	}
}

// Run evolves every row on the calling goroutine.
func (e *Evolver) Run() {
	for z := 0; z < e.Grid.N(); z++ {
		e.Row(z)
	}
}
