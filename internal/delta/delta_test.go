package delta

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"OSR/internal/evolve"
	"OSR/internal/grid"
	"OSR/internal/params"
)

func TestFoamDecaysWithConstantPositiveJacobian(t *testing.T) {
	s := NewSettings(params.Defaults().Settings)
	s.Choppiness = 1
	s.FoamBias = 1.8 // flat surface: J = -1 + 1.8 = 0.8
	in := Input{}
	if j := s.Jacobian(in); math.Abs(j-0.8) > 1e-12 {
		t.Fatalf("Jacobian = %g, want 0.8", j)
	}

	const dt = 1.0 / 60
	foam := float32(2)
	for step := 0; step < 2000; step++ {
		next := s.Process(in, foam, dt).Foam
		if foam > 0.8+1e-6 && next >= foam {
			t.Fatalf("step %d: foam %g did not decay from %g", step, next, foam)
		}
		if next < 0.8-1e-6 {
			t.Fatalf("step %d: foam %g fell below the jacobian", step, next)
		}
		foam = next
	}
	if math.Abs(float64(foam)-0.8) > 1e-6 {
		t.Fatalf("foam settled at %g, want 0.8", foam)
	}
}

func TestFoamDecayFormula(t *testing.T) {
	s := Settings{FoamDecay: 0.05, InjectionAmount: 1}
	const j, prev, dt = 0.8, 2.0, 0.1
	want := prev - dt*0.05/j
	if got := s.Foam(j, prev, dt); math.Abs(got-want) > 1e-15 {
		t.Fatalf("Foam = %g, want %g", got, want)
	}
	// The divisor is clamped at 0.5.
	want = prev - dt*0.05/0.5
	if got := s.Foam(0.1, prev, dt); math.Abs(got-want) > 1e-15 {
		t.Fatalf("Foam with small J = %g, want %g", got, want)
	}
}

func TestFoamInjectsAtOrBelowThreshold(t *testing.T) {
	s := Settings{FoamDecay: 0.05, InjectionThreshold: 0, InjectionAmount: 1}
	const j, prev, dt = -0.3, 1.0, 0.1
	want := prev - dt*0.05/0.5 + j
	if got := s.Foam(j, prev, dt); math.Abs(got-want) > 1e-15 {
		t.Fatalf("Foam = %g, want %g", got, want)
	}
	s.InjectionAmount = 0
	if got := s.Foam(j, prev, dt); math.Abs(got-(prev-dt*0.05/0.5)) > 1e-15 {
		t.Fatalf("Foam without injection = %g", got)
	}
	s.InjectionThreshold = -1
	s.InjectionAmount = 1
	if got := s.Foam(j, prev, dt); math.Abs(got-(prev-dt*0.05/0.5)) > 1e-15 {
		t.Fatalf("Foam above threshold = %g", got)
	}
}

func TestProcessDisplacementAndNormal(t *testing.T) {
	s := Settings{Choppiness: 0.5, FoamBias: 0.85}
	out := s.Process(Input{Dx: 2, Y: 3, Dz: -4, Nx: 0.3, Nz: -0.4}, 0, 0)
	if want := (mgl32.Vec3{1, 3, -2}); !out.Displacement.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("Displacement = %v, want %v", out.Displacement, want)
	}
	if l := out.Normal.Len(); math.Abs(float64(l)-1) > 1e-6 {
		t.Fatalf("|Normal| = %g, want 1", l)
	}
	want := mgl32.Vec3{-0.3, 1, 0.4}.Normalize()
	if !out.Normal.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("Normal = %v, want %v", out.Normal, want)
	}

	flat := s.Process(Input{}, 0, 0)
	if !flat.Normal.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-7) {
		t.Fatalf("flat normal = %v", flat.Normal)
	}
}

func TestJacobianUsesChoppiness(t *testing.T) {
	s := Settings{Choppiness: 2, FoamBias: 0}
	in := Input{Jxx: 0.1, Jzz: -0.2, Jxz: 0.3}
	want := -((1+0.2)*(1-0.4) - 0.36)
	if got := s.Jacobian(in); math.Abs(got-want) > 1e-12 {
		t.Fatalf("Jacobian = %g, want %g", got, want)
	}
}

func TestProcessorReadsPreviousFoamAndSwaps(t *testing.T) {
	g, _ := grid.New(4)
	spatial := evolve.NewFields(g.Len())
	spatial[evolve.HeightJacobianXZ][5] = complex(1.5, 0)
	spatial[evolve.DisplacementXZ][5] = complex(1, 2)
	s := Settings{Choppiness: 1, FoamBias: 1.8, FoamDecay: 0.05, InjectionAmount: 1}
	p := NewProcessor(g, spatial, s)
	p.Dt = 0.1
	for i := range p.Foam.Front() {
		p.Foam.Front()[i] = 2
	}
	p.Run()

	want := float32(2 - 0.1*0.05/0.8)
	foam := p.FoamMap()
	for i, f := range foam.Texels {
		if math.Abs(float64(f-want)) > 1e-6 {
			t.Fatalf("foam[%d] = %g, want %g", i, f, want)
		}
	}
	if d := p.Displacement.Texels[5]; !d.ApproxEqualThreshold(mgl32.Vec3{1, 1.5, 2}, 1e-6) {
		t.Fatalf("displacement[5] = %v", d)
	}

	p.Run()
	if got := p.FoamMap().Texels[0]; got >= want {
		t.Fatalf("second pass foam %g did not decay below %g", got, want)
	}
}
