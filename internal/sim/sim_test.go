package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"OSR/internal/params"
	"OSR/internal/spectrum"
)

func testParams() params.Params {
	p := params.Defaults()
	p.Size = 16
	return p
}

func newSim(t *testing.T, p params.Params, opts Options) *Simulation {
	t.Helper()
	s, err := New(p, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := testParams()
	p.Size = 12
	if _, err := New(p, Options{}); !errors.Is(err, params.ErrInvalidSize) {
		t.Fatalf("New() error = %v, want ErrInvalidSize", err)
	}
	if _, err := New(testParams(), Options{Backend: "vulkan"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSpectrumRebuildIsGatedOnChanges(t *testing.T) {
	s := newSim(t, testParams(), Options{Workers: 2})
	if err := s.Step(0, 0); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Rebuilds() != 1 {
		t.Fatalf("Rebuilds() = %d after first step, want 1", s.Rebuilds())
	}

	if err := s.SetParams(testParams()); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if err := s.Step(0.1, 0.1); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Rebuilds() != 1 {
		t.Fatalf("unchanged params rebuilt the spectrum (%d)", s.Rebuilds())
	}

	p := testParams()
	p.WindSpeed = 14
	if err := s.SetParams(p); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if err := s.Step(0.2, 0.1); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Rebuilds() != 2 {
		t.Fatalf("Rebuilds() = %d after wind change, want 2", s.Rebuilds())
	}
	if s.Params().WindSpeed != 14 {
		t.Fatal("new snapshot not stored")
	}
}

func TestSetParamsRejectsInvalidAndKeepsState(t *testing.T) {
	s := newSim(t, testParams(), Options{})
	bad := testParams()
	bad.Gravity = 0
	if err := s.SetParams(bad); !errors.Is(err, params.ErrInvalidPhysics) {
		t.Fatalf("SetParams() error = %v, want ErrInvalidPhysics", err)
	}
	if !s.Params().Equal(testParams()) {
		t.Fatal("invalid snapshot replaced the active one")
	}
}

func TestGridChangeReallocates(t *testing.T) {
	s := newSim(t, testParams(), Options{})
	if err := s.Step(0, 0); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	p := testParams()
	p.Size = 32
	p.Cascades = p.Cascades[:2]
	if err := s.SetParams(p); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if err := s.Step(0.5, 0.1); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Surface().N != 32 || s.Grid().N() != 32 || len(s.Cascades()) != 2 {
		t.Fatalf("surface N=%d grid N=%d cascades=%d", s.Surface().N, s.Grid().N(), len(s.Cascades()))
	}
}

func TestStepIsDeterministic(t *testing.T) {
	a := newSim(t, testParams(), Options{Workers: 1})
	b := newSim(t, testParams(), Options{Workers: 4})
	for _, tm := range []float64{0, 0.5, 1} {
		if err := a.Step(tm, 0.5); err != nil {
			t.Fatalf("a.Step() error = %v", err)
		}
		if err := b.Step(tm, 0.5); err != nil {
			t.Fatalf("b.Step() error = %v", err)
		}
	}
	sa, sb := a.Surface(), b.Surface()
	for i := range sa.Displacement.Texels {
		if sa.Displacement.Texels[i] != sb.Displacement.Texels[i] || sa.Foam.Texels[i] != sb.Foam.Texels[i] {
			t.Fatalf("texel %d differs between worker counts", i)
		}
	}
}

func TestVerifyModePasses(t *testing.T) {
	s := newSim(t, testParams(), Options{VerifyFFT: true})
	for i := 0; i < 3; i++ {
		if err := s.Step(float64(i)*0.3, 0.3); err != nil {
			t.Fatalf("Step(%d) error = %v", i, err)
		}
	}
	if s.Frames() != 3 {
		t.Fatalf("Frames() = %d, want 3", s.Frames())
	}
}

func TestReferenceBackendMatchesCPU(t *testing.T) {
	cpu := newSim(t, testParams(), Options{})
	ref := newSim(t, testParams(), Options{Backend: BackendReference})
	if ref.Backend() != BackendReference {
		t.Fatalf("Backend() = %q", ref.Backend())
	}
	if err := cpu.Step(1.25, 0.02); err != nil {
		t.Fatalf("cpu.Step() error = %v", err)
	}
	if err := ref.Step(1.25, 0.02); err != nil {
		t.Fatalf("ref.Step() error = %v", err)
	}
	a, b := cpu.Surface(), ref.Surface()
	for i := range a.Displacement.Texels {
		if !a.Displacement.Texels[i].ApproxEqualThreshold(b.Displacement.Texels[i], 1e-4) {
			t.Fatalf("texel %d: cpu %v, reference %v", i, a.Displacement.Texels[i], b.Displacement.Texels[i])
		}
	}
}

func TestOpenCLFallsBackWithoutDevice(t *testing.T) {
	s := newSim(t, testParams(), Options{Backend: BackendOpenCL})
	if err := s.Step(0, 0); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if b := s.Backend(); b != BackendCPU && b != BackendOpenCL {
		t.Fatalf("Backend() = %q", b)
	}
}

func TestTimingsCoverEveryStage(t *testing.T) {
	s := newSim(t, testParams(), Options{})
	if err := s.Step(0, 0); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	timings := s.Timings()
	if len(timings) == 0 || timings[len(timings)-1].Name != "compose" {
		t.Fatalf("timings = %+v", timings)
	}
	var sum time.Duration
	for _, tm := range timings {
		sum += tm.Duration
	}
	if s.StageTime() != sum {
		t.Fatalf("StageTime() = %v, want %v", s.StageTime(), sum)
	}
}

func TestWaveVectorsRebuiltOnlyWhenStale(t *testing.T) {
	s := newSim(t, testParams(), Options{Workers: 2})
	if err := s.Step(0, 0); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	synth := s.Cascades()[1].Synth
	i := -1
	for j, w := range synth.Waves {
		if w.InBand {
			i = j
			break
		}
	}
	if i < 0 {
		t.Fatal("no in-band texel")
	}
	// Mark the texel so a recompute is visible.
	marked := synth.Waves[i].Omega * 1.5
	synth.Waves[i].Omega = marked

	p := testParams()
	p.WindSpeed = 14
	if err := s.SetParams(p); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if err := s.Step(0.1, 0.1); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if synth.Waves[i].Omega != marked {
		t.Fatal("wind change recomputed the wave vectors")
	}

	p.Gravity = 9.7
	if err := s.SetParams(p); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if err := s.Step(0.2, 0.1); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	w := synth.Waves[i]
	if want := spectrum.NewModel(p.Settings).Dispersion(math.Hypot(w.Kx, w.Kz)); w.Omega != want {
		t.Fatalf("Omega = %g after gravity change, want %g", w.Omega, want)
	}
	if s.Rebuilds() != 3 {
		t.Fatalf("Rebuilds() = %d, want 3", s.Rebuilds())
	}
}
