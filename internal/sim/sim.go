// Package sim drives the per-frame ocean pipeline: it gates spectrum
// rebuilds on parameter changes, schedules every cascade's stages through a
// worker pool and composes the cascades into one surface.
package sim

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"time"

	"golang.org/x/sync/errgroup"

	"OSR/internal/cascade"
	"OSR/internal/clfft"
	"OSR/internal/dispatch"
	"OSR/internal/evolve"
	"OSR/internal/fft"
	"OSR/internal/grid"
	"OSR/internal/params"
)

// Backend names accepted by Options.Backend.
const (
	BackendCPU       = "cpu"
	BackendOpenCL    = "opencl"
	BackendReference = "reference"
)

// verifyTolerance bounds the difference between the active transform and
// the gonum reference when verification is enabled.
const verifyTolerance = 1e-6

var (
	// ErrNonFinite is returned when a rebuilt spectrum holds NaN or Inf.
	ErrNonFinite = errors.New("sim: non-finite spectrum")

	// ErrVerifyMismatch is returned when verification finds a transform
	// disagreeing with the reference.
	ErrVerifyMismatch = errors.New("sim: transform verification failed")
)

// Options configure a Simulation.
type Options struct {
	// Workers sizes the stage pool; < 1 uses GOMAXPROCS.
	Workers int
	// Backend selects the inverse transform: cpu, opencl or reference.
	// opencl falls back to cpu when no device is usable.
	Backend string
	// VerifyFFT cross-checks one transform per cascade against the gonum
	// reference every VerifyEvery frames.
	VerifyFFT   bool
	VerifyEvery int
}

// Simulation owns the cascades and the composed surface.
type Simulation struct {
	opts     Options
	params   params.Params
	grid     grid.Grid
	pool     *dispatch.Pool
	cascades []*cascade.Cascade
	layers   []cascade.Layer
	surface  *cascade.Surface
	schedule dispatch.Schedule

	backend   string
	solvers   []*clfft.Solver
	reference *fft.Reference
	verifyBuf []complex128

	dirty      bool
	wavesDirty bool
	frames     int
	rebuilds   int
}

// New validates p and allocates every buffer. The first Step builds the
// spectrum.
func New(p params.Params, opts Options) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Backend == "" {
		opts.Backend = BackendCPU
	}
	switch opts.Backend {
	case BackendCPU, BackendOpenCL, BackendReference:
	default:
		return nil, fmt.Errorf("sim: unknown backend %q", opts.Backend)
	}
	if opts.VerifyEvery < 1 {
		opts.VerifyEvery = 1
	}
	s := &Simulation{opts: opts, pool: dispatch.NewPool(opts.Workers)}
	if err := s.allocate(p); err != nil {
		s.pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Simulation) allocate(p params.Params) error {
	g, err := grid.New(p.Size)
	if err != nil {
		return err
	}
	s.releaseSolvers()
	cascades := make([]*cascade.Cascade, len(p.Cascades))
	for i := range p.Cascades {
		c, err := cascade.New(g, i, p)
		if err != nil {
			return err
		}
		cascades[i] = c
	}
	s.params = p.Clone()
	s.grid = g
	s.cascades = cascades
	s.surface = cascade.NewSurface(g.N())
	s.layers = make([]cascade.Layer, len(cascades))
	s.reference = fft.NewReference(g, 1)
	s.verifyBuf = make([]complex128, g.Len())
	s.attachBackend()
	s.dirty = true
	s.wavesDirty = true
	return nil
}

func (s *Simulation) attachBackend() {
	s.backend = BackendCPU
	switch s.opts.Backend {
	case BackendReference:
		for _, c := range s.cascades {
			c.Transform = fft.NewReference(s.grid, 1)
		}
		s.backend = BackendReference
	case BackendOpenCL:
		for _, c := range s.cascades {
			solver, err := clfft.New(s.grid, c.Plan.Butterfly(), 1)
			if err != nil {
				log.Printf("OpenCL unavailable, using CPU transforms: %v", err)
				s.releaseSolvers()
				for _, c := range s.cascades {
					c.Transform = nil
				}
				return
			}
			s.solvers = append(s.solvers, solver)
			c.Transform = solver
		}
		if len(s.solvers) > 0 {
			log.Printf("OpenCL transforms on %s", s.solvers[0].DeviceName())
		}
		s.backend = BackendOpenCL
	}
}

func (s *Simulation) releaseSolvers() {
	for _, solver := range s.solvers {
		solver.Close()
	}
	s.solvers = nil
}

// SetParams applies a new snapshot. An identical snapshot is a no-op; any
// change marks the spectrum dirty for the next Step, and a new grid size or
// cascade count reallocates every buffer.
func (s *Simulation) SetParams(p params.Params) error {
	if p.Equal(s.params) {
		return nil
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if p.GridChanged(s.params) || len(p.Cascades) != len(s.cascades) {
		return s.allocate(p)
	}
	if p.WavesChanged(s.params) {
		s.wavesDirty = true
	}
	for _, c := range s.cascades {
		c.Configure(p)
	}
	s.params = p.Clone()
	s.dirty = true
	return nil
}

// Params returns a copy of the active snapshot.
func (s *Simulation) Params() params.Params { return s.params.Clone() }

// Step advances every cascade to time t with frame step dt and composes the
// surface. It always completes the frame before returning.
func (s *Simulation) Step(t, dt float64) error {
	if s.dirty {
		if err := s.rebuildSpectra(); err != nil {
			return err
		}
		s.dirty = false
	}

	s.schedule.Reset()
	for _, c := range s.cascades {
		s.schedule.Append(c.FrameStages(t, dt)...)
	}
	// Foam buffers swap during the delta stages, so layers are taken after.
	s.schedule.Add("layers", 0, nil, s.collectLayers)
	s.schedule.Add("compose", s.grid.N(), func(z int) { s.surface.ComposeRow(s.layers, z) }, nil)
	s.schedule.Run(s.pool)

	for _, c := range s.cascades {
		if err := c.Err(); err != nil {
			return err
		}
	}
	s.frames++
	if s.opts.VerifyFFT && s.frames%s.opts.VerifyEvery == 0 {
		return s.verify()
	}
	return nil
}

func (s *Simulation) collectLayers() {
	for i, c := range s.cascades {
		s.layers[i] = c.Layer()
	}
}

// rebuildSpectra regenerates h0 for every cascade concurrently. Each
// cascade's own passes stay in order inside its goroutine. Wave vectors are
// only recomputed when bands, gravity or depth changed.
func (s *Simulation) rebuildSpectra() error {
	waves := s.wavesDirty
	var g errgroup.Group
	g.SetLimit(s.pool.Workers())
	for _, c := range s.cascades {
		g.Go(func() error {
			if waves {
				c.Synth.Build()
			} else {
				c.Synth.BuildSpectrum()
			}
			for i, h := range c.Synth.H0 {
				if cmplx.IsNaN(h) || cmplx.IsInf(h) {
					x, z := c.Grid.Coords(i)
					return fmt.Errorf("%w: cascade %d texel (%d,%d)", ErrNonFinite, c.Index, x, z)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.wavesDirty = false
	s.rebuilds++
	return nil
}

func (s *Simulation) verify() error {
	for _, c := range s.cascades {
		f := evolve.HeightJacobianXZ
		if err := s.reference.Inverse2D(s.verifyBuf, c.Evolver.Out[f]); err != nil {
			return err
		}
		scale := 1.0
		for _, v := range s.verifyBuf {
			scale = math.Max(scale, cmplx.Abs(v))
		}
		tol := verifyTolerance * scale
		if s.backend == BackendOpenCL {
			tol = 1e-3 * scale
		}
		if d := fft.MaxAbsDiff(c.Spatial[f], s.verifyBuf); d > tol {
			return fmt.Errorf("%w: cascade %d %v differs by %g", ErrVerifyMismatch, c.Index, f, d)
		}
	}
	return nil
}

// Surface returns the composed surface of the last Step.
func (s *Simulation) Surface() *cascade.Surface { return s.surface }

// Cascades returns the cascades in index order.
func (s *Simulation) Cascades() []*cascade.Cascade { return s.cascades }

// Grid returns the active grid.
func (s *Simulation) Grid() grid.Grid { return s.grid }

// Backend reports the transform backend actually in use.
func (s *Simulation) Backend() string { return s.backend }

// Timings returns per-stage durations of the last Step.
func (s *Simulation) Timings() []dispatch.Timing { return s.schedule.Timings() }

// StageTime returns the summed stage durations of the last Step.
func (s *Simulation) StageTime() time.Duration { return s.schedule.Total() }

// Frames returns the number of completed Steps.
func (s *Simulation) Frames() int { return s.frames }

// Rebuilds returns how many times the spectrum has been regenerated.
func (s *Simulation) Rebuilds() int { return s.rebuilds }

// Close stops the worker pool and releases device resources.
func (s *Simulation) Close() {
	s.releaseSolvers()
	s.pool.Close()
}
