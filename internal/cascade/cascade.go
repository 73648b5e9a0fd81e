// Package cascade wires one band's spectrum, evolution, transform and delta
// stages together and composes several bands into the rendered surface.
package cascade

import (
	"fmt"

	"OSR/internal/delta"
	"OSR/internal/dispatch"
	"OSR/internal/evolve"
	"OSR/internal/fft"
	"OSR/internal/grid"
	"OSR/internal/params"
	"OSR/internal/spectrum"
)

// Cascade owns every buffer of one band. Synth.Build must have run before
// the first FrameStages, whose stages must run in the order returned.
type Cascade struct {
	Index int
	Band  params.Cascade
	Grid  grid.Grid

	Synth   *spectrum.Synthesizer
	Evolver *evolve.Evolver
	Spatial evolve.Fields
	Plan    *fft.Plan
	Delta   *delta.Processor

	// Transform, when set, replaces the staged CPU plan for the inverse
	// transforms. Errors are reported by Err after the frame.
	Transform fft.Transformer
	err       error
}

// New builds cascade idx of p on grid g. The noise seed is p.Seed + idx.
func New(g grid.Grid, idx int, p params.Params) (*Cascade, error) {
	if idx < 0 || idx >= len(p.Cascades) {
		return nil, fmt.Errorf("cascade: index %d out of range [0, %d)", idx, len(p.Cascades))
	}
	band := p.Cascades[idx]
	plan, err := fft.NewPlan(g, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("cascade %d: %w", idx, err)
	}
	synth := spectrum.NewSynthesizer(g, band, spectrum.NewModel(p.Settings), p.Seed+uint64(idx))
	spatial := evolve.NewFields(g.Len())
	return &Cascade{
		Index: idx,
		Band:  band,
		Grid:  g,
		Synth: synth,
		Evolver: &evolve.Evolver{
			Grid:   g,
			Waves:  synth.Waves,
			Packed: synth.Packed,
			Out:    evolve.NewFields(g.Len()),
		},
		Spatial: spatial,
		Plan:    plan,
		Delta:   delta.NewProcessor(g, spatial, delta.NewSettings(p.Settings)),
	}, nil
}

// Configure applies a new snapshot that keeps the grid size and cascade
// count. The caller rebuilds the spectrum afterwards.
func (c *Cascade) Configure(p params.Params) {
	c.Band = p.Cascades[c.Index]
	c.Synth.Band = c.Band
	c.Synth.Model = spectrum.NewModel(p.Settings)
	c.Delta.Settings = delta.NewSettings(p.Settings)
}

func (c *Cascade) name(stage string) string {
	return fmt.Sprintf("c%d/%s", c.Index, stage)
}

// FrameStages evolves to time t, runs the four inverse transforms and the
// delta pass with step dt.
func (c *Cascade) FrameStages(t, dt float64) []dispatch.Stage {
	n := c.Grid.N()
	stages := []dispatch.Stage{{Name: c.name("evolve"), Rows: n, Kernel: c.Evolver.Row}}
	c.Evolver.Time = t
	c.Delta.Dt = dt
	for f := evolve.Field(0); f < evolve.FieldCount; f++ {
		src, dst := c.Evolver.Out[f], c.Spatial[f]
		if c.Transform != nil {
			stages = append(stages, dispatch.Stage{
				Name: c.name("ifft/" + f.String()),
				Done: func() { c.setErr(c.Transform.Inverse2D(dst, src)) },
			})
			continue
		}
		stages = append(stages, c.Plan.Stages(c.name("ifft/"+f.String()), dst, src)...)
	}
	stages = append(stages, dispatch.Stage{
		Name:   c.name("delta"),
		Rows:   n,
		Kernel: c.Delta.Row,
		Done:   c.Delta.Swap,
	})
	return stages
}

func (c *Cascade) setErr(err error) {
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("cascade %d: %w", c.Index, err)
	}
}

// Err returns and clears the first transform error of the last frame.
func (c *Cascade) Err() error {
	err := c.err
	c.err = nil
	return err
}

// Layer returns the cascade outputs weighted by its scale factor.
func (c *Cascade) Layer() Layer {
	return Layer{
		Displacement: c.Delta.Displacement,
		Normal:       c.Delta.Normal,
		Foam:         c.Delta.FoamMap(),
		Scale:        c.Band.ScaleFactor,
	}
}
