package main

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"OSR/internal/cascade"
	"OSR/internal/dispatch"
	"OSR/internal/params"
	"OSR/internal/sim"
)

// Game drives the simulation from Ebiten's update loop and holds the view
// state used by Draw.
type Game struct {
	sim *sim.Simulation

	simTime         float64
	timeScale       float64
	paused          bool
	lastSimDuration time.Duration
	slowest         dispatch.Timing

	camX, camZ float64
	zoom       float64

	mesh   cascade.Mesh
	extent float64
	tiles  []mgl32.Vec3

	pixels []byte
}

// newGame wraps s and centres the camera on the tile field.
func newGame(s *sim.Simulation, timeScale float64) *Game {
	g := &Game{
		sim:       s,
		timeScale: timeScale,
		pixels:    make([]byte, viewW*viewH*4),
	}
	g.layoutTiles()
	g.zoom = g.fieldSpan() / viewW
	return g
}

// layoutTiles rebuilds the tile mesh and instance offsets from the active
// parameters.
func (g *Game) layoutTiles() {
	p := g.sim.Params()
	g.mesh = cascade.NewMesh(p.Size, p.MeshStep)
	g.extent = g.mesh.Extent(p.MeshStep)
	g.tiles = cascade.InstanceOffsets(p.Instances, g.extent, p.InstanceMicroOffset)
	g.camX, g.camZ = g.fieldCentre()
}

// fieldCentre returns the world-space centre of the tile field.
func (g *Game) fieldCentre() (float64, float64) {
	if len(g.tiles) == 0 {
		return 0, 0
	}
	first, last := g.tiles[0], g.tiles[len(g.tiles)-1]
	half := g.extent / 2
	return (float64(first.X()+last.X()))/2 + half, (float64(first.Z()+last.Z()))/2 + half
}

// fieldSpan returns the world-space width of the tile field.
func (g *Game) fieldSpan() float64 {
	if len(g.tiles) == 0 {
		return g.extent
	}
	return float64(g.tiles[len(g.tiles)-1].X()-g.tiles[0].X()) + g.extent
}

// applyParams hands an edited snapshot to the simulation. Rejected
// snapshots are logged and the previous parameters stay active.
func (g *Game) applyParams(edit func(*params.Params)) {
	p := g.sim.Params()
	edit(&p)
	prev := g.sim.Params()
	if err := g.sim.SetParams(p); err != nil {
		log.Printf("Parameter change rejected: %v", err)
		return
	}
	if p.Size != prev.Size || p.Instances != prev.Instances ||
		p.MeshStep != prev.MeshStep || p.InstanceMicroOffset != prev.InstanceMicroOffset {
		g.layoutTiles()
	}
}

// Update processes input and advances the simulation by one frame.
func (g *Game) Update() error {
	g.handleMovement()
	g.handleControls()
	if g.paused {
		return nil
	}

	tps := ebiten.ActualTPS()
	if tps < 1 {
		tps = defaultTPS
	}
	dt := g.timeScale / tps
	g.simTime += dt

	start := time.Now()
	if err := g.sim.Step(g.simTime, dt); err != nil {
		return err
	}
	g.lastSimDuration = time.Since(start)
	g.trackTimings()
	return nil
}

// trackTimings remembers the slowest stage and logs it periodically.
func (g *Game) trackTimings() {
	g.slowest = dispatch.Timing{}
	for _, t := range g.sim.Timings() {
		if t.Duration > g.slowest.Duration {
			g.slowest = t
		}
	}
	if frames := g.sim.Frames(); frames%timingLogInterval == 0 {
		log.Printf("Frame %d: step %.2f ms, slowest stage %s (%.2f ms), %d rebuilds",
			frames, msec(g.lastSimDuration), g.slowest.Name, msec(g.slowest.Duration), g.sim.Rebuilds())
	}
}

func msec(d time.Duration) float64 { return d.Seconds() * 1000 }
