package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"OSR/internal/cascade"
)

var (
	deepColor    = mgl32.Vec3{10, 38, 72}
	shallowColor = mgl32.Vec3{46, 118, 150}
	foamColor    = mgl32.Vec3{235, 240, 245}
	voidColor    = mgl32.Vec3{12, 12, 16}
)

// Draw shades the composed surface as seen from above and prints the
// overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	surface := g.sim.Surface()
	sun := mgl32.Vec3(lightDir).Normalize()
	step := g.sim.Params().MeshStep

	for py := 0; py < viewH; py++ {
		wz := g.camZ + (float64(py)-viewH/2)*g.zoom
		for px := 0; px < viewW; px++ {
			wx := g.camX + (float64(px)-viewW/2)*g.zoom
			c := voidColor
			if tile, ok := g.tileAt(wx, wz); ok {
				u := (wx - float64(tile.X())) / step
				v := (wz - float64(tile.Z())) / step
				c = shade(surface.Sample(u, v), sun)
			}
			base := (py*viewW + px) * 4
			g.pixels[base] = byte(c.X())
			g.pixels[base+1] = byte(c.Y())
			g.pixels[base+2] = byte(c.Z())
			g.pixels[base+3] = 255
		}
	}
	screen.WritePixels(g.pixels)

	if *debugFlag {
		g.drawOverlay(screen)
	}
}

// tileAt returns the instance covering world point (wx, wz). Overlapping
// tiles resolve to the later one, matching draw order.
func (g *Game) tileAt(wx, wz float64) (mgl32.Vec3, bool) {
	found := false
	var hit mgl32.Vec3
	for _, t := range g.tiles {
		lx, lz := wx-float64(t.X()), wz-float64(t.Z())
		if lx >= 0 && lx < g.extent && lz >= 0 && lz < g.extent {
			hit, found = t, true
		}
	}
	return hit, found
}

// shade blends water colour by height and foam, lit by a single sun.
func shade(s cascade.Sample, sun mgl32.Vec3) mgl32.Vec3 {
	t := float32(clamp01(0.5 + float64(s.Displacement.Y())*heightGain))
	water := deepColor.Mul(1 - t).Add(shallowColor.Mul(t))
	diffuse := float32(math.Max(0, float64(s.Normal.Dot(sun))))
	water = water.Mul(ambientLight + (1-ambientLight)*diffuse)
	f := float32(clamp01(float64(s.Foam) * foamVisibility))
	return water.Mul(1 - f).Add(foamColor.Mul(f))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	p := g.sim.Params()
	state := "running"
	if g.paused {
		state = "paused"
	}
	foamLo, foamHi := g.sim.Surface().Foam.Range()
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f  %s\n"+
		"Step: %.2f ms  stages %.2f ms  slowest %s %.2f ms\n"+
		"Foam: [%.2f, %.2f]\n"+
		"Backend: %s  grid %d  cascades %d  rebuilds %d\n"+
		"Wind: %.1f m/s @ %.0f deg (arrows)\n"+
		"Chop: %.2f (C/X)  foam decay %.2f (F/G)\n"+
		"Time x%.2f (+/-)  seed %d (N)  renorm %v (T)",
		ebiten.ActualFPS(), ebiten.ActualTPS(), state,
		msec(g.lastSimDuration), msec(g.sim.StageTime()), g.slowest.Name, msec(g.slowest.Duration),
		foamLo, foamHi,
		g.sim.Backend(), p.Size, len(p.Cascades), g.sim.Rebuilds(),
		p.WindSpeed, p.WindOffset*180/math.Pi,
		p.Choppiness, p.FoamDecay,
		g.timeScale, p.Seed, p.Renormalize)
	ebitenutil.DebugPrint(screen, msg)
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return viewW, viewH }
