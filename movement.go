package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"OSR/internal/params"
	"OSR/internal/spectrum"
)

// handleMovement pans the camera with WASD and zooms with Q/E. Pan speed
// follows the zoom so a key press crosses the same share of the screen.
func (g *Game) handleMovement() {
	dx, dz := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dz -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dz += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx += 1
	}
	if dx != 0 && dz != 0 {
		dx *= 0.7071
		dz *= 0.7071
	}
	step := panSpeed * g.zoom * viewW
	g.camX += dx * step
	g.camZ += dz * step

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		g.zoom = math.Min(maxZoom, g.zoom*zoomFactor)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		g.zoom = math.Max(minZoom, g.zoom/zoomFactor)
	}
}

// handleControls processes the one-shot hotkeys. Parameter edits go through
// applyParams so the spectrum is rebuilt on the next frame.
func (g *Game) handleControls() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.camX, g.camZ = g.fieldCentre()
		g.zoom = g.fieldSpan() / viewW
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustTimeScale(-timeScaleStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustTimeScale(timeScaleStep)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.applyParams(func(p *params.Params) { p.WindSpeed += windSpeedStep })
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.applyParams(func(p *params.Params) { p.WindSpeed = math.Max(minWindSpeed, p.WindSpeed-windSpeedStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.applyParams(func(p *params.Params) { p.WindOffset = spectrum.WrapAngle(p.WindOffset - windOffsetStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.applyParams(func(p *params.Params) { p.WindOffset = spectrum.WrapAngle(p.WindOffset + windOffsetStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.applyParams(func(p *params.Params) { p.Choppiness += choppinessStep })
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.applyParams(func(p *params.Params) { p.Choppiness = math.Max(0, p.Choppiness-choppinessStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		g.applyParams(func(p *params.Params) { p.FoamDecay += foamDecayStep })
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.applyParams(func(p *params.Params) { p.FoamDecay = math.Max(0, p.FoamDecay-foamDecayStep) })
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.applyParams(func(p *params.Params) { p.Seed++ })
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.applyParams(func(p *params.Params) { p.Renormalize = !p.Renormalize })
	}
}

// adjustTimeScale clamps the time multiplier within bounds.
func (g *Game) adjustTimeScale(delta float64) {
	g.timeScale = math.Max(0, math.Min(maxTimeScale, g.timeScale+delta))
}
