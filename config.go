package main

import "math"

// Viewer configuration constants. The screen is a top-down view of the
// instanced surface tiles; every control nudges one of these by a fixed step.
const (
	viewW, viewH       = 480, 320
	windowScale        = 2
	defaultTPS         = 60.0
	panSpeed           = 0.02
	minZoom            = 0.005
	maxZoom            = 2.0
	zoomFactor         = 1.05
	windSpeedStep      = 0.5
	minWindSpeed       = 0.5
	windOffsetStep     = math.Pi / 36
	choppinessStep     = 0.05
	foamDecayStep      = 0.01
	timeScaleStep      = 0.25
	maxTimeScale       = 8.0
	heightGain         = 0.35
	ambientLight       = 0.35
	foamVisibility     = 0.9
	timingLogInterval  = 600
	defaultVerifyEvery = 60
)

// lightDir is the normalized direction towards the sun used for shading.
var lightDir = [3]float32{0.4, 0.8, 0.3}
