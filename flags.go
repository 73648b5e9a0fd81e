package main

import "flag"

// Command-line flags that control the simulation backend, preset loading and
// runtime diagnostics.
var (
	// paramsFlag names a KEY=value preset applied over the defaults.
	paramsFlag = flag.String("params", "", "path to a dotenv-style parameter preset (- reads stdin)")

	// backendFlag selects the inverse FFT implementation.
	backendFlag = flag.String("backend", "cpu", "inverse FFT backend: cpu, opencl or reference")

	// workersFlag sizes the stage worker pool.
	workersFlag = flag.Int("workers", 0, "stage worker count (0 uses GOMAXPROCS)")

	verifyFFTFlag   = flag.Bool("verify-fft", false, "cross-check the active FFT against the reference transform")
	verifyEveryFlag = flag.Int("verify-every", defaultVerifyEvery, "frames between FFT verifications")

	// debugFlag enables the FPS and parameter overlay.
	debugFlag = flag.Bool("debug", true, "show FPS, stage timings and parameter overlay")

	// timeScaleFlag multiplies simulated time per frame.
	timeScaleFlag = flag.Float64("time-scale", 1, "simulated seconds per real second")

	// cpuProfileFlag and memProfileFlag write pprof profiles covering the
	// lifetime of the viewer.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this path")
	memProfileFlag = flag.String("memprofile", "", "write a heap profile to this path on exit")
)
