// Command oceanprobe runs the ocean simulation headless for a number of
// frames and prints surface statistics, a height trace and stage timings.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"OSR/internal/params"
	"OSR/internal/profiling"
	"OSR/internal/sim"
)

var (
	paramsFlag  = flag.String("params", "", "path to a dotenv-style parameter preset (- reads stdin)")
	framesFlag  = flag.Int("frames", 120, "number of frames to simulate")
	dtFlag      = flag.Float64("dt", 1.0/60, "simulated seconds per frame")
	backendFlag = flag.String("backend", "cpu", "inverse FFT backend: cpu, opencl or reference")
	workersFlag = flag.Int("workers", 0, "stage worker count (0 uses GOMAXPROCS)")
	verifyFlag  = flag.Bool("verify-fft", false, "cross-check every frame against the reference transform")
	dumpFlag    = flag.String("dump", "", "write the final surface as half-float images to this path")
	foamFlag    = flag.Float64("foam-threshold", 0.5, "foam value counted as covered")
	cpuFlag     = flag.String("cpuprofile", "", "write a CPU profile of the run to this path")
	memFlag     = flag.String("memprofile", "", "write a heap profile to this path after the run")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("oceanprobe: %v", err)
	}
}

func run() error {
	p := params.Defaults()
	if *paramsFlag != "" {
		loaded, err := params.LoadFile(*paramsFlag, p)
		if err != nil {
			return err
		}
		p = loaded
	}
	if *framesFlag < 1 {
		return fmt.Errorf("frames must be >= 1, got %d", *framesFlag)
	}

	stopProfiles, err := profiling.Start(*cpuFlag, *memFlag)
	if err != nil {
		return err
	}
	defer stopProfiles()

	s, err := sim.New(p, sim.Options{
		Workers:     *workersFlag,
		Backend:     *backendFlag,
		VerifyFFT:   *verifyFlag,
		VerifyEvery: 1,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	n := s.Grid().N()
	centre := s.Grid().Index(n/2, n/2)
	probe := make([]float64, 0, *framesFlag)

	start := time.Now()
	for f := 0; f < *framesFlag; f++ {
		t := float64(f) * *dtFlag
		if err := s.Step(t, *dtFlag); err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		probe = append(probe, float64(s.Surface().Displacement.Texels[centre].Y()))
	}
	elapsed := time.Since(start)

	energies := make([]float64, 0, len(s.Cascades()))
	for _, c := range s.Cascades() {
		energies = append(energies, c.Synth.Energy())
	}

	surface := s.Surface()
	heights, foam := surfaceFields(surface, nil, nil)
	r := report{
		Backend:   s.Backend(),
		Grid:      n,
		Cascades:  len(s.Cascades()),
		Frames:    s.Frames(),
		Rebuilds:  s.Rebuilds(),
		Elapsed:   elapsed,
		StageTime: s.StageTime(),
		Energies:  energies,
		Height:    summarize(heights),
		Foam:      summarize(foam),
		FoamCover: coverage(foam, *foamFlag),
		Probe:     probe,
		Profile:   profile(surface, n/2),
		Stages:    s.Timings(),
		Verified:  *verifyFlag,
	}
	fmt.Fprint(os.Stdout, r.render())

	if *dumpFlag != "" {
		if err := writeDump(*dumpFlag, surface); err != nil {
			return err
		}
		log.Printf("Wrote surface dump to %s", *dumpFlag)
	}
	return nil
}
