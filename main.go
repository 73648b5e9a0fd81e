package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"OSR/internal/params"
	"OSR/internal/profiling"
	"OSR/internal/sim"
)

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	p := params.Defaults()
	if *paramsFlag != "" {
		loaded, err := params.LoadFile(*paramsFlag, p)
		if err != nil {
			log.Fatalf("Loading parameters failed: %v", err)
		}
		p = loaded
	}

	stopProfiles, err := profiling.Start(*cpuProfileFlag, *memProfileFlag)
	if err != nil {
		log.Fatalf("Profiling start failed: %v", err)
	}
	defer stopProfiles()

	s, err := sim.New(p, sim.Options{
		Workers:     *workersFlag,
		Backend:     *backendFlag,
		VerifyFFT:   *verifyFFTFlag,
		VerifyEvery: *verifyEveryFlag,
	})
	if err != nil {
		log.Fatalf("Simulation initialization failed: %v", err)
	}
	defer s.Close()
	log.Printf("Ocean simulation ready (grid %d, %d cascades, backend %s)",
		s.Grid().N(), len(s.Cascades()), s.Backend())

	g := newGame(s, *timeScaleFlag)

	ebiten.SetWindowSize(viewW*windowScale, viewH*windowScale)
	ebiten.SetWindowTitle("Ocean Spectrum Cascades")
	ebiten.SetTPS(int(defaultTPS))
	if err := ebiten.RunGame(g); err != nil {
		log.Printf("Viewer stopped: %v", err)
	}
}
