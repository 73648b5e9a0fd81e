package profiling

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartWritesBothProfiles(t *testing.T) {
	dir := t.TempDir()
	cpuPath := filepath.Join(dir, "cpu.pprof")
	heapPath := filepath.Join(dir, "heap.pprof")

	stop, err := Start(cpuPath, heapPath)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	sink := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		sink = append(sink, make([]byte, 4096))
	}
	_ = sink
	stop()
	stop()

	for _, path := range []string{cpuPath, heapPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestStartWithoutPathsIsNoop(t *testing.T) {
	stop, err := Start("", "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	stop()
}

func TestStartReportsUncreatableCPUProfile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "cpu.pprof")
	if _, err := Start(missing, ""); err == nil {
		t.Fatal("expected error for a path in a missing directory")
	}
}
