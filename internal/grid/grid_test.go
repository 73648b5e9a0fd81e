package grid

import (
	"errors"
	"testing"
)

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	for _, n := range []int{-4, 0, 1, 3, 12, 100} {
		if _, err := New(n); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) error = %v, want ErrInvalidSize", n, err)
		}
	}
	g, err := New(64)
	if err != nil {
		t.Fatalf("New(64) error = %v", err)
	}
	if g.N() != 64 || g.Log2() != 6 || g.Len() != 4096 {
		t.Fatalf("New(64) = N %d log2 %d len %d", g.N(), g.Log2(), g.Len())
	}
}

func TestMirrorIsInvolution(t *testing.T) {
	g, _ := New(8)
	for i := 0; i < g.Len(); i++ {
		if back := g.MirrorIndex(g.MirrorIndex(i)); back != i {
			t.Fatalf("mirror(mirror(%d)) = %d", i, back)
		}
	}
	// DC sits at (N/2, N/2) and the Nyquist corner (0, 0) maps to itself.
	if x, z := g.Mirror(4, 4); x != 4 || z != 4 {
		t.Fatalf("Mirror(4,4) = (%d,%d)", x, z)
	}
	if x, z := g.Mirror(0, 0); x != 0 || z != 0 {
		t.Fatalf("Mirror(0,0) = (%d,%d)", x, z)
	}
	if x, z := g.Mirror(1, 6); x != 7 || z != 2 {
		t.Fatalf("Mirror(1,6) = (%d,%d)", x, z)
	}
}

func TestCheckerboard(t *testing.T) {
	if Checkerboard(0, 0) != 1 || Checkerboard(1, 0) != -1 || Checkerboard(3, 5) != 1 {
		t.Fatal("unexpected checkerboard sign")
	}
}

func TestPingPongAlternates(t *testing.T) {
	p := NewPingPong[int](4)
	first := p.Front()
	p.Back()[0] = 7
	p.Swap()
	if p.Front()[0] != 7 {
		t.Fatal("swap did not expose written buffer")
	}
	if &p.Back()[0] != &first[0] {
		t.Fatal("back buffer should be the previous front")
	}
	p.Swap()
	if &p.Front()[0] != &first[0] || p.Len() != 4 {
		t.Fatal("second swap should restore the first buffer")
	}
}
